package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkCloseCall   BookmarkType = "close_call"
	BookmarkFeast       BookmarkType = "feast"
	BookmarkCacheRaided BookmarkType = "cache_raided"
	BookmarkHoard       BookmarkType = "hoard"
)

// closeCallEnergy is the energy floor below which a window counts as a close call.
const closeCallEnergy = 100

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	AtMS        int64        `csv:"at_ms"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"at_ms", b.AtMS,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in a run.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	inCloseCall bool // last window already dipped below the floor
	hoardPeak   int  // largest cache seen so far
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
		hoardPeak:   4,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	// Close call: energy dipped near zero and the player lived
	if b := bd.checkCloseCall(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Feast: nuts eaten > 2x rolling average
	if b := bd.checkFeast(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if stats.FoxRaids > 0 {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkCacheRaided,
			AtMS:        stats.WindowEndMS,
			Description: fmt.Sprintf("Foxes raided %d cached nuts", stats.FoxRaids),
		})
	}

	// Hoard: new peak of buried nuts
	if stats.BuriedNuts > bd.hoardPeak {
		bd.hoardPeak = stats.BuriedNuts
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkHoard,
			AtMS:        stats.WindowEndMS,
			Description: fmt.Sprintf("Cache grew to %d buried nuts", stats.BuriedNuts),
		})
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkCloseCall(stats WindowStats) *Bookmark {
	low := stats.EnergyMin > 0 && stats.EnergyMin < closeCallEnergy
	wasLow := bd.inCloseCall
	bd.inCloseCall = low
	if !low || wasLow {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkCloseCall,
		AtMS:        stats.WindowEndMS,
		Description: fmt.Sprintf("Energy fell to %.0f", stats.EnergyMin),
	}
}

func (bd *BookmarkDetector) checkFeast(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.NutsEaten
	}
	avg := float64(total) / float64(len(history))

	if stats.NutsEaten >= 3 && float64(stats.NutsEaten) > avg*2 {
		return &Bookmark{
			Type:        BookmarkFeast,
			AtMS:        stats.WindowEndMS,
			Description: fmt.Sprintf("Ate %d nuts, %.1f per window on average", stats.NutsEaten, avg),
		}
	}
	return nil
}
