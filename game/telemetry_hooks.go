package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/demnuts/telemetry"
)

// census samples the world for the end of a stats window.
func census(s *Session) telemetry.Census {
	w := s.World()
	return telemetry.Census{
		Season:     s.Season().String(),
		Level:      s.Level(),
		ActiveNuts: len(w.ActiveNuts()),
		BuriedNuts: len(w.BuriedNuts()),
		Squirrels:  len(w.Squirrels),
		Foxes:      len(w.Foxes),
	}
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (r *Runner) flushTelemetry(s *Session) {
	if !r.collector.ShouldFlush(s.Now()) {
		return
	}

	stats := r.collector.Flush(s.Now(), census(s))
	perfStats := r.perf.Stats()

	// Log stats if enabled (console output)
	if r.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if err := r.opts.Output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := r.opts.Output.WritePerf(perfStats, stats.WindowEndMS); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range r.bookmarks.Check(stats) {
		if r.opts.LogStats {
			bm.LogBookmark()
		}
		if err := r.opts.Output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// summary builds the run record from the session's final state.
func (r *Runner) summary(run int, s *Session) telemetry.RunSummary {
	cause, _ := s.Over()
	st := s.Stats()
	return telemetry.RunSummary{
		Run:             run,
		Seed:            s.Seed(),
		Level:           s.Level(),
		SeasonsSurvived: st.SeasonsSurvived,
		NutsEaten:       st.NutsEaten,
		NutsBuried:      st.NutsBuried,
		SimTimeSec:      s.Now().Seconds(),
		Energy:          s.World().Player.Energy.Value(),
		Cause:           cause,
	}
}

// recordRun writes the summary to every configured sink.
func (r *Runner) recordRun(ctx context.Context, summary telemetry.RunSummary) error {
	slog.Info("run finished", "summary", summary)

	if err := r.opts.Output.WriteRun(summary); err != nil {
		return err
	}
	if r.opts.Journal != nil {
		if err := r.opts.Journal.Err(); err != nil {
			return fmt.Errorf("journal: %w", err)
		}
	}
	if r.opts.Ledger != nil {
		if err := r.opts.Ledger.Record(ctx, summary); err != nil {
			return err
		}
	}
	return nil
}
