package telemetry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// JournalEntry is one line of the event journal.
type JournalEntry struct {
	Run int `json:"run"`
	Event
}

// Journal appends events as zstd-compressed JSON lines.
// It implements Observer; write failures are kept and reported by Err and Close.
type Journal struct {
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
	run int
	err error
}

// NewJournal creates (or truncates) a journal file.
func NewJournal(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating journal: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating journal encoder: %w", err)
	}
	return &Journal{
		f:   f,
		enc: enc,
		w:   bufio.NewWriterSize(enc, 128*1024),
	}, nil
}

// SetRun tags subsequent entries with a run number.
func (j *Journal) SetRun(run int) { j.run = run }

// OnEvent implements Observer.
func (j *Journal) OnEvent(e Event) {
	if j.err != nil {
		return
	}
	j.err = j.Write(JournalEntry{Run: j.run, Event: e})
}

// Write appends a single entry.
func (j *Journal) Write(entry JournalEntry) error {
	b, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding journal entry: %w", err)
	}
	if _, err := j.w.Write(b); err != nil {
		return fmt.Errorf("writing journal: %w", err)
	}
	if err := j.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("writing journal: %w", err)
	}
	return nil
}

// Err returns the first write failure seen by OnEvent.
func (j *Journal) Err() error { return j.err }

// Close flushes buffered entries and closes the file.
func (j *Journal) Close() error {
	firstErr := j.err
	if err := j.w.Flush(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("flushing journal: %w", err)
	}
	if err := j.enc.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing journal encoder: %w", err)
	}
	if err := j.f.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// ReadJournal decodes every entry of a journal stream.
func ReadJournal(r io.Reader) ([]JournalEntry, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening journal decoder: %w", err)
	}
	defer dec.Close()

	var out []JournalEntry
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		var entry JournalEntry
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			return nil, fmt.Errorf("decoding journal line %d: %w", len(out)+1, err)
		}
		out = append(out, entry)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}
	return out, nil
}

// ReadJournalFile decodes a journal file.
func ReadJournalFile(path string) ([]JournalEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()
	return ReadJournal(f)
}
