package telemetry

import (
	"log/slog"
	"time"
)

// Phases of one runner frame, in the order they run.
const (
	PhaseAutopilot = "autopilot"
	PhaseTimers    = "timers"
	PhaseMovement  = "movement"
	PhaseTerminal  = "terminal"
	PhaseTelemetry = "telemetry"
)

var phaseOrder = []string{PhaseAutopilot, PhaseTimers, PhaseMovement, PhaseTerminal, PhaseTelemetry}

// frameSample is the wall-clock cost of one frame.
type frameSample struct {
	total  time.Duration
	phases map[string]time.Duration
}

// PerfCollector measures how long frames and their phases take in wall-clock
// time, over a ring of the most recent frames. It satisfies game.PhaseTimer.
type PerfCollector struct {
	now func() time.Time

	ring   []frameSample
	next   int
	filled int

	cur        frameSample
	frameStart time.Time
	phaseStart time.Time
	phase      string
}

// NewPerfCollector keeps the last size frames.
func NewPerfCollector(size int) *PerfCollector {
	if size < 1 {
		size = 60
	}
	return &PerfCollector{
		now:  time.Now,
		ring: make([]frameSample, size),
	}
}

// StartTick opens a frame.
func (p *PerfCollector) StartTick() {
	p.frameStart = p.now()
	p.cur = frameSample{phases: make(map[string]time.Duration, len(phaseOrder))}
	p.phase = ""
}

// StartPhase closes the running phase, if any, and opens the next one.
func (p *PerfCollector) StartPhase(phase string) {
	t := p.now()
	p.closePhase(t)
	p.phaseStart = t
	p.phase = phase
}

func (p *PerfCollector) closePhase(t time.Time) {
	if p.phase != "" {
		p.cur.phases[p.phase] += t.Sub(p.phaseStart)
	}
}

// EndTick closes the frame and stores it in the ring.
func (p *PerfCollector) EndTick() {
	t := p.now()
	p.closePhase(t)
	p.phase = ""
	p.cur.total = t.Sub(p.frameStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.filled = min(p.filled+1, len(p.ring))
}

// PerfStats summarises the frames in the ring.
type PerfStats struct {
	Frames int

	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// PhasePct is each phase's share of total frame time, in percent.
	PhasePct map[string]float64

	TicksPerSecond float64
}

// Stats aggregates the stored frames.
func (p *PerfCollector) Stats() PerfStats {
	st := PerfStats{Frames: p.filled, PhasePct: make(map[string]float64)}
	if p.filled == 0 {
		return st
	}

	var total time.Duration
	phaseTotal := make(map[string]time.Duration)
	for i, f := range p.ring[:p.filled] {
		total += f.total
		if i == 0 || f.total < st.MinTickDuration {
			st.MinTickDuration = f.total
		}
		st.MaxTickDuration = max(st.MaxTickDuration, f.total)
		for phase, d := range f.phases {
			phaseTotal[phase] += d
		}
	}

	st.AvgTickDuration = total / time.Duration(p.filled)
	if total > 0 {
		for phase, d := range phaseTotal {
			st.PhasePct[phase] = float64(d) / float64(total) * 100
		}
	}
	if st.AvgTickDuration > 0 {
		st.TicksPerSecond = float64(time.Second) / float64(st.AvgTickDuration)
	}
	return st
}

// LogStats logs frame timing at Info.
func (s PerfStats) LogStats() {
	slog.Info("perf", "perf", s)
}

// LogValue implements slog.LogValuer. Phases are reported in frame order.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("frames", s.Frames),
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEndMS  int64   `csv:"window_end_ms"`
	Frames       int     `csv:"frames"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	AutopilotPct float64 `csv:"autopilot_pct"`
	TimersPct    float64 `csv:"timers_pct"`
	MovementPct  float64 `csv:"movement_pct"`
	TerminalPct  float64 `csv:"terminal_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for the stats window ending at windowEndMS.
func (s PerfStats) ToCSV(windowEndMS int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEndMS:  windowEndMS,
		Frames:       s.Frames,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		AutopilotPct: s.PhasePct[PhaseAutopilot],
		TimersPct:    s.PhasePct[PhaseTimers],
		MovementPct:  s.PhasePct[PhaseMovement],
		TerminalPct:  s.PhasePct[PhaseTerminal],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
