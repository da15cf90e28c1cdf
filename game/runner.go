package game

import (
	"context"
	"time"

	"github.com/pthm-cable/demnuts/telemetry"
)

// Controller decides the player's commands for a frame.
type Controller interface {
	Step(s *Session)
}

// RunnerOptions configures a headless Runner. Nil sinks are skipped.
type RunnerOptions struct {
	Frame    time.Duration // simulated time per frame
	MaxSim   time.Duration // per-run cap; zero means until game over
	LogStats bool

	Output  *telemetry.OutputManager
	Journal *telemetry.Journal
	Ledger  *telemetry.Ledger
}

// Runner plays sessions to completion without a display, recording
// telemetry as it goes.
type Runner struct {
	opts RunnerOptions

	collector *telemetry.Collector
	bookmarks *telemetry.BookmarkDetector
	perf      *telemetry.PerfCollector
}

// NewRunner creates a runner. A zero frame defaults to 1/30 s.
func NewRunner(opts RunnerOptions) *Runner {
	if opts.Frame <= 0 {
		opts.Frame = time.Second / 30
	}
	return &Runner{
		opts: opts,
		perf: telemetry.NewPerfCollector(120),
	}
}

// Run plays s with ctrl until game over, the time cap or ctx cancellation,
// and returns the run summary.
func (r *Runner) Run(ctx context.Context, run int, s *Session, ctrl Controller) (telemetry.RunSummary, error) {
	r.collector = telemetry.NewCollector(s.Config().Telemetry.StatsWindow)
	r.bookmarks = telemetry.NewBookmarkDetector(5)
	s.AddObserver(r.collector)
	if r.opts.Journal != nil {
		r.opts.Journal.SetRun(run)
		s.AddObserver(r.opts.Journal)
	}

	s.Start()
	for frame := 0; s.State() == Started; frame++ {
		if r.opts.MaxSim > 0 && s.Now() >= r.opts.MaxSim {
			break
		}
		if frame%256 == 0 {
			if err := ctx.Err(); err != nil {
				return r.summary(run, s), err
			}
		}

		r.perf.StartTick()
		r.perf.StartPhase(telemetry.PhaseAutopilot)
		if ctrl != nil {
			ctrl.Step(s)
		}
		s.TickTimed(r.opts.Frame, r.perf)

		r.perf.StartPhase(telemetry.PhaseTelemetry)
		r.collector.SampleEnergy(s.World().Player.Energy.Value())
		r.flushTelemetry(s)
		r.perf.EndTick()
	}

	summary := r.summary(run, s)
	if err := r.recordRun(ctx, summary); err != nil {
		return summary, err
	}
	return summary, nil
}
