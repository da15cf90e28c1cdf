package telemetry

import "log/slog"

// RunSummary is the outcome of one session, written to runs.csv and the ledger.
type RunSummary struct {
	Run             int     `csv:"run"`
	Seed            int64   `csv:"seed"`
	Level           int     `csv:"level"`
	SeasonsSurvived int     `csv:"seasons_survived"`
	NutsEaten       int     `csv:"nuts_eaten"`
	NutsBuried      int     `csv:"nuts_buried"`
	SimTimeSec      float64 `csv:"sim_time_sec"`
	Energy          int     `csv:"final_energy"`
	Cause           string  `csv:"cause"` // empty when the run hit the time cap
}

// LogValue implements slog.LogValuer for structured logging.
func (r RunSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("run", r.Run),
		slog.Int64("seed", r.Seed),
		slog.Int("level", r.Level),
		slog.Int("seasons_survived", r.SeasonsSurvived),
		slog.Int("nuts_eaten", r.NutsEaten),
		slog.Int("nuts_buried", r.NutsBuried),
		slog.Float64("sim_time_sec", r.SimTimeSec),
		slog.Int("final_energy", r.Energy),
		slog.String("cause", r.Cause),
	)
}
