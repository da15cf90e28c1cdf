package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartMS int64   `csv:"-"`
	WindowEndMS   int64   `csv:"window_end_ms"`
	SimTimeSec    float64 `csv:"sim_time"`

	// World state at window end
	Season     string `csv:"season"`
	Level      int    `csv:"level"`
	ActiveNuts int    `csv:"active_nuts"`
	BuriedNuts int    `csv:"buried_nuts"`
	Squirrels  int    `csv:"squirrels"`
	Foxes      int    `csv:"foxes"`

	// Events during window
	NutsSpawned   int `csv:"nuts_spawned"`
	NutsEaten     int `csv:"nuts_eaten"`
	NutsPickedUp  int `csv:"nuts_picked_up"`
	NutsBuried    int `csv:"nuts_buried"`
	NutsDug       int `csv:"nuts_dug"`
	SquirrelMeals int `csv:"squirrel_meals"`
	FoxRaids      int `csv:"fox_raids"`

	// Player energy distribution over the window's samples
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyMin  float64 `csv:"energy_min"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`
}

// Percentile returns the empirical p-quantile of sorted values.
// p is clamped to [0, 1]. Returns 0 if the slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	p = min(1, max(0, p))
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeEnergyStats calculates mean, population std, min and percentiles.
func ComputeEnergyStats(values []float64) (mean, std, minimum, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0, 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mean, std = stat.PopMeanStdDev(sorted, nil)
	return mean, std, sorted[0],
		Percentile(sorted, 0.10),
		Percentile(sorted, 0.50),
		Percentile(sorted, 0.90)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start_ms", s.WindowStartMS),
		slog.Int64("window_end_ms", s.WindowEndMS),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.String("season", s.Season),
		slog.Int("level", s.Level),
		slog.Int("active_nuts", s.ActiveNuts),
		slog.Int("buried_nuts", s.BuriedNuts),
		slog.Int("squirrels", s.Squirrels),
		slog.Int("foxes", s.Foxes),
		slog.Int("nuts_spawned", s.NutsSpawned),
		slog.Int("nuts_eaten", s.NutsEaten),
		slog.Int("nuts_picked_up", s.NutsPickedUp),
		slog.Int("nuts_buried", s.NutsBuried),
		slog.Int("nuts_dug", s.NutsDug),
		slog.Int("squirrel_meals", s.SquirrelMeals),
		slog.Int("fox_raids", s.FoxRaids),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_std", s.EnergyStd),
		slog.Float64("energy_min", s.EnergyMin),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end_ms", s.WindowEndMS,
		"sim_time", s.SimTimeSec,
		"season", s.Season,
		"level", s.Level,
		"active_nuts", s.ActiveNuts,
		"buried_nuts", s.BuriedNuts,
		"squirrels", s.Squirrels,
		"foxes", s.Foxes,
		"nuts_spawned", s.NutsSpawned,
		"nuts_eaten", s.NutsEaten,
		"nuts_buried", s.NutsBuried,
		"nuts_dug", s.NutsDug,
		"squirrel_meals", s.SquirrelMeals,
		"fox_raids", s.FoxRaids,
		"energy_mean", s.EnergyMean,
		"energy_min", s.EnergyMin,
		"energy_p50", s.EnergyP50,
	)
}
