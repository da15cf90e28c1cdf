package telemetry

import "time"

// Census is the world state sampled at the end of a window.
type Census struct {
	Season     string
	Level      int
	ActiveNuts int
	BuriedNuts int
	Squirrels  int
	Foxes      int
}

// Collector accumulates events within time windows and produces WindowStats.
// It implements Observer so it can be attached to a session directly.
type Collector struct {
	window time.Duration

	// Current window tracking
	windowStart time.Duration

	// Event counters for current window
	nutsSpawned   int
	nutsEaten     int
	nutsPickedUp  int
	nutsBuried    int
	nutsDug       int
	squirrelMeals int
	foxRaids      int

	energy []float64
}

// NewCollector creates a new stats collector.
// window: how long each stats window lasts in simulation time.
func NewCollector(window time.Duration) *Collector {
	if window <= 0 {
		window = 10 * time.Second
	}
	return &Collector{window: window}
}

// OnEvent implements Observer.
func (c *Collector) OnEvent(e Event) {
	switch e.Type {
	case EventNutSpawned:
		c.nutsSpawned++
	case EventNutEaten:
		c.nutsEaten++
	case EventNutPickedUp:
		c.nutsPickedUp++
	case EventNutBuried:
		c.nutsBuried++
	case EventNutDug:
		c.nutsDug++
	case EventSquirrelMeal:
		c.squirrelMeals++
	case EventFoxRaid:
		c.foxRaids++
	}
}

// SampleEnergy records one observation of the player's energy.
func (c *Collector) SampleEnergy(v int) {
	c.energy = append(c.energy, float64(v))
}

// ShouldFlush returns true if the current window has run its full length.
func (c *Collector) ShouldFlush(now time.Duration) bool {
	return now-c.windowStart >= c.window
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(now time.Duration, census Census) WindowStats {
	mean, std, minimum, p10, p50, p90 := ComputeEnergyStats(c.energy)

	stats := WindowStats{
		WindowStartMS: c.windowStart.Milliseconds(),
		WindowEndMS:   now.Milliseconds(),
		SimTimeSec:    now.Seconds(),

		Season:     census.Season,
		Level:      census.Level,
		ActiveNuts: census.ActiveNuts,
		BuriedNuts: census.BuriedNuts,
		Squirrels:  census.Squirrels,
		Foxes:      census.Foxes,

		NutsSpawned:   c.nutsSpawned,
		NutsEaten:     c.nutsEaten,
		NutsPickedUp:  c.nutsPickedUp,
		NutsBuried:    c.nutsBuried,
		NutsDug:       c.nutsDug,
		SquirrelMeals: c.squirrelMeals,
		FoxRaids:      c.foxRaids,

		EnergyMean: mean,
		EnergyStd:  std,
		EnergyMin:  minimum,
		EnergyP10:  p10,
		EnergyP50:  p50,
		EnergyP90:  p90,
	}

	// Reset for next window
	c.windowStart = now
	c.nutsSpawned = 0
	c.nutsEaten = 0
	c.nutsPickedUp = 0
	c.nutsBuried = 0
	c.nutsDug = 0
	c.squirrelMeals = 0
	c.foxRaids = 0
	c.energy = c.energy[:0]

	return stats
}

// Window returns the window length.
func (c *Collector) Window() time.Duration {
	return c.window
}
