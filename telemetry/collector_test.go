package telemetry

import (
	"testing"
	"time"

	"github.com/pthm-cable/demnuts/components"
)

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(10 * time.Second)
	var obs Observer = c

	at := 3 * time.Second
	p := components.Point{X: 1, Y: 2}
	obs.OnEvent(NewNutEvent(EventNutSpawned, at, 1, p))
	obs.OnEvent(NewNutEvent(EventNutSpawned, at, 2, p))
	obs.OnEvent(NewNutEvent(EventNutEaten, at, 1, p))
	obs.OnEvent(NewSquirrelMealEvent(at, 4, 2, p))
	obs.OnEvent(NewFoxRaidEvent(at, 1, 7, p))
	obs.OnEvent(NewSeasonEvent(at, "winter", 0))
	for _, e := range []int{1000, 800, 600} {
		c.SampleEnergy(e)
	}

	if c.ShouldFlush(9 * time.Second) {
		t.Fatal("window flushed early")
	}
	if !c.ShouldFlush(10 * time.Second) {
		t.Fatal("window should be due")
	}

	stats := c.Flush(10*time.Second, Census{Season: "summer", ActiveNuts: 3, Squirrels: 5})
	if stats.NutsSpawned != 2 || stats.NutsEaten != 1 || stats.SquirrelMeals != 1 || stats.FoxRaids != 1 {
		t.Errorf("counts = %+v", stats)
	}
	if stats.EnergyMean != 800 || stats.EnergyMin != 600 {
		t.Errorf("energy mean/min = %v/%v, want 800/600", stats.EnergyMean, stats.EnergyMin)
	}
	if stats.WindowEndMS != 10000 || stats.SimTimeSec != 10 || stats.Season != "summer" || stats.Squirrels != 5 {
		t.Errorf("window fields = %+v", stats)
	}

	// Counters reset; the next window starts where the last ended.
	next := c.Flush(20*time.Second, Census{})
	if next.NutsSpawned != 0 || next.EnergyMean != 0 || next.WindowStartMS != 10000 {
		t.Errorf("second window = %+v", next)
	}
	if c.ShouldFlush(25 * time.Second) {
		t.Error("window restarted at the wrong time")
	}
}
