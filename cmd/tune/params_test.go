package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/demnuts/config"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.ExtractFromConfig(config.Default())
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(raw[i]-back[i]) > 1e-9 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
	for i, spec := range pv.Specs {
		if raw[i] != spec.Default {
			t.Errorf("%s default = %v, config has %v", spec.Name, spec.Default, raw[i])
		}
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()
	pv.ApplyToConfig(cfg, []float64{100, -1, 250, 16})

	if cfg.Foxes.AttackDistance != 12 {
		t.Errorf("attack distance = %v, want clamped to 12", cfg.Foxes.AttackDistance)
	}
	if cfg.Squirrels.GetNutProbability != 0.01 {
		t.Errorf("nut probability = %v, want clamped to 0.01", cfg.Squirrels.GetNutProbability)
	}
	if cfg.Nuts.Energy != 250 || cfg.Energy.LossPerSec != 16 {
		t.Errorf("in-range values changed: %d, %v", cfg.Nuts.Energy, cfg.Energy.LossPerSec)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("tuned config invalid: %v", err)
	}
}

func TestFitness(t *testing.T) {
	if Fitness(4, 4) != 0 {
		t.Error("hitting the target should score 0")
	}
	if Fitness(2, 4) != Fitness(6, 4) {
		t.Error("fitness should be symmetric around the target")
	}
}
