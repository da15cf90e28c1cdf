package main

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/pthm-cable/demnuts/autopilot"
	"github.com/pthm-cable/demnuts/config"
	"github.com/pthm-cable/demnuts/game"
	"github.com/pthm-cable/demnuts/world"
)

// FitnessEvaluator plays autopilot sessions and scores how far their
// survival is from the target difficulty.
type FitnessEvaluator struct {
	params     *ParamVector
	baseConfig *config.Config
	grid       world.Map
	seeds      []int64
	maxSim     time.Duration
	frame      time.Duration
	target     float64 // desired mean seasons survived

	mu          sync.Mutex
	lastSeasons float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, baseCfg *config.Config, m world.Map, seeds []int64, maxSim, frame time.Duration, target float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		baseConfig: baseCfg,
		grid:       m,
		seeds:      seeds,
		maxSim:     maxSim,
		frame:      frame,
		target:     target,
	}
}

// LastSeasons returns the mean seasons survived in the most recent evaluation.
func (fe *FitnessEvaluator) LastSeasons() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSeasons
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Seeds run in parallel; each goroutine owns its session and runner.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	seasons := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			seasons[idx] = fe.runSession(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	for _, v := range seasons {
		total += v
	}
	mean := total / float64(len(seasons))

	fe.mu.Lock()
	fe.lastSeasons = mean
	fe.mu.Unlock()

	return Fitness(mean, fe.target)
}

// runSession plays one autopilot session and returns the seasons survived.
func (fe *FitnessEvaluator) runSession(cfg *config.Config, seed int64) float64 {
	s := game.NewSession(cfg, fe.grid, seed)
	r := game.NewRunner(game.RunnerOptions{Frame: fe.frame, MaxSim: fe.maxSim})
	summary, err := r.Run(context.Background(), 0, s, autopilot.New(cfg))
	if err != nil {
		return 0
	}
	return float64(summary.SeasonsSurvived)
}

// Fitness is the squared distance between the achieved and target mean
// seasons survived.
func Fitness(meanSeasons, target float64) float64 {
	return math.Pow(meanSeasons-target, 2)
}
