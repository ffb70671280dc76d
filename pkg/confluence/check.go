package confluence

import (
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"github.com/phi-calculus/phinorm/pkg/metaphi"
	"github.com/phi-calculus/phinorm/pkg/phi"
	"github.com/phi-calculus/phinorm/pkg/rewrite"
)

// CheckConfig parameterizes a confluence run.
type CheckConfig struct {
	Samples int
	Seed    int64
	Gen     GenConfig
	Join    JoinConfig
	Workers int
}

// DefaultCheckConfig gives every unset field a sensible default.
func DefaultCheckConfig(samples int, seed int64) CheckConfig {
	return CheckConfig{
		Samples: samples,
		Seed:    seed,
		Gen:     DefaultGenConfig(seed),
		Join:    DefaultJoinConfig(),
		Workers: 4,
	}
}

// Failure records one non-joinable critical pair, shrunk to a minimal
// reproducing sample.
type Failure struct {
	Source string
	X, Y   string
}

// Report summarizes a confluence run.
type Report struct {
	SamplesChecked       int
	CriticalPairsChecked int
	Failures             []Failure
}

// Check property-tests confluence over cfg.Samples randomly generated
// formations, fanning samples out across cfg.Workers goroutines pulling
// independent units of work off a shared channel, since samples are
// fully independent and the driver itself holds no mutable shared
// state.
func Check(rs *metaphi.Ruleset, cfg CheckConfig, log *zap.Logger) *Report {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	report := &Report{}
	var mu sync.Mutex
	var wg sync.WaitGroup
	sampleIdx := make(chan int, cfg.Samples)
	for i := 0; i < cfg.Samples; i++ {
		sampleIdx <- i
	}
	close(sampleIdx)

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func(workerSeed int64) {
			defer wg.Done()
			gen := cfg.Gen
			gen.Rand = rand.New(rand.NewSource(workerSeed))
			ctx := rewrite.NewContext(rs, log)

			for range sampleIdx {
				t := RandomFormation(gen)
				pairs := CriticalPairs(t, ctx)

				mu.Lock()
				report.SamplesChecked++
				report.CriticalPairsChecked += len(pairs)
				mu.Unlock()

				for _, p := range pairs {
					if _, ok := Joinable(p.X, p.Y, ctx, cfg.Join); ok {
						continue
					}
					shrunk := Shrink(t, ctx)
					shrunkPairs := CriticalPairs(shrunk, ctx)
					fail := Failure{Source: phi.Print(shrunk)}
					if len(shrunkPairs) > 0 {
						fail.X = phi.Print(shrunkPairs[0].X)
						fail.Y = phi.Print(shrunkPairs[0].Y)
					} else {
						fail.X = phi.Print(p.X)
						fail.Y = phi.Print(p.Y)
					}
					mu.Lock()
					report.Failures = append(report.Failures, fail)
					mu.Unlock()
				}
			}
		}(cfg.Seed + int64(w))
	}
	wg.Wait()
	return report
}
