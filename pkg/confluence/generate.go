// Package confluence implements the confluence tester:
// random term generation bounded by depth and binding count, critical
// pair detection, bounded joinability search over a breadth-layered
// descendant iterator, and shrinking of a failing sample.
package confluence

import (
	"math/rand"

	"github.com/phi-calculus/phinorm/pkg/phi"
)

// GenConfig bounds RandomFormation's shape.
type GenConfig struct {
	MaxDepth    int
	MaxBindings int
	Rand        *rand.Rand
}

// DefaultGenConfig gives bounded depth and bindings sensible defaults.
func DefaultGenConfig(seed int64) GenConfig {
	return GenConfig{MaxDepth: 3, MaxBindings: 3, Rand: rand.New(rand.NewSource(seed))}
}

var sampleLabels = []string{"a", "b", "c", "d", "e"}

// RandomFormation builds a random Formation within cfg's bounds: each
// labelled attribute is Alpha (nested formation, recursing one level
// shallower) or Empty, picked uniformly, with an optional single Delta
// binding thrown in. Lambda bindings are omitted from generation (a
// random built-in name joined with random operands would rarely be
// meaningful for rule-rewriting purposes; built-ins are exercised
// directly by pkg/dataize's own tests).
func RandomFormation(cfg GenConfig) *phi.Formation {
	return randomFormation(cfg, cfg.MaxDepth)
}

func randomFormation(cfg GenConfig, depthLeft int) *phi.Formation {
	n := 1 + cfg.Rand.Intn(cfg.MaxBindings)
	bindings := make([]phi.Binding, 0, n+1)
	for i := 0; i < n; i++ {
		label := sampleLabels[i%len(sampleLabels)]
		attr := phi.Label(label)
		if depthLeft <= 0 || cfg.Rand.Intn(2) == 0 {
			bindings = append(bindings, phi.EmptyBinding{Attribute: attr})
			continue
		}
		bindings = append(bindings, phi.AlphaBinding{Attribute: attr, Object: randomFormation(cfg, depthLeft-1)})
	}
	if cfg.Rand.Intn(2) == 0 {
		bindings = append(bindings, phi.DeltaBinding{Bytes: phi.EncodeInt(int64(cfg.Rand.Intn(100)))})
	}
	// Labels above are assigned in a fixed cycling order; shuffle the
	// bindings themselves so samples also exercise binding orders other
	// than that fixed one (phi.Equal, and every rule match, must be
	// insensitive to this).
	cfg.Rand.Shuffle(len(bindings), func(i, j int) {
		bindings[i], bindings[j] = bindings[j], bindings[i]
	})
	return &phi.Formation{Bindings: bindings}
}
