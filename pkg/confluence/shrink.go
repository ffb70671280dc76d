package confluence

import (
	"github.com/phi-calculus/phinorm/pkg/phi"
	"github.com/phi-calculus/phinorm/pkg/rewrite"
)

// hasCriticalPair reports whether t still exhibits at least two distinct
// one-step successors under ctx — the property a shrunk candidate must
// retain to stay a reproducing sample.
func hasCriticalPair(t phi.Term, ctx *rewrite.Context) bool {
	succs := rewrite.Step(t, ctx)
	for i := 0; i < len(succs); i++ {
		for j := i + 1; j < len(succs); j++ {
			if !phi.Equal(succs[i], succs[j]) {
				return true
			}
		}
	}
	return false
}

// Shrink reduces t's binding list and nested depth to a local minimum
// that still produces a critical pair, by repeatedly trying smaller
// candidates and keeping the first that still qualifies.
// It never runs the rewrite driver to completion, only Step, so it
// terminates in time proportional to the candidates it tries, not to
// any chain length.
func Shrink(t phi.Term, ctx *rewrite.Context) phi.Term {
	if !hasCriticalPair(t, ctx) {
		return t
	}
	cur := t
	for {
		next, shrunk := shrinkOnce(cur, ctx)
		if !shrunk {
			return cur
		}
		cur = next
	}
}

// shrinkOnce tries, in order: dropping one top-level binding, replacing
// one AlphaBinding's object with an EmptyBinding, and shrinking one
// AlphaBinding's nested object recursively. It returns the first smaller
// candidate that preserves hasCriticalPair.
func shrinkOnce(t phi.Term, ctx *rewrite.Context) (phi.Term, bool) {
	f, ok := t.(*phi.Formation)
	if !ok {
		return t, false
	}

	for i := range f.Bindings {
		candidate := dropBinding(f, i)
		if candidate != nil && hasCriticalPair(candidate, ctx) {
			return candidate, true
		}
	}

	for i, b := range f.Bindings {
		ab, ok := b.(phi.AlphaBinding)
		if !ok {
			continue
		}
		candidate := replaceBinding(f, i, phi.EmptyBinding{Attribute: ab.Attribute})
		if hasCriticalPair(candidate, ctx) {
			return candidate, true
		}
	}

	for i, b := range f.Bindings {
		ab, ok := b.(phi.AlphaBinding)
		if !ok {
			continue
		}
		inner, shrunk := shrinkOnce(ab.Object, ctx)
		if !shrunk {
			continue
		}
		candidate := replaceBinding(f, i, phi.AlphaBinding{Attribute: ab.Attribute, Object: inner})
		if hasCriticalPair(candidate, ctx) {
			return candidate, true
		}
	}

	return nil, false
}

func dropBinding(f *phi.Formation, idx int) *phi.Formation {
	if len(f.Bindings) <= 1 {
		return nil
	}
	bindings := make([]phi.Binding, 0, len(f.Bindings)-1)
	bindings = append(bindings, f.Bindings[:idx]...)
	bindings = append(bindings, f.Bindings[idx+1:]...)
	return &phi.Formation{Bindings: bindings}
}

func replaceBinding(f *phi.Formation, idx int, b phi.Binding) *phi.Formation {
	bindings := make([]phi.Binding, len(f.Bindings))
	copy(bindings, f.Bindings)
	bindings[idx] = b
	return &phi.Formation{Bindings: bindings}
}
