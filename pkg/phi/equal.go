package phi

import "sort"

// canonicalBindings returns a copy of bindings sorted by the total order
// on attributes, making binding order unobservable.
func canonicalBindings(bindings []Binding) []Binding {
	out := make([]Binding, len(bindings))
	copy(out, bindings)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Attr().Less(out[j].Attr())
	})
	return out
}

// Canonicalize returns a term with every Formation's bindings reordered
// into canonical attribute order, recursively.
func Canonicalize(t Term) Term {
	switch v := t.(type) {
	case *Formation:
		bindings := canonicalBindings(v.Bindings)
		out := make([]Binding, len(bindings))
		for i, b := range bindings {
			out[i] = canonicalizeBinding(b)
		}
		return &Formation{Bindings: out}
	case *Application:
		out := make([]Binding, len(v.Bindings))
		for i, b := range v.Bindings {
			out[i] = canonicalizeBinding(b)
		}
		return &Application{Fun: Canonicalize(v.Fun), Bindings: out}
	case *Dispatch:
		return &Dispatch{Receiver: Canonicalize(v.Receiver), Attr: v.Attr}
	case *MetaFunction:
		if v.Arg == nil {
			return v
		}
		return &MetaFunction{Name: v.Name, Arg: Canonicalize(v.Arg)}
	default:
		return t
	}
}

func canonicalizeBinding(b Binding) Binding {
	if a, ok := b.(AlphaBinding); ok {
		return AlphaBinding{Attribute: a.Attribute, Object: Canonicalize(a.Object)}
	}
	return b
}

// Equal is structural equality after one canonicalization step: for each
// Formation, binding order is made unobservable by sorting; Delta
// bindings compare byte-sequences exactly.
func Equal(a, b Term) bool {
	return equalCanonical(Canonicalize(a), Canonicalize(b))
}

func equalCanonical(a, b Term) bool {
	switch av := a.(type) {
	case *Formation:
		bv, ok := b.(*Formation)
		if !ok || len(av.Bindings) != len(bv.Bindings) {
			return false
		}
		for i := range av.Bindings {
			if !equalBinding(av.Bindings[i], bv.Bindings[i]) {
				return false
			}
		}
		return true
	case *Application:
		bv, ok := b.(*Application)
		if !ok || len(av.Bindings) != len(bv.Bindings) || !equalCanonical(av.Fun, bv.Fun) {
			return false
		}
		for i := range av.Bindings {
			if !equalBinding(av.Bindings[i], bv.Bindings[i]) {
				return false
			}
		}
		return true
	case *Dispatch:
		bv, ok := b.(*Dispatch)
		return ok && av.Attr.Equal(bv.Attr) && equalCanonical(av.Receiver, bv.Receiver)
	case Global:
		_, ok := b.(Global)
		return ok
	case This:
		_, ok := b.(This)
		return ok
	case Termination:
		_, ok := b.(Termination)
		return ok
	case *MetaObject:
		bv, ok := b.(*MetaObject)
		return ok && av.ID == bv.ID
	case *MetaFunction:
		bv, ok := b.(*MetaFunction)
		if !ok || av.Name != bv.Name {
			return false
		}
		if av.Arg == nil || bv.Arg == nil {
			return av.Arg == nil && bv.Arg == nil
		}
		return equalCanonical(av.Arg, bv.Arg)
	default:
		return false
	}
}

func equalBinding(a, b Binding) bool {
	if !a.Attr().Equal(b.Attr()) {
		return false
	}
	switch av := a.(type) {
	case AlphaBinding:
		bv, ok := b.(AlphaBinding)
		return ok && equalCanonical(av.Object, bv.Object)
	case EmptyBinding:
		_, ok := b.(EmptyBinding)
		return ok
	case DeltaBinding:
		bv, ok := b.(DeltaBinding)
		return ok && bytesEqual(av.Bytes, bv.Bytes)
	case LambdaBinding:
		bv, ok := b.(LambdaBinding)
		return ok && av.Name == bv.Name
	case MetaBindings:
		bv, ok := b.(MetaBindings)
		return ok && av.ID == bv.ID
	default:
		return false
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
