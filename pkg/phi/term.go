package phi

import "strings"

// Term is a φ-term: an object formation, an application, a dispatch, a
// reference to the global object or the enclosing object, the stuck
// term, or (patterns only) a meta-variant.
type Term interface {
	isTerm()
	String() string
}

// Formation is an object literal: `⟦ b₁, b₂, … ⟧`.
type Formation struct {
	Bindings []Binding
}

func (*Formation) isTerm() {}

func (f *Formation) String() string {
	parts := make([]string, len(f.Bindings))
	for i, b := range f.Bindings {
		parts[i] = b.String()
	}
	return "⟦ " + strings.Join(parts, ", ") + " ⟧"
}

// Application applies arguments to an object: `obj(b₁, …)`.
type Application struct {
	Fun      Term
	Bindings []Binding
}

func (*Application) isTerm() {}

func (a *Application) String() string {
	parts := make([]string, len(a.Bindings))
	for i, b := range a.Bindings {
		parts[i] = b.String()
	}
	return a.Fun.String() + "(" + strings.Join(parts, ", ") + ")"
}

// Dispatch is attribute access: `obj.attr`.
type Dispatch struct {
	Receiver Term
	Attr     Attribute
}

func (*Dispatch) isTerm() {}

func (d *Dispatch) String() string { return d.Receiver.String() + "." + d.Attr.String() }

// Global is the outermost object reference (`Φ`).
type Global struct{}

func (Global) isTerm()        {}
func (Global) String() string { return "Φ" }

// This is the self-reference used inside a formation (`ξ`).
type This struct{}

func (This) isTerm()        {}
func (This) String() string { return "ξ" }

// Termination is the stuck/error term (⊥).
type Termination struct{}

func (Termination) isTerm()        {}
func (Termination) String() string { return "⊥" }

// MetaObject is a pattern-only placeholder standing for a whole term.
type MetaObject struct {
	ID string
}

func (*MetaObject) isTerm()        {}
func (m *MetaObject) String() string { return "!" + m.ID }

// MetaFunction is a pattern/replacement-only meta-level transformation,
// e.g. a function that fetches a binding by attribute or computes a
// fresh α-index.
type MetaFunction struct {
	Name string
	Arg  Term
}

func (*MetaFunction) isTerm() {}

func (m *MetaFunction) String() string {
	if m.Arg == nil {
		return "@" + m.Name
	}
	return "@" + m.Name + "(" + m.Arg.String() + ")"
}

// NewFormation builds a Formation, enforcing that each concrete
// attribute name occurs at most once unless allowPatterns is set, in
// which case MetaBindings may violate it freely.
func NewFormation(bindings []Binding, allowPatterns bool) (*Formation, error) {
	seen := make(map[string]bool, len(bindings))
	for _, b := range bindings {
		if _, ok := b.(MetaBindings); ok && allowPatterns {
			continue
		}
		key := b.Attr().String()
		if seen[key] {
			return nil, &DuplicateAttributeError{Attribute: key}
		}
		seen[key] = true
	}
	return &Formation{Bindings: bindings}, nil
}

// DuplicateAttributeError reports a repeated concrete attribute name.
type DuplicateAttributeError struct {
	Attribute string
}

func (e *DuplicateAttributeError) Error() string {
	return "duplicate attribute in formation: " + e.Attribute
}

// Decidable reports whether a formation is dataizable: it must carry
// at least one of {Delta, Lambda, Alpha φ↦…} and no Empty.
func Decidable(f *Formation) bool {
	hasCarrier := false
	for _, b := range f.Bindings {
		switch v := b.(type) {
		case EmptyBinding:
			return false
		case DeltaBinding, LambdaBinding:
			hasCarrier = true
		case AlphaBinding:
			if v.Attribute.Kind == AttrPhi {
				hasCarrier = true
			}
		}
	}
	return hasCarrier
}

// Find returns the first binding matching attr, if any.
func Find(bindings []Binding, attr Attribute) (Binding, bool) {
	for _, b := range bindings {
		if b.Attr().Equal(attr) {
			return b, true
		}
	}
	return nil, false
}

// FindDelta returns the Delta binding in a formation, if present.
func FindDelta(f *Formation) (DeltaBinding, bool) {
	for _, b := range f.Bindings {
		if d, ok := b.(DeltaBinding); ok {
			return d, true
		}
	}
	return DeltaBinding{}, false
}

// FindLambda returns the Lambda binding in a formation, if present.
func FindLambda(f *Formation) (LambdaBinding, bool) {
	for _, b := range f.Bindings {
		if l, ok := b.(LambdaBinding); ok {
			return l, true
		}
	}
	return LambdaBinding{}, false
}

// HasEmpty reports whether a formation has any Empty binding.
func HasEmpty(f *Formation) bool {
	for _, b := range f.Bindings {
		if _, ok := b.(EmptyBinding); ok {
			return true
		}
	}
	return false
}
