// Package phi implements the φ-term abstract syntax: terms, attributes,
// bindings, structural equality, a size metric, and a canonical printer.
package phi

import "fmt"

// AttrKind distinguishes the three shapes an Attribute can take.
type AttrKind int

const (
	AttrPhi AttrKind = iota
	AttrRho
	AttrSigma
	AttrNu
	AttrLabel
	AttrAlpha
)

// distinguishedOrder fixes the relative order of the four distinguished
// attribute names.
var distinguishedOrder = map[AttrKind]int{
	AttrPhi:   0,
	AttrRho:   1,
	AttrSigma: 2,
	AttrNu:    3,
}

// Attribute is one of the distinguished names {φ, ρ, σ, ν}, a labelled
// name, or an α-index (positional argument).
type Attribute struct {
	Kind  AttrKind
	Label string // valid when Kind == AttrLabel
	Index int    // valid when Kind == AttrAlpha
}

func Phi() Attribute   { return Attribute{Kind: AttrPhi} }
func Rho() Attribute   { return Attribute{Kind: AttrRho} }
func Sigma() Attribute { return Attribute{Kind: AttrSigma} }
func Nu() Attribute    { return Attribute{Kind: AttrNu} }

func Label(name string) Attribute { return Attribute{Kind: AttrLabel, Label: name} }
func Alpha(index int) Attribute   { return Attribute{Kind: AttrAlpha, Index: index} }

func (a Attribute) IsDistinguished() bool {
	switch a.Kind {
	case AttrPhi, AttrRho, AttrSigma, AttrNu:
		return true
	default:
		return false
	}
}

func (a Attribute) String() string {
	switch a.Kind {
	case AttrPhi:
		return "φ"
	case AttrRho:
		return "ρ"
	case AttrSigma:
		return "σ"
	case AttrNu:
		return "ν"
	case AttrLabel:
		return a.Label
	case AttrAlpha:
		return fmt.Sprintf("α%d", a.Index)
	default:
		return "?"
	}
}

// Equal reports whether two attributes name the same thing.
func (a Attribute) Equal(b Attribute) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case AttrLabel:
		return a.Label == b.Label
	case AttrAlpha:
		return a.Index == b.Index
	default:
		return true
	}
}

// Less implements the total order on attributes used to canonicalize a
// formation's binding order: distinguished names first in
// the fixed order φ,ρ,σ,ν, then labelled names lexicographically, then
// α-indices by numeric suffix.
func (a Attribute) Less(b Attribute) bool {
	rank := func(a Attribute) int {
		switch a.Kind {
		case AttrPhi, AttrRho, AttrSigma, AttrNu:
			return 0
		case AttrLabel:
			return 1
		case AttrAlpha:
			return 2
		default:
			return 3
		}
	}
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra < rb
	}
	switch a.Kind {
	case AttrPhi, AttrRho, AttrSigma, AttrNu:
		return distinguishedOrder[a.Kind] < distinguishedOrder[b.Kind]
	case AttrLabel:
		return a.Label < b.Label
	case AttrAlpha:
		return a.Index < b.Index
	default:
		return false
	}
}
