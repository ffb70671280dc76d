package phi

import "fmt"

// Binding is a tagged variant: a labelled payload, a declared-absent
// marker, byte-literal data, an opaque built-in name, or (patterns only)
// a meta-variable standing for a whole sub-sequence of bindings.
type Binding interface {
	isBinding()
	Attr() Attribute
	String() string
}

// AlphaBinding is a named field holding a term: `attr ↦ obj`.
type AlphaBinding struct {
	Attribute Attribute
	Object    Term
}

func (AlphaBinding) isBinding()          {}
func (b AlphaBinding) Attr() Attribute   { return b.Attribute }
func (b AlphaBinding) String() string    { return fmt.Sprintf("%s ↦ %s", b.Attribute, b.Object) }

// EmptyBinding is a declared-but-absent attribute: `attr ↦ ∅`.
type EmptyBinding struct {
	Attribute Attribute
}

func (EmptyBinding) isBinding()        {}
func (b EmptyBinding) Attr() Attribute { return b.Attribute }
func (b EmptyBinding) String() string  { return fmt.Sprintf("%s ↦ ∅", b.Attribute) }

// DeltaBinding carries literal byte data: `Δ ⤍ hh-hh-…`.
type DeltaBinding struct {
	Bytes []byte
}

func (DeltaBinding) isBinding()        {}
func (b DeltaBinding) Attr() Attribute { return Attribute{Kind: AttrLabel, Label: "Δ"} }
func (b DeltaBinding) String() string  { return fmt.Sprintf("Δ ⤍ %s", FormatBytes(b.Bytes)) }

// LambdaBinding names an opaque built-in: `λ ⤍ Name`.
type LambdaBinding struct {
	Name string
}

func (LambdaBinding) isBinding()        {}
func (b LambdaBinding) Attr() Attribute { return Attribute{Kind: AttrLabel, Label: "λ"} }
func (b LambdaBinding) String() string  { return fmt.Sprintf("λ ⤍ %s", b.Name) }

// MetaBindings matches a whole sequence of bindings in a pattern.
// It only ever appears inside pattern/replacement terms.
type MetaBindings struct {
	ID string
}

func (MetaBindings) isBinding()        {}
func (b MetaBindings) Attr() Attribute { return Attribute{Kind: AttrLabel, Label: "@@" + b.ID} }
func (b MetaBindings) String() string  { return fmt.Sprintf("!!%s", b.ID) }

// FormatBytes renders a byte slice as the `hh-hh-…` hex-pair notation.
func FormatBytes(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	out := make([]byte, 0, len(b)*3-1)
	const hex = "0123456789ABCDEF"
	for i, c := range b {
		if i > 0 {
			out = append(out, '-')
		}
		out = append(out, hex[c>>4], hex[c&0xf])
	}
	return string(out)
}
