package phi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualIgnoresBindingOrder(t *testing.T) {
	a := &Formation{Bindings: []Binding{
		AlphaBinding{Attribute: Label("a"), Object: Global{}},
		AlphaBinding{Attribute: Label("b"), Object: This{}},
	}}
	b := &Formation{Bindings: []Binding{
		AlphaBinding{Attribute: Label("b"), Object: This{}},
		AlphaBinding{Attribute: Label("a"), Object: Global{}},
	}}
	assert.True(t, Equal(a, b))
}

func TestEqualDistinguishesByteSequences(t *testing.T) {
	a := &Formation{Bindings: []Binding{DeltaBinding{Bytes: []byte{1, 2}}}}
	b := &Formation{Bindings: []Binding{DeltaBinding{Bytes: []byte{1, 3}}}}
	assert.False(t, Equal(a, b))
}

func TestAttributeOrderDistinguishedFirst(t *testing.T) {
	assert.True(t, Phi().Less(Rho()))
	assert.True(t, Rho().Less(Sigma()))
	assert.True(t, Sigma().Less(Nu()))
	assert.True(t, Nu().Less(Label("anything")))
	assert.True(t, Label("a").Less(Label("b")))
	assert.True(t, Label("zzz").Less(Alpha(0)))
	assert.True(t, Alpha(0).Less(Alpha(1)))
}

func TestDecidableRequiresCarrierAndNoEmpty(t *testing.T) {
	withDelta := &Formation{Bindings: []Binding{DeltaBinding{Bytes: []byte{0}}}}
	assert.True(t, Decidable(withDelta))

	withEmpty := &Formation{Bindings: []Binding{
		DeltaBinding{Bytes: []byte{0}},
		EmptyBinding{Attribute: Label("x")},
	}}
	assert.False(t, Decidable(withEmpty))

	bare := &Formation{Bindings: []Binding{AlphaBinding{Attribute: Label("x"), Object: This{}}}}
	assert.False(t, Decidable(bare))

	withPhi := &Formation{Bindings: []Binding{AlphaBinding{Attribute: Phi(), Object: This{}}}}
	assert.True(t, Decidable(withPhi))
}

func TestNewFormationRejectsDuplicateAttributes(t *testing.T) {
	_, err := NewFormation([]Binding{
		AlphaBinding{Attribute: Label("x"), Object: This{}},
		EmptyBinding{Attribute: Label("x")},
	}, false)
	require.Error(t, err)
}

func TestSizeCountsNodes(t *testing.T) {
	leaf := This{}
	assert.Equal(t, 1, Size(leaf))

	f := &Formation{Bindings: []Binding{
		AlphaBinding{Attribute: Label("a"), Object: This{}},
		EmptyBinding{Attribute: Label("b")},
	}}
	// formation(1) + alpha-binding(1) + this(1) + empty-binding(1)
	assert.Equal(t, 4, Size(f))
}

func TestByteRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 2, -2, 1<<62 - 1, -(1 << 62)} {
		encoded := EncodeInt(n)
		decoded := DecodeInt(encoded)
		assert.Equal(t, n, decoded, "round trip for %d", n)
	}
}
