package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComponentMaskBasics(t *testing.T) {
	var m ComponentMask
	assert.True(t, m.IsEmpty())

	m.Set(3)
	m.Set(1)
	m.Set(3)
	assert.Equal(t, []uint32{1, 3}, m.Bits())
	assert.Equal(t, 2, m.Len())
	assert.True(t, m.Has(1))
	assert.False(t, m.Has(2))
	assert.Equal(t, "{1,3}", m.String())

	m.Clear(1)
	m.Clear(42)
	assert.Equal(t, []uint32{3}, m.Bits())
}

// TestComponentMaskWide covers bits past the first block.
func TestComponentMaskWide(t *testing.T) {
	m := NewComponentMask(5, 300, 1000)
	assert.True(t, m.Has(300))
	assert.True(t, m.Has(1000))
	assert.False(t, m.Has(999))

	m.Clear(1000)
	assert.False(t, m.Has(1000))
	assert.Equal(t, []uint32{5, 300}, m.Bits())
}

func TestComponentMaskSetOperations(t *testing.T) {
	tests := []struct {
		name        string
		m, other    ComponentMask
		containsAll bool
		containsNon bool
	}{
		{"empty other", NewComponentMask(1, 2), NewComponentMask(), true, true},
		{"subset", NewComponentMask(1, 2, 3), NewComponentMask(1, 3), true, false},
		{"disjoint", NewComponentMask(1, 2), NewComponentMask(7), false, true},
		{"partial overlap", NewComponentMask(1, 2), NewComponentMask(2, 7), false, false},
		{"wide other on narrow mask", NewComponentMask(1), NewComponentMask(1, 400), false, false},
		{"wide disjoint", NewComponentMask(1), NewComponentMask(400), false, true},
		{"wide subset", NewComponentMask(1, 400, 900), NewComponentMask(400, 900), true, false},
		{"empty mask", NewComponentMask(), NewComponentMask(3), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.containsAll, tt.m.ContainsAll(tt.other))
			assert.Equal(t, tt.containsNon, tt.m.ContainsNone(tt.other))
		})
	}
}

func TestComponentMaskAlgebra(t *testing.T) {
	a := NewComponentMask(1, 2, 300)
	b := NewComponentMask(2, 5)

	assert.Equal(t, []uint32{1, 2, 5, 300}, a.Union(b).Bits())
	assert.Equal(t, []uint32{1, 300}, a.Difference(b).Bits())
	assert.True(t, a.Equal(NewComponentMask(300, 2, 1)))
	assert.False(t, a.Equal(b))

	clone := a.Clone()
	clone.Set(9)
	assert.False(t, a.Has(9), "clone must not share storage")
}
