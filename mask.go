package scene

import (
	"slices"
	"strconv"
	"strings"

	"github.com/TheBitDrifter/mask"
)

// maskBlockBits is the width of one mask.Mask block.
const maskBlockBits = 256

// ComponentMask is a set of component bit positions with no upper bound. Bits are
// spread over fixed width mask.Mask blocks so matching stays a handful of word ops.
type ComponentMask struct {
	blocks []mask.Mask
	bits   []uint32 // sorted
}

// NewComponentMask returns a mask with the given bits set.
func NewComponentMask(bits ...uint32) ComponentMask {
	var m ComponentMask
	for _, b := range bits {
		m.Set(b)
	}
	return m
}

// Set marks bit b.
func (m *ComponentMask) Set(b uint32) {
	i, found := slices.BinarySearch(m.bits, b)
	if found {
		return
	}
	m.bits = slices.Insert(m.bits, i, b)
	block := int(b / maskBlockBits)
	for len(m.blocks) <= block {
		m.blocks = append(m.blocks, mask.Mask{})
	}
	m.blocks[block].Mark(b % maskBlockBits)
}

// Clear unmarks bit b.
func (m *ComponentMask) Clear(b uint32) {
	i, found := slices.BinarySearch(m.bits, b)
	if !found {
		return
	}
	m.bits = slices.Delete(m.bits, i, i+1)
	m.blocks[b/maskBlockBits].Unmark(b % maskBlockBits)
}

// Has reports whether bit b is set.
func (m ComponentMask) Has(b uint32) bool {
	_, found := slices.BinarySearch(m.bits, b)
	return found
}

// IsEmpty reports whether no bit is set.
func (m ComponentMask) IsEmpty() bool {
	return len(m.bits) == 0
}

// Len returns the number of set bits.
func (m ComponentMask) Len() int {
	return len(m.bits)
}

// Bits returns the set bit positions in ascending order.
func (m ComponentMask) Bits() []uint32 {
	return slices.Clone(m.bits)
}

// ContainsAll reports whether every bit of other is set in m.
func (m ComponentMask) ContainsAll(other ComponentMask) bool {
	for i, blk := range other.blocks {
		if i >= len(m.blocks) {
			if blk != (mask.Mask{}) {
				return false
			}
			continue
		}
		if !m.blocks[i].ContainsAll(blk) {
			return false
		}
	}
	return true
}

// ContainsNone reports whether no bit of other is set in m.
func (m ComponentMask) ContainsNone(other ComponentMask) bool {
	n := min(len(m.blocks), len(other.blocks))
	for i := 0; i < n; i++ {
		if !m.blocks[i].ContainsNone(other.blocks[i]) {
			return false
		}
	}
	return true
}

// Equal reports whether both masks hold exactly the same bits.
func (m ComponentMask) Equal(other ComponentMask) bool {
	return slices.Equal(m.bits, other.bits)
}

// Union returns a new mask with the bits of both.
func (m ComponentMask) Union(other ComponentMask) ComponentMask {
	out := m.Clone()
	for _, b := range other.bits {
		out.Set(b)
	}
	return out
}

// Difference returns a new mask with the bits of m that are not in other.
func (m ComponentMask) Difference(other ComponentMask) ComponentMask {
	var out ComponentMask
	for _, b := range m.bits {
		if !other.Has(b) {
			out.Set(b)
		}
	}
	return out
}

// Clone returns a copy that shares no memory with m.
func (m ComponentMask) Clone() ComponentMask {
	return ComponentMask{
		blocks: slices.Clone(m.blocks),
		bits:   slices.Clone(m.bits),
	}
}

func (m ComponentMask) String() string {
	parts := make([]string, len(m.bits))
	for i, b := range m.bits {
		parts[i] = strconv.FormatUint(uint64(b), 10)
	}
	return "{" + strings.Join(parts, ",") + "}"
}
