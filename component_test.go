package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAssignsStableBits(t *testing.T) {
	r := NewTypeRegistry()

	pos, err := Register[Position](r)
	require.NoError(t, err)
	vel, err := Register[Velocity](r)
	require.NoError(t, err)
	again, err := Register[Position](r)
	require.NoError(t, err)

	assert.Equal(t, pos, again)
	assert.NotEqual(t, pos.Bit, vel.Bit)
	assert.Equal(t, Dense, pos.Storage)
	assert.Equal(t, "scene.Position", pos.Name)
}

// TestRegisterStorageDeclaration covers the ways a type gets its storage kind.
func TestRegisterStorageDeclaration(t *testing.T) {
	r := NewTypeRegistry()

	tag := MustRegister[Tag](r)
	assert.Equal(t, Sparse, tag.Storage)

	ptr := MustRegister[ptrDeclared](r)
	assert.Equal(t, Sparse, ptr.Storage, "pointer receiver declarations count")

	_, err := Register[Undeclared](r)
	var notDeclared ComponentNotDeclaredError
	require.ErrorAs(t, err, &notDeclared)
	assert.Equal(t, "scene.Undeclared", notDeclared.Type)
	assert.Panics(t, func() { MustRegister[Undeclared](r) })

	require.NoError(t, Declare[Undeclared](r, Dense))
	ct, err := Register[Undeclared](r)
	require.NoError(t, err)
	assert.Equal(t, Dense, ct.Storage)

	assert.Error(t, Declare[Undeclared](r, Sparse), "redeclaring a registered type with another kind fails")
	assert.NoError(t, Declare[Undeclared](r, Dense))
	assert.Error(t, Declare[Health](r, StorageKind(9)))
}

func TestDeclareOverridesComponentStorage(t *testing.T) {
	r := NewTypeRegistry()
	require.NoError(t, Declare[Position](r, Sparse))
	assert.Equal(t, Sparse, MustRegister[Position](r).Storage)
}

func TestTypeRegistryLookup(t *testing.T) {
	r := NewTypeRegistry()
	pos := MustRegister[Position](r)
	MustRegister[Velocity](r)

	byShort, err := r.Lookup("Position")
	require.NoError(t, err)
	assert.Equal(t, pos, byShort)

	byFull, err := r.Lookup("scene.Position")
	require.NoError(t, err)
	assert.Equal(t, pos, byFull)

	_, err = r.Lookup("Mana")
	var notFound ComponentNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Mana", notFound.Name)

	types := r.Types()
	require.Len(t, types, 2)
	assert.Less(t, types[0].Bit, types[1].Bit)
}

func TestParseStorageKind(t *testing.T) {
	tests := []struct {
		in      string
		want    StorageKind
		wantErr bool
	}{
		{"dense", Dense, false},
		{" Sparse ", Sparse, false},
		{"archetype", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStorageKind(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
