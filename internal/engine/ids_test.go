package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}

	id := gen.Generate()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.Len(t, id, 36)
	assert.NotEqual(t, id, gen.Generate())
}

func TestFixedGenerator(t *testing.T) {
	gen := NewFixedGenerator("m-1", "m-2")

	assert.Equal(t, "m-1", gen.Generate())
	assert.Equal(t, "m-2", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}
