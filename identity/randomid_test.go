package identity

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	idReader = rand.New(rand.NewSource(0))

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		require.Len(t, id, idLength)
		require.True(t, IsID(id), id)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestIsID(t *testing.T) {
	assert.False(t, IsID(""))
	assert.False(t, IsID("task1"))
	assert.False(t, IsID("f5lxx1zz5pnorynqglhzmsp3!"))
	assert.False(t, IsID("+5lxx1zz5pnorynqglhzmsp33"))
	assert.False(t, IsID("F5LXX1ZZ5PNORYNQGLHZMSP33"))
	assert.False(t, IsID("f5lxx1zz5pnorynqglhzmsP33"))
	assert.True(t, IsID("f5lxx1zz5pnorynqglhzmsp33"))
}
