package serverclock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffsetStoreFirstWriteWins(t *testing.T) {
	s := NewOffsetStore()

	assert.True(t, s.Put("203.0.113.5:25565", 1429))
	assert.False(t, s.Put("203.0.113.5:25565", 7))

	minutes, ok := s.Get("203.0.113.5:25565")
	assert.True(t, ok)
	assert.Equal(t, 1429, minutes)
}

func TestOffsetStoreMissingKey(t *testing.T) {
	s := NewOffsetStore()

	minutes, ok := s.Get("198.51.100.1:25565")
	assert.False(t, ok)
	assert.Equal(t, 0, minutes)
}

func TestOffsetStoreEndpointsIndependent(t *testing.T) {
	s := NewOffsetStore()

	s.Put("a:1", 10)
	s.Put("b:1", -20)

	a, _ := s.Get("a:1")
	b, _ := s.Get("b:1")
	assert.Equal(t, 10, a)
	assert.Equal(t, -20, b)
	assert.Equal(t, 2, s.Len())
}
