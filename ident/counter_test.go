package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters_MonotonicPerType(t *testing.T) {
	c := NewCounters()

	n0, err := c.Next(5)
	require.NoError(t, err)
	n1, err := c.Next(5)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n0)
	assert.Equal(t, uint64(1), n1)

	// A different object type starts from 0 independently.
	m0, err := c.Next(6)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), m0)
}

func TestCounters_AdvancePast(t *testing.T) {
	c := NewCounters()
	c.AdvancePast(5, 100)

	n, err := c.Next(5)
	require.NoError(t, err)
	assert.Equal(t, uint64(101), n, "next VID must not collide with a historical counter value")
}

func TestCounters_AdvancePastIsIdempotentWhenLower(t *testing.T) {
	c := NewCounters()
	c.AdvancePast(5, 100)
	c.AdvancePast(5, 50) // lower observation must not roll the counter back

	n, err := c.Next(5)
	require.NoError(t, err)
	assert.Equal(t, uint64(101), n)
}

func TestCounters_Observe(t *testing.T) {
	c := NewCounters()
	v, err := EncodeVID(0, 9, 77)
	require.NoError(t, err)
	c.Observe(v)

	n, err := c.Next(9)
	require.NoError(t, err)
	assert.Equal(t, uint64(78), n)
}
