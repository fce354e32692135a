package ident

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePersistence is an in-memory stand-in for store.Store used to exercise
// Map without a Redis dependency, mirroring the teacher's preference for
// small in-package fakes over mocking frameworks.
type fakePersistence struct {
	forward map[VID]RID
	reverse map[RID]VID
}

func newFakePersistence() *fakePersistence {
	return &fakePersistence{forward: map[VID]RID{}, reverse: map[RID]VID{}}
}

func (f *fakePersistence) LoadVIDToRID(context.Context, VID) (map[VID]RID, error) {
	out := make(map[VID]RID, len(f.forward))
	for k, v := range f.forward {
		out[k] = v
	}
	return out, nil
}

func (f *fakePersistence) LoadRIDToVID(context.Context, VID) (map[RID]VID, error) {
	out := make(map[RID]VID, len(f.reverse))
	for k, v := range f.reverse {
		out[k] = v
	}
	return out, nil
}

func (f *fakePersistence) BindVIDRID(_ context.Context, _ VID, v VID, r RID) error {
	f.forward[v] = r
	f.reverse[r] = v
	return nil
}

func TestMap_BindAndResolve(t *testing.T) {
	ctx := context.Background()
	p := newFakePersistence()
	m := NewMap(NullVID, p, NewCounters())
	require.NoError(t, m.Load(ctx))

	v, err := EncodeVID(0, 1, 1)
	require.NoError(t, err)
	require.NoError(t, m.Bind(ctx, v, RID(0xAB)))

	r, err := m.ResolveRID(v)
	require.NoError(t, err)
	assert.Equal(t, RID(0xAB), r)

	back, err := m.ResolveVID(RID(0xAB))
	require.NoError(t, err)
	assert.Equal(t, v, back)
}

func TestMap_ResolveMissing_IsNotFound(t *testing.T) {
	ctx := context.Background()
	m := NewMap(NullVID, newFakePersistence(), NewCounters())
	require.NoError(t, m.Load(ctx))

	v, err := EncodeVID(0, 1, 1)
	require.NoError(t, err)
	_, err = m.ResolveRID(v)
	require.Error(t, err)
}

func TestMap_Load_DetectsInconsistentMaps(t *testing.T) {
	ctx := context.Background()
	p := newFakePersistence()
	v, err := EncodeVID(0, 1, 1)
	require.NoError(t, err)
	// Forward map has an entry the reverse map disagrees with.
	p.forward[v] = RID(1)
	p.reverse[RID(1)] = NullVID

	m := NewMap(NullVID, p, NewCounters())
	err = m.Load(ctx)
	require.Error(t, err)
}

func TestMap_Load_AdvancesCounters(t *testing.T) {
	ctx := context.Background()
	p := newFakePersistence()
	v, err := EncodeVID(0, 3, 50)
	require.NoError(t, err)
	require.NoError(t, p.BindVIDRID(ctx, NullVID, v, RID(9)))

	counters := NewCounters()
	m := NewMap(NullVID, p, counters)
	require.NoError(t, m.Load(ctx))

	next, err := counters.Next(3)
	require.NoError(t, err)
	assert.Equal(t, uint64(51), next)
}

func TestMap_Bind_RejectsConflictingRebind(t *testing.T) {
	ctx := context.Background()
	m := NewMap(NullVID, newFakePersistence(), NewCounters())
	require.NoError(t, m.Load(ctx))

	v, err := EncodeVID(0, 1, 1)
	require.NoError(t, err)
	require.NoError(t, m.Bind(ctx, v, RID(1)))
	require.Error(t, m.Bind(ctx, v, RID(2)))
}
