package ident

import (
	"context"
	"fmt"

	"github.com/sonic-net/sairedis-go/saierr"
)

// RID is an opaque 64-bit handle returned by the underlying driver. It is
// never interpreted by this layer, only stored and compared.
type RID uint64

// NullRID is the sentinel "no handle" value.
const NullRID RID = 0

// Persistence is the subset of the KV store the identifier layer needs: two
// hashes, VIDTORID and RIDTOVID (spec.md §6.2). store.Store implements it;
// ident depends only on this interface so that it can be exercised against
// an in-memory fake in tests without pulling in a Redis client.
type Persistence interface {
	LoadVIDToRID(ctx context.Context, switchID VID) (map[VID]RID, error)
	LoadRIDToVID(ctx context.Context, switchID VID) (map[RID]VID, error)
	BindVIDRID(ctx context.Context, switchID VID, v VID, r RID) error
}

// Map is the bidirectional, persistent VID<->RID map for a single switch.
//
// Invariant (spec.md §3, invariant 3): for every (vid, rid) in the forward
// map there is a matching (rid, vid) in the reverse map, and both maps are
// injective. Load verifies this on startup; any inconsistency is fatal.
type Map struct {
	switchID VID
	store    Persistence
	counters *Counters

	vidToRID map[VID]RID
	ridToVID map[RID]VID
}

// NewMap constructs an empty Map for switchID, not yet loaded.
func NewMap(switchID VID, store Persistence, counters *Counters) *Map {
	return &Map{
		switchID: switchID,
		store:    store,
		counters: counters,
		vidToRID: make(map[VID]RID),
		ridToVID: make(map[RID]VID),
	}
}

// Load reads both hashes from the store, verifies they are mutual inverses,
// and advances counters past every observed VID so that freshly minted VIDs
// cannot collide with historical ones (spec.md §4.1).
func (m *Map) Load(ctx context.Context) error {
	forward, err := m.store.LoadVIDToRID(ctx, m.switchID)
	if err != nil {
		return fmt.Errorf("ident: load VIDTORID: %w", err)
	}
	reverse, err := m.store.LoadRIDToVID(ctx, m.switchID)
	if err != nil {
		return fmt.Errorf("ident: load RIDTOVID: %w", err)
	}

	if len(forward) != len(reverse) {
		return saierr.New(saierr.KindInternal, fmt.Sprintf(
			"ident: VIDTORID has %d entries, RIDTOVID has %d", len(forward), len(reverse)))
	}
	for v, r := range forward {
		if reverse[r] != v {
			return saierr.New(saierr.KindInternal, fmt.Sprintf(
				"ident: VIDTORID/RIDTOVID mismatch for vid=%s rid=0x%x", v, r))
		}
	}

	m.vidToRID = forward
	m.ridToVID = reverse
	if m.counters != nil {
		for v := range forward {
			m.counters.Observe(v)
		}
	}
	return nil
}

// Bind persists and caches the (vid, rid) pair.
func (m *Map) Bind(ctx context.Context, v VID, r RID) error {
	if existingRID, ok := m.vidToRID[v]; ok && existingRID != r {
		return saierr.New(saierr.KindInternal, fmt.Sprintf(
			"ident: vid %s already bound to rid 0x%x, refusing rebind to 0x%x", v, existingRID, r))
	}
	if existingVID, ok := m.ridToVID[r]; ok && existingVID != v {
		return saierr.New(saierr.KindInternal, fmt.Sprintf(
			"ident: rid 0x%x already bound to vid %s, refusing rebind to %s", r, existingVID, v))
	}
	if err := m.store.BindVIDRID(ctx, m.switchID, v, r); err != nil {
		return fmt.Errorf("ident: bind %s<->0x%x: %w", v, r, err)
	}
	m.vidToRID[v] = r
	m.ridToVID[r] = v
	return nil
}

// ResolveRID returns the RID bound to v. Missing entries are KindNotFound:
// fatal for reconciliation of the object, recoverable during discovery
// (spec.md §4.1).
func (m *Map) ResolveRID(v VID) (RID, error) {
	if v == NullVID {
		return NullRID, nil
	}
	r, ok := m.vidToRID[v]
	if !ok {
		return NullRID, saierr.New(saierr.KindNotFound, fmt.Sprintf("ident: no rid bound for vid %s", v))
	}
	return r, nil
}

// ResolveVID returns the VID bound to r.
func (m *Map) ResolveVID(r RID) (VID, error) {
	if r == NullRID {
		return NullVID, nil
	}
	v, ok := m.ridToVID[r]
	if !ok {
		return NullVID, saierr.New(saierr.KindNotFound, fmt.Sprintf("ident: no vid bound for rid 0x%x", r))
	}
	return v, nil
}

// HasVID reports whether v has a bound RID, without erroring.
func (m *Map) HasVID(v VID) bool {
	_, ok := m.vidToRID[v]
	return ok
}

// Len returns the number of bound pairs, for tests and diagnostics.
func (m *Map) Len() int { return len(m.vidToRID) }
