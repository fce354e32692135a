package ident

import (
	"fmt"
	"sync"
)

// Counters assigns fresh, monotonic per-object-type counters to VIDs.
//
// Mirrors the bump-allocator's "never hand out the same offset twice in a
// process lifetime" contract, generalized from a single free-running offset
// to one counter per object type.
type Counters struct {
	mu   sync.Mutex
	next map[ObjectType]uint64
}

// NewCounters returns an empty counter set; every object type starts at 0.
func NewCounters() *Counters {
	return &Counters{next: make(map[ObjectType]uint64)}
}

// Next returns the next counter value for ot and advances it.
func (c *Counters) Next(ot ObjectType) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.next[ot]
	if n > MaxCounter {
		return 0, counterOverflowError(ot)
	}
	c.next[ot] = n + 1
	return n, nil
}

// AdvancePast ensures the counter for ot will never again produce a value
// <= observed. Called once per persisted VID while replaying a cold-boot
// VID↔RID map, so that freshly minted VIDs cannot collide with historical
// ones (spec.md §4.1).
func (c *Counters) AdvancePast(ot ObjectType, observed uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.next[ot] <= observed {
		c.next[ot] = observed + 1
	}
}

// Observe advances the counter for v's object type past v's counter field.
// Convenience wrapper around AdvancePast for callers iterating over VIDs
// rather than raw (type, counter) pairs.
func (c *Counters) Observe(v VID) {
	c.AdvancePast(ObjectTypeOf(v), CounterOf(v))
}

func counterOverflowError(ot ObjectType) error {
	return fmt.Errorf("ident: counter overflow for object type %d", uint8(ot))
}
