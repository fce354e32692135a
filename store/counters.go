package store

import (
	"context"
	"fmt"

	"github.com/sonic-net/sairedis-go/counters"
	"github.com/sonic-net/sairedis-go/saiser"
)

// CounterPublisher implements counters.Publisher over a Store, writing
// each poll's samples into a "COUNTERS:<oid>" hash per object, field name
// = attribute id, the same table shape the real counters database uses to
// let a separate process read current values without touching ASIC_STATE.
type CounterPublisher struct {
	store *Store
}

// NewCounterPublisher returns a publisher that writes through store.
func NewCounterPublisher(store *Store) *CounterPublisher {
	return &CounterPublisher{store: store}
}

// Publish writes every sample, grouped by object, as one HSET per object
// so a poll tick updates each object's counters atomically.
func (c *CounterPublisher) Publish(ctx context.Context, _ string, samples []counters.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	byObject := make(map[string]map[string]string)
	order := make([]string, 0, len(samples))
	for _, s := range samples {
		key := s.VID.String()
		fields, ok := byObject[key]
		if !ok {
			fields = make(map[string]string)
			byObject[key] = fields
			order = append(order, key)
		}
		val, err := saiser.Serialize(s.Value)
		if err != nil {
			return fmt.Errorf("store: serialize counter sample %s: %w", s.AttrID, err)
		}
		fields[string(s.AttrID)] = val
	}

	return c.store.queue(ctx, func(p pipeliner) {
		for _, key := range order {
			p.HSet("COUNTERS:"+key, byObject[key])
		}
	})
}
