// Package counters runs the periodic stat-polling loops spec.md §2 item 9
// describes: one goroutine per polling interval, independent of the
// reconciliation core, sharing only saimeta and ident with it. Grounded on
// hive/walker/counter.go's traversal-accumulates-into-a-stats-struct shape
// (here: a poll tick accumulates into a Sample batch instead of a walk
// accumulating into CellStats) and hive/merge/stats.go's plain
// accumulate-and-return statistics idiom.
package counters

import (
	"context"
	"sync"
	"time"

	"github.com/sonic-net/sairedis-go/ident"
	"github.com/sonic-net/sairedis-go/saidriver"
	"github.com/sonic-net/sairedis-go/saimeta"
	"github.com/sonic-net/sairedis-go/saiser"
)

// Sample is one attribute's value read from the driver during a poll,
// identified by VID rather than RID: samples are published to callers
// outside this process, which only ever know an object by its VID.
type Sample struct {
	ObjectType saimeta.ObjectType
	VID        ident.VID
	AttrID     saimeta.AttrID
	Value      saiser.Value
}

// ObjectRef names one object and the attributes to sample on it each
// tick. RID is what the driver read happens against; VID is what the
// resulting samples are published under.
type ObjectRef struct {
	ObjectType saimeta.ObjectType
	VID        ident.VID
	RID        ident.RID
	Attrs      []saimeta.AttrID
}

// Group is one polling group: every object in it is sampled together on
// Interval, the way a real flex-counter group batches its members' reads
// onto one poll cycle.
type Group struct {
	Name     string
	Interval time.Duration
	Objects  []ObjectRef
}

// Publisher receives a poll's samples. store.CounterPublisher implements it,
// writing each sample into its own durable counters table; tests use an
// in-package fake.
type Publisher interface {
	Publish(ctx context.Context, group string, samples []Sample) error
}

// Stats tallies a Poller's lifetime activity, for diagnostics.
type Stats struct {
	mu      sync.Mutex
	Polls   uint64
	Samples uint64
	Errors  uint64
}

func (s *Stats) recordPoll(sampleCount int, publishErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Polls++
	s.Samples += uint64(sampleCount)
	if publishErr != nil {
		s.Errors++
	}
}

func (s *Stats) recordReadError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Errors++
}

// Snapshot returns a copy of the current counts.
func (s *Stats) Snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Polls: s.Polls, Samples: s.Samples, Errors: s.Errors}
}

// Poller runs one Group's ticker loop against driver, publishing each
// tick's samples through publisher. Counter threads observe snapshots of
// driver state and touch the shared switch lock only while publishing
// (spec.md §5); Poller takes lock for that single call and releases it
// before the next tick's reads.
type Poller struct {
	group     Group
	driver    saidriver.Driver
	publisher Publisher
	lock      sync.Locker
	stats     Stats
}

// NewPoller returns a poller for group, reading through driver and
// publishing via publisher. lock is the process-wide switchLock; pass a
// fresh *sync.Mutex in tests that don't share one with a controller.
func NewPoller(group Group, driver saidriver.Driver, publisher Publisher, lock sync.Locker) *Poller {
	return &Poller{group: group, driver: driver, publisher: publisher, lock: lock}
}

// Stats returns a snapshot of this poller's activity counts.
func (p *Poller) Stats() Stats { return p.stats.Snapshot() }

// Run ticks every group.Interval until ctx is done, the Go-idiomatic
// equivalent of spec.md §5's stop-signal condition variable with a
// polling-interval timeout.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.group.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll runs one tick synchronously: read every object's attributes, then
// publish the batch under lock. Exported so tests and a CLI's one-shot
// mode can run a single tick without a ticker.
func (p *Poller) Poll(ctx context.Context) {
	samples := make([]Sample, 0, len(p.group.Objects))
	for _, obj := range p.group.Objects {
		for _, attrID := range obj.Attrs {
			val, err := p.driver.GetAttribute(ctx, obj.ObjectType, obj.RID, nil, attrID)
			if err != nil {
				p.stats.recordReadError()
				continue
			}
			samples = append(samples, Sample{
				ObjectType: obj.ObjectType,
				VID:        obj.VID,
				AttrID:     attrID,
				Value:      val,
			})
		}
	}

	p.lock.Lock()
	err := p.publisher.Publish(ctx, p.group.Name, samples)
	p.lock.Unlock()

	p.stats.recordPoll(len(samples), err)
}

// Manager owns a fixed switch lock and starts/stops one Poller per group
// registered with it.
type Manager struct {
	lock    sync.Locker
	mu      sync.Mutex
	pollers []*Poller
}

// NewManager returns a manager whose pollers share lock for publishing.
func NewManager(lock sync.Locker) *Manager {
	return &Manager{lock: lock}
}

// AddGroup registers a new polling group and returns its Poller so a
// caller can inspect its Stats later.
func (m *Manager) AddGroup(group Group, driver saidriver.Driver, publisher Publisher) *Poller {
	p := NewPoller(group, driver, publisher, m.lock)
	m.mu.Lock()
	m.pollers = append(m.pollers, p)
	m.mu.Unlock()
	return p
}

// Run starts every registered poller in its own goroutine and blocks until
// ctx is done and all of them have returned.
func (m *Manager) Run(ctx context.Context) {
	m.mu.Lock()
	pollers := append([]*Poller(nil), m.pollers...)
	m.mu.Unlock()

	var wg sync.WaitGroup
	for _, p := range pollers {
		wg.Add(1)
		go func(p *Poller) {
			defer wg.Done()
			p.Run(ctx)
		}(p)
	}
	wg.Wait()
}
