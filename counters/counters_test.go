package counters

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonic-net/sairedis-go/ident"
	"github.com/sonic-net/sairedis-go/saimeta"
	"github.com/sonic-net/sairedis-go/vswitch"
)

type fakePublisher struct {
	mu    sync.Mutex
	calls [][]Sample
}

func (f *fakePublisher) Publish(_ context.Context, _ string, samples []Sample) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, samples)
	return nil
}

func (f *fakePublisher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newSwitchWithPort(t *testing.T) (*vswitch.VirtualSwitch, ident.RID) {
	t.Helper()
	sw := vswitch.New()
	rid, err := sw.CreateObject(context.Background(), saimeta.ObjectTypeSwitch, nil)
	require.NoError(t, err)
	return sw, rid
}

func testPortVID(t *testing.T) ident.VID {
	t.Helper()
	vid, err := ident.EncodeVID(0, saimeta.ObjectTypePort, 1)
	require.NoError(t, err)
	return vid
}

func TestPoller_Poll_ReadsEveryObjectAttribute(t *testing.T) {
	sw, switchRID := newSwitchWithPort(t)
	_ = switchRID
	portVID := testPortVID(t)
	defaults := sw.Defaults()
	require.NotEmpty(t, defaults.Ports)

	group := Group{
		Name:     "PORT_STAT_COUNTER",
		Interval: time.Second,
		Objects: []ObjectRef{
			{ObjectType: saimeta.ObjectTypePort, VID: portVID, RID: defaults.Ports[0], Attrs: []saimeta.AttrID{saimeta.AttrPortSpeed}},
		},
	}
	pub := &fakePublisher{}
	poller := NewPoller(group, sw, pub, &sync.Mutex{})

	poller.Poll(context.Background())

	require.Equal(t, 1, pub.callCount())
	assert.Len(t, pub.calls[0], 1)
	assert.Equal(t, saimeta.AttrPortSpeed, pub.calls[0][0].AttrID)

	stats := poller.Stats()
	assert.Equal(t, uint64(1), stats.Polls)
	assert.Equal(t, uint64(1), stats.Samples)
	assert.Equal(t, uint64(0), stats.Errors)
}

func TestPoller_Poll_UnknownAttributeIsCountedAsError(t *testing.T) {
	sw, _ := newSwitchWithPort(t)
	portVID := testPortVID(t)
	defaults := sw.Defaults()

	group := Group{
		Name: "PORT_STAT_COUNTER",
		Objects: []ObjectRef{
			{ObjectType: saimeta.ObjectTypePort, VID: portVID, RID: defaults.Ports[0], Attrs: []saimeta.AttrID{"SAI_PORT_ATTR_NOT_SET"}},
		},
	}
	pub := &fakePublisher{}
	poller := NewPoller(group, sw, pub, &sync.Mutex{})

	poller.Poll(context.Background())

	assert.Empty(t, pub.calls[0])
	assert.Equal(t, uint64(1), poller.Stats().Errors)
}

func TestPoller_Run_TicksUntilContextDone(t *testing.T) {
	sw, _ := newSwitchWithPort(t)
	portVID := testPortVID(t)
	defaults := sw.Defaults()

	group := Group{
		Name:     "PORT_STAT_COUNTER",
		Interval: 5 * time.Millisecond,
		Objects: []ObjectRef{
			{ObjectType: saimeta.ObjectTypePort, VID: portVID, RID: defaults.Ports[0], Attrs: []saimeta.AttrID{saimeta.AttrPortSpeed}},
		},
	}
	pub := &fakePublisher{}
	poller := NewPoller(group, sw, pub, &sync.Mutex{})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	poller.Run(ctx)

	assert.GreaterOrEqual(t, pub.callCount(), 2)
}

func TestManager_RunsAllRegisteredGroups(t *testing.T) {
	sw, _ := newSwitchWithPort(t)
	portVID := testPortVID(t)
	defaults := sw.Defaults()
	lock := &sync.Mutex{}
	mgr := NewManager(lock)

	pubA := &fakePublisher{}
	pubB := &fakePublisher{}
	mgr.AddGroup(Group{
		Name:     "A",
		Interval: 5 * time.Millisecond,
		Objects:  []ObjectRef{{ObjectType: saimeta.ObjectTypePort, VID: portVID, RID: defaults.Ports[0], Attrs: []saimeta.AttrID{saimeta.AttrPortSpeed}}},
	}, sw, pubA)
	mgr.AddGroup(Group{
		Name:     "B",
		Interval: 5 * time.Millisecond,
		Objects:  []ObjectRef{{ObjectType: saimeta.ObjectTypePort, VID: portVID, RID: defaults.Ports[0], Attrs: []saimeta.AttrID{saimeta.AttrPortSpeed}}},
	}, sw, pubB)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	mgr.Run(ctx)

	assert.Greater(t, pubA.callCount(), 0)
	assert.Greater(t, pubB.callCount(), 0)
}
