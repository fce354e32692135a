package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonic-net/sairedis-go/asicview"
	"github.com/sonic-net/sairedis-go/ident"
	"github.com/sonic-net/sairedis-go/match"
	"github.com/sonic-net/sairedis-go/saidriver"
	"github.com/sonic-net/sairedis-go/saimeta"
	"github.com/sonic-net/sairedis-go/saiser"
)

// fakeDriver is a minimal in-memory saidriver.Driver, same convention used
// throughout this module's tests: a small in-package fake over a mock.
type fakeDriver struct {
	nextRID ident.RID
	types   map[ident.RID]saimeta.ObjectType
	sets    int
	creates int
	removes int
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{nextRID: 1000, types: make(map[ident.RID]saimeta.ObjectType)}
}

func (f *fakeDriver) CreateObject(_ context.Context, ot saimeta.ObjectType, _ []saidriver.AttrValue) (ident.RID, error) {
	f.nextRID++
	f.types[f.nextRID] = ot
	f.creates++
	return f.nextRID, nil
}

func (f *fakeDriver) RemoveObject(context.Context, saimeta.ObjectType, ident.RID, []saidriver.AttrValue) error {
	f.removes++
	return nil
}

func (f *fakeDriver) SetAttribute(context.Context, saimeta.ObjectType, ident.RID, []saidriver.AttrValue, saidriver.AttrValue) error {
	f.sets++
	return nil
}

func (f *fakeDriver) GetAttribute(context.Context, saimeta.ObjectType, ident.RID, []saidriver.AttrValue, saimeta.AttrID) (saiser.Value, error) {
	return saiser.Value{}, nil
}

func (f *fakeDriver) ObjectTypeOf(_ context.Context, rid ident.RID) (saimeta.ObjectType, error) {
	return f.types[rid], nil
}

type fakePersistence struct {
	forward map[ident.VID]ident.RID
	reverse map[ident.RID]ident.VID
}

func newFakePersistence() *fakePersistence { return &fakePersistence{map[ident.VID]ident.RID{}, map[ident.RID]ident.VID{}} }

func (f *fakePersistence) LoadVIDToRID(context.Context, ident.VID) (map[ident.VID]ident.RID, error) {
	return map[ident.VID]ident.RID{}, nil
}
func (f *fakePersistence) LoadRIDToVID(context.Context, ident.VID) (map[ident.RID]ident.VID, error) {
	return map[ident.RID]ident.VID{}, nil
}
func (f *fakePersistence) BindVIDRID(_ context.Context, _ ident.VID, v ident.VID, r ident.RID) error {
	if existing, ok := f.forward[v]; ok && existing != r {
		return assertNever()
	}
	f.forward[v] = r
	f.reverse[r] = v
	return nil
}

func assertNever() error { panic("conflicting rebind in test fake") }

func setupSwitchAndPort(t *testing.T, registry *saimeta.Registry, idMap *ident.Map) (switchVID, portVID ident.VID) {
	t.Helper()
	switchVID, err := ident.EncodeVID(0, saimeta.ObjectTypeSwitch, 1)
	require.NoError(t, err)
	portVID, err = ident.EncodeVID(0, saimeta.ObjectTypePort, 1)
	require.NoError(t, err)
	require.NoError(t, idMap.Bind(context.Background(), switchVID, ident.RID(1)))
	require.NoError(t, idMap.Bind(context.Background(), portVID, ident.RID(2)))
	return switchVID, portVID
}

func addMatchedPair(t *testing.T, tempView, currentView *asicview.View, vid ident.VID, ot saimeta.ObjectType, rid ident.RID, attrs map[saimeta.AttrID]asicview.Attr) {
	t.Helper()
	tAttrs := make(map[saimeta.AttrID]asicview.Attr, len(attrs))
	for k, v := range attrs {
		tAttrs[k] = v
	}
	require.NoError(t, tempView.AddObject(&asicview.Object{ObjectType: ot, VID: vid, Attrs: tAttrs}))
	cAttrs := make(map[saimeta.AttrID]asicview.Attr, len(attrs))
	for k, v := range attrs {
		cAttrs[k] = v
	}
	require.NoError(t, currentView.AddObject(&asicview.Object{ObjectType: ot, VID: vid, RID: rid, Attrs: cAttrs}))
}

func newEngine(registry *saimeta.Registry, driver saidriver.Driver) (*Engine, *ident.Map) {
	idMap := ident.NewMap(ident.NullVID, newFakePersistence(), ident.NewCounters())
	_ = idMap.Load(context.Background())
	matcher := match.NewMatcher(registry, idMap, nil, 42)
	return NewEngine(registry, matcher, idMap, driver), idMap
}

func TestReconcile_CreatesNewObject(t *testing.T) {
	registry := saimeta.Builtin()
	driver := newFakeDriver()
	engine, idMap := newEngine(registry, driver)

	tempView := asicview.NewView(registry)
	currentView := asicview.NewView(registry)
	switchVID, portVID := setupSwitchAndPort(t, registry, idMap)
	addMatchedPair(t, tempView, currentView, switchVID, saimeta.ObjectTypeSwitch, ident.RID(1), nil)
	addMatchedPair(t, tempView, currentView, portVID, saimeta.ObjectTypePort, ident.RID(2), nil)

	vrVID, err := ident.EncodeVID(0, saimeta.ObjectTypeVirtualRouter, 1)
	require.NoError(t, err)
	require.NoError(t, tempView.AddObject(&asicview.Object{
		ObjectType: saimeta.ObjectTypeVirtualRouter,
		VID:        vrVID,
		Attrs: map[saimeta.AttrID]asicview.Attr{
			saimeta.AttrVirtualRouterAdminV4State: {Value: saiser.Value{Kind: saimeta.KindBool, Bool: true}, Serialized: "true"},
		},
	}))

	plan, applied, err := engine.Reconcile(context.Background(), tempView, currentView)
	require.NoError(t, err)
	assert.Equal(t, 1, applied.Created)
	assert.Equal(t, 1, driver.creates)
	require.Len(t, plan.Ops, 1)
	assert.Equal(t, OpCreate, plan.Ops[0].Kind)

	vrObj, ok := tempView.FindByVID(vrVID)
	require.True(t, ok)
	assert.Equal(t, asicview.StatusFinal, vrObj.Status)
	rid, err := idMap.ResolveRID(vrVID)
	require.NoError(t, err)
	assert.NotEqual(t, ident.NullRID, rid)
}

func TestReconcile_SetsDifferingCreateAndSetAttribute(t *testing.T) {
	registry := saimeta.Builtin()
	driver := newFakeDriver()
	engine, idMap := newEngine(registry, driver)

	tempView := asicview.NewView(registry)
	currentView := asicview.NewView(registry)
	switchVID, portVID := setupSwitchAndPort(t, registry, idMap)
	addMatchedPair(t, tempView, currentView, switchVID, saimeta.ObjectTypeSwitch, ident.RID(1), nil)

	require.NoError(t, tempView.AddObject(&asicview.Object{
		ObjectType: saimeta.ObjectTypePort, VID: portVID,
		Attrs: map[saimeta.AttrID]asicview.Attr{
			saimeta.AttrPortSpeed: {Value: saiser.Value{Kind: saimeta.KindUint32, Uint: 100000}, Serialized: "100000"},
		},
	}))
	require.NoError(t, currentView.AddObject(&asicview.Object{
		ObjectType: saimeta.ObjectTypePort, VID: portVID, RID: ident.RID(2),
		Attrs: map[saimeta.AttrID]asicview.Attr{
			saimeta.AttrPortSpeed: {Value: saiser.Value{Kind: saimeta.KindUint32, Uint: 10000}, Serialized: "10000"},
		},
	}))

	plan, applied, err := engine.Reconcile(context.Background(), tempView, currentView)
	require.NoError(t, err)
	assert.Equal(t, 1, applied.Set)
	assert.Equal(t, 1, driver.sets)
	require.Len(t, plan.Ops, 1)
	assert.Equal(t, OpSet, plan.Ops[0].Kind)
	assert.Equal(t, saimeta.AttrPortSpeed, plan.Ops[0].Attrs[0].ID)
}

func TestReconcile_RemovesOrphanFromCurrentView(t *testing.T) {
	registry := saimeta.Builtin()
	driver := newFakeDriver()
	engine, idMap := newEngine(registry, driver)

	tempView := asicview.NewView(registry)
	currentView := asicview.NewView(registry)
	switchVID, portVID := setupSwitchAndPort(t, registry, idMap)
	addMatchedPair(t, tempView, currentView, switchVID, saimeta.ObjectTypeSwitch, ident.RID(1), nil)
	addMatchedPair(t, tempView, currentView, portVID, saimeta.ObjectTypePort, ident.RID(2), nil)

	orphanVID, err := ident.EncodeVID(0, saimeta.ObjectTypeVirtualRouter, 1)
	require.NoError(t, err)
	require.NoError(t, idMap.Bind(context.Background(), orphanVID, ident.RID(55)))
	require.NoError(t, currentView.AddObject(&asicview.Object{
		ObjectType: saimeta.ObjectTypeVirtualRouter, VID: orphanVID, RID: ident.RID(55),
		Attrs: map[saimeta.AttrID]asicview.Attr{},
	}))

	plan, applied, err := engine.Reconcile(context.Background(), tempView, currentView)
	require.NoError(t, err)
	assert.Equal(t, 1, applied.Removed)
	assert.Equal(t, 1, driver.removes)
	require.Len(t, plan.Ops, 1)
	assert.Equal(t, OpRemove, plan.Ops[0].Kind)
}

func TestReconcile_NonRemovableOrphanIsKept(t *testing.T) {
	registry := saimeta.Builtin()
	driver := newFakeDriver()
	engine, idMap := newEngine(registry, driver)

	tempView := asicview.NewView(registry)
	currentView := asicview.NewView(registry)
	switchVID, portVID := setupSwitchAndPort(t, registry, idMap)
	addMatchedPair(t, tempView, currentView, switchVID, saimeta.ObjectTypeSwitch, ident.RID(1), nil)
	addMatchedPair(t, tempView, currentView, portVID, saimeta.ObjectTypePort, ident.RID(2), nil)

	defaultVID, err := ident.EncodeVID(0, saimeta.ObjectTypeHostifTrapGroup, 1)
	require.NoError(t, err)
	require.NoError(t, idMap.Bind(context.Background(), defaultVID, ident.RID(77)))
	require.NoError(t, currentView.AddObject(&asicview.Object{
		ObjectType: saimeta.ObjectTypeHostifTrapGroup, VID: defaultVID, RID: ident.RID(77),
		NonRemovable: true,
		Attrs:        map[saimeta.AttrID]asicview.Attr{},
	}))

	_, applied, err := engine.Reconcile(context.Background(), tempView, currentView)
	require.NoError(t, err)
	assert.Equal(t, 0, applied.Removed)
	assert.Equal(t, 0, driver.removes)
}

func TestReconcile_PreconditionFailsWithoutSwitch(t *testing.T) {
	registry := saimeta.Builtin()
	driver := newFakeDriver()
	engine, _ := newEngine(registry, driver)

	tempView := asicview.NewView(registry)
	currentView := asicview.NewView(registry)

	_, _, err := engine.Reconcile(context.Background(), tempView, currentView)
	require.Error(t, err)
}
