package discovery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonic-net/sairedis-go/ident"
	"github.com/sonic-net/sairedis-go/saidriver"
	"github.com/sonic-net/sairedis-go/saimeta"
	"github.com/sonic-net/sairedis-go/saiser"
)

// fakeDriver is a minimal in-memory saidriver.Driver stand-in, mirroring
// the corpus's in-package-fake-over-mock convention.
type fakeDriver struct {
	types map[ident.RID]saimeta.ObjectType
	attrs map[ident.RID]map[saimeta.AttrID]saiser.Value
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		types: make(map[ident.RID]saimeta.ObjectType),
		attrs: make(map[ident.RID]map[saimeta.AttrID]saiser.Value),
	}
}

func (f *fakeDriver) addObject(rid ident.RID, ot saimeta.ObjectType, attrs map[saimeta.AttrID]saiser.Value) {
	f.types[rid] = ot
	f.attrs[rid] = attrs
}

func (f *fakeDriver) CreateObject(context.Context, saimeta.ObjectType, []saidriver.AttrValue) (ident.RID, error) {
	return ident.NullRID, nil
}
func (f *fakeDriver) RemoveObject(context.Context, saimeta.ObjectType, ident.RID, []saidriver.AttrValue) error {
	return nil
}
func (f *fakeDriver) SetAttribute(context.Context, saimeta.ObjectType, ident.RID, []saidriver.AttrValue, saidriver.AttrValue) error {
	return nil
}

func (f *fakeDriver) GetAttribute(_ context.Context, _ saimeta.ObjectType, rid ident.RID, _ []saidriver.AttrValue, id saimeta.AttrID) (saiser.Value, error) {
	return f.attrs[rid][id], nil
}

func (f *fakeDriver) ObjectTypeOf(_ context.Context, rid ident.RID) (saimeta.ObjectType, error) {
	return f.types[rid], nil
}

func TestWalker_Discover_WalksVlanThroughSwitch(t *testing.T) {
	driver := newFakeDriver()
	const (
		switchRID ident.RID = 1
		portRID   ident.RID = 2
		vlanRID   ident.RID = 3
	)
	driver.addObject(switchRID, saimeta.ObjectTypeSwitch, map[saimeta.AttrID]saiser.Value{
		saimeta.AttrSwitchDefaultVlanID: {Kind: saimeta.KindOID, OID: ident.VID(vlanRID)},
	})
	driver.addObject(portRID, saimeta.ObjectTypePort, map[saimeta.AttrID]saiser.Value{
		saimeta.AttrPortQosQueueList: {Kind: saimeta.KindOIDList, OIDList: nil},
	})
	driver.addObject(vlanRID, saimeta.ObjectTypeVlan, map[saimeta.AttrID]saiser.Value{})

	registry := saimeta.Builtin()
	creator := ident.NewCreator(0, ident.NewCounters())
	w := NewWalker(driver, registry, creator, nil, nil)

	found, err := w.Discover(context.Background(), switchRID)
	require.NoError(t, err)

	rids := make(map[ident.RID]saimeta.ObjectType)
	for _, d := range found {
		rids[d.RID] = d.ObjectType
	}
	assert.Equal(t, saimeta.ObjectTypeSwitch, rids[switchRID])
	assert.Equal(t, saimeta.ObjectTypeVlan, rids[vlanRID])
	assert.NotEqual(t, ident.NullVID, mustVID(found, switchRID))
}

func TestWalker_Discover_IsMemoized(t *testing.T) {
	driver := newFakeDriver()
	const root ident.RID = 1
	driver.addObject(root, saimeta.ObjectTypeSwitch, map[saimeta.AttrID]saiser.Value{
		// self-referencing default vlan id to exercise the visited set
		saimeta.AttrSwitchDefaultVlanID: {Kind: saimeta.KindOID, OID: ident.VID(root)},
	})

	registry := saimeta.Builtin()
	creator := ident.NewCreator(0, ident.NewCounters())
	w := NewWalker(driver, registry, creator, nil, nil)

	found, err := w.Discover(context.Background(), root)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestWalker_Discover_SkipListPreventsFollow(t *testing.T) {
	driver := newFakeDriver()
	const (
		switchRID ident.RID = 1
		vlanRID   ident.RID = 2
	)
	driver.addObject(switchRID, saimeta.ObjectTypeSwitch, map[saimeta.AttrID]saiser.Value{
		saimeta.AttrSwitchDefaultVlanID: {Kind: saimeta.KindOID, OID: ident.VID(vlanRID)},
	})
	driver.addObject(vlanRID, saimeta.ObjectTypeVlan, map[saimeta.AttrID]saiser.Value{})

	registry := saimeta.Builtin()
	creator := ident.NewCreator(0, ident.NewCounters())
	skip := []SkipEntry{{ObjectType: saimeta.ObjectTypeSwitch, AttrID: saimeta.AttrSwitchDefaultVlanID}}
	w := NewWalker(driver, registry, creator, skip, nil)

	found, err := w.Discover(context.Background(), switchRID)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func mustVID(found []DiscoveredObject, rid ident.RID) ident.VID {
	for _, d := range found {
		if d.RID == rid {
			return d.VID
		}
	}
	return ident.NullVID
}
