// Package vswitch is an in-process, in-memory saidriver.Driver used by
// tests: creating a switch object synthesizes the defaults a real ASIC
// would (cpu port, default virtual router, default trap group, default
// VLAN, a handful of front-panel ports with their queues) so discovery and
// reconciliation can be exercised without real hardware.
package vswitch

import (
	"context"
	"sync"

	"github.com/sonic-net/sairedis-go/ident"
	"github.com/sonic-net/sairedis-go/saidriver"
	"github.com/sonic-net/sairedis-go/saierr"
	"github.com/sonic-net/sairedis-go/saimeta"
	"github.com/sonic-net/sairedis-go/saiser"
)

// Defaults names the RIDs a switch-create synthesizes, mirroring the HIDDEN
// hash's role of indexing discovered defaults by name.
type Defaults struct {
	CPUPort         ident.RID
	VirtualRouter   ident.RID
	HostifTrapGroup ident.RID
	Vlan            ident.RID
	Ports           []ident.RID
}

type object struct {
	objectType saimeta.ObjectType
	attrs      map[saimeta.AttrID]saiser.Value
}

// VirtualSwitch is the in-memory driver. PortCount controls how many
// front-panel ports a switch-create synthesizes (default 4 if zero).
type VirtualSwitch struct {
	mu        sync.Mutex
	nextRID   ident.RID
	objects   map[ident.RID]*object
	PortCount int
	defaults  Defaults
}

// New returns an empty virtual switch driver.
func New() *VirtualSwitch {
	return &VirtualSwitch{objects: make(map[ident.RID]*object), PortCount: 4}
}

// Defaults returns the RIDs synthesized by the last switch-create.
func (v *VirtualSwitch) Defaults() Defaults { return v.defaults }

func (v *VirtualSwitch) allocRID() ident.RID {
	v.nextRID++
	return v.nextRID
}

func (v *VirtualSwitch) createLocked(ot saimeta.ObjectType, attrs map[saimeta.AttrID]saiser.Value) ident.RID {
	rid := v.allocRID()
	cp := make(map[saimeta.AttrID]saiser.Value, len(attrs))
	for k, val := range attrs {
		cp[k] = val
	}
	v.objects[rid] = &object{objectType: ot, attrs: cp}
	return rid
}

// CreateObject creates ot with attrs. Creating a SWITCH additionally
// synthesizes its default objects the way a vendor driver would on
// switch-create.
func (v *VirtualSwitch) CreateObject(_ context.Context, ot saimeta.ObjectType, attrs []saidriver.AttrValue) (ident.RID, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	attrMap := make(map[saimeta.AttrID]saiser.Value, len(attrs))
	for _, a := range attrs {
		attrMap[a.ID] = a.Value
	}

	rid := v.createLocked(ot, attrMap)

	if ot == saimeta.ObjectTypeSwitch {
		v.synthesizeDefaults(rid)
	}
	return rid, nil
}

func (v *VirtualSwitch) synthesizeDefaults(switchRID ident.RID) {
	portCount := v.PortCount
	if portCount <= 0 {
		portCount = 4
	}

	cpuPort := v.createLocked(saimeta.ObjectTypePort, map[saimeta.AttrID]saiser.Value{
		saimeta.AttrPortHwLaneList: {Kind: saimeta.KindUint32List, UintList: []uint64{0}},
	})
	vr := v.createLocked(saimeta.ObjectTypeVirtualRouter, map[saimeta.AttrID]saiser.Value{
		saimeta.AttrVirtualRouterAdminV4State: {Kind: saimeta.KindBool, Bool: true},
	})
	trapGroup := v.createLocked(saimeta.ObjectTypeHostifTrapGroup, map[saimeta.AttrID]saiser.Value{
		saimeta.AttrHostifTrapGroupPriority: {Kind: saimeta.KindUint32, Uint: 0},
	})
	vlan := v.createLocked(saimeta.ObjectTypeVlan, map[saimeta.AttrID]saiser.Value{})

	ports := make([]ident.RID, 0, portCount)
	for i := 0; i < portCount; i++ {
		port := v.createLocked(saimeta.ObjectTypePort, map[saimeta.AttrID]saiser.Value{
			saimeta.AttrPortHwLaneList: {Kind: saimeta.KindUint32List, UintList: []uint64{uint64(i + 1)}},
			saimeta.AttrPortSpeed:      {Kind: saimeta.KindUint32, Uint: 100000},
		})
		var queues []uint64
		for q := 0; q < 2; q++ {
			qRID := v.createLocked(saimeta.ObjectTypeQueue, map[saimeta.AttrID]saiser.Value{
				saimeta.AttrQueueIndex: {Kind: saimeta.KindUint8, Uint: uint64(q)},
				saimeta.AttrQueuePort:  {Kind: saimeta.KindOID, OID: ident.VID(port)},
			})
			queues = append(queues, uint64(qRID))
		}
		v.objects[port].attrs[saimeta.AttrPortQosQueueList] = saiser.Value{Kind: saimeta.KindOIDList, OIDList: ridsToVIDs(queues)}
		ports = append(ports, port)
	}

	sw := v.objects[switchRID]
	sw.attrs[saimeta.AttrSwitchDefaultVlanID] = saiser.Value{Kind: saimeta.KindOID, OID: ident.VID(vlan)}
	sw.attrs[saimeta.AttrSwitchPortNumber] = saiser.Value{Kind: saimeta.KindUint32, Uint: uint64(len(ports))}

	v.defaults = Defaults{CPUPort: cpuPort, VirtualRouter: vr, HostifTrapGroup: trapGroup, Vlan: vlan, Ports: ports}
}

func ridsToVIDs(rids []uint64) []ident.VID {
	out := make([]ident.VID, len(rids))
	for i, r := range rids {
		out[i] = ident.VID(r)
	}
	return out
}

// RemoveObject deletes the object identified by rid.
func (v *VirtualSwitch) RemoveObject(_ context.Context, _ saimeta.ObjectType, rid ident.RID, _ []saidriver.AttrValue) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.objects[rid]; !ok {
		return saierr.New(saierr.KindNotFound, "vswitch: remove of unknown object")
	}
	delete(v.objects, rid)
	return nil
}

// SetAttribute updates one attribute on an existing object.
func (v *VirtualSwitch) SetAttribute(_ context.Context, _ saimeta.ObjectType, rid ident.RID, _ []saidriver.AttrValue, attr saidriver.AttrValue) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	obj, ok := v.objects[rid]
	if !ok {
		return saierr.New(saierr.KindNotFound, "vswitch: set on unknown object")
	}
	obj.attrs[attr.ID] = attr.Value
	return nil
}

// GetAttribute reads one attribute's current value.
func (v *VirtualSwitch) GetAttribute(_ context.Context, _ saimeta.ObjectType, rid ident.RID, _ []saidriver.AttrValue, id saimeta.AttrID) (saiser.Value, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	obj, ok := v.objects[rid]
	if !ok {
		return saiser.Value{}, saierr.New(saierr.KindNotFound, "vswitch: get on unknown object")
	}
	val, ok := obj.attrs[id]
	if !ok {
		return saiser.Value{}, saierr.New(saierr.KindNotFound, "vswitch: attribute not set")
	}
	return val, nil
}

// ObjectTypeOf reports the object type of an already-materialized RID.
func (v *VirtualSwitch) ObjectTypeOf(_ context.Context, rid ident.RID) (saimeta.ObjectType, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	obj, ok := v.objects[rid]
	if !ok {
		return 0, saierr.New(saierr.KindNotFound, "vswitch: unknown RID")
	}
	return obj.objectType, nil
}
