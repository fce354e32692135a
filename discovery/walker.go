// Package discovery enumerates every object a driver materialized on its
// own (switch-create defaults, ports, the objects they reference) by
// walking outward from the switch RID, assigning each a fresh VID.
package discovery

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/sonic-net/sairedis-go/ident"
	"github.com/sonic-net/sairedis-go/saidriver"
	"github.com/sonic-net/sairedis-go/saimeta"
	"github.com/sonic-net/sairedis-go/saiser"
)

// maxOIDListLen bounds how many elements a single OID-list GET is allowed
// to return. Chosen so that no attribute in the supported vendor set
// overflows it; a driver that returns more is logged and the attribute is
// skipped rather than failing discovery outright.
const maxOIDListLen = 1024

// SkipEntry names one (object type, attribute) pair discovery must not
// follow — vendor-specific attributes known to crash or to be redundant
// (e.g. a bridge port's reference back to its containing port). Data, not
// code: callers extend the default skip list by appending entries.
type SkipEntry struct {
	ObjectType saimeta.ObjectType
	AttrID     saimeta.AttrID
}

// DiscoveredObject is one RID discovery found reachable from the switch,
// tagged with the freshly minted VID and the OID-bearing attribute values
// observed while walking it (spec.md §4.3's "record default-value").
type DiscoveredObject struct {
	RID        ident.RID
	VID        ident.VID
	ObjectType saimeta.ObjectType
	OIDAttrs   map[saimeta.AttrID]saiser.Value
}

// Walker performs the depth-first, memoized discovery walk.
type Walker struct {
	driver   saidriver.Driver
	registry *saimeta.Registry
	creator  *ident.Creator
	skip     map[SkipEntry]struct{}
	log      logrus.FieldLogger
}

// NewWalker returns a Walker that mints VIDs for objects it discovers
// through creator and consults registry for attribute metadata.
func NewWalker(driver saidriver.Driver, registry *saimeta.Registry, creator *ident.Creator, skipList []SkipEntry, log logrus.FieldLogger) *Walker {
	if log == nil {
		log = logrus.StandardLogger()
	}
	skip := make(map[SkipEntry]struct{}, len(skipList))
	for _, e := range skipList {
		skip[e] = struct{}{}
	}
	return &Walker{driver: driver, registry: registry, creator: creator, skip: skip, log: log}
}

// stackEntry is a pending RID awaiting its DFS visit. The discovery walk
// never needs to resume a partially-visited node mid-attribute-scan, so a
// RID is all the state the stack carries.
type stackEntry struct {
	rid ident.RID
}

// Discover walks every RID reachable from root, returning one
// DiscoveredObject per distinct RID visited (root included), in discovery
// order.
func (w *Walker) Discover(ctx context.Context, root ident.RID) ([]DiscoveredObject, error) {
	seen := make(map[ident.RID]struct{})
	var out []DiscoveredObject

	stack := []stackEntry{{rid: root}}
	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		rid := entry.rid
		if rid == ident.NullRID {
			continue
		}
		if _, visited := seen[rid]; visited {
			continue
		}
		seen[rid] = struct{}{}

		ot, err := w.driver.ObjectTypeOf(ctx, rid)
		if err != nil {
			return nil, err
		}

		vid, err := w.creator.CreateVID(ot)
		if err != nil {
			return nil, err
		}

		oidAttrs, children, err := w.visitAttributes(ctx, ot, rid)
		if err != nil {
			return nil, err
		}

		out = append(out, DiscoveredObject{RID: rid, VID: vid, ObjectType: ot, OIDAttrs: oidAttrs})

		for _, child := range children {
			stack = append(stack, stackEntry{rid: child})
		}
	}
	return out, nil
}

// visitAttributes fetches the OID and OID-list attributes of rid that
// discovery must follow, skipping const-default, empty-list-default, and
// explicitly skip-listed attributes; read-only attributes are followed.
func (w *Walker) visitAttributes(ctx context.Context, ot saimeta.ObjectType, rid ident.RID) (map[saimeta.AttrID]saiser.Value, []ident.RID, error) {
	meta, err := w.registry.ObjectMeta(ot)
	if err != nil {
		// An object type the registry has no table for can still be
		// discovered (it gets a VID) but has nothing further to walk.
		return nil, nil, nil
	}

	oidAttrs := make(map[saimeta.AttrID]saiser.Value)
	var children []ident.RID

	for id, am := range meta.Attrs {
		if !am.Kind.IsOIDBearing() {
			continue
		}
		if am.Default == saimeta.DefaultEmptyList || am.Default == saimeta.DefaultConst {
			continue
		}
		if _, skipped := w.skip[SkipEntry{ObjectType: ot, AttrID: id}]; skipped {
			continue
		}

		val, err := w.driver.GetAttribute(ctx, ot, rid, nil, id)
		if err != nil {
			return nil, nil, err
		}
		oidAttrs[id] = val

		switch am.Kind {
		case saimeta.KindOID:
			// A raw GetAttribute against the driver for an OID-valued
			// attribute yields the referenced object's own RID; it is
			// carried here in Value's OID field (bit-identical uint64
			// representation) since discovery runs before that RID has a
			// VID of its own to report instead.
			if rid := ident.RID(val.OID); rid != ident.NullRID {
				children = append(children, rid)
			}
		case saimeta.KindOIDList:
			if len(val.OIDList) > maxOIDListLen {
				w.log.WithFields(logrus.Fields{"object_type": saimeta.Name(ot), "attr": string(id), "count": len(val.OIDList)}).
					Warn("discovery: OID list exceeds bounded buffer, skipping")
				continue
			}
			for _, vid := range val.OIDList {
				if rid := ident.RID(vid); rid != ident.NullRID {
					children = append(children, rid)
				}
			}
		}
	}
	return oidAttrs, children, nil
}
