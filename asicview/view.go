package asicview

import (
	"github.com/sonic-net/sairedis-go/ident"
	"github.com/sonic-net/sairedis-go/saierr"
	"github.com/sonic-net/sairedis-go/saimeta"
	"github.com/sonic-net/sairedis-go/saiser"
)

// RawRecord is one ingested (typed-key, attributes) tuple, already
// separated into an OID or structured-key identity plus its raw,
// still-serialized attribute fields. transport/store packages translate
// the wire/KV-store record shape into this before handing it to
// LoadFromStream; asicview itself never parses record text.
type RawRecord struct {
	ObjectType saimeta.ObjectType
	VID        ident.VID
	Key        *StructuredKey
	Fields     map[saimeta.AttrID]string
}

// View is the typed, indexed object graph spec.md §4.2 describes: either
// role (current or temporary) is the same type, following the teacher's
// pattern of letting a single registry hive play source or target role
// around its merge engine.
type View struct {
	registry *saimeta.Registry

	byType      map[saimeta.ObjectType][]*Object
	bySerialID  Index
	byVID       *vidIndex
	byStructKey map[saimeta.ObjectType]Index
}

// NewView returns an empty view that deserializes attribute values through
// the given metadata registry.
func NewView(registry *saimeta.Registry) *View {
	return &View{
		registry:    registry,
		byType:      make(map[saimeta.ObjectType][]*Object),
		bySerialID:  newMapIndex(),
		byVID:       newVIDIndex(),
		byStructKey: make(map[saimeta.ObjectType]Index),
	}
}

// AddObject inserts a freshly constructed object, enforcing invariant 5
// (unique structured key per object type per view) and the serialized-id
// uniqueness that backs it for OID objects too.
func (v *View) AddObject(o *Object) error {
	id := o.SerializedID()
	if _, exists := v.bySerialID.Get(id); exists {
		return saierr.New(saierr.KindItemExists, "asicview: duplicate object "+id)
	}

	v.byType[o.ObjectType] = append(v.byType[o.ObjectType], o)
	v.bySerialID.Put(id, o)

	if o.IsOID() {
		v.byVID.put(uint64(o.VID), o)
	} else {
		idx, ok := v.byStructKey[o.ObjectType]
		if !ok {
			idx = newMapIndex()
			v.byStructKey[o.ObjectType] = idx
		}
		idx.Put(o.Key.Canonical(), o)
	}
	return nil
}

// RemoveObject drops o from every index. Used when reconcile emits REMOVE.
func (v *View) RemoveObject(o *Object) {
	id := o.SerializedID()
	v.bySerialID.Delete(id)
	if o.IsOID() {
		v.byVID.delete(uint64(o.VID))
	} else if idx, ok := v.byStructKey[o.ObjectType]; ok {
		idx.Delete(o.Key.Canonical())
	}
	list := v.byType[o.ObjectType]
	for i, cand := range list {
		if cand == o {
			v.byType[o.ObjectType] = append(list[:i], list[i+1:]...)
			break
		}
	}
}

// ObjectsOfType returns every object of the given type, in insertion order.
func (v *View) ObjectsOfType(ot saimeta.ObjectType) []*Object {
	return append([]*Object(nil), v.byType[ot]...)
}

// UnprocessedOfType returns objects of the given type still in
// NOT_PROCESSED, in insertion order.
func (v *View) UnprocessedOfType(ot saimeta.ObjectType) []*Object {
	var out []*Object
	for _, o := range v.byType[ot] {
		if o.Status == StatusNotProcessed {
			out = append(out, o)
		}
	}
	return out
}

// FindByStructuredKey looks up a non-OID object by its key tuple.
func (v *View) FindByStructuredKey(ot saimeta.ObjectType, key StructuredKey) (*Object, bool) {
	idx, ok := v.byStructKey[ot]
	if !ok {
		return nil, false
	}
	return idx.Get(key.Canonical())
}

// FindByVID looks up an OID object by VID.
func (v *View) FindByVID(vid ident.VID) (*Object, bool) {
	return v.byVID.get(uint64(vid))
}

// FindBySerializedID looks up any object by its canonical serialized id.
func (v *View) FindBySerializedID(id string) (*Object, bool) {
	return v.bySerialID.Get(id)
}

// Len returns the total object count across all types.
func (v *View) Len() int { return v.bySerialID.Len() }

// Types returns every object type with at least one live object, in
// unspecified order.
func (v *View) Types() []saimeta.ObjectType {
	out := make([]saimeta.ObjectType, 0, len(v.byType))
	for ot, objs := range v.byType {
		if len(objs) > 0 {
			out = append(out, ot)
		}
	}
	return out
}

// LoadFromStream ingests a batch of raw records, deserializing each
// attribute through the metadata registry and inserting the resulting
// object (spec.md §4.2's load_from_stream).
func (v *View) LoadFromStream(records []RawRecord) error {
	for _, rec := range records {
		obj := &Object{
			ObjectType: rec.ObjectType,
			VID:        rec.VID,
			Key:        rec.Key,
			Attrs:      make(map[saimeta.AttrID]Attr, len(rec.Fields)),
			Status:     StatusNotProcessed,
		}
		for attrID, raw := range rec.Fields {
			meta, err := v.registry.AttrMeta(rec.ObjectType, attrID)
			if err != nil {
				return err
			}
			val, err := saiser.Deserialize(meta.Kind, raw)
			if err != nil {
				return err
			}
			obj.Attrs[attrID] = Attr{Value: val, Serialized: raw}
		}
		if err := v.AddObject(obj); err != nil {
			return err
		}
	}
	return nil
}
