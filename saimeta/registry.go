package saimeta

import "github.com/sonic-net/sairedis-go/saierr"

// RefreshFunc recomputes a read-only attribute's current value. saimeta
// declares only the type: no AttrMeta or ObjectMeta field holds one, and the
// registry records no refresh functions.
type RefreshFunc func() (interface{}, error)

// ObjectMeta is one object type's full attribute table plus whether the
// object type is OID-identified (as opposed to structured-key-identified,
// spec.md §3).
type ObjectMeta struct {
	ObjectType ObjectType
	IsOID      bool
	Attrs      map[AttrID]AttrMeta
}

// Registry is the closed, read-only metadata table the rest of the module
// consults. Builtin() populates it once at process start; Register, which
// adds or replaces one object type's entry, is its only mutation method.
type Registry struct {
	objects map[ObjectType]*ObjectMeta
}

// NewRegistry builds an empty registry; use Builtin() for the populated one.
func NewRegistry() *Registry {
	return &Registry{objects: make(map[ObjectType]*ObjectMeta)}
}

// Register adds or replaces an object type's metadata.
func (r *Registry) Register(m *ObjectMeta) {
	r.objects[m.ObjectType] = m
}

// ObjectMeta returns the metadata for an object type.
func (r *Registry) ObjectMeta(ot ObjectType) (*ObjectMeta, error) {
	m, ok := r.objects[ot]
	if !ok {
		return nil, saierr.New(saierr.KindNotSupported, "saimeta: unknown object type")
	}
	return m, nil
}

// Registered returns every object type with metadata in the registry, in
// unspecified order. Used by callers that must enumerate all known types
// (e.g. dumping persisted state) rather than look one up.
func (r *Registry) Registered() []ObjectType {
	out := make([]ObjectType, 0, len(r.objects))
	for ot := range r.objects {
		out = append(out, ot)
	}
	return out
}

// IsOIDObjectType reports whether ot is identified by VID rather than a
// structured key.
func (r *Registry) IsOIDObjectType(ot ObjectType) bool {
	m, ok := r.objects[ot]
	return ok && m.IsOID
}

// AttrMeta returns one attribute's metadata.
func (r *Registry) AttrMeta(ot ObjectType, id AttrID) (AttrMeta, error) {
	m, err := r.ObjectMeta(ot)
	if err != nil {
		return AttrMeta{}, err
	}
	am, ok := m.Attrs[id]
	if !ok {
		return AttrMeta{}, saierr.New(saierr.KindNotSupported, "saimeta: unknown attribute "+string(id))
	}
	return am, nil
}

// AllowedObjectTypes returns the object types a VID held by this attribute
// may belong to.
func (r *Registry) AllowedObjectTypes(ot ObjectType, id AttrID) ([]ObjectType, error) {
	am, err := r.AttrMeta(ot, id)
	if err != nil {
		return nil, err
	}
	return am.AllowedObjectTypes, nil
}

// KeyAttrs returns the attribute ids that form ot's structured key, in a
// stable (insertion-independent, sorted by name) order.
func (r *Registry) KeyAttrs(ot ObjectType) []AttrID {
	m, ok := r.objects[ot]
	if !ok {
		return nil
	}
	var out []AttrID
	for id, am := range m.Attrs {
		if am.Flags.Has(FlagKey) {
			out = append(out, id)
		}
	}
	sortAttrIDs(out)
	return out
}

// MandatoryOnCreate returns the attribute ids ot requires at create time.
func (r *Registry) MandatoryOnCreate(ot ObjectType) []AttrID {
	m, ok := r.objects[ot]
	if !ok {
		return nil
	}
	var out []AttrID
	for id, am := range m.Attrs {
		if am.Flags.Has(FlagMandatoryOnCreate) {
			out = append(out, id)
		}
	}
	sortAttrIDs(out)
	return out
}

func sortAttrIDs(ids []AttrID) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}
