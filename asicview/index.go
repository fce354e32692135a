package asicview

// Index is the lookup-table shape shared by every index a View maintains:
// a keyed map from a string key to the object it names, one entry per
// live object. Separate small implementations per key domain (rather than
// a single generic map type) keep each index's key derivation next to its
// storage, mirroring how the corpus keeps distinct index flavors
// (string/unique/numeric) as distinct small types instead of one
// parametrized container.
type Index interface {
	Get(key string) (*Object, bool)
	Put(key string, o *Object)
	Delete(key string)
	Len() int
}

// mapIndex is the map-backed Index implementation used for the
// canonical-serialized-id index and the per-object-type structured-key
// indexes.
type mapIndex struct {
	entries map[string]*Object
}

func newMapIndex() *mapIndex {
	return &mapIndex{entries: make(map[string]*Object)}
}

func (m *mapIndex) Get(key string) (*Object, bool) {
	o, ok := m.entries[key]
	return o, ok
}

func (m *mapIndex) Put(key string, o *Object) { m.entries[key] = o }
func (m *mapIndex) Delete(key string)         { delete(m.entries, key) }
func (m *mapIndex) Len() int                  { return len(m.entries) }

// vidIndex is the numeric-keyed index over OID objects, keyed directly by
// VID rather than its string form.
type vidIndex struct {
	entries map[uint64]*Object
}

func newVIDIndex() *vidIndex {
	return &vidIndex{entries: make(map[uint64]*Object)}
}

func (v *vidIndex) get(key uint64) (*Object, bool) {
	o, ok := v.entries[key]
	return o, ok
}

func (v *vidIndex) put(key uint64, o *Object) { v.entries[key] = o }
func (v *vidIndex) delete(key uint64)         { delete(v.entries, key) }
func (v *vidIndex) len() int                  { return len(v.entries) }
