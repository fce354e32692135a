package ident

// Creator mints fresh VIDs for a single switch, tagging each with the
// switch's index and the requested object type.
type Creator struct {
	switchIndex uint8
	counters    *Counters
}

// NewCreator returns a Creator that mints VIDs for the given switch index.
func NewCreator(switchIndex uint8, counters *Counters) *Creator {
	return &Creator{switchIndex: switchIndex, counters: counters}
}

// CreateVID returns a fresh VID tagged with the creator's switch and the
// given object type. The per-type counter is monotonic and never reused
// within the process lifetime (spec.md §4.1).
func (c *Creator) CreateVID(ot ObjectType) (VID, error) {
	n, err := c.counters.Next(ot)
	if err != nil {
		return NullVID, err
	}
	return EncodeVID(c.switchIndex, ot, n)
}

// ColdVIDs is the set of VIDs present when the system first enumerated the
// driver. Members are non-removable (spec.md §3 invariant 8, §4.3).
type ColdVIDs struct {
	set map[VID]struct{}
}

// NewColdVIDs returns an empty cold-boot VID set.
func NewColdVIDs() *ColdVIDs {
	return &ColdVIDs{set: make(map[VID]struct{})}
}

// NewColdVIDsFrom snapshots an existing collection of VIDs, e.g. loaded
// from the COLDVIDS hash (spec.md §6.2).
func NewColdVIDsFrom(vids []VID) *ColdVIDs {
	c := NewColdVIDs()
	for _, v := range vids {
		c.Add(v)
	}
	return c
}

// Add marks v as a cold-boot (non-removable) VID.
func (c *ColdVIDs) Add(v VID) { c.set[v] = struct{}{} }

// Contains reports whether v was present at cold boot.
func (c *ColdVIDs) Contains(v VID) bool {
	_, ok := c.set[v]
	return ok
}

// Slice returns the cold-boot VIDs in unspecified order, for persistence.
func (c *ColdVIDs) Slice() []VID {
	out := make([]VID, 0, len(c.set))
	for v := range c.set {
		out = append(out, v)
	}
	return out
}

// Len returns the number of cold-boot VIDs.
func (c *ColdVIDs) Len() int { return len(c.set) }
