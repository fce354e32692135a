package asicview

import (
	"github.com/sonic-net/sairedis-go/ident"
	"github.com/sonic-net/sairedis-go/saimeta"
	"github.com/sonic-net/sairedis-go/saiser"
)

// Status is an object's place in the reconciliation state machine
// (spec.md §3 Lifecycle). Transitions are monotonic except that
// MATCHED -> FINAL is the normal terminal and NOT_PROCESSED -> REMOVED is
// used for current-view objects with no temporary-view counterpart.
type Status int

const (
	StatusNotProcessed Status = iota
	StatusMatched
	StatusFinal
	StatusRemoved
)

func (s Status) String() string {
	switch s {
	case StatusNotProcessed:
		return "NOT_PROCESSED"
	case StatusMatched:
		return "MATCHED"
	case StatusFinal:
		return "FINAL"
	case StatusRemoved:
		return "REMOVED"
	default:
		return "UNKNOWN"
	}
}

// Attr pairs a typed value with the serialized text it was read from (or
// would serialize to), so equality comparisons during matching/diffing
// (spec.md §4.4) can compare text without re-serializing typed values.
type Attr struct {
	Value      saiser.Value
	Serialized string
}

// Object is a single ASIC object inside a View: either OID-identified (VID
// set, Key nil) or structured-key-identified (Key set, VID is NullVID).
type Object struct {
	ObjectType saimeta.ObjectType
	VID        ident.VID
	Key        *StructuredKey
	Attrs      map[saimeta.AttrID]Attr
	Status     Status

	// RID is only meaningful on the current-view side, once the object has
	// been created or matched against a driver-resident object.
	RID ident.RID

	// NonRemovable marks a discovered default (spec.md §3 invariant 8):
	// a diff may update its settable attributes but must never emit
	// REMOVE for it.
	NonRemovable bool
}

// IsOID reports whether the object is VID-identified rather than
// structured-key-identified.
func (o *Object) IsOID() bool { return o.Key == nil }

// SerializedID renders the object's identity the way spec.md §6.1's record
// key does: "oid:0x..." for OID objects, the canonical structured form
// otherwise.
func (o *Object) SerializedID() string {
	if o.IsOID() {
		return o.VID.String()
	}
	return o.Key.Canonical()
}

// Attr looks up one attribute by id.
func (o *Object) Attr(id saimeta.AttrID) (Attr, bool) {
	a, ok := o.Attrs[id]
	return a, ok
}
