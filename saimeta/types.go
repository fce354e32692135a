// Package saimeta is the metadata module: for every SAI object type and
// attribute it records the value kind, the mutability flags, the
// default-value policy, and — for OID-valued attributes — the set of object
// types the referenced VID is allowed to belong to.
//
// The reconciliation core (asicview, match, reconcile, discovery) treats
// this package the way spec.md §1 treats it: an external collaborator
// consulted for "what kind of value is this", "can this be SET",
// "what is the default", and "what can this OID point at" — never for
// storage or identity, which live in ident/asicview.
package saimeta

import "github.com/sonic-net/sairedis-go/ident"

// ObjectType re-exports ident.ObjectType so callers of saimeta don't need a
// second import for the same closed enum.
type ObjectType = ident.ObjectType

// AttrID names an attribute, e.g. "SAI_PORT_ATTR_SPEED". Kept as a string
// rather than a dense int enum because the transport record grammar
// (spec.md §6.1) carries attribute ids as symbolic names on the wire, and
// the metadata registry is keyed the same way the wire format is.
type AttrID string

// ValueKind is the closed attribute-value variant of spec.md §3.
type ValueKind int

const (
	KindBool ValueKind = iota
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindInt8
	KindInt16
	KindInt32
	KindCharBlock
	KindMAC
	KindIPv4
	KindIPv6
	KindIPPrefix
	KindUint8List
	KindUint16List
	KindUint32List
	KindInt32List
	KindOID
	KindOIDList
	KindACLField
	KindACLAction
	KindQosMapList
	KindTunnelMapList
	KindVlanList
	KindPointer
)

// IsOIDBearing reports whether a value of this kind can carry one or more
// VIDs that discovery/matching must resolve through the VID<->RID map.
func (k ValueKind) IsOIDBearing() bool {
	switch k {
	case KindOID, KindOIDList, KindACLField, KindACLAction:
		return true
	default:
		return false
	}
}

// Flag is a bitmask of the mutability/creation flags spec.md §3 assigns to
// an attribute.
type Flag uint8

const (
	// FlagCreateOnly means the attribute can be supplied at create time but
	// never updated afterwards; a difference forces remove+create.
	FlagCreateOnly Flag = 1 << iota
	// FlagCreateAndSet means the attribute may be supplied at create time
	// and updated afterwards via SET.
	FlagCreateAndSet
	// FlagReadOnly means the attribute is never supplied by the caller and
	// never appears in a diff; it is refreshed on demand during GET.
	FlagReadOnly
	// FlagKey means the attribute is (part of) the object's structured key;
	// it cannot be updated, and a difference forces remove+create.
	FlagKey
	// FlagMandatoryOnCreate means the attribute must be present on CREATE.
	FlagMandatoryOnCreate
)

func (f Flag) Has(bit Flag) bool { return f&bit != 0 }

// DefaultPolicy describes what happens to an attribute absent from the
// temporary view but present on the matched current-view object.
type DefaultPolicy int

const (
	// DefaultNone means the attribute has no concrete default; if it must
	// be reconciled away, the object has to be removed and recreated.
	DefaultNone DefaultPolicy = iota
	// DefaultConst means the attribute resets to a fixed, known value.
	DefaultConst
	// DefaultEmptyList means the attribute resets to an empty list/NULL.
	DefaultEmptyList
	// DefaultVendor means the default is driver-specific and not modeled;
	// treated the same as DefaultNone by the diff engine.
	DefaultVendor
)

// AttrMeta is one attribute's metadata entry.
type AttrMeta struct {
	ID      AttrID
	Kind    ValueKind
	Flags   Flag
	Default DefaultPolicy
	// AllowedObjectTypes lists the object types a referenced VID may belong
	// to, for KindOID/KindOIDList/KindACLField/KindACLAction attributes.
	// Empty for attributes that don't carry OIDs.
	AllowedObjectTypes []ObjectType
}
