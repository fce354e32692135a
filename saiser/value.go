// Package saiser is the serialization module: it defines the closed
// attribute-value variant and the text grammar every value round-trips
// through on the transport queue and in the persisted KV store. The
// reconciliation core depends on exactly one property from this package —
// Deserialize(Serialize(x)) reconstructs x — and never inspects the wire
// text itself.
package saiser

import (
	"github.com/sonic-net/sairedis-go/ident"
	"github.com/sonic-net/sairedis-go/saimeta"
)

// Value is the tagged union of every attribute value this module carries.
// A single struct with a Kind tag and kind-gated fields, following the
// corpus's preference for explicit kind tags over interface{} grab-bags for
// serializable data.
type Value struct {
	Kind saimeta.ValueKind

	Bool bool

	// Int holds signed integer kinds (Int8/16/32); Uint holds unsigned
	// integer kinds (Bool excluded) and single-OID-as-uint64 is not used —
	// OIDs live in the OID field below.
	Int  int64
	Uint uint64

	// Bytes holds a char-block's raw payload.
	Bytes []byte

	MAC  [6]byte
	IPv4 [4]byte
	IPv6 [16]byte

	IPPrefixAddr [16]byte
	IPPrefixMask [16]byte
	IPPrefixIsV6 bool

	OID     ident.VID
	OIDList []ident.VID

	UintList []uint64
	IntList  []int64

	// ACLField and ACLAction share the same shape on the wire: an enable
	// flag plus an optional data value and (for fields) an optional mask.
	ACLEnable bool
	ACLData   *Value
	ACLMask   *Value

	// Pointer is opaque: two Values of KindPointer are equal iff their Tag
	// strings are equal. Notification-callback pointers never change
	// identity mid-run, so comparing the registered tag is sufficient and
	// avoids modeling actual function pointers.
	PointerTag string
}

// Equal reports whether two values are the wire-equivalent of each other.
// Used by reconcile to decide whether a SET is needed.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case saimeta.KindBool:
		return v.Bool == o.Bool
	case saimeta.KindUint8, saimeta.KindUint16, saimeta.KindUint32, saimeta.KindUint64:
		return v.Uint == o.Uint
	case saimeta.KindInt8, saimeta.KindInt16, saimeta.KindInt32:
		return v.Int == o.Int
	case saimeta.KindCharBlock:
		return string(v.Bytes) == string(o.Bytes)
	case saimeta.KindMAC:
		return v.MAC == o.MAC
	case saimeta.KindIPv4:
		return v.IPv4 == o.IPv4
	case saimeta.KindIPv6:
		return v.IPv6 == o.IPv6
	case saimeta.KindIPPrefix:
		return v.IPPrefixAddr == o.IPPrefixAddr && v.IPPrefixMask == o.IPPrefixMask && v.IPPrefixIsV6 == o.IPPrefixIsV6
	case saimeta.KindOID:
		return v.OID == o.OID
	case saimeta.KindOIDList:
		return equalVIDSlice(v.OIDList, o.OIDList)
	case saimeta.KindUint8List, saimeta.KindUint16List, saimeta.KindUint32List:
		return equalUint64Slice(v.UintList, o.UintList)
	case saimeta.KindInt32List:
		return equalInt64Slice(v.IntList, o.IntList)
	case saimeta.KindACLField, saimeta.KindACLAction:
		if v.ACLEnable != o.ACLEnable {
			return false
		}
		return equalValuePtr(v.ACLData, o.ACLData) && equalValuePtr(v.ACLMask, o.ACLMask)
	case saimeta.KindPointer:
		return v.PointerTag == o.PointerTag
	default:
		return false
	}
}

func equalVIDSlice(a, b []ident.VID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalUint64Slice(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalInt64Slice(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalValuePtr(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
