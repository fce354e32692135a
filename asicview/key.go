package asicview

import (
	"sort"
	"strconv"
	"strings"

	"github.com/sonic-net/sairedis-go/saimeta"
)

// StructuredKey identifies a non-OID object (route, neighbor, FDB entries
// and similar) by a tuple of named fields rather than a VID. Two keys of
// the same object type are equal iff their field maps are equal.
type StructuredKey struct {
	ObjectType saimeta.ObjectType
	Fields     map[string]string
}

// Canonical renders the key as the sorted-field-name JSON-object form
// spec.md §6.1 uses for the serialized-id half of a record key, e.g.
// `{"bv_id":"oid:0x...","mac":"AA:BB:...","switch_id":"oid:0x..."}`.
func (k StructuredKey) Canonical() string {
	names := make([]string, 0, len(k.Fields))
	for n := range k.Fields {
		names = append(names, n)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteByte('{')
	for i, n := range names {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Quote(n))
		sb.WriteByte(':')
		sb.WriteString(strconv.Quote(k.Fields[n]))
	}
	sb.WriteByte('}')
	return sb.String()
}

// Equal reports whether two structured keys name the same object.
func (k StructuredKey) Equal(o StructuredKey) bool {
	if k.ObjectType != o.ObjectType || len(k.Fields) != len(o.Fields) {
		return false
	}
	for name, v := range k.Fields {
		if ov, ok := o.Fields[name]; !ok || ov != v {
			return false
		}
	}
	return true
}
