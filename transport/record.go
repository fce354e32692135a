// Package transport carries reconciliation requests and ASIC notifications
// between a client and the redirection process as flat field arrays, the
// same wire shape a Redis list entry or pub/sub message takes: no nested
// structure, just a key, an operation, and alternating name/value pairs.
package transport

import (
	"github.com/sonic-net/sairedis-go/saierr"
)

// Operation names the verb a Record carries.
type Operation string

const (
	OpGet          Operation = "get"
	OpCreate       Operation = "create"
	OpRemove       Operation = "remove"
	OpSet          Operation = "set"
	OpBulkCreate   Operation = "bulkcreate"
	OpBulkRemove   Operation = "bulkremove"
	OpBulkSet      Operation = "bulkset"
	OpNotification Operation = "notification"
)

// FieldValue is one already-serialized attribute name/value pair, in the
// wire grammar saiser.Serialize produces.
type FieldValue struct {
	Name  string
	Value string
}

// Record is one request or notification: a key (an OID's serialized ID or
// a structured key's canonical form), the operation it carries, and the
// attribute field-values involved.
type Record struct {
	Key    string
	Op     Operation
	Fields []FieldValue
}

// Encode flattens r into [key, op, name1, value1, name2, value2, ...], the
// shape pushed onto a producer/consumer queue entry.
func (r Record) Encode() []string {
	out := make([]string, 0, 2+2*len(r.Fields))
	out = append(out, r.Key, string(r.Op))
	for _, f := range r.Fields {
		out = append(out, f.Name, f.Value)
	}
	return out
}

// Decode parses a flat field array back into a Record. fields must have an
// even length of at least 2 ([key, op], with trailing name/value pairs).
func Decode(fields []string) (Record, error) {
	if len(fields) < 2 {
		return Record{}, saierr.New(saierr.KindInvalidArgument, "transport: record needs at least key and op")
	}
	if len(fields)%2 != 0 {
		return Record{}, saierr.New(saierr.KindInvalidArgument, "transport: odd field count, name without value")
	}
	rec := Record{Key: fields[0], Op: Operation(fields[1])}
	for i := 2; i+1 < len(fields); i += 2 {
		rec.Fields = append(rec.Fields, FieldValue{Name: fields[i], Value: fields[i+1]})
	}
	return rec, nil
}
