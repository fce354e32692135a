// Package saidriver narrows the vendor SAI driver down to the small method
// set the reconciliation core actually calls: create, remove, set, get, and
// the type of an already-materialized handle. Everything the vendor driver
// does beyond this — its own dispatch tables, its own ABI — stays out of
// scope; this package is a Go-idiomatic wrapper the same way the corpus
// wraps an awkward generated C API down to a handful of methods.
package saidriver

import (
	"context"

	"github.com/sonic-net/sairedis-go/ident"
	"github.com/sonic-net/sairedis-go/saimeta"
	"github.com/sonic-net/sairedis-go/saiser"
)

// AttrValue is one attribute id paired with the value to write or read.
type AttrValue struct {
	ID    saimeta.AttrID
	Value saiser.Value
}

// Driver is implemented by the vendor SAI binding (out of scope) and, for
// tests, by vswitch's in-process virtual switch.
type Driver interface {
	// CreateObject creates an object of type ot with the given attributes,
	// returning the driver-assigned RID. It takes no VID and no structured
	// key: callers pass only attribute values, and bind the returned RID
	// only for OID object types.
	CreateObject(ctx context.Context, ot saimeta.ObjectType, attrs []AttrValue) (ident.RID, error)

	// RemoveObject removes the object identified by rid. Callers pass the
	// object's attribute values (or nil) in attrs; a non-OID object's
	// structured key is not passed.
	RemoveObject(ctx context.Context, ot saimeta.ObjectType, rid ident.RID, attrs []AttrValue) error

	// SetAttribute updates one attribute on an existing object.
	SetAttribute(ctx context.Context, ot saimeta.ObjectType, rid ident.RID, attrs []AttrValue, attr AttrValue) error

	// GetAttribute reads one attribute's current value.
	GetAttribute(ctx context.Context, ot saimeta.ObjectType, rid ident.RID, attrs []AttrValue, id saimeta.AttrID) (saiser.Value, error)

	// ObjectTypeOf reports the object type of an already-materialized RID,
	// used by discovery while walking the graph from the switch object.
	// Returns saimeta object type zero-value (invalid) if rid is unknown.
	ObjectTypeOf(ctx context.Context, rid ident.RID) (saimeta.ObjectType, error)
}
