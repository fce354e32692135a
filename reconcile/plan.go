package reconcile

import (
	"github.com/sonic-net/sairedis-go/asicview"
	"github.com/sonic-net/sairedis-go/ident"
	"github.com/sonic-net/sairedis-go/saimeta"
	"github.com/sonic-net/sairedis-go/saiser"
)

// OpKind is the wire-visible verb an emitted operation carries.
type OpKind int

const (
	OpCreate OpKind = iota
	OpRemove
	OpSet
)

func (k OpKind) String() string {
	switch k {
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpSet:
		return "set"
	default:
		return "unknown"
	}
}

// AttrChange is one attribute carried by a Create or Set operation.
type AttrChange struct {
	ID    saimeta.AttrID
	Value saiser.Value
}

// Op is one entry in the emitted operation stream: the dependency-ordered
// create/remove/set record spec.md §4.5 describes.
type Op struct {
	Kind       OpKind
	ObjectType saimeta.ObjectType
	VID        ident.VID
	RID        ident.RID
	Key        *asicview.StructuredKey
	Attrs      []AttrChange
}

// Plan is the full ordered operation stream produced by one reconciliation.
type Plan struct {
	Ops []Op
}

// Applied tallies how many operations of each kind were actually issued
// against the driver.
type Applied struct {
	Created int
	Removed int
	Set     int
}
