// Package bulk executes a batch of same-object-type create, remove, or set
// requests against a driver, translating a transport.Record stream into an
// ordered per-object operation sequence and reporting a status per item
// rather than failing the whole batch at the first error (unless the
// caller asks for stop-on-error semantics).
package bulk

import (
	"context"

	"github.com/sonic-net/sairedis-go/ident"
	"github.com/sonic-net/sairedis-go/saidriver"
	"github.com/sonic-net/sairedis-go/saimeta"
	"github.com/sonic-net/sairedis-go/saiser"
	"github.com/sonic-net/sairedis-go/transport"
)

// Mode controls whether a batch stops at the first failed item or
// continues and reports a status per item.
type Mode int

const (
	ModeIgnoreErrors Mode = iota
	ModeStopOnError
)

// ItemStatus reports the outcome of one item in a batch.
type ItemStatus int

const (
	StatusSuccess ItemStatus = iota
	StatusFailed
)

func (s ItemStatus) String() string {
	if s == StatusSuccess {
		return "success"
	}
	return "failed"
}

// ItemResult is one item's outcome, keyed by the same Key its source
// Record or item carried.
type ItemResult struct {
	Key    string
	Status ItemStatus
	Err    error
}

// Result is a whole batch's outcome.
type Result struct {
	Items        []ItemResult
	SuccessCount int
	FailedCount  int
}

func (r *Result) record(key string, err error) {
	if err != nil {
		r.Items = append(r.Items, ItemResult{Key: key, Status: StatusFailed, Err: err})
		r.FailedCount++
		return
	}
	r.Items = append(r.Items, ItemResult{Key: key, Status: StatusSuccess})
	r.SuccessCount++
}

// CreateItem is one object to create in a bulk-create batch.
type CreateItem struct {
	Key   string
	VID   ident.VID // NullVID for non-OID object types
	Attrs []saidriver.AttrValue
}

// RemoveItem is one object to remove in a bulk-remove batch.
type RemoveItem struct {
	Key string
	VID ident.VID
	RID ident.RID
}

// SetItem is one attribute update in a bulk-set batch.
type SetItem struct {
	Key  string
	VID  ident.VID
	RID  ident.RID
	Attr saidriver.AttrValue
}

// Engine issues bulk operations against a driver, one item at a time (the
// narrowed saidriver.Driver has no native bulk call), binding each
// successfully created OID object's RID into idMap as it goes.
type Engine struct {
	idMap  *ident.Map
	driver saidriver.Driver
}

// NewEngine returns a bulk engine wired to idMap and driver.
func NewEngine(idMap *ident.Map, driver saidriver.Driver) *Engine {
	return &Engine{idMap: idMap, driver: driver}
}

// BulkCreate creates every item, stopping at the first failure when mode is
// ModeStopOnError.
func (e *Engine) BulkCreate(ctx context.Context, ot saimeta.ObjectType, items []CreateItem, mode Mode) (*Result, error) {
	result := &Result{}
	for _, item := range items {
		rid, err := e.driver.CreateObject(ctx, ot, item.Attrs)
		if err != nil {
			result.record(item.Key, err)
			if mode == ModeStopOnError {
				return result, err
			}
			continue
		}
		if item.VID != ident.NullVID {
			if err := e.idMap.Bind(ctx, item.VID, rid); err != nil {
				result.record(item.Key, err)
				if mode == ModeStopOnError {
					return result, err
				}
				continue
			}
		}
		result.record(item.Key, nil)
	}
	return result, nil
}

// BulkRemove removes every item.
func (e *Engine) BulkRemove(ctx context.Context, ot saimeta.ObjectType, items []RemoveItem, mode Mode) (*Result, error) {
	result := &Result{}
	for _, item := range items {
		if err := e.driver.RemoveObject(ctx, ot, item.RID, nil); err != nil {
			result.record(item.Key, err)
			if mode == ModeStopOnError {
				return result, err
			}
			continue
		}
		result.record(item.Key, nil)
	}
	return result, nil
}

// BulkSet applies every item's single attribute update.
func (e *Engine) BulkSet(ctx context.Context, ot saimeta.ObjectType, items []SetItem, mode Mode) (*Result, error) {
	result := &Result{}
	for _, item := range items {
		if err := e.driver.SetAttribute(ctx, ot, item.RID, nil, item.Attr); err != nil {
			result.record(item.Key, err)
			if mode == ModeStopOnError {
				return result, err
			}
			continue
		}
		result.record(item.Key, nil)
	}
	return result, nil
}

// recordPriority ranks records for OrderRecords: creates before sets before
// removes, so a bulk batch mixing operations on related keys never sets an
// attribute before the object exists or removes it before a trailing set.
func recordPriority(op transport.Operation) int {
	switch op {
	case transport.OpCreate, transport.OpBulkCreate:
		return 0
	case transport.OpSet, transport.OpBulkSet:
		return 1
	case transport.OpRemove, transport.OpBulkRemove:
		return 2
	default:
		return 3
	}
}

// OrderRecords groups records by key and orders groups by first
// appearance, then sorts each group's records create-before-set-before-
// remove. Grounded on the same grouped-then-prioritized reordering used to
// sequence registry edits before execution.
func OrderRecords(records []transport.Record) []transport.Record {
	if len(records) <= 1 {
		return records
	}

	type group struct {
		key     string
		records []transport.Record
	}
	order := make([]string, 0, len(records))
	groups := make(map[string]*group, len(records))
	for _, rec := range records {
		g, ok := groups[rec.Key]
		if !ok {
			g = &group{key: rec.Key}
			groups[rec.Key] = g
			order = append(order, rec.Key)
		}
		g.records = append(g.records, rec)
	}

	out := make([]transport.Record, 0, len(records))
	for _, key := range order {
		g := groups[key]
		stableSortByPriority(g.records)
		out = append(out, g.records...)
	}
	return out
}

// stableSortByPriority is a manual insertion sort: these per-key groups are
// small (a handful of operations on one object), so no need to import
// sort for stable-by-priority ordering.
func stableSortByPriority(records []transport.Record) {
	for i := 1; i < len(records); i++ {
		for j := i; j > 0 && recordPriority(records[j].Op) < recordPriority(records[j-1].Op); j-- {
			records[j], records[j-1] = records[j-1], records[j]
		}
	}
}

// RecordToCreateItem parses rec into a CreateItem, resolving each field's
// serialized value via the attribute metadata am.registry carries for ot.
func RecordToCreateItem(registry *saimeta.Registry, ot saimeta.ObjectType, rec transport.Record) (CreateItem, error) {
	vid, _ := parseVID(rec.Key)
	item := CreateItem{Key: rec.Key, VID: vid}
	for _, f := range rec.Fields {
		val, err := deserializeField(registry, ot, f)
		if err != nil {
			return CreateItem{}, err
		}
		item.Attrs = append(item.Attrs, saidriver.AttrValue{ID: saimeta.AttrID(f.Name), Value: val})
	}
	return item, nil
}

func deserializeField(registry *saimeta.Registry, ot saimeta.ObjectType, f transport.FieldValue) (saiser.Value, error) {
	am, err := registry.AttrMeta(ot, saimeta.AttrID(f.Name))
	if err != nil {
		return saiser.Value{}, err
	}
	return saiser.Deserialize(am.Kind, f.Value)
}

func parseVID(s string) (ident.VID, bool) {
	if len(s) < 6 || s[:6] != "oid:0x" {
		return ident.NullVID, false
	}
	var n uint64
	for i := 6; i < len(s); i++ {
		c := s[i]
		var d uint64
		switch {
		case c >= '0' && c <= '9':
			d = uint64(c - '0')
		case c >= 'a' && c <= 'f':
			d = uint64(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = uint64(c-'A') + 10
		default:
			return ident.NullVID, false
		}
		n = n<<4 | d
	}
	return ident.VID(n), true
}
