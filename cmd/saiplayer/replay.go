package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sonic-net/sairedis-go/bulk"
	"github.com/sonic-net/sairedis-go/ident"
	"github.com/sonic-net/sairedis-go/saidriver"
	"github.com/sonic-net/sairedis-go/saimeta"
	"github.com/sonic-net/sairedis-go/saiser"
	"github.com/sonic-net/sairedis-go/transport"
	"github.com/sonic-net/sairedis-go/vswitch"
)

func init() {
	rootCmd.AddCommand(newReplayCmd())
}

func newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay",
		Short: "Replay every record in the input file against a fresh virtual switch",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context())
		},
	}
}

// entry is one line of a replay file. transport.Record has no room for an
// object type (its Key is a bare serialized id or canonical structured key,
// spec.md §6.1), so the replay format carries it alongside the record.
type entry struct {
	ObjectType string                 `json:"object_type"`
	Key        string                 `json:"key"`
	Op         string                 `json:"op"`
	Fields     []transport.FieldValue `json:"fields"`
}

func loadEntries(path string) ([]entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("saiplayer: read %s: %w", path, err)
	}
	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("saiplayer: parse %s: %w", path, err)
	}
	return entries, nil
}

// typeByName inverts saimeta.Name over every registered object type, the
// reverse lookup the registry itself doesn't provide.
func typeByName(registry *saimeta.Registry) map[string]saimeta.ObjectType {
	out := make(map[string]saimeta.ObjectType)
	for _, ot := range registry.Registered() {
		out[saimeta.Name(ot)] = ot
	}
	return out
}

func runReplay(ctx context.Context) error {
	entries, err := loadEntries(inputPath)
	if err != nil {
		return err
	}

	registry := saimeta.Builtin()
	names := typeByName(registry)
	driver := vswitch.New()
	idMap := ident.NewMap(ident.NullVID, noopPersistence{}, ident.NewCounters())
	engine := bulk.NewEngine(idMap, driver)
	mode := bulk.ModeIgnoreErrors
	if stopOnErr {
		mode = bulk.ModeStopOnError
	}

	grouped, order := groupByType(entries)
	overall := &bulk.Result{}
	for _, name := range order {
		ot, ok := names[name]
		if !ok {
			return fmt.Errorf("saiplayer: unknown object type %q", name)
		}
		records := make([]transport.Record, 0, len(grouped[name]))
		for _, e := range grouped[name] {
			records = append(records, transport.Record{Key: e.Key, Op: transport.Operation(e.Op), Fields: e.Fields})
		}
		res, err := replayType(ctx, engine, idMap, registry, ot, records, mode)
		if err != nil && mode == bulk.ModeStopOnError {
			return fmt.Errorf("saiplayer: replay %s: %w", name, err)
		}
		overall.Items = append(overall.Items, res.Items...)
		overall.SuccessCount += res.SuccessCount
		overall.FailedCount += res.FailedCount
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(overall)
}

// groupByType buckets entries by object type, preserving first-appearance
// order across types so a replay file's overall sequencing survives the
// per-type dispatch bulk operations require.
func groupByType(entries []entry) (map[string][]entry, []string) {
	grouped := make(map[string][]entry)
	var order []string
	for _, e := range entries {
		if _, ok := grouped[e.ObjectType]; !ok {
			order = append(order, e.ObjectType)
		}
		grouped[e.ObjectType] = append(grouped[e.ObjectType], e)
	}
	return grouped, order
}

// replayType orders one object type's records and dispatches them through
// the three bulk calls in create-before-set-before-remove order, the same
// ordering OrderRecords imposes within a single key's group.
func replayType(ctx context.Context, engine *bulk.Engine, idMap *ident.Map, registry *saimeta.Registry, ot saimeta.ObjectType, records []transport.Record, mode bulk.Mode) (*bulk.Result, error) {
	ordered := bulk.OrderRecords(records)

	var creates []bulk.CreateItem
	var sets []bulk.SetItem
	var removes []bulk.RemoveItem
	for _, rec := range ordered {
		switch rec.Op {
		case transport.OpCreate, transport.OpBulkCreate:
			item, err := bulk.RecordToCreateItem(registry, ot, rec)
			if err != nil {
				return nil, err
			}
			creates = append(creates, item)
		case transport.OpSet, transport.OpBulkSet:
			item, err := recordToSetItem(registry, idMap, ot, rec)
			if err != nil {
				return nil, err
			}
			sets = append(sets, item)
		case transport.OpRemove, transport.OpBulkRemove:
			item, err := recordToRemoveItem(idMap, rec)
			if err != nil {
				return nil, err
			}
			removes = append(removes, item)
		default:
			return nil, fmt.Errorf("saiplayer: unsupported operation %q", rec.Op)
		}
	}

	overall := &bulk.Result{}
	if len(creates) > 0 {
		res, err := engine.BulkCreate(ctx, ot, creates, mode)
		overall.Items = append(overall.Items, res.Items...)
		overall.SuccessCount += res.SuccessCount
		overall.FailedCount += res.FailedCount
		if err != nil && mode == bulk.ModeStopOnError {
			return overall, err
		}
	}
	if len(sets) > 0 {
		res, err := engine.BulkSet(ctx, ot, sets, mode)
		overall.Items = append(overall.Items, res.Items...)
		overall.SuccessCount += res.SuccessCount
		overall.FailedCount += res.FailedCount
		if err != nil && mode == bulk.ModeStopOnError {
			return overall, err
		}
	}
	if len(removes) > 0 {
		res, err := engine.BulkRemove(ctx, ot, removes, mode)
		overall.Items = append(overall.Items, res.Items...)
		overall.SuccessCount += res.SuccessCount
		overall.FailedCount += res.FailedCount
		if err != nil && mode == bulk.ModeStopOnError {
			return overall, err
		}
	}
	return overall, nil
}

func recordToSetItem(registry *saimeta.Registry, idMap *ident.Map, ot saimeta.ObjectType, rec transport.Record) (bulk.SetItem, error) {
	if len(rec.Fields) != 1 {
		return bulk.SetItem{}, fmt.Errorf("saiplayer: set record %q needs exactly one field, got %d", rec.Key, len(rec.Fields))
	}
	vid, ok := parseVID(rec.Key)
	if !ok {
		return bulk.SetItem{}, fmt.Errorf("saiplayer: set record %q has no parseable vid", rec.Key)
	}
	rid, err := idMap.ResolveRID(vid)
	if err != nil {
		return bulk.SetItem{}, fmt.Errorf("saiplayer: set record %q: %w", rec.Key, err)
	}
	f := rec.Fields[0]
	am, err := registry.AttrMeta(ot, saimeta.AttrID(f.Name))
	if err != nil {
		return bulk.SetItem{}, err
	}
	val, err := saiser.Deserialize(am.Kind, f.Value)
	if err != nil {
		return bulk.SetItem{}, err
	}
	return bulk.SetItem{Key: rec.Key, VID: vid, RID: rid, Attr: saidriver.AttrValue{ID: saimeta.AttrID(f.Name), Value: val}}, nil
}

func recordToRemoveItem(idMap *ident.Map, rec transport.Record) (bulk.RemoveItem, error) {
	vid, ok := parseVID(rec.Key)
	if !ok {
		return bulk.RemoveItem{}, fmt.Errorf("saiplayer: remove record %q has no parseable vid", rec.Key)
	}
	rid, err := idMap.ResolveRID(vid)
	if err != nil {
		return bulk.RemoveItem{}, fmt.Errorf("saiplayer: remove record %q: %w", rec.Key, err)
	}
	return bulk.RemoveItem{Key: rec.Key, VID: vid, RID: rid}, nil
}

// parseVID parses the "oid:0x<16 hex>" form ident.VID.String() produces.
// bulk keeps the equivalent helper unexported, so replay carries its own.
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

// noopPersistence backs idMap for replay: the stream is ephemeral, there is
// no switch index to key a real store by, and every VID<->RID pair is
// discarded once the process exits.
type noopPersistence struct{}

func (noopPersistence) LoadVIDToRID(ctx context.Context, switchID ident.VID) (map[ident.VID]ident.RID, error) {
	return map[ident.VID]ident.RID{}, nil
}

func (noopPersistence) LoadRIDToVID(ctx context.Context, switchID ident.VID) (map[ident.RID]ident.VID, error) {
	return map[ident.RID]ident.VID{}, nil
}

func (noopPersistence) BindVIDRID(ctx context.Context, switchID ident.VID, v ident.VID, r ident.RID) error {
	return nil
}
