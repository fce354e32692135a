package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sonic-net/sairedis-go/asicview"
	"github.com/sonic-net/sairedis-go/saimeta"
	"github.com/sonic-net/sairedis-go/store"
)

var objectTypeFilter string

func init() {
	cmd := newDumpCmd()
	cmd.Flags().StringVar(&objectTypeFilter, "type", "", "Dump only this SAI object type (e.g. PORT)")
	rootCmd.AddCommand(cmd)
}

// dumpRecord is the JSON shape one ASIC_STATE object renders as, mirroring
// spec.md §6.2's table layout (type, id, attribute fields) rather than
// asicview.RawRecord's internal shape.
type dumpRecord struct {
	ObjectType string            `json:"object_type"`
	ID         string            `json:"id"`
	Attrs      map[string]string `json:"attrs"`
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print every persisted ASIC_STATE object as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd.Context())
		},
	}
}

func runDump(ctx context.Context) error {
	persist, err := store.Dial(ctx, redisAddr, redisDB, store.FlushAuto)
	if err != nil {
		return fmt.Errorf("saidump: dial redis: %w", err)
	}

	registry := saimeta.Builtin()
	types := registry.Registered()
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	var records []dumpRecord
	for _, ot := range types {
		name := saimeta.Name(ot)
		if objectTypeFilter != "" && name != objectTypeFilter {
			continue
		}
		raw, err := persist.LoadObjectType(ctx, ot)
		if err != nil {
			return fmt.Errorf("saidump: load %s: %w", name, err)
		}
		records = append(records, toDumpRecords(name, raw)...)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// toDumpRecords renders one object type's raw records into the dump's JSON
// shape, a pure transform kept separate from runDump so it can be tested
// without a Redis connection.
func toDumpRecords(typeName string, raw []asicview.RawRecord) []dumpRecord {
	out := make([]dumpRecord, 0, len(raw))
	for _, rec := range raw {
		id := rec.VID.String()
		if rec.Key != nil {
			id = rec.Key.Canonical()
		}
		attrs := make(map[string]string, len(rec.Fields))
		for attrID, val := range rec.Fields {
			attrs[string(attrID)] = val
		}
		out = append(out, dumpRecord{ObjectType: typeName, ID: id, Attrs: attrs})
	}
	return out
}
