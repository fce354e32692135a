package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sonic-net/sairedis-go/asicview"
	"github.com/sonic-net/sairedis-go/saimeta"
)

// SaveObject writes ot's object identified by serializedID (either an
// "oid:0x..." VID string or a StructuredKey.Canonical() JSON-object
// string) as an ASIC_STATE hash, replacing any previous fields.
func (s *Store) SaveObject(ctx context.Context, ot saimeta.ObjectType, serializedID string, fields map[string]string) error {
	key, err := asicStateKey(ot, serializedID)
	if err != nil {
		return err
	}
	return s.queue(ctx, func(p pipeliner) { p.HSet(key, fields) })
}

// DeleteObject removes ot's ASIC_STATE hash for serializedID.
func (s *Store) DeleteObject(ctx context.Context, ot saimeta.ObjectType, serializedID string) error {
	key, err := asicStateKey(ot, serializedID)
	if err != nil {
		return err
	}
	return s.queue(ctx, func(p pipeliner) { p.Del(key) })
}

// LoadObjectType enumerates every persisted object of type ot as raw
// records ready for asicview.View.LoadFromStream.
func (s *Store) LoadObjectType(ctx context.Context, ot saimeta.ObjectType) ([]asicview.RawRecord, error) {
	name, err := objectTypeName(ot)
	if err != nil {
		return nil, err
	}
	keys, err := s.client.ScanKeys(ctx, asicStateTable+":"+name+":*")
	if err != nil {
		return nil, fmt.Errorf("store: scan %s: %w", name, err)
	}

	records := make([]asicview.RawRecord, 0, len(keys))
	for _, key := range keys {
		_, serializedID, ok := splitAsicStateKey(asicStateTable, key)
		if !ok {
			continue
		}
		fields, err := s.client.HGetAll(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("store: read %s: %w", key, err)
		}
		rec, err := toRawRecord(ot, serializedID, fields)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// LoadAll enumerates persisted objects across every type in types, in the
// order given.
func (s *Store) LoadAll(ctx context.Context, types []saimeta.ObjectType) ([]asicview.RawRecord, error) {
	var all []asicview.RawRecord
	for _, ot := range types {
		recs, err := s.LoadObjectType(ctx, ot)
		if err != nil {
			return nil, err
		}
		all = append(all, recs...)
	}
	return all, nil
}

func toRawRecord(ot saimeta.ObjectType, serializedID string, fields map[string]string) (asicview.RawRecord, error) {
	rec := asicview.RawRecord{
		ObjectType: ot,
		Fields:     make(map[saimeta.AttrID]string, len(fields)),
	}
	for name, val := range fields {
		rec.Fields[saimeta.AttrID(name)] = val
	}

	if vid, ok := parseVID(serializedID); ok {
		rec.VID = vid
		return rec, nil
	}

	fieldMap := make(map[string]string)
	if err := json.Unmarshal([]byte(serializedID), &fieldMap); err != nil {
		return asicview.RawRecord{}, fmt.Errorf("store: serialized id %q is neither an oid nor a structured key: %w", serializedID, err)
	}
	key := asicview.StructuredKey{ObjectType: ot, Fields: fieldMap}
	rec.Key = &key
	return rec, nil
}

// Session stages ASIC_STATE writes under the TEMP_ASIC_STATE table and
// publishes them atomically on Commit, mirroring tx.Manager's Begin/
// Commit protocol: nothing staged under a session is visible to readers
// of the real ASIC_STATE table until Commit renames each staged key into
// place.
type Session struct {
	store  *Store
	active bool
	writes []sessionWrite
}

type sessionWrite struct {
	tempKey  string
	finalKey string
	remove   bool
}

// Begin starts a new staged session. A Store may have several sessions
// open at once; each stages its own independent set of TEMP_ keys.
func (s *Store) Begin() *Session {
	return &Session{store: s, active: true}
}

// SaveObject stages ot's object under a TEMP_ key; it has no effect on the
// real ASIC_STATE table until Commit.
func (sess *Session) SaveObject(ctx context.Context, ot saimeta.ObjectType, serializedID string, fields map[string]string) error {
	if !sess.active {
		return fmt.Errorf("store: session already committed or rolled back")
	}
	tempKey, err := tempAsicStateKey(ot, serializedID)
	if err != nil {
		return err
	}
	finalKey, err := asicStateKey(ot, serializedID)
	if err != nil {
		return err
	}
	if err := sess.store.queue(ctx, func(p pipeliner) { p.HSet(tempKey, fields) }); err != nil {
		return err
	}
	sess.writes = append(sess.writes, sessionWrite{tempKey: tempKey, finalKey: finalKey})
	return nil
}

// DeleteObject stages a removal of ot's object; the real key is only
// deleted when Commit runs.
func (sess *Session) DeleteObject(ot saimeta.ObjectType, serializedID string) error {
	if !sess.active {
		return fmt.Errorf("store: session already committed or rolled back")
	}
	finalKey, err := asicStateKey(ot, serializedID)
	if err != nil {
		return err
	}
	sess.writes = append(sess.writes, sessionWrite{finalKey: finalKey, remove: true})
	return nil
}

// Commit publishes every staged write: deletions run directly, and each
// staged SaveObject's TEMP_ key is renamed over its final ASIC_STATE key
// in one pipeline, so a reader never observes a partially-applied object.
func (sess *Session) Commit(ctx context.Context) error {
	if !sess.active {
		return nil
	}
	if err := sess.store.Flush(ctx); err != nil {
		return err
	}
	if err := sess.store.client.Exec(ctx, func(p pipeliner) {
		for _, w := range sess.writes {
			if w.remove {
				p.Del(w.finalKey)
				continue
			}
			p.Rename(w.tempKey, w.finalKey)
		}
	}); err != nil {
		return fmt.Errorf("store: commit session: %w", err)
	}
	sess.active = false
	return nil
}

// Rollback discards every staged TEMP_ key without touching the real
// ASIC_STATE table. Safe to call after Commit (no-op).
func (sess *Session) Rollback(ctx context.Context) error {
	if !sess.active {
		return nil
	}
	var tempKeys []string
	for _, w := range sess.writes {
		if !w.remove {
			tempKeys = append(tempKeys, w.tempKey)
		}
	}
	sess.active = false
	if len(tempKeys) == 0 {
		return nil
	}
	return sess.store.client.Exec(ctx, func(p pipeliner) { p.Del(tempKeys...) })
}
