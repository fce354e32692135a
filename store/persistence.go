package store

import (
	"context"
	"fmt"

	"github.com/sonic-net/sairedis-go/ident"
)

// LoadVIDToRID reads the whole VIDTORID hash, keeping only entries for
// switchID's switch index (the hash is global across every switch a
// process manages, the way the real VIDTORID/RIDTOVID hashes are).
// switchID == ident.NullVID disables filtering, matching ident.Map's own
// use of NullVID as "no switch scoping" in single-switch callers.
func (s *Store) LoadVIDToRID(ctx context.Context, switchID ident.VID) (map[ident.VID]ident.RID, error) {
	raw, err := s.client.HGetAll(ctx, keyVIDToRID)
	if err != nil {
		return nil, fmt.Errorf("store: load VIDTORID: %w", err)
	}
	out := make(map[ident.VID]ident.RID, len(raw))
	for field, val := range raw {
		vid, ok := parseVID(field)
		if !ok {
			continue
		}
		if switchID != ident.NullVID && ident.SwitchIndexOf(vid) != ident.SwitchIndexOf(switchID) {
			continue
		}
		rid, err := parseHexRID(val)
		if err != nil {
			return nil, fmt.Errorf("store: VIDTORID value %q: %w", val, err)
		}
		out[vid] = rid
	}
	return out, nil
}

// LoadRIDToVID reads the whole RIDTOVID hash, filtered the same way
// LoadVIDToRID is.
func (s *Store) LoadRIDToVID(ctx context.Context, switchID ident.VID) (map[ident.RID]ident.VID, error) {
	raw, err := s.client.HGetAll(ctx, keyRIDToVID)
	if err != nil {
		return nil, fmt.Errorf("store: load RIDTOVID: %w", err)
	}
	out := make(map[ident.RID]ident.VID, len(raw))
	for field, val := range raw {
		rid, err := parseHexRID(field)
		if err != nil {
			continue
		}
		vid, ok := parseVID(val)
		if !ok {
			return nil, fmt.Errorf("store: RIDTOVID value %q is not a vid", val)
		}
		if switchID != ident.NullVID && ident.SwitchIndexOf(vid) != ident.SwitchIndexOf(switchID) {
			continue
		}
		out[rid] = vid
	}
	return out, nil
}

// BindVIDRID writes both halves of the bidirectional map in one pipeline.
func (s *Store) BindVIDRID(ctx context.Context, _ ident.VID, v ident.VID, r ident.RID) error {
	return s.queue(ctx, func(p pipeliner) {
		p.HSet(keyVIDToRID, map[string]string{v.String(): formatHexRID(r)})
		p.HSet(keyRIDToVID, map[string]string{formatHexRID(r): v.String()})
	})
}

// MarkHidden records vid as hidden from discovery output, the way the
// HIDDEN set suppresses objects a vendor driver creates as a side effect
// (default trap group members, CPU queues) that were never explicitly
// created through this layer.
func (s *Store) MarkHidden(ctx context.Context, vid ident.VID) error {
	return s.queue(ctx, func(p pipeliner) { p.SAdd(keyHidden, vid.String()) })
}

// IsHidden reports whether vid is in the HIDDEN set.
func (s *Store) IsHidden(ctx context.Context, vid ident.VID) (bool, error) {
	return s.client.SIsMember(ctx, keyHidden, vid.String())
}

// MarkCold records vid in COLDVIDS: a VID minted during this run that has
// not yet been bound to an RID, so a crash before the bind completes can
// be recognized and the VID retired rather than silently leaked.
func (s *Store) MarkCold(ctx context.Context, vid ident.VID) error {
	return s.queue(ctx, func(p pipeliner) { p.SAdd(keyColdVIDs, vid.String()) })
}

// ClearCold removes vid from COLDVIDS once it has been bound.
func (s *Store) ClearCold(ctx context.Context, vid ident.VID) error {
	return s.queue(ctx, func(p pipeliner) { p.SRem(keyColdVIDs, vid.String()) })
}

// ColdVIDs returns every VID still marked cold.
func (s *Store) ColdVIDs(ctx context.Context) ([]ident.VID, error) {
	raw, err := s.client.SMembers(ctx, keyColdVIDs)
	if err != nil {
		return nil, fmt.Errorf("store: load COLDVIDS: %w", err)
	}
	out := make([]ident.VID, 0, len(raw))
	for _, s := range raw {
		if vid, ok := parseVID(s); ok {
			out = append(out, vid)
		}
	}
	return out, nil
}

func formatHexRID(r ident.RID) string {
	return fmt.Sprintf("0x%x", uint64(r))
}

func parseHexRID(s string) (ident.RID, error) {
	if len(s) < 3 || s[0] != '0' || (s[1] != 'x' && s[1] != 'X') {
		return ident.NullRID, fmt.Errorf("not a 0x-prefixed hex rid")
	}
	var n uint64
	for i := 2; i < len(s); i++ {
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
			return ident.NullRID, fmt.Errorf("invalid hex digit %q", c)
		}
		n = n<<4 | d
	}
	return ident.RID(n), nil
}
