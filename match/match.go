// Package match selects, for each object in a temporary view, the current
// view object (if any) that should be considered its continuation.
// Matching never mutates either view beyond what the caller does with its
// result; it only scores and chooses.
package match

import (
	"math/rand/v2"

	"github.com/sonic-net/sairedis-go/asicview"
	"github.com/sonic-net/sairedis-go/ident"
	"github.com/sonic-net/sairedis-go/saierr"
	"github.com/sonic-net/sairedis-go/saimeta"
)

// TieBreakFunc resolves a tie among equally-scored candidates using
// per-object-type domain knowledge (e.g. buffer pool dependents). Returning
// ok=false defers to the random fallback.
type TieBreakFunc func(t *asicview.Object, candidates []*asicview.Object, tempView, currentView *asicview.View, idMap *ident.Map) (*asicview.Object, bool)

// Matcher implements spec.md §4.4's matching rules over a shared
// VID<->RID map and metadata registry.
type Matcher struct {
	registry   *saimeta.Registry
	idMap      *ident.Map
	heuristics map[saimeta.ObjectType]TieBreakFunc
	rng        *rand.Rand
}

// NewMatcher returns a Matcher. seed makes the random tie-break fallback
// reproducible across runs for a given config (spec.md §9 Open Question).
func NewMatcher(registry *saimeta.Registry, idMap *ident.Map, heuristics map[saimeta.ObjectType]TieBreakFunc, seed uint64) *Matcher {
	if heuristics == nil {
		heuristics = make(map[saimeta.ObjectType]TieBreakFunc)
	}
	return &Matcher{
		registry:   registry,
		idMap:      idMap,
		heuristics: heuristics,
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// BestMatch returns the chosen current-view object for t, or
// saierr.ErrNoCandidate if none exists (the caller must then create t).
func (m *Matcher) BestMatch(t *asicview.Object, tempView, currentView *asicview.View) (*asicview.Object, error) {
	// Rule 1: status shortcut. A temp OID already present (same VID) in the
	// current view — true for cold-boot-matched objects like ports — is
	// its own match.
	if t.IsOID() {
		if c, ok := currentView.FindByVID(t.VID); ok {
			return c, nil
		}
	} else {
		return m.structuredKeyMatch(t, tempView, currentView)
	}
	return m.genericOIDMatch(t, tempView, currentView)
}

// structuredKeyMatch implements rule 2 for structured-key object types: the
// key already contains VIDs of referenced objects, which are translated
// through the shared VID<->RID map into the current-view canonical key.
func (m *Matcher) structuredKeyMatch(t *asicview.Object, tempView, currentView *asicview.View) (*asicview.Object, error) {
	translated := make(map[string]string, len(t.Key.Fields))
	for name, val := range t.Key.Fields {
		vid, isVID := parseVIDField(val)
		if !isVID {
			translated[name] = val
			continue
		}
		rid, err := m.idMap.ResolveRID(vid)
		if err != nil {
			// Referenced VID has no RID yet: no candidate, forces create.
			return nil, saierr.ErrNoCandidate
		}
		currentVID, err := m.idMap.ResolveVID(rid)
		if err != nil {
			return nil, saierr.ErrNoCandidate
		}
		translated[name] = currentVID.String()
	}

	key := asicview.StructuredKey{ObjectType: t.ObjectType, Fields: translated}
	c, ok := currentView.FindByStructuredKey(t.ObjectType, key)
	if !ok {
		return nil, saierr.ErrNoCandidate
	}
	return c, nil
}

// genericOIDMatch implements rules 3-6 for OID object types: score every
// unprocessed current-view candidate of the same type by attribute
// equivalence, disqualify CREATE_ONLY mismatches, then tie-break.
func (m *Matcher) genericOIDMatch(t *asicview.Object, tempView, currentView *asicview.View) (*asicview.Object, error) {
	meta, err := m.registry.ObjectMeta(t.ObjectType)
	if err != nil {
		return nil, err
	}

	var best []*asicview.Object
	bestScore := -1

	for _, c := range currentView.UnprocessedOfType(t.ObjectType) {
		if m.disqualified(t, c, meta) {
			continue
		}
		score := m.score(t, c, meta)
		switch {
		case score > bestScore:
			bestScore = score
			best = []*asicview.Object{c}
		case score == bestScore:
			best = append(best, c)
		}
	}

	if len(best) == 0 {
		return nil, saierr.ErrNoCandidate
	}
	if len(best) == 1 {
		return best[0], nil
	}

	if fn, ok := m.heuristics[t.ObjectType]; ok {
		if c, ok := fn(t, best, tempView, currentView, m.idMap); ok {
			return c, nil
		}
	}

	idx := m.rng.IntN(len(best))
	return best[idx], nil
}

func (m *Matcher) disqualified(t, c *asicview.Object, meta *saimeta.ObjectMeta) bool {
	for id, am := range meta.Attrs {
		if !am.Flags.Has(saimeta.FlagCreateOnly) {
			continue
		}
		tAttr, tok := t.Attr(id)
		cAttr, cok := c.Attr(id)
		if !tok || !cok {
			continue
		}
		if !m.attrsEqual(tAttr, cAttr, am.Kind) {
			return true
		}
	}
	return false
}

func (m *Matcher) score(t, c *asicview.Object, meta *saimeta.ObjectMeta) int {
	score := 0
	for id, tAttr := range t.Attrs {
		cAttr, ok := c.Attr(id)
		if !ok {
			continue
		}
		am, ok := meta.Attrs[id]
		kind := tAttr.Value.Kind
		if ok {
			kind = am.Kind
		}
		if m.attrsEqual(tAttr, cAttr, kind) {
			score++
		}
	}
	return score
}

func (m *Matcher) attrsEqual(t, c asicview.Attr, kind saimeta.ValueKind) bool {
	return AttrsEqual(t, c, kind, m.idMap)
}

// AttrsEqual compares two attribute values the way spec.md §4.4 rule 3
// requires: plain serialized-text equality for scalar kinds, and for
// OID-bearing kinds a "lifted" comparison that resolves both sides through
// the shared VID<->RID map first ("both NULL, or both refer to
// already-matched objects with equal RIDs"). Exported so reconcile's diff
// engine can reuse the exact same equality rule matching used to score
// candidates.
func AttrsEqual(t, c asicview.Attr, kind saimeta.ValueKind, idMap *ident.Map) bool {
	if !kind.IsOIDBearing() {
		return t.Serialized == c.Serialized
	}
	switch kind {
	case saimeta.KindOID, saimeta.KindACLField, saimeta.KindACLAction:
		return liftedOIDEqual(t.Value.OID, c.Value.OID, idMap)
	case saimeta.KindOIDList:
		if len(t.Value.OIDList) != len(c.Value.OIDList) {
			return false
		}
		for i := range t.Value.OIDList {
			if !liftedOIDEqual(t.Value.OIDList[i], c.Value.OIDList[i], idMap) {
				return false
			}
		}
		return true
	default:
		return t.Serialized == c.Serialized
	}
}

// liftedOIDEqual compares a temp-side VID and a current-side VID by
// resolving both through the shared VID<->RID map, per spec.md §4.4 rule 3:
// "both NULL, or both refer to already-matched objects with equal RIDs."
func liftedOIDEqual(tVID, cVID ident.VID, idMap *ident.Map) bool {
	if tVID == ident.NullVID && cVID == ident.NullVID {
		return true
	}
	if tVID == ident.NullVID || cVID == ident.NullVID {
		return false
	}
	tRID, err := idMap.ResolveRID(tVID)
	if err != nil {
		return false
	}
	cRID, err := idMap.ResolveRID(cVID)
	if err != nil {
		return false
	}
	return tRID == cRID
}

// parseVIDField reports whether a structured-key field value is a
// serialized VID ("oid:0x...") and, if so, its decoded form.
func parseVIDField(s string) (ident.VID, bool) {
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
