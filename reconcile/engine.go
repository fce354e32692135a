// Package reconcile is the view-transition diff engine: it turns a matched
// pair of views (current vs. temporary) into an ordered create/remove/set
// operation stream, applying each operation against a driver as it goes so
// that later operations can depend on the RIDs earlier ones produced.
package reconcile

import (
	"context"

	"github.com/sonic-net/sairedis-go/asicview"
	"github.com/sonic-net/sairedis-go/ident"
	"github.com/sonic-net/sairedis-go/match"
	"github.com/sonic-net/sairedis-go/saidriver"
	"github.com/sonic-net/sairedis-go/saierr"
	"github.com/sonic-net/sairedis-go/saimeta"
	"github.com/sonic-net/sairedis-go/saiser"
)

// Engine runs process(t) over every object in a temporary view, recursing
// into OID dependencies first so a create always precedes anything that
// references its RID.
type Engine struct {
	registry *saimeta.Registry
	matcher  *match.Matcher
	idMap    *ident.Map
	driver   saidriver.Driver
}

// NewEngine returns a reconciliation engine wired to the given metadata
// registry, matcher, identifier map, and driver.
func NewEngine(registry *saimeta.Registry, matcher *match.Matcher, idMap *ident.Map, driver saidriver.Driver) *Engine {
	return &Engine{registry: registry, matcher: matcher, idMap: idMap, driver: driver}
}

// Reconcile diffs tempView against currentView, applying every resulting
// operation against the driver and returning the ordered operation log plus
// summary counts.
func (e *Engine) Reconcile(ctx context.Context, tempView, currentView *asicview.View) (*Plan, *Applied, error) {
	if err := e.checkPreconditions(tempView, currentView); err != nil {
		return nil, nil, err
	}

	plan := &Plan{}
	applied := &Applied{}

	for _, ot := range tempView.Types() {
		for _, t := range tempView.ObjectsOfType(ot) {
			if err := e.process(ctx, t, tempView, currentView, plan, applied); err != nil {
				return plan, applied, err
			}
		}
	}

	if err := e.sweepOrphans(ctx, currentView, plan, applied); err != nil {
		return plan, applied, err
	}

	return plan, applied, nil
}

// checkPreconditions enforces spec.md §4.5's hard preconditions: every PORT
// object is MATCHED (i.e. has a same-VID counterpart) and exactly one
// SWITCH object is present on each side.
func (e *Engine) checkPreconditions(tempView, currentView *asicview.View) error {
	if len(tempView.ObjectsOfType(saimeta.ObjectTypeSwitch)) != 1 {
		return saierr.New(saierr.KindInternal, "reconcile: temporary view must contain exactly one switch")
	}
	if len(currentView.ObjectsOfType(saimeta.ObjectTypeSwitch)) != 1 {
		return saierr.New(saierr.KindInternal, "reconcile: current view must contain exactly one switch")
	}
	for _, t := range tempView.ObjectsOfType(saimeta.ObjectTypePort) {
		if _, ok := currentView.FindByVID(t.VID); !ok {
			return saierr.New(saierr.KindInternal, "reconcile: port "+t.VID.String()+" has no current-view counterpart")
		}
	}
	return nil
}

// process implements spec.md §4.5's recursive per-object procedure.
func (e *Engine) process(ctx context.Context, t *asicview.Object, tempView, currentView *asicview.View, plan *Plan, applied *Applied) error {
	if t.Status == asicview.StatusFinal {
		return nil
	}

	if err := e.processDependencies(ctx, t, tempView, currentView, plan, applied); err != nil {
		return err
	}

	candidate, err := e.matcher.BestMatch(t, tempView, currentView)
	if err != nil {
		if !saierr.Is(err, saierr.KindNotFound) {
			return err
		}
		return e.create(ctx, t, plan, applied)
	}
	return e.reconcileMatched(ctx, t, candidate, tempView, currentView, plan, applied)
}

// processDependencies recurses into every OID-valued reference t carries —
// attribute values and, for structured-key objects, key fields — before t
// itself is processed, so the referenced object's RID is already bound.
func (e *Engine) processDependencies(ctx context.Context, t *asicview.Object, tempView, currentView *asicview.View, plan *Plan, applied *Applied) error {
	meta, _ := e.registry.ObjectMeta(t.ObjectType)

	for id, attr := range t.Attrs {
		var kind saimeta.ValueKind
		if meta != nil {
			if am, ok := meta.Attrs[id]; ok {
				kind = am.Kind
			} else {
				kind = attr.Value.Kind
			}
		} else {
			kind = attr.Value.Kind
		}
		switch kind {
		case saimeta.KindOID:
			if err := e.processReferencedVID(ctx, attr.Value.OID, tempView, currentView, plan, applied); err != nil {
				return err
			}
		case saimeta.KindOIDList:
			for _, vid := range attr.Value.OIDList {
				if err := e.processReferencedVID(ctx, vid, tempView, currentView, plan, applied); err != nil {
					return err
				}
			}
		}
	}

	if t.Key != nil {
		for _, raw := range t.Key.Fields {
			if vid, ok := parseVID(raw); ok {
				if err := e.processReferencedVID(ctx, vid, tempView, currentView, plan, applied); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (e *Engine) processReferencedVID(ctx context.Context, vid ident.VID, tempView, currentView *asicview.View, plan *Plan, applied *Applied) error {
	if vid == ident.NullVID {
		return nil
	}
	ref, ok := tempView.FindByVID(vid)
	if !ok {
		// Referenced object lives only in the current view (e.g. a
		// cold-boot default never re-asserted in the temporary view);
		// nothing further to recurse into.
		return nil
	}
	return e.process(ctx, ref, tempView, currentView, plan, applied)
}

// create emits CREATE for t with every non-read-only attribute, OIDs
// translated to the RID space via the identifier map.
func (e *Engine) create(ctx context.Context, t *asicview.Object, plan *Plan, applied *Applied) error {
	meta, _ := e.registry.ObjectMeta(t.ObjectType)

	var driverAttrs []saidriver.AttrValue
	var planAttrs []AttrChange
	for id, attr := range t.Attrs {
		if meta != nil {
			if am, ok := meta.Attrs[id]; ok && am.Flags.Has(saimeta.FlagReadOnly) {
				continue
			}
		}
		translated, err := e.translateForDriver(attr.Value)
		if err != nil {
			return err
		}
		driverAttrs = append(driverAttrs, saidriver.AttrValue{ID: id, Value: translated})
		planAttrs = append(planAttrs, AttrChange{ID: id, Value: attr.Value})
	}

	rid, err := e.driver.CreateObject(ctx, t.ObjectType, driverAttrs)
	if err != nil {
		return err
	}

	if t.IsOID() {
		if err := e.idMap.Bind(ctx, t.VID, rid); err != nil {
			return err
		}
		t.RID = rid
	}
	t.Status = asicview.StatusFinal
	applied.Created++
	plan.Ops = append(plan.Ops, Op{Kind: OpCreate, ObjectType: t.ObjectType, VID: t.VID, RID: rid, Key: t.Key, Attrs: planAttrs})
	return nil
}

// reconcileMatched implements spec.md §4.5 step 5: compare t against its
// matched current-view object c and either SET the differences, or remove
// and recreate when an irreconcilable difference exists.
func (e *Engine) reconcileMatched(ctx context.Context, t, c *asicview.Object, tempView, currentView *asicview.View, plan *Plan, applied *Applied) error {
	meta, _ := e.registry.ObjectMeta(t.ObjectType)

	forceRemove := false
	var setAttrs []AttrChange

	ids := unionAttrIDs(t, c)
	for _, id := range ids {
		var am saimeta.AttrMeta
		hasMeta := false
		if meta != nil {
			am, hasMeta = meta.Attrs[id]
		}
		if hasMeta && am.Flags.Has(saimeta.FlagReadOnly) {
			continue
		}
		kind := am.Kind

		tAttr, tok := t.Attr(id)
		cAttr, cok := c.Attr(id)

		switch {
		case tok && cok:
			if hasMeta {
				kind = am.Kind
			} else {
				kind = tAttr.Value.Kind
			}
			if match.AttrsEqual(tAttr, cAttr, kind, e.idMap) {
				continue
			}
			if hasMeta && (am.Flags.Has(saimeta.FlagCreateOnly) || am.Flags.Has(saimeta.FlagKey)) {
				forceRemove = true
				continue
			}
			setAttrs = append(setAttrs, AttrChange{ID: id, Value: tAttr.Value})

		case cok && !tok:
			if hasMeta && am.Default != saimeta.DefaultNone && am.Default != saimeta.DefaultVendor && !am.Flags.Has(saimeta.FlagMandatoryOnCreate) {
				setAttrs = append(setAttrs, AttrChange{ID: id, Value: saiser.Value{Kind: am.Kind}})
				continue
			}
			forceRemove = true

		case tok && !cok:
			if hasMeta && am.Flags.Has(saimeta.FlagCreateAndSet) {
				setAttrs = append(setAttrs, AttrChange{ID: id, Value: tAttr.Value})
			} else if hasMeta && (am.Flags.Has(saimeta.FlagCreateOnly) || am.Flags.Has(saimeta.FlagKey)) {
				forceRemove = true
			}
		}
	}

	if forceRemove {
		if c.NonRemovable {
			if err := e.applySets(ctx, c, setAttrs, plan, applied); err != nil {
				return err
			}
			if err := e.idMap.Bind(ctx, t.VID, c.RID); err != nil {
				return err
			}
			t.RID = c.RID
			t.Status = asicview.StatusFinal
			c.Status = asicview.StatusFinal
			return nil
		}

		var driverAttrs []saidriver.AttrValue
		for id, attr := range c.Attrs {
			translated, err := e.translateForDriver(attr.Value)
			if err != nil {
				return err
			}
			driverAttrs = append(driverAttrs, saidriver.AttrValue{ID: id, Value: translated})
		}
		if err := e.driver.RemoveObject(ctx, c.ObjectType, c.RID, driverAttrs); err != nil {
			return err
		}
		currentView.RemoveObject(c)
		c.Status = asicview.StatusRemoved
		applied.Removed++
		plan.Ops = append(plan.Ops, Op{Kind: OpRemove, ObjectType: c.ObjectType, VID: c.VID, RID: c.RID, Key: c.Key})

		return e.create(ctx, t, plan, applied)
	}

	if err := e.applySets(ctx, c, setAttrs, plan, applied); err != nil {
		return err
	}
	if err := e.idMap.Bind(ctx, t.VID, c.RID); err != nil {
		return err
	}
	t.RID = c.RID
	t.Status = asicview.StatusFinal
	c.Status = asicview.StatusFinal
	return nil
}

func (e *Engine) applySets(ctx context.Context, target *asicview.Object, sets []AttrChange, plan *Plan, applied *Applied) error {
	for _, s := range sets {
		translated, err := e.translateForDriver(s.Value)
		if err != nil {
			return err
		}
		av := saidriver.AttrValue{ID: s.ID, Value: translated}
		if err := e.driver.SetAttribute(ctx, target.ObjectType, target.RID, nil, av); err != nil {
			return err
		}
		applied.Set++
		plan.Ops = append(plan.Ops, Op{Kind: OpSet, ObjectType: target.ObjectType, VID: target.VID, RID: target.RID, Key: target.Key, Attrs: []AttrChange{s}})
	}
	return nil
}

// translateForDriver resolves OID-bearing values from VID space to RID
// space before handing them to the driver.
func (e *Engine) translateForDriver(v saiser.Value) (saiser.Value, error) {
	switch v.Kind {
	case saimeta.KindOID:
		if v.OID == ident.NullVID {
			return v, nil
		}
		rid, err := e.idMap.ResolveRID(v.OID)
		if err != nil {
			return saiser.Value{}, err
		}
		out := v
		out.OID = ident.VID(rid)
		return out, nil
	case saimeta.KindOIDList:
		out := v
		out.OIDList = make([]ident.VID, len(v.OIDList))
		for i, vid := range v.OIDList {
			if vid == ident.NullVID {
				continue
			}
			rid, err := e.idMap.ResolveRID(vid)
			if err != nil {
				return saiser.Value{}, err
			}
			out.OIDList[i] = ident.VID(rid)
		}
		return out, nil
	default:
		return v, nil
	}
}

// sweepOrphans processes current-view objects left NOT_PROCESSED after the
// main sweep: they have no temporary-view counterpart, so they are removed
// unless non-removable, in which case they are left in place.
func (e *Engine) sweepOrphans(ctx context.Context, currentView *asicview.View, plan *Plan, applied *Applied) error {
	for _, ot := range currentView.Types() {
		for _, c := range currentView.UnprocessedOfType(ot) {
			if c.NonRemovable {
				c.Status = asicview.StatusFinal
				continue
			}
			var driverAttrs []saidriver.AttrValue
			for id, attr := range c.Attrs {
				translated, err := e.translateForDriver(attr.Value)
				if err != nil {
					return err
				}
				driverAttrs = append(driverAttrs, saidriver.AttrValue{ID: id, Value: translated})
			}
			if err := e.driver.RemoveObject(ctx, c.ObjectType, c.RID, driverAttrs); err != nil {
				return err
			}
			currentView.RemoveObject(c)
			c.Status = asicview.StatusRemoved
			applied.Removed++
			plan.Ops = append(plan.Ops, Op{Kind: OpRemove, ObjectType: c.ObjectType, VID: c.VID, RID: c.RID, Key: c.Key})
		}
	}
	return nil
}

func unionAttrIDs(t, c *asicview.Object) []saimeta.AttrID {
	seen := make(map[saimeta.AttrID]struct{}, len(t.Attrs)+len(c.Attrs))
	var out []saimeta.AttrID
	for id := range t.Attrs {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	for id := range c.Attrs {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
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
