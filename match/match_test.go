package match

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonic-net/sairedis-go/asicview"
	"github.com/sonic-net/sairedis-go/ident"
	"github.com/sonic-net/sairedis-go/saierr"
	"github.com/sonic-net/sairedis-go/saimeta"
)

type fakePersistence struct {
	forward map[ident.VID]ident.RID
	reverse map[ident.RID]ident.VID
}

func newFakePersistence() *fakePersistence {
	return &fakePersistence{forward: map[ident.VID]ident.RID{}, reverse: map[ident.RID]ident.VID{}}
}

func (f *fakePersistence) LoadVIDToRID(context.Context, ident.VID) (map[ident.VID]ident.RID, error) {
	return map[ident.VID]ident.RID{}, nil
}
func (f *fakePersistence) LoadRIDToVID(context.Context, ident.VID) (map[ident.RID]ident.VID, error) {
	return map[ident.RID]ident.VID{}, nil
}
func (f *fakePersistence) BindVIDRID(_ context.Context, _ ident.VID, v ident.VID, r ident.RID) error {
	f.forward[v] = r
	f.reverse[r] = v
	return nil
}

func newIdentMap(t *testing.T) (*ident.Map, *fakePersistence) {
	t.Helper()
	p := newFakePersistence()
	m := ident.NewMap(ident.NullVID, p, ident.NewCounters())
	require.NoError(t, m.Load(context.Background()))
	return m, p
}

func TestBestMatch_StatusShortcut(t *testing.T) {
	idMap, _ := newIdentMap(t)
	registry := saimeta.Builtin()
	matcher := NewMatcher(registry, idMap, nil, 1)

	vid, _ := ident.EncodeVID(0, saimeta.ObjectTypePort, 1)
	current := asicview.NewView(registry)
	cObj := &asicview.Object{ObjectType: saimeta.ObjectTypePort, VID: vid, Attrs: map[saimeta.AttrID]asicview.Attr{}}
	require.NoError(t, current.AddObject(cObj))

	temp := asicview.NewView(registry)
	tObj := &asicview.Object{ObjectType: saimeta.ObjectTypePort, VID: vid, Attrs: map[saimeta.AttrID]asicview.Attr{}}
	require.NoError(t, temp.AddObject(tObj))

	got, err := matcher.BestMatch(tObj, temp, current)
	require.NoError(t, err)
	assert.Same(t, cObj, got)
}

func TestBestMatch_StructuredKey_NoRIDYet(t *testing.T) {
	idMap, _ := newIdentMap(t)
	registry := saimeta.Builtin()
	matcher := NewMatcher(registry, idMap, nil, 1)

	key := &asicview.StructuredKey{ObjectType: saimeta.ObjectTypeFDBEntry, Fields: map[string]string{"mac": "oid:0x0000000000000099"}}
	tObj := &asicview.Object{ObjectType: saimeta.ObjectTypeFDBEntry, Key: key, Attrs: map[saimeta.AttrID]asicview.Attr{}}

	temp := asicview.NewView(registry)
	current := asicview.NewView(registry)

	_, err := matcher.BestMatch(tObj, temp, current)
	require.Error(t, err)
	assert.True(t, saierr.Is(err, saierr.KindNotFound))
}

func TestBestMatch_StructuredKey_TranslatesVIDThroughMap(t *testing.T) {
	idMap, _ := newIdentMap(t)
	registry := saimeta.Builtin()
	matcher := NewMatcher(registry, idMap, nil, 1)

	tempVID, _ := ident.EncodeVID(0, saimeta.ObjectTypeBridgePort, 1)
	currentVID, _ := ident.EncodeVID(0, saimeta.ObjectTypeBridgePort, 2)
	require.NoError(t, idMap.Bind(context.Background(), tempVID, ident.RID(500)))
	require.NoError(t, idMap.Bind(context.Background(), currentVID, ident.RID(500)))

	key := asicview.StructuredKey{ObjectType: saimeta.ObjectTypeFDBEntry, Fields: map[string]string{"bridge_port_id": currentVID.String()}}
	current := asicview.NewView(registry)
	cObj := &asicview.Object{ObjectType: saimeta.ObjectTypeFDBEntry, Key: &key, Attrs: map[saimeta.AttrID]asicview.Attr{}}
	require.NoError(t, current.AddObject(cObj))

	tKey := &asicview.StructuredKey{ObjectType: saimeta.ObjectTypeFDBEntry, Fields: map[string]string{"bridge_port_id": tempVID.String()}}
	tObj := &asicview.Object{ObjectType: saimeta.ObjectTypeFDBEntry, Key: tKey, Attrs: map[saimeta.AttrID]asicview.Attr{}}
	temp := asicview.NewView(registry)
	require.NoError(t, temp.AddObject(tObj))

	got, err := matcher.BestMatch(tObj, temp, current)
	require.NoError(t, err)
	assert.Same(t, cObj, got)
}

func TestBestMatch_GenericOID_ScoresAttributeEquality(t *testing.T) {
	idMap, _ := newIdentMap(t)
	registry := saimeta.Builtin()
	matcher := NewMatcher(registry, idMap, nil, 1)

	current := asicview.NewView(registry)
	lowVID, _ := ident.EncodeVID(0, saimeta.ObjectTypePort, 10)
	highVID, _ := ident.EncodeVID(0, saimeta.ObjectTypePort, 11)

	worse := &asicview.Object{ObjectType: saimeta.ObjectTypePort, VID: lowVID, Attrs: map[saimeta.AttrID]asicview.Attr{
		saimeta.AttrPortSpeed: {Serialized: "10000"},
		saimeta.AttrPortMtu:   {Serialized: "1500"},
	}}
	better := &asicview.Object{ObjectType: saimeta.ObjectTypePort, VID: highVID, Attrs: map[saimeta.AttrID]asicview.Attr{
		saimeta.AttrPortSpeed: {Serialized: "100000"},
		saimeta.AttrPortMtu:   {Serialized: "9100"},
	}}
	require.NoError(t, current.AddObject(worse))
	require.NoError(t, current.AddObject(better))

	tVID, _ := ident.EncodeVID(0, saimeta.ObjectTypePort, 99)
	tObj := &asicview.Object{ObjectType: saimeta.ObjectTypePort, VID: tVID, Attrs: map[saimeta.AttrID]asicview.Attr{
		saimeta.AttrPortSpeed: {Serialized: "100000"},
		saimeta.AttrPortMtu:   {Serialized: "9100"},
	}}
	temp := asicview.NewView(registry)
	require.NoError(t, temp.AddObject(tObj))

	got, err := matcher.BestMatch(tObj, temp, current)
	require.NoError(t, err)
	assert.Same(t, better, got)
}

func TestBestMatch_CreateOnlyMismatchDisqualifies(t *testing.T) {
	idMap, _ := newIdentMap(t)
	registry := saimeta.Builtin()
	matcher := NewMatcher(registry, idMap, nil, 1)

	current := asicview.NewView(registry)
	vid, _ := ident.EncodeVID(0, saimeta.ObjectTypePort, 1)
	cObj := &asicview.Object{ObjectType: saimeta.ObjectTypePort, VID: vid, Attrs: map[saimeta.AttrID]asicview.Attr{
		saimeta.AttrPortHwLaneList: {Serialized: "2:1,2"},
	}}
	require.NoError(t, current.AddObject(cObj))

	tVID, _ := ident.EncodeVID(0, saimeta.ObjectTypePort, 2)
	tObj := &asicview.Object{ObjectType: saimeta.ObjectTypePort, VID: tVID, Attrs: map[saimeta.AttrID]asicview.Attr{
		saimeta.AttrPortHwLaneList: {Serialized: "2:3,4"},
	}}
	temp := asicview.NewView(registry)
	require.NoError(t, temp.AddObject(tObj))

	_, err := matcher.BestMatch(tObj, temp, current)
	require.Error(t, err)
}

func TestBestMatch_NoCandidates(t *testing.T) {
	idMap, _ := newIdentMap(t)
	registry := saimeta.Builtin()
	matcher := NewMatcher(registry, idMap, nil, 1)

	current := asicview.NewView(registry)
	tVID, _ := ident.EncodeVID(0, saimeta.ObjectTypePort, 2)
	tObj := &asicview.Object{ObjectType: saimeta.ObjectTypePort, VID: tVID, Attrs: map[saimeta.AttrID]asicview.Attr{}}
	temp := asicview.NewView(registry)
	require.NoError(t, temp.AddObject(tObj))

	_, err := matcher.BestMatch(tObj, temp, current)
	require.Error(t, err)
	assert.True(t, saierr.Is(err, saierr.KindNotFound))
}

func TestBestMatch_TieBreakHeuristicWins(t *testing.T) {
	idMap, _ := newIdentMap(t)
	registry := saimeta.Builtin()

	v1, _ := ident.EncodeVID(0, saimeta.ObjectTypePort, 1)
	v2, _ := ident.EncodeVID(0, saimeta.ObjectTypePort, 2)
	pick := &asicview.Object{ObjectType: saimeta.ObjectTypePort, VID: v2, Attrs: map[saimeta.AttrID]asicview.Attr{}}
	other := &asicview.Object{ObjectType: saimeta.ObjectTypePort, VID: v1, Attrs: map[saimeta.AttrID]asicview.Attr{}}

	heuristics := map[saimeta.ObjectType]TieBreakFunc{
		saimeta.ObjectTypePort: func(t *asicview.Object, candidates []*asicview.Object, tempView, currentView *asicview.View, idMap *ident.Map) (*asicview.Object, bool) {
			for _, c := range candidates {
				if c.VID == v2 {
					return c, true
				}
			}
			return nil, false
		},
	}
	matcher := NewMatcher(registry, idMap, heuristics, 1)

	current := asicview.NewView(registry)
	require.NoError(t, current.AddObject(other))
	require.NoError(t, current.AddObject(pick))

	tVID, _ := ident.EncodeVID(0, saimeta.ObjectTypePort, 3)
	tObj := &asicview.Object{ObjectType: saimeta.ObjectTypePort, VID: tVID, Attrs: map[saimeta.AttrID]asicview.Attr{}}
	temp := asicview.NewView(registry)
	require.NoError(t, temp.AddObject(tObj))

	got, err := matcher.BestMatch(tObj, temp, current)
	require.NoError(t, err)
	assert.Same(t, pick, got)
}
