package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonic-net/sairedis-go/asicview"
	"github.com/sonic-net/sairedis-go/ident"
	"github.com/sonic-net/sairedis-go/saimeta"
)

func TestToDumpRecords_OIDObjectUsesVIDAsID(t *testing.T) {
	vid, err := ident.EncodeVID(0, saimeta.ObjectTypePort, 1)
	require.NoError(t, err)

	out := toDumpRecords("SAI_OBJECT_TYPE_PORT", []asicview.RawRecord{
		{ObjectType: saimeta.ObjectTypePort, VID: vid, Fields: map[saimeta.AttrID]string{saimeta.AttrPortSpeed: "100000"}},
	})

	require.Len(t, out, 1)
	assert.Equal(t, "SAI_OBJECT_TYPE_PORT", out[0].ObjectType)
	assert.Equal(t, vid.String(), out[0].ID)
	assert.Equal(t, "100000", out[0].Attrs[string(saimeta.AttrPortSpeed)])
}

func TestToDumpRecords_StructuredKeyObjectUsesCanonicalKey(t *testing.T) {
	key := &asicview.StructuredKey{ObjectType: saimeta.ObjectTypeRouteEntry, Fields: map[string]string{"dest": "10.0.0.0/24"}}
	out := toDumpRecords("SAI_OBJECT_TYPE_ROUTE_ENTRY", []asicview.RawRecord{
		{ObjectType: saimeta.ObjectTypeRouteEntry, Key: key, Fields: map[saimeta.AttrID]string{}},
	})

	require.Len(t, out, 1)
	assert.Equal(t, key.Canonical(), out[0].ID)
}

func TestToDumpRecords_EmptyInputYieldsEmptySlice(t *testing.T) {
	assert.Empty(t, toDumpRecords("SAI_OBJECT_TYPE_PORT", nil))
}
