package saiser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonic-net/sairedis-go/ident"
	"github.com/sonic-net/sairedis-go/saimeta"
)

func roundTrip(t *testing.T, v Value) {
	t.Helper()
	s, err := Serialize(v)
	require.NoError(t, err)
	got, err := Deserialize(v.Kind, s)
	require.NoError(t, err)
	assert.True(t, v.Equal(got), "round trip mismatch: %q -> %+v", s, got)
}

func TestRoundTrip_Bool(t *testing.T) {
	roundTrip(t, Value{Kind: saimeta.KindBool, Bool: true})
	roundTrip(t, Value{Kind: saimeta.KindBool, Bool: false})
}

func TestRoundTrip_Integers(t *testing.T) {
	roundTrip(t, Value{Kind: saimeta.KindUint32, Uint: 4294967295})
	roundTrip(t, Value{Kind: saimeta.KindInt32, Int: -17})
	roundTrip(t, Value{Kind: saimeta.KindUint64, Uint: 0})
}

func TestRoundTrip_CharBlock(t *testing.T) {
	roundTrip(t, Value{Kind: saimeta.KindCharBlock, Bytes: []byte("plain text")})
	roundTrip(t, Value{Kind: saimeta.KindCharBlock, Bytes: []byte{'a', '\\', 0x01, 0x7f, 'b'}})
}

func TestSerialize_CharBlockEscaping(t *testing.T) {
	s, err := Serialize(Value{Kind: saimeta.KindCharBlock, Bytes: []byte{'\\', 0x00}})
	require.NoError(t, err)
	assert.Equal(t, `\\\x00`, s)
}

func TestRoundTrip_MAC(t *testing.T) {
	roundTrip(t, Value{Kind: saimeta.KindMAC, MAC: [6]byte{0xAA, 0xBB, 0xCC, 0x00, 0x11, 0x22}})
}

func TestSerialize_MACIsUpperHex(t *testing.T) {
	s, err := Serialize(Value{Kind: saimeta.KindMAC, MAC: [6]byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}})
	require.NoError(t, err)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", s)
}

func TestRoundTrip_IPv4(t *testing.T) {
	roundTrip(t, Value{Kind: saimeta.KindIPv4, IPv4: [4]byte{10, 0, 0, 1}})
}

func TestRoundTrip_IPv6(t *testing.T) {
	var addr [16]byte
	addr[0], addr[15] = 0x20, 0x01
	roundTrip(t, Value{Kind: saimeta.KindIPv6, IPv6: addr})
}

func TestRoundTrip_IPPrefix(t *testing.T) {
	v, err := Deserialize(saimeta.KindIPPrefix, "192.168.1.0/24")
	require.NoError(t, err)
	s, err := Serialize(v)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.0/24", s)
}

func TestRoundTrip_OID(t *testing.T) {
	vid, err := ident.EncodeVID(1, 2, 3)
	require.NoError(t, err)
	roundTrip(t, Value{Kind: saimeta.KindOID, OID: vid})
}

func TestRoundTrip_OIDList(t *testing.T) {
	v1, _ := ident.EncodeVID(1, 2, 3)
	v2, _ := ident.EncodeVID(1, 2, 4)
	roundTrip(t, Value{Kind: saimeta.KindOIDList, OIDList: []ident.VID{v1, v2}})
}

func TestSerialize_EmptyOIDList(t *testing.T) {
	s, err := Serialize(Value{Kind: saimeta.KindOIDList, OIDList: []ident.VID{}})
	require.NoError(t, err)
	assert.Equal(t, "0:", s)
}

func TestSerialize_NullOIDList(t *testing.T) {
	s, err := Serialize(Value{Kind: saimeta.KindOIDList, OIDList: nil})
	require.NoError(t, err)
	assert.Equal(t, "0:null", s)
}

func TestRoundTrip_Uint32List(t *testing.T) {
	roundTrip(t, Value{Kind: saimeta.KindUint32List, UintList: []uint64{1, 2, 3}})
}

func TestRoundTrip_ACLAction_Disabled(t *testing.T) {
	roundTrip(t, Value{Kind: saimeta.KindACLAction, ACLEnable: false})
}

func TestRoundTrip_ACLAction_Enabled(t *testing.T) {
	data := Value{Kind: saimeta.KindUint32, Uint: 7}
	roundTrip(t, Value{Kind: saimeta.KindACLAction, ACLEnable: true, ACLData: &data})
}

func TestSerialize_ACLAction_DisabledLiteral(t *testing.T) {
	s, err := Serialize(Value{Kind: saimeta.KindACLAction, ACLEnable: false})
	require.NoError(t, err)
	assert.Equal(t, "disabled", s)
}

func TestRoundTrip_Pointer(t *testing.T) {
	roundTrip(t, Value{Kind: saimeta.KindPointer, PointerTag: "cb-0x1"})
}

func TestDeserialize_InvalidBoolIsInvalidArgument(t *testing.T) {
	_, err := Deserialize(saimeta.KindBool, "yes")
	require.Error(t, err)
}
