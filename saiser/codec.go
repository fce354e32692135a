package saiser

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/sonic-net/sairedis-go/ident"
	"github.com/sonic-net/sairedis-go/saierr"
	"github.com/sonic-net/sairedis-go/saimeta"
)

// Serialize renders a Value as the wire text of spec.md §6.1's grammar.
func Serialize(v Value) (string, error) {
	switch v.Kind {
	case saimeta.KindBool:
		if v.Bool {
			return "true", nil
		}
		return "false", nil

	case saimeta.KindUint8, saimeta.KindUint16, saimeta.KindUint32, saimeta.KindUint64:
		return strconv.FormatUint(v.Uint, 10), nil

	case saimeta.KindInt8, saimeta.KindInt16, saimeta.KindInt32:
		return strconv.FormatInt(v.Int, 10), nil

	case saimeta.KindCharBlock:
		return escapeCharBlock(v.Bytes), nil

	case saimeta.KindMAC:
		return formatMAC(v.MAC), nil

	case saimeta.KindIPv4:
		return net.IP(v.IPv4[:]).String(), nil

	case saimeta.KindIPv6:
		return net.IP(v.IPv6[:]).String(), nil

	case saimeta.KindIPPrefix:
		return serializeIPPrefix(v), nil

	case saimeta.KindOID:
		return v.OID.String(), nil

	case saimeta.KindOIDList:
		if v.OIDList == nil {
			return serializeList(0, nil), nil
		}
		elems := make([]string, len(v.OIDList))
		for i, vid := range v.OIDList {
			elems[i] = vid.String()
		}
		return serializeList(len(v.OIDList), elems), nil

	case saimeta.KindUint8List, saimeta.KindUint16List, saimeta.KindUint32List:
		elems := make([]string, len(v.UintList))
		for i, u := range v.UintList {
			elems[i] = strconv.FormatUint(u, 10)
		}
		return serializeList(len(v.UintList), elems), nil

	case saimeta.KindInt32List:
		elems := make([]string, len(v.IntList))
		for i, n := range v.IntList {
			elems[i] = strconv.FormatInt(n, 10)
		}
		return serializeList(len(v.IntList), elems), nil

	case saimeta.KindACLField, saimeta.KindACLAction:
		return serializeACL(v)

	case saimeta.KindPointer:
		return v.PointerTag, nil

	default:
		return "", saierr.New(saierr.KindInvalidArgument, "saiser: unsupported value kind")
	}
}

// Deserialize parses wire text of the given kind back into a Value.
// Deserialize(Serialize(x)) == x for every Value this module produces.
func Deserialize(kind saimeta.ValueKind, s string) (Value, error) {
	switch kind {
	case saimeta.KindBool:
		switch s {
		case "true":
			return Value{Kind: kind, Bool: true}, nil
		case "false":
			return Value{Kind: kind, Bool: false}, nil
		}
		return Value{}, saierr.New(saierr.KindInvalidArgument, "saiser: invalid bool literal "+s)

	case saimeta.KindUint8, saimeta.KindUint16, saimeta.KindUint32, saimeta.KindUint64:
		n, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return Value{}, saierr.Wrap(saierr.KindInvalidArgument, "saiser: invalid unsigned integer "+s, err)
		}
		return Value{Kind: kind, Uint: n}, nil

	case saimeta.KindInt8, saimeta.KindInt16, saimeta.KindInt32:
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return Value{}, saierr.Wrap(saierr.KindInvalidArgument, "saiser: invalid signed integer "+s, err)
		}
		return Value{Kind: kind, Int: n}, nil

	case saimeta.KindCharBlock:
		b, err := unescapeCharBlock(s)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: kind, Bytes: b}, nil

	case saimeta.KindMAC:
		mac, err := parseMAC(s)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: kind, MAC: mac}, nil

	case saimeta.KindIPv4:
		ip := net.ParseIP(s)
		if ip == nil || ip.To4() == nil {
			return Value{}, saierr.New(saierr.KindInvalidArgument, "saiser: invalid IPv4 address "+s)
		}
		var out [4]byte
		copy(out[:], ip.To4())
		return Value{Kind: kind, IPv4: out}, nil

	case saimeta.KindIPv6:
		ip := net.ParseIP(s)
		if ip == nil || ip.To16() == nil || ip.To4() != nil {
			return Value{}, saierr.New(saierr.KindInvalidArgument, "saiser: invalid IPv6 address "+s)
		}
		var out [16]byte
		copy(out[:], ip.To16())
		return Value{Kind: kind, IPv6: out}, nil

	case saimeta.KindIPPrefix:
		return deserializeIPPrefix(s)

	case saimeta.KindOID:
		vid, err := parseVID(s)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: kind, OID: vid}, nil

	case saimeta.KindOIDList:
		elems, _, err := parseList(s)
		if err != nil {
			return Value{}, err
		}
		out := make([]ident.VID, len(elems))
		for i, e := range elems {
			vid, err := parseVID(e)
			if err != nil {
				return Value{}, err
			}
			out[i] = vid
		}
		return Value{Kind: kind, OIDList: out}, nil

	case saimeta.KindUint8List, saimeta.KindUint16List, saimeta.KindUint32List:
		elems, _, err := parseList(s)
		if err != nil {
			return Value{}, err
		}
		out := make([]uint64, len(elems))
		for i, e := range elems {
			n, err := strconv.ParseUint(e, 0, 64)
			if err != nil {
				return Value{}, saierr.Wrap(saierr.KindInvalidArgument, "saiser: invalid list element "+e, err)
			}
			out[i] = n
		}
		return Value{Kind: kind, UintList: out}, nil

	case saimeta.KindInt32List:
		elems, _, err := parseList(s)
		if err != nil {
			return Value{}, err
		}
		out := make([]int64, len(elems))
		for i, e := range elems {
			n, err := strconv.ParseInt(e, 0, 64)
			if err != nil {
				return Value{}, saierr.Wrap(saierr.KindInvalidArgument, "saiser: invalid list element "+e, err)
			}
			out[i] = n
		}
		return Value{Kind: kind, IntList: out}, nil

	case saimeta.KindACLField, saimeta.KindACLAction:
		return deserializeACL(kind, s)

	case saimeta.KindPointer:
		return Value{Kind: kind, PointerTag: s}, nil

	default:
		return Value{}, saierr.New(saierr.KindInvalidArgument, "saiser: unsupported value kind")
	}
}

func escapeCharBlock(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		switch {
		case c == '\\':
			sb.WriteString(`\\`)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&sb, `\x%02x`, c)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func unescapeCharBlock(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			out = append(out, c)
			continue
		}
		if i+1 >= len(s) {
			return nil, saierr.New(saierr.KindInvalidArgument, "saiser: dangling escape in char block")
		}
		switch s[i+1] {
		case '\\':
			out = append(out, '\\')
			i++
		case 'x':
			if i+3 >= len(s) {
				return nil, saierr.New(saierr.KindInvalidArgument, "saiser: truncated \\x escape")
			}
			n, err := strconv.ParseUint(s[i+2:i+4], 16, 8)
			if err != nil {
				return nil, saierr.Wrap(saierr.KindInvalidArgument, "saiser: invalid \\x escape", err)
			}
			out = append(out, byte(n))
			i += 3
		default:
			return nil, saierr.New(saierr.KindInvalidArgument, "saiser: unknown escape in char block")
		}
	}
	return out, nil
}

func formatMAC(mac [6]byte) string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", mac[0], mac[1], mac[2], mac[3], mac[4], mac[5])
}

func parseMAC(s string) ([6]byte, error) {
	var out [6]byte
	hw, err := net.ParseMAC(s)
	if err != nil || len(hw) != 6 {
		return out, saierr.New(saierr.KindInvalidArgument, "saiser: invalid MAC address "+s)
	}
	copy(out[:], hw)
	return out, nil
}

func serializeList(count int, elems []string) string {
	if elems == nil {
		return fmt.Sprintf("%d:null", count)
	}
	return fmt.Sprintf("%d:%s", count, strings.Join(elems, ","))
}

func parseList(s string) ([]string, int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return nil, 0, saierr.New(saierr.KindInvalidArgument, "saiser: malformed list "+s)
	}
	count, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, 0, saierr.Wrap(saierr.KindInvalidArgument, "saiser: malformed list count", err)
	}
	if parts[1] == "null" {
		return nil, count, nil
	}
	if count == 0 {
		return []string{}, 0, nil
	}
	return strings.Split(parts[1], ","), count, nil
}

func parseVID(s string) (ident.VID, error) {
	if !strings.HasPrefix(s, "oid:0x") {
		return ident.NullVID, saierr.New(saierr.KindInvalidArgument, "saiser: malformed oid "+s)
	}
	n, err := strconv.ParseUint(s[len("oid:0x"):], 16, 64)
	if err != nil {
		return ident.NullVID, saierr.Wrap(saierr.KindInvalidArgument, "saiser: malformed oid "+s, err)
	}
	return ident.VID(n), nil
}

func serializeIPPrefix(v Value) string {
	var ip net.IP
	if v.IPPrefixIsV6 {
		ip = net.IP(v.IPPrefixAddr[:])
	} else {
		ip = net.IP(v.IPPrefixAddr[:4])
	}
	mask := prefixLenFromMask(v.IPPrefixMask[:], v.IPPrefixIsV6)
	return fmt.Sprintf("%s/%d", ip.String(), mask)
}

func deserializeIPPrefix(s string) (Value, error) {
	addr, bits, err := net.ParseCIDR(s)
	if err != nil {
		return Value{}, saierr.Wrap(saierr.KindInvalidArgument, "saiser: invalid IP prefix "+s, err)
	}
	isV6 := addr.To4() == nil
	var out Value
	out.Kind = saimeta.KindIPPrefix
	out.IPPrefixIsV6 = isV6
	ones, total := bits.Mask.Size()
	if isV6 {
		copy(out.IPPrefixAddr[:], addr.To16())
		copy(out.IPPrefixMask[:], net.CIDRMask(ones, total))
	} else {
		copy(out.IPPrefixAddr[:4], addr.To4())
		copy(out.IPPrefixMask[:4], net.CIDRMask(ones, total))
	}
	return out, nil
}

func prefixLenFromMask(mask []byte, isV6 bool) int {
	n := 4
	if isV6 {
		n = 16
	}
	ones, _ := net.IPMask(mask[:n]).Size()
	return ones
}

func serializeACL(v Value) (string, error) {
	if !v.ACLEnable {
		return "disabled", nil
	}
	if v.ACLData == nil {
		return "", saierr.New(saierr.KindInvalidArgument, "saiser: enabled ACL value missing data")
	}
	data, err := Serialize(*v.ACLData)
	if err != nil {
		return "", err
	}
	if v.ACLMask == nil {
		return data, nil
	}
	mask, err := Serialize(*v.ACLMask)
	if err != nil {
		return "", err
	}
	return data + "&mask:" + mask, nil
}

func deserializeACL(kind saimeta.ValueKind, s string) (Value, error) {
	if s == "disabled" {
		return Value{Kind: kind, ACLEnable: false}, nil
	}
	dataPart, maskPart, hasMask := strings.Cut(s, "&mask:")
	data, err := Deserialize(saimeta.KindUint32, dataPart)
	if err != nil {
		return Value{}, err
	}
	out := Value{Kind: kind, ACLEnable: true, ACLData: &data}
	if hasMask {
		mask, err := Deserialize(saimeta.KindUint32, maskPart)
		if err != nil {
			return Value{}, err
		}
		out.ACLMask = &mask
	}
	return out, nil
}
