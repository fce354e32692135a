package store

import (
	"fmt"

	"github.com/sonic-net/sairedis-go/saimeta"
)

// objectTypeNames maps every object type saimeta/builtin.go registers to
// its SAI_OBJECT_TYPE_* wire name, the same names the ASIC_STATE key
// segment and the transport record grammar both use. Plain data, not
// derived: the numbering in builtin.go carries no name information, so the
// wire name has to be recorded somewhere, and the KV key builder is the
// natural owner.
var objectTypeNames = map[saimeta.ObjectType]string{
	saimeta.ObjectTypeSwitch:                 "SAI_OBJECT_TYPE_SWITCH",
	saimeta.ObjectTypePort:                   "SAI_OBJECT_TYPE_PORT",
	saimeta.ObjectTypeVirtualRouter:          "SAI_OBJECT_TYPE_VIRTUAL_ROUTER",
	saimeta.ObjectTypeRouterInterface:        "SAI_OBJECT_TYPE_ROUTER_INTERFACE",
	saimeta.ObjectTypeNextHop:                "SAI_OBJECT_TYPE_NEXT_HOP",
	saimeta.ObjectTypeNextHopGroup:           "SAI_OBJECT_TYPE_NEXT_HOP_GROUP",
	saimeta.ObjectTypeRouteEntry:             "SAI_OBJECT_TYPE_ROUTE_ENTRY",
	saimeta.ObjectTypeNeighborEntry:          "SAI_OBJECT_TYPE_NEIGHBOR_ENTRY",
	saimeta.ObjectTypeFDBEntry:               "SAI_OBJECT_TYPE_FDB_ENTRY",
	saimeta.ObjectTypeVlan:                   "SAI_OBJECT_TYPE_VLAN",
	saimeta.ObjectTypeVlanMember:             "SAI_OBJECT_TYPE_VLAN_MEMBER",
	saimeta.ObjectTypeBridge:                 "SAI_OBJECT_TYPE_BRIDGE",
	saimeta.ObjectTypeBridgePort:             "SAI_OBJECT_TYPE_BRIDGE_PORT",
	saimeta.ObjectTypeQueue:                  "SAI_OBJECT_TYPE_QUEUE",
	saimeta.ObjectTypeScheduler:              "SAI_OBJECT_TYPE_SCHEDULER",
	saimeta.ObjectTypeSchedulerGroup:         "SAI_OBJECT_TYPE_SCHEDULER_GROUP",
	saimeta.ObjectTypeWred:                   "SAI_OBJECT_TYPE_WRED",
	saimeta.ObjectTypeBufferPool:             "SAI_OBJECT_TYPE_BUFFER_POOL",
	saimeta.ObjectTypeBufferProfile:          "SAI_OBJECT_TYPE_BUFFER_PROFILE",
	saimeta.ObjectTypeIngressPriorityGroup:   "SAI_OBJECT_TYPE_INGRESS_PRIORITY_GROUP",
	saimeta.ObjectTypeACLTable:               "SAI_OBJECT_TYPE_ACL_TABLE",
	saimeta.ObjectTypeACLEntry:               "SAI_OBJECT_TYPE_ACL_ENTRY",
	saimeta.ObjectTypeACLCounter:             "SAI_OBJECT_TYPE_ACL_COUNTER",
	saimeta.ObjectTypeACLTableGroup:          "SAI_OBJECT_TYPE_ACL_TABLE_GROUP",
	saimeta.ObjectTypeHostifTrapGroup:        "SAI_OBJECT_TYPE_HOSTIF_TRAP_GROUP",
	saimeta.ObjectTypeHostifTrap:             "SAI_OBJECT_TYPE_HOSTIF_TRAP",
	saimeta.ObjectTypeHostif:                 "SAI_OBJECT_TYPE_HOSTIF",
	saimeta.ObjectTypePolicer:                "SAI_OBJECT_TYPE_POLICER",
	saimeta.ObjectTypeTunnel:                 "SAI_OBJECT_TYPE_TUNNEL",
	saimeta.ObjectTypeTunnelTermTableEntry:   "SAI_OBJECT_TYPE_TUNNEL_TERM_TABLE_ENTRY",
	saimeta.ObjectTypeMirrorSession:          "SAI_OBJECT_TYPE_MIRROR_SESSION",
	saimeta.ObjectTypeSamplepacket:           "SAI_OBJECT_TYPE_SAMPLEPACKET",
	saimeta.ObjectTypeStp:                    "SAI_OBJECT_TYPE_STP",
	saimeta.ObjectTypeLag:                    "SAI_OBJECT_TYPE_LAG",
	saimeta.ObjectTypeLagMember:              "SAI_OBJECT_TYPE_LAG_MEMBER",
	saimeta.ObjectTypeQosMap:                 "SAI_OBJECT_TYPE_QOS_MAP",
	saimeta.ObjectTypeNeighborTable:          "SAI_OBJECT_TYPE_NEIGHBOR_TABLE",
	saimeta.ObjectTypeRouteTable:             "SAI_OBJECT_TYPE_ROUTE_TABLE",
	saimeta.ObjectTypeVirtualRouterTable:     "SAI_OBJECT_TYPE_VIRTUAL_ROUTER_TABLE",
	saimeta.ObjectTypeHash:                   "SAI_OBJECT_TYPE_HASH",
	saimeta.ObjectTypeUdf:                    "SAI_OBJECT_TYPE_UDF",
	saimeta.ObjectTypeUdfMatch:               "SAI_OBJECT_TYPE_UDF_MATCH",
	saimeta.ObjectTypeUdfGroup:               "SAI_OBJECT_TYPE_UDF_GROUP",
	saimeta.ObjectTypeDebugCounter:           "SAI_OBJECT_TYPE_DEBUG_COUNTER",
	saimeta.ObjectTypeCounter:                "SAI_OBJECT_TYPE_COUNTER",
	saimeta.ObjectTypePortPool:               "SAI_OBJECT_TYPE_PORT_POOL",
	saimeta.ObjectTypeIpmcGroup:              "SAI_OBJECT_TYPE_IPMC_GROUP",
	saimeta.ObjectTypeIpmcGroupMember:        "SAI_OBJECT_TYPE_IPMC_GROUP_MEMBER",
	saimeta.ObjectTypeRpfGroup:               "SAI_OBJECT_TYPE_RPF_GROUP",
	saimeta.ObjectTypeRpfGroupMember:         "SAI_OBJECT_TYPE_RPF_GROUP_MEMBER",
	saimeta.ObjectTypeL2mcGroup:              "SAI_OBJECT_TYPE_L2MC_GROUP",
}

var objectTypeByNameTable map[string]saimeta.ObjectType

func init() {
	objectTypeByNameTable = make(map[string]saimeta.ObjectType, len(objectTypeNames))
	for ot, name := range objectTypeNames {
		objectTypeByNameTable[name] = ot
	}
}

func objectTypeName(ot saimeta.ObjectType) (string, error) {
	name, ok := objectTypeNames[ot]
	if !ok {
		return "", fmt.Errorf("store: no wire name registered for object type %d", ot)
	}
	return name, nil
}

func objectTypeByName(name string) (saimeta.ObjectType, error) {
	ot, ok := objectTypeByNameTable[name]
	if !ok {
		return 0, fmt.Errorf("store: unrecognized object type name %q", name)
	}
	return ot, nil
}
