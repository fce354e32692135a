package saimeta

// Object type constants. ident keeps only the null sentinel because the
// identifier layer never inspects an object type's meaning; saimeta is
// where the closed enum actually lives. The numbering matches attribute-id
// convention (SAI_OBJECT_TYPE_*) well enough for VID encoding but carries no
// significance beyond "a stable, distinct small integer".
const (
	ObjectTypeSwitch ObjectType = iota + 1
	ObjectTypePort
	ObjectTypeVirtualRouter
	ObjectTypeRouterInterface
	ObjectTypeNextHop
	ObjectTypeNextHopGroup
	ObjectTypeRouteEntry
	ObjectTypeNeighborEntry
	ObjectTypeFDBEntry
	ObjectTypeVlan
	ObjectTypeVlanMember
	ObjectTypeBridge
	ObjectTypeBridgePort
	ObjectTypeQueue
	ObjectTypeScheduler
	ObjectTypeSchedulerGroup
	ObjectTypeWred
	ObjectTypeBufferPool
	ObjectTypeBufferProfile
	ObjectTypeIngressPriorityGroup
	ObjectTypeACLTable
	ObjectTypeACLEntry
	ObjectTypeACLCounter
	ObjectTypeACLTableGroup
	ObjectTypeHostifTrapGroup
	ObjectTypeHostifTrap
	ObjectTypeHostif
	ObjectTypePolicer
	ObjectTypeTunnel
	ObjectTypeTunnelTermTableEntry
	ObjectTypeMirrorSession
	ObjectTypeSamplepacket
	ObjectTypeStp
	ObjectTypeLag
	ObjectTypeLagMember
	ObjectTypeQosMap
	ObjectTypeNeighborTable
	ObjectTypeRouteTable
	ObjectTypeVirtualRouterTable
	ObjectTypeHash
	ObjectTypeUdf
	ObjectTypeUdfMatch
	ObjectTypeUdfGroup
	ObjectTypeDebugCounter
	ObjectTypeCounter
	ObjectTypePortPool
	ObjectTypeIpmcGroup
	ObjectTypeIpmcGroupMember
	ObjectTypeRpfGroup
	ObjectTypeRpfGroupMember
	ObjectTypeL2mcGroup
)

// objectTypeNames is used only for diagnostics (CLI output, log fields); it
// is not part of the wire format.
var objectTypeNames = map[ObjectType]string{
	ObjectTypeSwitch:                "SWITCH",
	ObjectTypePort:                  "PORT",
	ObjectTypeVirtualRouter:         "VIRTUAL_ROUTER",
	ObjectTypeRouterInterface:       "ROUTER_INTERFACE",
	ObjectTypeNextHop:               "NEXT_HOP",
	ObjectTypeNextHopGroup:          "NEXT_HOP_GROUP",
	ObjectTypeRouteEntry:            "ROUTE_ENTRY",
	ObjectTypeNeighborEntry:         "NEIGHBOR_ENTRY",
	ObjectTypeFDBEntry:              "FDB_ENTRY",
	ObjectTypeVlan:                  "VLAN",
	ObjectTypeVlanMember:            "VLAN_MEMBER",
	ObjectTypeBridge:                "BRIDGE",
	ObjectTypeBridgePort:            "BRIDGE_PORT",
	ObjectTypeQueue:                 "QUEUE",
	ObjectTypeScheduler:             "SCHEDULER",
	ObjectTypeSchedulerGroup:        "SCHEDULER_GROUP",
	ObjectTypeWred:                  "WRED",
	ObjectTypeBufferPool:            "BUFFER_POOL",
	ObjectTypeBufferProfile:         "BUFFER_PROFILE",
	ObjectTypeIngressPriorityGroup:  "INGRESS_PRIORITY_GROUP",
	ObjectTypeACLTable:              "ACL_TABLE",
	ObjectTypeACLEntry:              "ACL_ENTRY",
	ObjectTypeACLCounter:            "ACL_COUNTER",
	ObjectTypeACLTableGroup:         "ACL_TABLE_GROUP",
	ObjectTypeHostifTrapGroup:       "HOSTIF_TRAP_GROUP",
	ObjectTypeHostifTrap:            "HOSTIF_TRAP",
	ObjectTypeHostif:                "HOSTIF",
	ObjectTypePolicer:               "POLICER",
	ObjectTypeTunnel:                "TUNNEL",
	ObjectTypeTunnelTermTableEntry:  "TUNNEL_TERM_TABLE_ENTRY",
	ObjectTypeMirrorSession:         "MIRROR_SESSION",
	ObjectTypeSamplepacket:         "SAMPLEPACKET",
	ObjectTypeStp:                   "STP",
	ObjectTypeLag:                   "LAG",
	ObjectTypeLagMember:             "LAG_MEMBER",
	ObjectTypeQosMap:                "QOS_MAP",
	ObjectTypeNeighborTable:         "NEIGHBOR_TABLE",
	ObjectTypeRouteTable:            "ROUTE_TABLE",
	ObjectTypeVirtualRouterTable:    "VIRTUAL_ROUTER_TABLE",
	ObjectTypeHash:                  "HASH",
	ObjectTypeUdf:                   "UDF",
	ObjectTypeUdfMatch:              "UDF_MATCH",
	ObjectTypeUdfGroup:              "UDF_GROUP",
	ObjectTypeDebugCounter:          "DEBUG_COUNTER",
	ObjectTypeCounter:               "COUNTER",
	ObjectTypePortPool:              "PORT_POOL",
	ObjectTypeIpmcGroup:             "IPMC_GROUP",
	ObjectTypeIpmcGroupMember:       "IPMC_GROUP_MEMBER",
	ObjectTypeRpfGroup:              "RPF_GROUP",
	ObjectTypeRpfGroupMember:        "RPF_GROUP_MEMBER",
	ObjectTypeL2mcGroup:             "L2MC_GROUP",
}

// Name returns ot's symbolic name, or "UNKNOWN" if unregistered.
func Name(ot ObjectType) string {
	if n, ok := objectTypeNames[ot]; ok {
		return n
	}
	return "UNKNOWN"
}

// Attribute ids for the object types builtin.go fleshes out with full
// metadata. Only the subset discovery/match/reconcile/reinit tests actually
// exercise gets real AttrMeta entries; the rest of the ~50 object types
// above are declared (so VIDs can be minted and logged for them) but left
// without an attribute table, the same way a vendor driver recognizes many
// more object types than it documents attributes for in a given release.
const (
	AttrSwitchInitSwitch        AttrID = "SAI_SWITCH_ATTR_INIT_SWITCH"
	AttrSwitchSrcMacAddress     AttrID = "SAI_SWITCH_ATTR_SRC_MAC_ADDRESS"
	AttrSwitchPortNumber        AttrID = "SAI_SWITCH_ATTR_PORT_NUMBER"
	AttrSwitchDefaultVlanID     AttrID = "SAI_SWITCH_ATTR_DEFAULT_VLAN_ID"

	AttrPortAdminState    AttrID = "SAI_PORT_ATTR_ADMIN_STATE"
	AttrPortSpeed         AttrID = "SAI_PORT_ATTR_SPEED"
	AttrPortMtu           AttrID = "SAI_PORT_ATTR_MTU"
	AttrPortHwLaneList    AttrID = "SAI_PORT_ATTR_HW_LANE_LIST"
	AttrPortOperStatus    AttrID = "SAI_PORT_ATTR_OPER_STATUS"
	AttrPortQosQueueList  AttrID = "SAI_PORT_ATTR_QOS_QUEUE_LIST"

	AttrVirtualRouterAdminV4State AttrID = "SAI_VIRTUAL_ROUTER_ATTR_ADMIN_V4_STATE"
	AttrVirtualRouterSrcMac       AttrID = "SAI_VIRTUAL_ROUTER_ATTR_SRC_MAC_ADDRESS"

	AttrRouterInterfaceVirtualRouterID AttrID = "SAI_ROUTER_INTERFACE_ATTR_VIRTUAL_ROUTER_ID"
	AttrRouterInterfaceType            AttrID = "SAI_ROUTER_INTERFACE_ATTR_TYPE"
	AttrRouterInterfacePortID           AttrID = "SAI_ROUTER_INTERFACE_ATTR_PORT_ID"
	AttrRouterInterfaceMtu              AttrID = "SAI_ROUTER_INTERFACE_ATTR_MTU"

	AttrNextHopType              AttrID = "SAI_NEXT_HOP_ATTR_TYPE"
	AttrNextHopIP                AttrID = "SAI_NEXT_HOP_ATTR_IP"
	AttrNextHopRouterInterfaceID AttrID = "SAI_NEXT_HOP_ATTR_ROUTER_INTERFACE_ID"

	AttrRouteEntryNextHopID AttrID = "SAI_ROUTE_ENTRY_ATTR_NEXT_HOP_ID"
	AttrRouteEntryPacketAction AttrID = "SAI_ROUTE_ENTRY_ATTR_PACKET_ACTION"

	AttrNeighborEntryDstMac  AttrID = "SAI_NEIGHBOR_ENTRY_ATTR_DST_MAC_ADDRESS"
	AttrNeighborEntryNoHostRoute AttrID = "SAI_NEIGHBOR_ENTRY_ATTR_NO_HOST_ROUTE"

	AttrFDBEntryType     AttrID = "SAI_FDB_ENTRY_ATTR_TYPE"
	AttrFDBEntryBridgePortID AttrID = "SAI_FDB_ENTRY_ATTR_BRIDGE_PORT_ID"

	AttrBufferPoolType      AttrID = "SAI_BUFFER_POOL_ATTR_TYPE"
	AttrBufferPoolSize      AttrID = "SAI_BUFFER_POOL_ATTR_SIZE"
	AttrBufferPoolThreshMode AttrID = "SAI_BUFFER_POOL_ATTR_THRESHOLD_MODE"

	AttrBufferProfilePoolID     AttrID = "SAI_BUFFER_PROFILE_ATTR_POOL_ID"
	AttrBufferProfileReservedSize AttrID = "SAI_BUFFER_PROFILE_ATTR_RESERVED_BUFFER_SIZE"

	AttrQueueIndex AttrID = "SAI_QUEUE_ATTR_INDEX"
	AttrQueuePort  AttrID = "SAI_QUEUE_ATTR_PORT"
	AttrQueueType  AttrID = "SAI_QUEUE_ATTR_TYPE"

	AttrHostifTrapGroupQueue    AttrID = "SAI_HOSTIF_TRAP_GROUP_ATTR_QUEUE"
	AttrHostifTrapGroupPriority AttrID = "SAI_HOSTIF_TRAP_GROUP_ATTR_PRIO"

	AttrVlanMemberVlanID      AttrID = "SAI_VLAN_MEMBER_ATTR_VLAN_ID"
	AttrVlanMemberBridgePortID AttrID = "SAI_VLAN_MEMBER_ATTR_BRIDGE_PORT_ID"
)

// Builtin returns the populated registry used by production code and tests.
func Builtin() *Registry {
	r := NewRegistry()

	r.Register(&ObjectMeta{
		ObjectType: ObjectTypeSwitch,
		IsOID:      true,
		Attrs: map[AttrID]AttrMeta{
			AttrSwitchInitSwitch: {ID: AttrSwitchInitSwitch, Kind: KindBool, Flags: FlagCreateOnly | FlagMandatoryOnCreate},
			AttrSwitchSrcMacAddress: {ID: AttrSwitchSrcMacAddress, Kind: KindMAC, Flags: FlagCreateAndSet},
			AttrSwitchPortNumber: {ID: AttrSwitchPortNumber, Kind: KindUint32, Flags: FlagReadOnly},
			AttrSwitchDefaultVlanID: {ID: AttrSwitchDefaultVlanID, Kind: KindOID, Flags: FlagReadOnly,
				AllowedObjectTypes: []ObjectType{ObjectTypeVlan}},
		},
	})

	r.Register(&ObjectMeta{
		ObjectType: ObjectTypePort,
		IsOID:      true,
		Attrs: map[AttrID]AttrMeta{
			AttrPortHwLaneList: {ID: AttrPortHwLaneList, Kind: KindUint32List, Flags: FlagCreateOnly | FlagMandatoryOnCreate},
			AttrPortAdminState: {ID: AttrPortAdminState, Kind: KindBool, Flags: FlagCreateAndSet, Default: DefaultConst},
			AttrPortSpeed:      {ID: AttrPortSpeed, Kind: KindUint32, Flags: FlagCreateAndSet},
			AttrPortMtu:        {ID: AttrPortMtu, Kind: KindUint32, Flags: FlagCreateAndSet, Default: DefaultConst},
			AttrPortOperStatus: {ID: AttrPortOperStatus, Kind: KindUint32, Flags: FlagReadOnly},
			AttrPortQosQueueList: {ID: AttrPortQosQueueList, Kind: KindOIDList, Flags: FlagReadOnly,
				AllowedObjectTypes: []ObjectType{ObjectTypeQueue}},
		},
	})

	r.Register(&ObjectMeta{
		ObjectType: ObjectTypeVirtualRouter,
		IsOID:      true,
		Attrs: map[AttrID]AttrMeta{
			AttrVirtualRouterAdminV4State: {ID: AttrVirtualRouterAdminV4State, Kind: KindBool, Flags: FlagCreateAndSet, Default: DefaultConst},
			AttrVirtualRouterSrcMac:       {ID: AttrVirtualRouterSrcMac, Kind: KindMAC, Flags: FlagCreateAndSet},
		},
	})

	r.Register(&ObjectMeta{
		ObjectType: ObjectTypeRouterInterface,
		IsOID:      true,
		Attrs: map[AttrID]AttrMeta{
			AttrRouterInterfaceVirtualRouterID: {ID: AttrRouterInterfaceVirtualRouterID, Kind: KindOID,
				Flags: FlagCreateOnly | FlagMandatoryOnCreate, AllowedObjectTypes: []ObjectType{ObjectTypeVirtualRouter}},
			AttrRouterInterfaceType: {ID: AttrRouterInterfaceType, Kind: KindUint32, Flags: FlagCreateOnly | FlagMandatoryOnCreate},
			AttrRouterInterfacePortID: {ID: AttrRouterInterfacePortID, Kind: KindOID, Flags: FlagCreateOnly,
				AllowedObjectTypes: []ObjectType{ObjectTypePort, ObjectTypeLag, ObjectTypeVlan}},
			AttrRouterInterfaceMtu: {ID: AttrRouterInterfaceMtu, Kind: KindUint32, Flags: FlagCreateAndSet, Default: DefaultConst},
		},
	})

	r.Register(&ObjectMeta{
		ObjectType: ObjectTypeNextHop,
		IsOID:      true,
		Attrs: map[AttrID]AttrMeta{
			AttrNextHopType: {ID: AttrNextHopType, Kind: KindUint32, Flags: FlagCreateOnly | FlagMandatoryOnCreate},
			AttrNextHopIP:   {ID: AttrNextHopIP, Kind: KindIPv4, Flags: FlagCreateOnly | FlagMandatoryOnCreate},
			AttrNextHopRouterInterfaceID: {ID: AttrNextHopRouterInterfaceID, Kind: KindOID,
				Flags: FlagCreateOnly | FlagMandatoryOnCreate, AllowedObjectTypes: []ObjectType{ObjectTypeRouterInterface}},
		},
	})

	r.Register(&ObjectMeta{
		ObjectType: ObjectTypeRouteEntry,
		IsOID:      false,
		Attrs: map[AttrID]AttrMeta{
			AttrRouteEntryNextHopID: {ID: AttrRouteEntryNextHopID, Kind: KindOID, Flags: FlagCreateAndSet,
				AllowedObjectTypes: []ObjectType{ObjectTypeNextHop, ObjectTypeNextHopGroup, ObjectTypeRouterInterface}},
			AttrRouteEntryPacketAction: {ID: AttrRouteEntryPacketAction, Kind: KindUint32, Flags: FlagCreateAndSet, Default: DefaultConst},
		},
	})

	r.Register(&ObjectMeta{
		ObjectType: ObjectTypeNeighborEntry,
		IsOID:      false,
		Attrs: map[AttrID]AttrMeta{
			AttrNeighborEntryDstMac:      {ID: AttrNeighborEntryDstMac, Kind: KindMAC, Flags: FlagCreateAndSet | FlagMandatoryOnCreate},
			AttrNeighborEntryNoHostRoute: {ID: AttrNeighborEntryNoHostRoute, Kind: KindBool, Flags: FlagCreateAndSet, Default: DefaultConst},
		},
	})

	r.Register(&ObjectMeta{
		ObjectType: ObjectTypeFDBEntry,
		IsOID:      false,
		Attrs: map[AttrID]AttrMeta{
			AttrFDBEntryType: {ID: AttrFDBEntryType, Kind: KindUint32, Flags: FlagCreateAndSet | FlagMandatoryOnCreate},
			AttrFDBEntryBridgePortID: {ID: AttrFDBEntryBridgePortID, Kind: KindOID, Flags: FlagCreateAndSet,
				AllowedObjectTypes: []ObjectType{ObjectTypeBridgePort}},
		},
	})

	r.Register(&ObjectMeta{
		ObjectType: ObjectTypeBufferPool,
		IsOID:      true,
		Attrs: map[AttrID]AttrMeta{
			AttrBufferPoolType:       {ID: AttrBufferPoolType, Kind: KindUint32, Flags: FlagCreateOnly | FlagMandatoryOnCreate},
			AttrBufferPoolSize:       {ID: AttrBufferPoolSize, Kind: KindUint32, Flags: FlagCreateAndSet, Default: DefaultConst},
			AttrBufferPoolThreshMode: {ID: AttrBufferPoolThreshMode, Kind: KindUint32, Flags: FlagCreateOnly, Default: DefaultConst},
		},
	})

	r.Register(&ObjectMeta{
		ObjectType: ObjectTypeBufferProfile,
		IsOID:      true,
		Attrs: map[AttrID]AttrMeta{
			AttrBufferProfilePoolID: {ID: AttrBufferProfilePoolID, Kind: KindOID, Flags: FlagCreateOnly | FlagMandatoryOnCreate,
				AllowedObjectTypes: []ObjectType{ObjectTypeBufferPool}},
			AttrBufferProfileReservedSize: {ID: AttrBufferProfileReservedSize, Kind: KindUint32, Flags: FlagCreateAndSet, Default: DefaultConst},
		},
	})

	r.Register(&ObjectMeta{
		ObjectType: ObjectTypeQueue,
		IsOID:      true,
		Attrs: map[AttrID]AttrMeta{
			AttrQueueIndex: {ID: AttrQueueIndex, Kind: KindUint8, Flags: FlagReadOnly},
			AttrQueuePort: {ID: AttrQueuePort, Kind: KindOID, Flags: FlagReadOnly,
				AllowedObjectTypes: []ObjectType{ObjectTypePort}},
			AttrQueueType: {ID: AttrQueueType, Kind: KindUint32, Flags: FlagReadOnly},
		},
	})

	r.Register(&ObjectMeta{
		ObjectType: ObjectTypeHostifTrapGroup,
		IsOID:      true,
		Attrs: map[AttrID]AttrMeta{
			AttrHostifTrapGroupQueue:    {ID: AttrHostifTrapGroupQueue, Kind: KindUint32, Flags: FlagCreateAndSet, Default: DefaultConst},
			AttrHostifTrapGroupPriority: {ID: AttrHostifTrapGroupPriority, Kind: KindUint32, Flags: FlagCreateAndSet, Default: DefaultConst},
		},
	})

	r.Register(&ObjectMeta{
		ObjectType: ObjectTypeVlanMember,
		IsOID:      true,
		Attrs: map[AttrID]AttrMeta{
			AttrVlanMemberVlanID: {ID: AttrVlanMemberVlanID, Kind: KindOID, Flags: FlagCreateOnly | FlagMandatoryOnCreate,
				AllowedObjectTypes: []ObjectType{ObjectTypeVlan}},
			AttrVlanMemberBridgePortID: {ID: AttrVlanMemberBridgePortID, Kind: KindOID, Flags: FlagCreateOnly | FlagMandatoryOnCreate,
				AllowedObjectTypes: []ObjectType{ObjectTypeBridgePort}},
		},
	})

	// Remaining declared object types (VLAN, LAG, ACL_*, TUNNEL, STP, ...)
	// are registered with an empty attribute table: enough to mint and log
	// VIDs for them, matching how a real driver recognizes more object
	// types than any single test exercises.
	for ot := range objectTypeNames {
		if _, ok := r.objects[ot]; !ok {
			r.Register(&ObjectMeta{ObjectType: ot, IsOID: true, Attrs: map[AttrID]AttrMeta{}})
		}
	}

	return r
}
