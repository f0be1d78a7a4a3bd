package state

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

type NodeId string

// NeighborInfo tracks a single link and its visibility window. It is owned
// exclusively by the hosting agent and must only be touched under the
// agent's neighbor lock.
type NeighborInfo struct {
	Id                 NodeId
	Quality            float64 // in [0, 1]
	StartTime          time.Time
	EndTime            time.Time
	LastSeen           time.Time
	SignalStrength     float64 // dBm
	BandwidthAvailable float64 // Mbps
	Active             bool
}

// WindowContains reports whether the link is physically valid at t.
func (n *NeighborInfo) WindowContains(t time.Time) bool {
	return !t.Before(n.StartTime) && !t.After(n.EndTime)
}

// RouteEntry is a single distance-vector table entry. Entries are replaced
// atomically on acceptance and never mutated in place.
type RouteEntry struct {
	Destination NodeId
	NextHop     NodeId
	HopCount    int
	Cost        float64 // >= 1.0
	Timestamp   time.Time
}

// AdvRoute is the advertised form of a route inside a RoutingMessage.
type AdvRoute struct {
	HopCount int
	Cost     float64
}

type RoutingMessage struct {
	Sender    NodeId
	Seq       uint64 // strictly increasing per sender
	Timestamp time.Time
	Routes    map[NodeId]AdvRoute
}

// SeenKey identifies a routing message for deduplication.
type SeenKey struct {
	Sender NodeId
	Seq    uint64
}

type EventKind int

const (
	EventAdd EventKind = iota
	EventUpdate
	EventRemove
)

func (k EventKind) String() string {
	switch k {
	case EventAdd:
		return "ADD"
	case EventUpdate:
		return "UPDATE"
	case EventRemove:
		return "REMOVE"
	}
	return "UNKNOWN"
}

// NeighborEvent is a single link-event feed record. Optional fields are nil
// when the event does not carry them.
type NeighborEvent struct {
	Kind      EventKind
	Neighbor  NodeId
	StartTime time.Time
	EndTime   time.Time
	Quality   *float64
	Signal    *float64
	Bandwidth *float64
}

// RouterState bundles the neighbor table and the distance-vector table of a
// single agent. The routing algorithm operates on RouterState through pure
// functions; all synchronization lives in the agent.
type RouterState struct {
	Id NodeId

	KHops            int
	MaxRouteAge      time.Duration
	LivenessInterval time.Duration
	Cost             CostFunc

	Seq       uint64
	Neighbors map[NodeId]*NeighborInfo
	Routes    map[NodeId]RouteEntry
	Seen      *ttlcache.Cache[SeenKey, struct{}]
}

func NewRouterState(id NodeId, kHops int, maxRouteAge, livenessInterval time.Duration, cost CostFunc) *RouterState {
	return &RouterState{
		Id:               id,
		KHops:            kHops,
		MaxRouteAge:      maxRouteAge,
		LivenessInterval: livenessInterval,
		Cost:             cost,
		Neighbors:        make(map[NodeId]*NeighborInfo),
		Routes:           make(map[NodeId]RouteEntry),
		Seen: ttlcache.New[SeenKey, struct{}](
			ttlcache.WithTTL[SeenKey, struct{}](SeenEntryTTL),
			ttlcache.WithDisableTouchOnHit[SeenKey, struct{}](),
		),
	}
}

// MarkSeen records a (sender, seq) pair, returning false if it was already
// present. Pairs are processed at most once.
func (rs *RouterState) MarkSeen(key SeenKey) bool {
	if rs.Seen.Get(key) != nil {
		return false
	}
	rs.Seen.Set(key, struct{}{}, ttlcache.DefaultTTL)
	return true
}

type Pair[Ty1, Ty2 any] struct {
	V1 Ty1
	V2 Ty2
}
