package core

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/orbmesh/orbmesh/state"
)

type RouterEvent int

// trace events

const (
	RouteAdded RouterEvent = iota
	RouteImproved
	RouteRefreshed
	StaleRouteDropped
	NeighborAdded
	NeighborRefreshed
	NeighborRemoved
	NeighborExpired
	NeighborSoftDown
	DuplicateDropped
)

// warn events

const (
	UnknownSender RouterEvent = iota + 1000
)

func (e RouterEvent) String() string {
	switch e {
	case RouteAdded:
		return "route added"
	case RouteImproved:
		return "route improved"
	case RouteRefreshed:
		return "route refreshed"
	case StaleRouteDropped:
		return "stale route dropped"
	case NeighborAdded:
		return "neighbor added"
	case NeighborRefreshed:
		return "neighbor refreshed"
	case NeighborRemoved:
		return "neighbor removed"
	case NeighborExpired:
		return "neighbor expired"
	case NeighborSoftDown:
		return "neighbor marked inactive"
	case DuplicateDropped:
		return "duplicate dropped"
	case UnknownSender:
		return "message from unknown sender"
	}
	return "unknown event"
}

// Router is the set of side effects the routing algorithm can trigger. The
// agent implements it for real operation; tests substitute a recording
// harness.
type Router interface {
	// ScheduleBroadcast requests a route advertisement after the given
	// delay. A zero delay means as soon as possible; competing requests
	// collapse to the earliest deadline.
	ScheduleBroadcast(after time.Duration)
	Log(event RouterEvent, args ...any)
}

// TriggerJitter picks the randomized delay for a triggered re-broadcast.
func TriggerJitter() time.Duration {
	span := state.TriggerJitterMax - state.TriggerJitterMin
	if span <= 0 {
		return state.TriggerJitterMin
	}
	return state.TriggerJitterMin + rand.N(span)
}

// LinkCost returns the cost of the direct link to neigh, or +Inf when the
// neighbor is absent or inactive.
func LinkCost(rs *state.RouterState, neigh state.NodeId) float64 {
	n, ok := rs.Neighbors[neigh]
	if !ok || !n.Active {
		return math.Inf(1)
	}
	return rs.Cost(n)
}

// ApplyNeighborEvent mutates the neighbor table for one link-event feed
// record. Events are applied strictly before any message referencing the
// neighbor is processed.
func ApplyNeighborEvent(rs *state.RouterState, r Router, ev state.NeighborEvent, now time.Time) {
	switch ev.Kind {
	case state.EventAdd:
		AddNeighbor(rs, r, ev, now)
	case state.EventUpdate:
		UpdateNeighbor(rs, r, ev, now)
	case state.EventRemove:
		RemoveNeighbor(rs, r, ev.Neighbor)
		r.Log(NeighborRemoved, "neighbor", ev.Neighbor)
	}
}

// AddNeighbor creates or overwrites the neighbor entry, seeds the 1-hop
// direct route and triggers an immediate broadcast.
func AddNeighbor(rs *state.RouterState, r Router, ev state.NeighborEvent, now time.Time) {
	quality := state.DefaultLinkQuality
	if ev.Quality != nil {
		quality = *ev.Quality
	}
	n := &state.NeighborInfo{
		Id:        ev.Neighbor,
		Quality:   quality,
		StartTime: ev.StartTime,
		EndTime:   ev.EndTime,
		LastSeen:  now,
		Active:    true,
	}
	if ev.Signal != nil {
		n.SignalStrength = *ev.Signal
	}
	if ev.Bandwidth != nil {
		n.BandwidthAvailable = *ev.Bandwidth
	}
	rs.Neighbors[ev.Neighbor] = n
	seedDirectRoute(rs, ev.Neighbor, now)
	r.Log(NeighborAdded, "neighbor", ev.Neighbor, "window_end", ev.EndTime)
	r.ScheduleBroadcast(0)
}

// UpdateNeighbor merges the provided fields, refreshes liveness and renews
// the direct route. An UPDATE for an unknown neighbor is dropped.
func UpdateNeighbor(rs *state.RouterState, r Router, ev state.NeighborEvent, now time.Time) {
	n, ok := rs.Neighbors[ev.Neighbor]
	if !ok {
		return
	}
	if ev.Quality != nil {
		n.Quality = *ev.Quality
	}
	if ev.Signal != nil {
		n.SignalStrength = *ev.Signal
	}
	if ev.Bandwidth != nil {
		n.BandwidthAvailable = *ev.Bandwidth
	}
	n.LastSeen = now
	n.Active = true
	seedDirectRoute(rs, ev.Neighbor, now)
	r.Log(NeighborRefreshed, "neighbor", ev.Neighbor)
}

// RemoveNeighbor deletes the neighbor and cascades deletion of every route
// that used it as next hop. Destinations still reachable through other
// paths are transiently orphaned; reconvergence is left to the next
// broadcast cycle from other neighbors.
func RemoveNeighbor(rs *state.RouterState, r Router, id state.NodeId) {
	if _, ok := rs.Neighbors[id]; !ok {
		return
	}
	delete(rs.Neighbors, id)
	for dest, route := range rs.Routes {
		if route.NextHop == id {
			delete(rs.Routes, dest)
		}
	}
}

func seedDirectRoute(rs *state.RouterState, neigh state.NodeId, now time.Time) {
	rs.Routes[neigh] = state.RouteEntry{
		Destination: neigh,
		NextHop:     neigh,
		HopCount:    1,
		Cost:        LinkCost(rs, neigh),
		Timestamp:   now,
	}
}

// CheckLiveness hard-expires neighbors past their window (with route
// cascade) and soft-marks inactive the ones that have not been refreshed
// within twice the liveness interval.
func CheckLiveness(rs *state.RouterState, r Router, now time.Time) {
	for id, n := range rs.Neighbors {
		if now.After(n.EndTime) {
			RemoveNeighbor(rs, r, id)
			r.Log(NeighborExpired, "neighbor", id, "window_end", n.EndTime)
			continue
		}
		if n.Active && now.Sub(n.LastSeen) > 2*rs.LivenessInterval {
			n.Active = false
			r.Log(NeighborSoftDown, "neighbor", id, "last_seen", n.LastSeen)
		}
	}
}

// ProcessAdvertisement folds one routing message into the table. It
// reports whether any entry was accepted; acceptance schedules a jittered
// re-broadcast at the caller's request.
func ProcessAdvertisement(rs *state.RouterState, r Router, msg state.RoutingMessage, now time.Time) bool {
	if !rs.MarkSeen(state.SeenKey{Sender: msg.Sender, Seq: msg.Seq}) {
		r.Log(DuplicateDropped, "sender", msg.Sender, "seq", msg.Seq)
		return false
	}

	linkCost := LinkCost(rs, msg.Sender)
	if math.IsInf(linkCost, 1) {
		// sender is not an active neighbor; accepting would break the
		// next-hop invariant
		r.Log(UnknownSender, "sender", msg.Sender)
		return false
	}

	accepted := false
	for dest, adv := range msg.Routes {
		if dest == rs.Id {
			continue
		}
		newHop := adv.HopCount + 1
		if newHop > rs.KHops {
			continue // beyond the routing horizon
		}
		newCost := adv.Cost + linkCost

		cur, exists := rs.Routes[dest]
		switch {
		case !exists:
			r.Log(RouteAdded, "dest", dest, "via", msg.Sender, "hops", newHop)
		case newHop < cur.HopCount:
			r.Log(RouteImproved, "dest", dest, "via", msg.Sender, "hops", newHop)
		case newHop == cur.HopCount && newCost < cur.Cost:
			r.Log(RouteImproved, "dest", dest, "via", msg.Sender, "cost", newCost)
		case now.Sub(cur.Timestamp) > rs.MaxRouteAge:
			r.Log(RouteRefreshed, "dest", dest, "via", msg.Sender)
		default:
			continue
		}

		rs.Routes[dest] = state.RouteEntry{
			Destination: dest,
			NextHop:     msg.Sender,
			HopCount:    newHop,
			Cost:        newCost,
			Timestamp:   now,
		}
		accepted = true
	}

	if accepted {
		r.ScheduleBroadcast(TriggerJitter())
	}
	return accepted
}

// RefreshDirectRoutes renews the 1-hop route to every active in-window
// neighbor. Runs at the start of each periodic cycle so direct routes never
// age out while the link is up.
func RefreshDirectRoutes(rs *state.RouterState, now time.Time) {
	for id, n := range rs.Neighbors {
		if n.Active && n.WindowContains(now) {
			seedDirectRoute(rs, id, now)
		}
	}
}

// BuildUpdate increments the sender sequence number and assembles the
// advertisement. Routes already at the horizon are never re-advertised.
func BuildUpdate(rs *state.RouterState, now time.Time) state.RoutingMessage {
	rs.Seq++
	msg := state.RoutingMessage{
		Sender:    rs.Id,
		Seq:       rs.Seq,
		Timestamp: now,
		Routes:    make(map[state.NodeId]state.AdvRoute),
	}
	for dest, route := range rs.Routes {
		if route.HopCount >= rs.KHops {
			continue
		}
		msg.Routes[dest] = state.AdvRoute{
			HopCount: route.HopCount,
			Cost:     route.Cost,
		}
	}
	return msg
}

// ActiveNeighbors snapshots the identifiers of currently active neighbors.
func ActiveNeighbors(rs *state.RouterState) []state.NodeId {
	ids := make([]state.NodeId, 0, len(rs.Neighbors))
	for id, n := range rs.Neighbors {
		if n.Active {
			ids = append(ids, id)
		}
	}
	return ids
}

// CleanupStaleRoutes drops entries older than MaxRouteAge. This runs
// independently of neighbor-removal cascades and guards against routes
// surviving a remote failure that produced no explicit signal.
func CleanupStaleRoutes(rs *state.RouterState, r Router, now time.Time) {
	for dest, route := range rs.Routes {
		if now.Sub(route.Timestamp) > rs.MaxRouteAge {
			delete(rs.Routes, dest)
			r.Log(StaleRouteDropped, "dest", dest, "via", route.NextHop)
		}
	}
}
