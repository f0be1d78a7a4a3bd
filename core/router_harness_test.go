package core

import (
	"time"

	"github.com/orbmesh/orbmesh/state"
)

// routerHarness records the side effects the algorithm requests, so tests
// can assert on them without running an agent loop.
type routerHarness struct {
	broadcasts []time.Duration
	logs       []RouterEvent
}

func (h *routerHarness) ScheduleBroadcast(after time.Duration) {
	h.broadcasts = append(h.broadcasts, after)
}

func (h *routerHarness) Log(event RouterEvent, args ...any) {
	h.logs = append(h.logs, event)
}

func (h *routerHarness) logged(event RouterEvent) bool {
	for _, e := range h.logs {
		if e == event {
			return true
		}
	}
	return false
}

func (h *routerHarness) reset() {
	h.broadcasts = nil
	h.logs = nil
}

func newTestState(id state.NodeId, kHops int) *state.RouterState {
	return state.NewRouterState(id, kHops, time.Hour, time.Second, state.QualityCost)
}

func addEvent(neigh state.NodeId, quality float64, window time.Duration, now time.Time) state.NeighborEvent {
	q := quality
	return state.NeighborEvent{
		Kind:      state.EventAdd,
		Neighbor:  neigh,
		StartTime: now,
		EndTime:   now.Add(window),
		Quality:   &q,
	}
}

func makeMessage(sender state.NodeId, seq uint64, now time.Time, routes map[state.NodeId]state.AdvRoute) state.RoutingMessage {
	return state.RoutingMessage{
		Sender:    sender,
		Seq:       seq,
		Timestamp: now,
		Routes:    routes,
	}
}
