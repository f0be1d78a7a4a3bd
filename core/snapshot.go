package core

import (
	"slices"
	"time"

	"github.com/orbmesh/orbmesh/state"
)

// RouteSnapshot is one routing-table entry as exposed through the read-only
// snapshot interface.
type RouteSnapshot struct {
	Destination state.NodeId
	NextHop     state.NodeId
	HopCount    int
	Cost        float64
	Timestamp   time.Time
}

type NeighborSnapshot struct {
	Id                 state.NodeId
	Quality            float64
	SignalStrength     float64
	BandwidthAvailable float64
	StartTime          time.Time
	EndTime            time.Time
	LastSeen           time.Time
	Active             bool
}

// AgentSnapshot is a consistent read-only view of one agent, consumed by
// the visualization collaborator and by test probes. Slices are sorted by
// id for deterministic comparison.
type AgentSnapshot struct {
	Node      state.NodeId
	Neighbors []NeighborSnapshot
	Routes    []RouteSnapshot
	Counters  CounterValues
}

func (a *Agent) Snapshot() AgentSnapshot {
	snap := AgentSnapshot{Node: a.Id}

	a.nmu.Lock()
	for _, n := range a.rs.Neighbors {
		snap.Neighbors = append(snap.Neighbors, NeighborSnapshot{
			Id:                 n.Id,
			Quality:            n.Quality,
			SignalStrength:     n.SignalStrength,
			BandwidthAvailable: n.BandwidthAvailable,
			StartTime:          n.StartTime,
			EndTime:            n.EndTime,
			LastSeen:           n.LastSeen,
			Active:             n.Active,
		})
	}
	a.nmu.Unlock()

	a.rmu.Lock()
	for _, r := range a.rs.Routes {
		snap.Routes = append(snap.Routes, RouteSnapshot{
			Destination: r.Destination,
			NextHop:     r.NextHop,
			HopCount:    r.HopCount,
			Cost:        r.Cost,
			Timestamp:   r.Timestamp,
		})
	}
	a.rmu.Unlock()

	slices.SortFunc(snap.Neighbors, func(x, y NeighborSnapshot) int {
		return cmpNodeId(x.Id, y.Id)
	})
	slices.SortFunc(snap.Routes, func(x, y RouteSnapshot) int {
		return cmpNodeId(x.Destination, y.Destination)
	})
	snap.Counters = a.counters.Values()
	return snap
}

func cmpNodeId(a, b state.NodeId) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
