package core

import (
	"log/slog"
	"testing"
	"time"

	"github.com/orbmesh/orbmesh/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCfg() *state.CentralCfg {
	cfg := &state.CentralCfg{}
	cfg.ApplyDefaults()
	return cfg
}

func newIdleAgent(t *testing.T, reg *Registry, id state.NodeId) *Agent {
	t.Helper()
	a, err := NewAgent(id, testCfg(), state.SystemClock{}, reg, slog.Default())
	require.NoError(t, err)
	return a
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()
	a := newIdleAgent(t, reg, "a")
	b := newIdleAgent(t, reg, "b")
	reg.Register(a)
	reg.Register(b)

	assert.Same(t, a, reg.Lookup("a"))
	assert.Same(t, b, reg.Lookup("b"))
	assert.Nil(t, reg.Lookup("c"))
	assert.Len(t, reg.Agents(), 2)

	reg.Unregister("a")
	assert.Nil(t, reg.Lookup("a"))
	assert.Len(t, reg.Agents(), 1)
}

func TestDeliverToUnknownTarget(t *testing.T) {
	reg := NewRegistry()
	assert.False(t, reg.Deliver("nobody", state.RoutingMessage{Sender: "a", Seq: 1}))
}

func TestDeliverToFullInbox(t *testing.T) {
	reg := NewRegistry()
	a := newIdleAgent(t, reg, "a")
	reg.Register(a)

	// the agent is not running, so the inbox fills and overflow is dropped
	for i := 0; i < state.InboxSize; i++ {
		require.True(t, reg.Deliver("a", state.RoutingMessage{Sender: "b", Seq: uint64(i)}))
	}
	assert.False(t, reg.Deliver("a", state.RoutingMessage{Sender: "b", Seq: 9999}))
}

func TestNewAgentRejectsBadInput(t *testing.T) {
	reg := NewRegistry()
	_, err := NewAgent("bad id", testCfg(), state.SystemClock{}, reg, slog.Default())
	assert.Error(t, err)

	cfg := testCfg()
	cfg.CostFunction = "nope"
	_, err = NewAgent("ok", cfg, state.SystemClock{}, reg, slog.Default())
	assert.Error(t, err)
}

func TestAgentMetadataAccess(t *testing.T) {
	reg := NewRegistry()
	a := newIdleAgent(t, reg, "a")

	require.NoError(t, a.UpdateMetadata(map[string]any{"bandwidth_capacity": 500.0}))
	assert.Equal(t, 500.0, a.Metadata().BandwidthCapacity)

	before := a.Metadata()
	err := a.UpdateMetadata(map[string]any{"bandwidth_capacity": 900.0, "bogus": 1})
	require.Error(t, err)
	assert.Equal(t, before, a.Metadata())

	require.NoError(t, a.SetCoordinates(map[string]float64{"latitude": 1, "longitude": 2, "altitude": 550}))
	assert.Equal(t, state.Coordinates{Latitude: 1, Longitude: 2, Altitude: 550}, a.Coordinates())
	assert.Error(t, a.SetCoordinates(map[string]float64{"latitude": 1}))

	a.RecordTransmission(10, 8)
	assert.Equal(t, 0.8, a.Metadata().SuccessfulTransmission)
}

func TestSnapshotSortedAndConsistent(t *testing.T) {
	reg := NewRegistry()
	cfg := testCfg()
	cfg.UpdateInterval = 50 * time.Millisecond
	a, err := NewAgent("a", cfg, state.SystemClock{}, reg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	reg.Register(a)
	a.Start()
	defer a.Stop()

	now := time.Now()
	end := now.Add(time.Hour)
	q := 1.0
	for _, id := range []state.NodeId{"z", "b", "m"} {
		require.True(t, a.InjectNeighborEvent(state.NeighborEvent{
			Kind: state.EventAdd, Neighbor: id, StartTime: now, EndTime: end, Quality: &q,
		}))
	}

	require.Eventually(t, func() bool {
		return len(a.Snapshot().Neighbors) == 3
	}, 5*time.Second, 10*time.Millisecond)

	snap := a.Snapshot()
	assert.Equal(t, state.NodeId("a"), snap.Node)
	require.Len(t, snap.Neighbors, 3)
	assert.Equal(t, state.NodeId("b"), snap.Neighbors[0].Id)
	assert.Equal(t, state.NodeId("m"), snap.Neighbors[1].Id)
	assert.Equal(t, state.NodeId("z"), snap.Neighbors[2].Id)
	require.Len(t, snap.Routes, 3)
	assert.Equal(t, state.NodeId("b"), snap.Routes[0].Destination)
	assert.Equal(t, 1, snap.Routes[0].HopCount)
}
