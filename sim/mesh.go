// Package sim wires registries, agents and the link-event feed into a
// runnable in-process mesh. It backs both the integration tests and the
// run command.
package sim

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/encodeous/tint"
	"github.com/orbmesh/orbmesh/core"
	"github.com/orbmesh/orbmesh/state"
	slogmulti "github.com/samber/slog-multi"
)

type Mesh struct {
	Cfg      *state.CentralCfg
	Clock    state.Clock
	Registry *core.Registry

	agents []*core.Agent
}

// NewMesh builds one agent per configured node, each with its own
// node-prefixed logger, registered against a fresh registry.
func NewMesh(cfg *state.CentralCfg, clock state.Clock, level slog.Level) (*Mesh, error) {
	cfg.ApplyDefaults()
	if err := state.CentralConfigValidator(cfg); err != nil {
		return nil, err
	}
	m := &Mesh{
		Cfg:      cfg,
		Clock:    clock,
		Registry: core.NewRegistry(),
	}
	for _, node := range cfg.Nodes {
		logger, err := nodeLogger(node.Id, level, cfg.LogPath)
		if err != nil {
			return nil, err
		}
		agent, err := core.NewAgent(node.Id, cfg, clock, m.Registry, logger)
		if err != nil {
			return nil, err
		}
		m.Registry.Register(agent)
		m.agents = append(m.agents, agent)
	}
	return m, nil
}

func nodeLogger(id state.NodeId, level slog.Level, logPath string) (*slog.Logger, error) {
	handlers := make([]slog.Handler, 0)
	handlers = append(handlers, tint.NewHandler(os.Stderr, &tint.Options{
		Level:        level,
		AddSource:    false,
		TimeFormat:   "15:04:05",
		CustomPrefix: string(id),
	}))
	if logPath != "" {
		err := os.MkdirAll(path.Dir(logPath), 0700)
		if err != nil {
			return nil, err
		}
		f, err := os.OpenFile(logPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0700)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(slogmulti.Fanout(handlers...)).With("node", string(id)), nil
}

func (m *Mesh) Agents() []*core.Agent {
	return m.agents
}

func (m *Mesh) Agent(id state.NodeId) *core.Agent {
	return m.Registry.Lookup(id)
}

func (m *Mesh) Start() {
	for _, a := range m.agents {
		a.Start()
	}
}

func (m *Mesh) Stop() {
	for _, a := range m.agents {
		a.Stop()
	}
}

// Inject implements the topology event sink.
func (m *Mesh) Inject(node state.NodeId, ev state.NeighborEvent) bool {
	a := m.Registry.Lookup(node)
	if a == nil {
		return false
	}
	return a.InjectNeighborEvent(ev)
}

// Link feeds a symmetric ADD to both endpoints, valid for the given
// window.
func (m *Mesh) Link(a, b state.NodeId, quality float64, start, end time.Time) error {
	for _, pair := range []state.Pair[state.NodeId, state.NodeId]{{V1: a, V2: b}, {V1: b, V2: a}} {
		q := quality
		ev := state.NeighborEvent{
			Kind:      state.EventAdd,
			Neighbor:  pair.V2,
			StartTime: start,
			EndTime:   end,
			Quality:   &q,
		}
		if !m.Inject(pair.V1, ev) {
			return fmt.Errorf("failed to inject link event for %s", pair.V1)
		}
	}
	return nil
}

// Unlink feeds a symmetric REMOVE to both endpoints.
func (m *Mesh) Unlink(a, b state.NodeId) {
	m.Inject(a, state.NeighborEvent{Kind: state.EventRemove, Neighbor: b})
	m.Inject(b, state.NeighborEvent{Kind: state.EventRemove, Neighbor: a})
}

func (m *Mesh) Probe() *core.Probe {
	return core.NewProbe(m.Registry)
}
