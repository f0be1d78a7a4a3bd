package core

import (
	"sync"

	"github.com/orbmesh/orbmesh/state"
)

// Registry is the process-wide directory mapping node id to agent handle.
// It is constructed explicitly and passed to each agent, so several
// isolated simulations can coexist in one process. All methods are safe for
// concurrent use.
type Registry struct {
	mu     sync.RWMutex
	agents map[state.NodeId]*Agent
}

func NewRegistry() *Registry {
	return &Registry{
		agents: make(map[state.NodeId]*Agent),
	}
}

func (r *Registry) Register(a *Agent) {
	r.mu.Lock()
	r.agents[a.Id] = a
	r.mu.Unlock()
}

func (r *Registry) Unregister(id state.NodeId) {
	r.mu.Lock()
	delete(r.agents, id)
	r.mu.Unlock()
}

func (r *Registry) Lookup(id state.NodeId) *Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.agents[id]
}

func (r *Registry) Agents() []*Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Agent, 0, len(r.agents))
	for _, a := range r.agents {
		out = append(out, a)
	}
	return out
}

// Deliver enqueues the message into the target's inbound queue. Unresolved
// targets and full queues drop the message; the caller counts the failure.
func (r *Registry) Deliver(to state.NodeId, msg state.RoutingMessage) bool {
	target := r.Lookup(to)
	if target == nil {
		return false
	}
	return target.enqueue(msg)
}
