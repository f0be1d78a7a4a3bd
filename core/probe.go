package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/orbmesh/orbmesh/state"
)

// Probe is the external convergence observer. It polls every agent's
// routing-table snapshot and declares convergence once the network-wide
// view is identical across StableRounds consecutive samples. It reads
// through the snapshot interface only; it is not part of the protocol.
type Probe struct {
	Registry     *Registry
	Interval     time.Duration
	StableRounds int
}

func NewProbe(reg *Registry) *Probe {
	return &Probe{
		Registry:     reg,
		Interval:     state.ProbeDelay,
		StableRounds: state.ProbeStableRounds,
	}
}

func (p *Probe) sample() map[state.NodeId][]RouteSnapshot {
	out := make(map[state.NodeId][]RouteSnapshot)
	for _, a := range p.Registry.Agents() {
		out[a.Id] = a.Snapshot().Routes
	}
	return out
}

// equalSamples ignores timestamps: a converged network still refreshes
// entry timestamps on periodic cycles.
func equalSamples(a, b map[state.NodeId][]RouteSnapshot) bool {
	return cmp.Equal(a, b, cmpopts.IgnoreFields(RouteSnapshot{}, "Timestamp"), cmpopts.EquateEmpty())
}

// WaitConverged blocks until convergence or ctx expiry. On success it
// returns the converged network-wide sample.
func (p *Probe) WaitConverged(ctx context.Context) (map[state.NodeId][]RouteSnapshot, error) {
	var last map[state.NodeId][]RouteSnapshot
	stable := 0
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("convergence probe timed out: %w", ctx.Err())
		case <-ticker.C:
		}
		cur := p.sample()
		if last != nil && equalSamples(last, cur) {
			stable++
			if stable >= p.StableRounds {
				return cur, nil
			}
		} else {
			stable = 0
		}
		last = cur
	}
}
