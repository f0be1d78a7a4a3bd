package topology

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/orbmesh/orbmesh/state"
)

// EventSink accepts neighbor events on behalf of one node. The simulation
// harness wires this to the agents' event queues.
type EventSink interface {
	Inject(node state.NodeId, ev state.NeighborEvent) bool
}

// Replayer converts link windows into timed ADD events. Expiry is handled
// by the agents' own liveness checks once a window closes, matching the
// feed contract: no explicit REMOVE is ever synthesized.
type Replayer struct {
	Clock   state.Clock
	Sink    EventSink
	Log     *slog.Logger
	Quality float64 // link quality stamped on every ADD
}

func NewReplayer(clock state.Clock, sink EventSink, log *slog.Logger) *Replayer {
	return &Replayer{
		Clock:   clock,
		Sink:    sink,
		Log:     log,
		Quality: state.DefaultLinkQuality,
	}
}

// Run injects every mesh link's ADD at its window start, in order. It
// returns when all links are replayed or the context is cancelled.
func (r *Replayer) Run(ctx context.Context, links []Link) error {
	mesh := FilterMesh(links)
	slices.SortFunc(mesh, func(a, b Link) int {
		return a.StartTime.Compare(b.StartTime)
	})

	timer := r.Clock.NewTimer(time.Hour)
	defer timer.Stop()

	for _, link := range mesh {
		for {
			now := r.Clock.Now()
			if !now.Before(link.StartTime) {
				break
			}
			timer.Reset(link.StartTime.Sub(now))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C():
			}
		}
		quality := r.Quality
		ev := state.NeighborEvent{
			Kind:      state.EventAdd,
			Neighbor:  link.Destination,
			StartTime: link.StartTime,
			EndTime:   link.EndTime,
			Quality:   &quality,
		}
		if !r.Sink.Inject(link.Source, ev) {
			r.Log.Warn("dropped link event", "source", link.Source, "destination", link.Destination)
		}
	}
	return nil
}
