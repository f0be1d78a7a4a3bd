package core

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/orbmesh/orbmesh/perf"
	"github.com/orbmesh/orbmesh/state"
)

// Dispatcher delivers a routing message into the target's inbound queue.
// It reports false when the target cannot be resolved or its queue is full;
// the send is dropped without retry.
type Dispatcher interface {
	Deliver(to state.NodeId, msg state.RoutingMessage) bool
}

// Counters are the aggregate per-agent statistics exposed through the
// snapshot interface.
type Counters struct {
	MessagesProcessed atomic.Uint64
	UpdatesSent       atomic.Uint64
	FailedDeliveries  atomic.Uint64
}

type CounterValues struct {
	MessagesProcessed uint64
	UpdatesSent       uint64
	FailedDeliveries  uint64
}

func (c *Counters) Values() CounterValues {
	return CounterValues{
		MessagesProcessed: c.MessagesProcessed.Load(),
		UpdatesSent:       c.UpdatesSent.Load(),
		FailedDeliveries:  c.FailedDeliveries.Load(),
	}
}

// Agent owns all per-node routing state and runs the control loop. Agents
// never share mutable state; all cross-agent interaction goes through the
// dispatcher.
type Agent struct {
	Id   state.NodeId
	Uuid uuid.UUID

	clock    state.Clock
	log      *slog.Logger
	dispatch Dispatcher
	cfg      *state.CentralCfg

	// Lock order: nmu before rmu. Neither is ever held across a Deliver
	// call; the loop snapshots what it needs, releases, then sends.
	nmu sync.Mutex // neighbor table
	rmu sync.Mutex // routing table, seq, seen set
	mmu sync.Mutex // metadata, coordinates
	rs  *state.RouterState

	meta   state.Metadata
	coords state.Coordinates

	events chan state.NeighborEvent
	inbox  chan state.RoutingMessage

	// earliest requested broadcast deadline; zero when none is pending.
	// Only touched from the control loop goroutine.
	pendingBroadcast time.Time

	counters Counters

	ctx    context.Context
	cancel context.CancelCauseFunc
	done   chan struct{}
}

func NewAgent(id state.NodeId, cfg *state.CentralCfg, clock state.Clock, dispatch Dispatcher, log *slog.Logger) (*Agent, error) {
	if err := state.NameValidator(string(id)); err != nil {
		return nil, err
	}
	cost, err := state.CostByName(cfg.CostFunction)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	a := &Agent{
		Id:       id,
		Uuid:     uuid.New(),
		clock:    clock,
		log:      log,
		dispatch: dispatch,
		cfg:      cfg,
		rs:       state.NewRouterState(id, cfg.KHops, cfg.MaxRouteAge, cfg.LivenessInterval, cost),
		meta:     state.RandomMetadata(rng),
		coords:   state.RandomCoordinates(rng),
		events:   make(chan state.NeighborEvent, state.EventsSize),
		inbox:    make(chan state.RoutingMessage, state.InboxSize),
		done:     make(chan struct{}),
	}
	return a, nil
}

// Start launches the control loop. It must be called at most once.
func (a *Agent) Start() {
	a.ctx, a.cancel = context.WithCancelCause(context.Background())
	go a.run()
}

// Stop signals the loop to exit and waits for it to drain.
func (a *Agent) Stop() {
	if a.cancel == nil {
		return
	}
	a.cancel(errors.New("agent stopped"))
	<-a.done
}

// InjectNeighborEvent feeds one link-event record into the agent. A full
// queue drops the event and reports false.
func (a *Agent) InjectNeighborEvent(ev state.NeighborEvent) bool {
	select {
	case a.events <- ev:
		return true
	default:
		a.log.Warn("neighbor event queue full, dropping event", "kind", ev.Kind.String(), "neighbor", ev.Neighbor)
		return false
	}
}

// enqueue places an inbound routing message, dropping it when the queue is
// full or the agent has stopped.
func (a *Agent) enqueue(msg state.RoutingMessage) bool {
	select {
	case a.inbox <- msg:
		return true
	default:
		return false
	}
}

func (a *Agent) run() {
	defer close(a.done)
	a.log.Debug("started agent loop")

	now := a.clock.Now()
	nextUpdate := now.Add(a.cfg.UpdateInterval)
	nextLiveness := now.Add(a.cfg.LivenessInterval)
	nextGc := now.Add(a.cfg.GcInterval)

	timer := a.clock.NewTimer(a.untilNext(now, nextUpdate, nextLiveness, nextGc))
	defer timer.Stop()

	for {
		select {
		case <-a.ctx.Done():
			a.log.Debug("stopped agent loop", "reason", context.Cause(a.ctx).Error())
			return
		case ev := <-a.events:
			a.applyEvent(ev)
		case msg := <-a.inbox:
			// causal order: any queued neighbor event first
			a.drainEvents()
			a.processMessage(msg)
		case <-timer.C():
		}

		a.drainEvents()
		a.drainInbox()

		now = a.clock.Now()
		if !now.Before(nextLiveness) {
			a.runLiveness(now)
			nextLiveness = now.Add(a.cfg.LivenessInterval)
		}
		if !now.Before(nextUpdate) || (!a.pendingBroadcast.IsZero() && !now.Before(a.pendingBroadcast)) {
			a.broadcast(now)
			a.pendingBroadcast = time.Time{}
			nextUpdate = now.Add(a.cfg.UpdateInterval)
		}
		if !now.Before(nextGc) {
			a.runGc(now)
			nextGc = now.Add(a.cfg.GcInterval)
		}
		timer.Reset(a.untilNext(now, nextUpdate, nextLiveness, nextGc))
	}
}

func (a *Agent) untilNext(now, nextUpdate, nextLiveness, nextGc time.Time) time.Duration {
	next := nextUpdate
	if nextLiveness.Before(next) {
		next = nextLiveness
	}
	if nextGc.Before(next) {
		next = nextGc
	}
	if !a.pendingBroadcast.IsZero() && a.pendingBroadcast.Before(next) {
		next = a.pendingBroadcast
	}
	d := next.Sub(now)
	if d < time.Millisecond {
		d = time.Millisecond
	}
	return d
}

func (a *Agent) drainEvents() {
	for {
		select {
		case ev := <-a.events:
			a.applyEvent(ev)
		default:
			return
		}
	}
}

func (a *Agent) drainInbox() {
	for {
		select {
		case msg := <-a.inbox:
			a.processMessage(msg)
		default:
			return
		}
	}
}

func (a *Agent) applyEvent(ev state.NeighborEvent) {
	if ev.Quality != nil {
		if err := state.QualityValidator(*ev.Quality); err != nil {
			a.log.Warn("rejected neighbor event", "neighbor", ev.Neighbor, "err", err)
			return
		}
	}
	now := a.clock.Now()
	a.nmu.Lock()
	a.rmu.Lock()
	ApplyNeighborEvent(a.rs, a, ev, now)
	a.rmu.Unlock()
	a.nmu.Unlock()
	perf.EventsApplied.Add(1)
}

func (a *Agent) processMessage(msg state.RoutingMessage) {
	start := time.Now()
	now := a.clock.Now()
	a.nmu.Lock()
	a.rmu.Lock()
	ProcessAdvertisement(a.rs, a, msg, now)
	a.rmu.Unlock()
	a.nmu.Unlock()
	a.counters.MessagesProcessed.Add(1)
	perf.MessagesProcessed.Add(1)
	perf.DispatchLatency.Add(float64(time.Since(start).Microseconds()))
}

func (a *Agent) runLiveness(now time.Time) {
	a.nmu.Lock()
	a.rmu.Lock()
	CheckLiveness(a.rs, a, now)
	a.rmu.Unlock()
	a.nmu.Unlock()
}

func (a *Agent) runGc(now time.Time) {
	a.rmu.Lock()
	CleanupStaleRoutes(a.rs, a, now)
	a.rs.Seen.DeleteExpired()
	a.rmu.Unlock()
}

// broadcast snapshots the advertisement and the active neighbor set under
// the table locks, releases them, then delivers. Locks are never held
// across delivery to avoid cross-agent deadlock.
func (a *Agent) broadcast(now time.Time) {
	a.nmu.Lock()
	a.rmu.Lock()
	RefreshDirectRoutes(a.rs, now)
	msg := BuildUpdate(a.rs, now)
	targets := ActiveNeighbors(a.rs)
	a.rmu.Unlock()
	a.nmu.Unlock()

	for _, neigh := range targets {
		if a.dispatch.Deliver(neigh, msg) {
			a.counters.UpdatesSent.Add(1)
			perf.UpdatesSent.Add(1)
		} else {
			a.counters.FailedDeliveries.Add(1)
			perf.FailedDeliveries.Add(1)
			a.log.Debug("delivery failed, dropping update", "to", neigh)
		}
	}
}

// ScheduleBroadcast implements Router for the live agent. Competing
// requests collapse to the earliest deadline.
func (a *Agent) ScheduleBroadcast(after time.Duration) {
	at := a.clock.Now().Add(after)
	if a.pendingBroadcast.IsZero() || at.Before(a.pendingBroadcast) {
		a.pendingBroadcast = at
	}
}

func (a *Agent) Log(event RouterEvent, args ...any) {
	if event >= 1000 {
		a.log.Warn(event.String(), args...)
	} else {
		a.log.Debug(event.String(), args...)
	}
}

// UpdateMetadata applies a validated metadata mutation. An unknown field
// rejects the whole update; no partial mutation occurs.
func (a *Agent) UpdateMetadata(fields map[string]any) error {
	a.mmu.Lock()
	defer a.mmu.Unlock()
	return a.meta.Apply(fields)
}

func (a *Agent) Metadata() state.Metadata {
	a.mmu.Lock()
	defer a.mmu.Unlock()
	return a.meta
}

// SetCoordinates replaces the position. A structurally incomplete update is
// rejected and the prior value retained.
func (a *Agent) SetCoordinates(fields map[string]float64) error {
	coords, err := state.CoordinatesFromMap(fields)
	if err != nil {
		return err
	}
	a.mmu.Lock()
	a.coords = coords
	a.mmu.Unlock()
	return nil
}

func (a *Agent) Coordinates() state.Coordinates {
	a.mmu.Lock()
	defer a.mmu.Unlock()
	return a.coords
}

// RecordTransmission folds packet counters into the metadata.
func (a *Agent) RecordTransmission(sent, received int) {
	a.mmu.Lock()
	a.meta.RecordTransmission(sent, received)
	a.mmu.Unlock()
}
