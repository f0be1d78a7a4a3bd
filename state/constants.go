package state

import "time"

var (
	RouteUpdateDelay  = time.Second * 30
	LivenessDelay     = time.Second * 10
	RouteGcDelay      = time.Second * 10
	ProbeDelay        = time.Millisecond * 250
	ProbeStableRounds = 3

	// TriggerJitterMin/Max bound the randomized delay before a triggered
	// re-broadcast, to desynchronize simultaneous broadcasts across the mesh.
	TriggerJitterMin = time.Millisecond * 100
	TriggerJitterMax = time.Millisecond * 300

	SeenEntryTTL = time.Minute * 5

	DefaultKHops       = 3
	DefaultLinkQuality = 1.0

	// InboxSize bounds an agent's inbound message queue. A full queue drops
	// the message; the next periodic cycle self-heals.
	InboxSize = 256
	EventsSize = 64
)
