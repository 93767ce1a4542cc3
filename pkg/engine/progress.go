package engine

import (
	"sync"
	"time"
)

// EventType discriminates the tagged events pushed onto a Bus. Values
// are stable and case-sensitive: they are the wire contract spec'd for
// any UI that bridges this channel over a message transport.
type EventType string

const (
	EventFilterStart  EventType = "filter_start"
	EventFilterResult EventType = "filter_result"
	EventProgress     EventType = "progress"
	EventGreedyResult EventType = "greedy_result"
	EventTwoOptStart  EventType = "twoopt_start"
	EventPhase2Result EventType = "phase2_result"
	EventLog          EventType = "log"
	EventComplete     EventType = "complete"
	EventPing         EventType = "ping"
)

// Event is a single tagged record on the progress bus. Only the fields
// relevant to Type are populated; the rest are left at their zero value.
type Event struct {
	Type EventType

	// filter_start, filter_result
	PathCount           int
	PenWidth            float64
	VisibilityThreshold float64
	OriginalCount       int
	KeptCount           int
	RemovedCount        int
	RemovedIndices      []int

	// progress (phase 1 == greedy)
	Phase      int
	Current    int
	Total      int
	LatestPath []Point

	// greedy_result
	ProgressHistory []PlacementRecord
	OriginalDist    float64
	Phase1Dist      float64
	Paths           []SeqEntry

	// phase2_result
	DistHistory []float64
	Iterations  int
	FinalDist   float64

	// log
	Msg string
}

// Bus is a single-producer, single-consumer ordered event queue. Pushes
// are non-blocking for progress events (the bus coalesces by dropping
// under backpressure) and block briefly under backpressure for every
// other event kind, which are never dropped.
type Bus struct {
	events chan Event

	mu           sync.Mutex
	lastProgress time.Time
}

// NewBus creates a Bus with the given channel buffer depth. A depth of
// a few dozen is ample for a single job; the consumer is expected to
// drain continuously.
func NewBus(buffer int) *Bus {
	if buffer < 1 {
		buffer = 1
	}
	return &Bus{events: make(chan Event, buffer)}
}

// Events returns the channel the consumer drains. It is closed after
// the final complete event of a job.
func (b *Bus) Events() <-chan Event { return b.events }

// progressThrottle bounds how often a progress event may be enqueued
// during the greedy stage, per spec's coalescing policy.
const progressThrottle = 5 * time.Millisecond

func (b *Bus) pushProgress(e Event) {
	b.mu.Lock()
	now := time.Now()
	if !b.lastProgress.IsZero() && now.Sub(b.lastProgress) < progressThrottle {
		b.mu.Unlock()
		return
	}
	b.lastProgress = now
	b.mu.Unlock()

	select {
	case b.events <- e:
	default:
		// Bus full: coalesce by dropping this progress sample rather
		// than blocking the producer.
	}
}

// pushReliable enqueues an event that must never be dropped. It may
// block briefly if the consumer has fallen behind.
func (b *Bus) pushReliable(e Event) {
	b.events <- e
}

// Ping pushes a heartbeat event. It is never emitted by the core
// itself; callers bridging the bus over a transport with its own
// keepalive needs may call it between stage boundaries.
func (b *Bus) Ping() {
	b.pushReliable(Event{Type: EventPing})
}

// Log pushes a free-text narration event.
func (b *Bus) Log(msg string) {
	b.pushReliable(Event{Type: EventLog, Msg: msg})
}

func (b *Bus) close() {
	close(b.events)
}
