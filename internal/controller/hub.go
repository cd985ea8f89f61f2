// Package controller collects input from networked game controllers.
//
// Transports (the UDP controller server, SSH sessions, the local
// keyboard) publish events into a Hub from their own goroutines; the
// session loop drains the Hub once per tick.
package controller

import (
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/matesnake/internal/core"
)

// DefaultHubSize is the number of events buffered between two ticks.
const DefaultHubSize = 256

// Hub is a bounded event queue shared by all controller transports.
type Hub struct {
	events  chan core.Event
	dropped atomic.Int64
	logger  *log.Logger
}

// NewHub creates a hub buffering up to size events.
func NewHub(size int, logger *log.Logger) *Hub {
	if size <= 0 {
		size = DefaultHubSize
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		events: make(chan core.Event, size),
		logger: logger,
	}
}

// Publish enqueues an event without blocking. It returns false and drops
// the event when the queue is full.
func (h *Hub) Publish(ev core.Event) bool {
	select {
	case h.events <- ev:
		return true
	default:
		n := h.dropped.Add(1)
		h.logger.Debug("event queue full, dropping", "kind", ev.Kind, "uid", ev.UID, "dropped", n)
		return false
	}
}

// Poll drains every queued event in arrival order. It never blocks.
func (h *Hub) Poll() []core.Event {
	var out []core.Event
	for {
		select {
		case ev := <-h.events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

// Dropped returns the number of events lost to a full queue.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}
