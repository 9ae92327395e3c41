package host

import (
	"github.com/user-none/go-retrocore/audio"
	"github.com/user-none/go-retrocore/clock"
)

const eventQueueDepth = 64

// EventQueue is a host's outbound channel for one event type (KeyEvent,
// ControllerEvent, or MouseEvent) into the simulated system, reusing
// audio.ClockedQueue exactly as video.Sender/Receiver do: an input
// event has the same Instant-stamped, bounded, single-producer shape
// as an audio or video frame, grounded on
// original_source/emulator/libraries/host/src/input.rs's
// EventSender/EventReceiver pair.
type EventQueue[T any] struct {
	queue *audio.ClockedQueue[T]
}

// NewEventQueue returns an empty event queue.
func NewEventQueue[T any]() *EventQueue[T] {
	return &EventQueue[T]{queue: audio.NewClockedQueue[T](eventQueueDepth)}
}

// Send publishes ev as having occurred at the virtual time at. The
// host calls this from its own input-capture loop.
func (q *EventQueue[T]) Send(at clock.Instant, ev T) {
	q.queue.Push(at, ev)
}

// Receive pops the oldest queued event, for a peripheral device to
// consume during its own Step.
func (q *EventQueue[T]) Receive() (clock.Instant, T, bool) {
	return q.queue.PopNext()
}
