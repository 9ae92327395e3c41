package video

import (
	"sync"

	"github.com/user-none/go-retrocore/audio"
	"github.com/user-none/go-retrocore/clock"
)

const frameQueueDepth = 10

// Sender is a video device's handle for publishing completed frames.
type Sender struct {
	mu       sync.Mutex
	encoding PixelEncoding
	queue    *audio.ClockedQueue[*Frame]
}

// Receiver is a host's handle for draining published frames.
type Receiver struct {
	maxWidth, maxHeight uint32
	sender              *Sender
}

// NewFrameQueue returns linked Sender/Receiver handles for a device
// that produces frames no larger than maxWidth x maxHeight. It reuses
// audio.ClockedQueue, the same Instant-ordered bounded queue the audio
// pipeline is built on, since a video frame has exactly the same
// producer/consumer shape as an audio frame.
func NewFrameQueue(maxWidth, maxHeight uint32) (*Sender, *Receiver) {
	sender := &Sender{
		encoding: RGBA,
		queue:    audio.NewClockedQueue[*Frame](frameQueueDepth),
	}
	receiver := &Receiver{maxWidth: maxWidth, maxHeight: maxHeight, sender: sender}
	return sender, receiver
}

// Encoding returns the pixel encoding the Receiver has most recently
// requested.
func (s *Sender) Encoding() PixelEncoding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.encoding
}

// Add publishes frame as produced at the virtual time at.
func (s *Sender) Add(at clock.Instant, frame *Frame) {
	s.queue.Push(at, frame)
}

// MaxSize returns the largest frame dimensions the Receiver accepts.
func (r *Receiver) MaxSize() (width, height uint32) {
	return r.maxWidth, r.maxHeight
}

// RequestEncoding asks the producing Sender to encode future frames in
// encoding.
func (r *Receiver) RequestEncoding(encoding PixelEncoding) {
	r.sender.mu.Lock()
	defer r.sender.mu.Unlock()
	r.sender.encoding = encoding
}

// Latest drops every queued frame but the most recently published one,
// which is all a host display loop ever needs.
func (r *Receiver) Latest() (clock.Instant, *Frame, bool) {
	return r.sender.queue.PopLatest()
}
