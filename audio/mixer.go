package audio

import (
	"github.com/user-none/go-retrocore/clock"
	"github.com/user-none/go-retrocore/system"
)

// DefaultSampleRate is the output rate used when a caller doesn't
// care to pick their own.
const DefaultSampleRate = 48000

const sourceQueueDepth = 5000

// Source is a per-device producer handle into a Mixer: a device
// (an FM chip, a PSG, a PCM channel) pushes frames of its own samples
// as it generates them, stamped with the Instant they correspond to.
type Source struct {
	sampleRate int
	queue      *ClockedQueue[Frame]
}

// SampleRate returns the rate samples pushed to this source are
// expected to be at.
func (s *Source) SampleRate() int { return s.sampleRate }

// Push enqueues buf as a Frame produced at at.
func (s *Source) Push(at clock.Instant, buf []Sample) {
	data := make([]Sample, len(buf))
	copy(data, buf)
	s.queue.Push(at, NewFrame(s.sampleRate, data))
}

// Mixer periodically assembles every Source's pending frames into one
// mixed output stream, averaging overlapping samples and clamping to
// [-1, 1]. It implements system.Steppable so a System can drive
// assembly on its own schedule, once per virtual millisecond.
type Mixer struct {
	sampleRate int
	sources    []*Source
	output     *ClockedQueue[Frame]
}

// NewMixer returns a Mixer producing output at sampleRate Hz.
func NewMixer(sampleRate int) *Mixer {
	return &Mixer{
		sampleRate: sampleRate,
		output:     NewClockedQueue[Frame](sourceQueueDepth),
	}
}

// SampleRate returns the Mixer's output sample rate.
func (m *Mixer) SampleRate() int { return m.sampleRate }

// AddSource registers a new producer at the Mixer's own sample rate
// and returns its push handle.
func (m *Mixer) AddSource() *Source {
	src := &Source{sampleRate: m.sampleRate, queue: NewClockedQueue[Frame](sourceQueueDepth)}
	m.sources = append(m.sources, src)
	return src
}

// NumSources reports how many producers are registered.
func (m *Mixer) NumSources() int { return len(m.sources) }

// Receive pops the next assembled output Frame, if one is ready.
func (m *Mixer) Receive() (clock.Instant, Frame, bool) {
	return m.output.PopNext()
}

func (m *Mixer) sampleDuration() clock.Duration {
	return clock.DurationFromSecs(1) / clock.Duration(m.sampleRate)
}

// assembleFrame sums every source's queued samples covering
// [frameStart, frameStart+frameDuration) into one averaged, clamped
// Frame and pushes it to the output queue.
func (m *Mixer) assembleFrame(frameStart clock.Instant, frameDuration clock.Duration) {
	sampleDur := m.sampleDuration()
	n := int(frameDuration.DivDuration(sampleDur))
	data := make([]Sample, n)

	for _, src := range m.sources {
		index := 0
		for index < len(data) {
			at, frame, ok := src.queue.PopNext()
			if !ok {
				break
			}
			if at.Before(frameStart) {
				index = 0
			} else {
				index = int(at.DurationSince(frameStart).DivDuration(sampleDur))
			}
			if index >= len(data) {
				break
			}
			size := len(frame.Data)
			if room := len(data) - index; size > room {
				size = room
			}
			for i := 0; i < size; i++ {
				data[index+i].Left += frame.Data[i].Left
				data[index+i].Right += frame.Data[i].Right
			}
			index += size
			if size < len(frame.Data) {
				frame.Data = frame.Data[size:]
				src.queue.PutBack(at, frame)
			}
		}
	}

	count := float32(len(m.sources))
	if count == 0 {
		count = 1
	}
	for i := range data {
		data[i].Left = clampSample(data[i].Left / count)
		data[i].Right = clampSample(data[i].Right / count)
	}

	m.output.Push(frameStart, NewFrame(m.sampleRate, data))
}

func clampSample(v float32) float32 {
	if v > 1.0 {
		return 1.0
	}
	if v < -1.0 {
		return -1.0
	}
	return v
}

// Step implements system.Steppable, assembling one millisecond of
// mixed audio ending at now.
func (m *Mixer) Step(now clock.Instant) (clock.Duration, error) {
	duration := clock.DurationFromMillis(1)
	var start clock.Instant
	if now.AsDuration() >= duration {
		start = clock.NewInstant(now.AsDuration().Sub(duration))
	} else {
		start = clock.START
	}
	m.assembleFrame(start, duration)
	return duration, nil
}

var _ system.Steppable = (*Mixer)(nil)
