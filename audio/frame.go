package audio

// Sample is one stereo audio sample, in the range [-1.0, 1.0].
type Sample struct {
	Left, Right float32
}

// Frame is a contiguous run of samples produced at a single sample
// rate, timestamped by the queue that carries it.
type Frame struct {
	SampleRate int
	Data       []Sample
}

// NewFrame returns a Frame over data, sampled at sampleRate Hz.
func NewFrame(sampleRate int, data []Sample) Frame {
	return Frame{SampleRate: sampleRate, Data: data}
}
