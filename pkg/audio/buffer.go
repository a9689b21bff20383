package audio

// Buffer is an interleaved multichannel float32 sample buffer: the
// working format every render and capture function sees, regardless of
// the encoding the hardware runs at. Its length is always a whole
// number of frames, so Len()%Channels() == 0 holds at all times.
type Buffer struct {
	samples    []float32
	channels   int
	sampleRate int
}

// NewBuffer creates a zeroed buffer holding frames frames of channels
// interleaved channels. Panics if channels < 1 or frames < 0.
func NewBuffer(frames, channels int) *Buffer {
	checkShape(frames, channels)
	return &Buffer{
		samples:  make([]float32, frames*channels),
		channels: channels,
	}
}

func checkShape(frames, channels int) {
	if channels < 1 {
		panic("audio: buffer must have at least one channel")
	}
	if frames < 0 {
		panic("audio: buffer cannot hold a negative number of frames")
	}
}

// Len is the total number of samples, frames times channels.
func (b *Buffer) Len() int { return len(b.samples) }

// Frames is the number of sample frames.
func (b *Buffer) Frames() int { return len(b.samples) / b.channels }

// Channels is the number of interleaved channels per frame.
func (b *Buffer) Channels() int { return b.channels }

// SampleRate is the rate of the stream this buffer belongs to, in
// frames per second. Zero for buffers not attached to a stream.
func (b *Buffer) SampleRate() int { return b.sampleRate }

// Samples is the interleaved backing slice. The sample of frame f for
// channel c sits at index f*Channels()+c.
func (b *Buffer) Samples() []float32 { return b.samples }

// Frame returns the samples of frame i, one per channel, sharing the
// buffer's memory.
func (b *Buffer) Frame(i int) []float32 {
	return b.samples[i*b.channels : (i+1)*b.channels]
}

// Channel returns a strided view over the samples of channel ch.
// Panics if ch is out of range.
func (b *Buffer) Channel(ch int) Channel {
	if ch < 0 || ch >= b.channels {
		panic("audio: channel index out of range")
	}
	if len(b.samples) == 0 {
		return Channel{stride: b.channels}
	}
	return Channel{samples: b.samples[ch:], stride: b.channels}
}

// Silence zeroes every sample.
func (b *Buffer) Silence() {
	clear(b.samples)
}

// Resize reshapes the buffer to the given frame and channel counts,
// reusing the backing memory where capacity allows and growing it
// otherwise. The resized buffer is silent. Panics like NewBuffer on an
// invalid shape.
func (b *Buffer) Resize(frames, channels int) {
	checkShape(frames, channels)

	n := frames * channels
	if n <= cap(b.samples) {
		b.samples = b.samples[:n]
	} else {
		b.samples = make([]float32, n)
	}
	b.channels = channels
	b.Silence()
}

// Channel is a view over a single channel of an interleaved Buffer,
// sharing its memory.
type Channel struct {
	samples []float32
	stride  int
}

// Len is the number of samples (frames) in the channel.
func (c Channel) Len() int {
	if len(c.samples) == 0 {
		return 0
	}
	return (len(c.samples)-1)/c.stride + 1
}

// At returns sample i of the channel.
func (c Channel) At(i int) float32 { return c.samples[i*c.stride] }

// Set assigns sample i of the channel.
func (c Channel) Set(i int, v float32) { c.samples[i*c.stride] = v }
