package audio

// RenderFn produces the next buffer of audio for an output stream. It
// runs on the hardware callback thread with exclusive access to the
// model and must not block. The buffer arrives silent and always holds
// the stream's configured frames per buffer.
type RenderFn[M any] func(model *M, buf *Buffer)

// CaptureFn consumes one buffer of captured audio from an input
// stream. Same contract as RenderFn: hardware thread, exclusive model
// access, no blocking, always the configured frames per buffer.
type CaptureFn[M any] func(model *M, buf *Buffer)

// Requester bridges the hardware's callback granularity and the
// stream's logical buffer size. Hardware buffers arrive at whatever
// size the backend chose for a given invocation; the user function is
// always invoked with exactly the configured frames per buffer. A
// cursor carries partial progress across invocations, so no samples
// are dropped or duplicated and nothing allocates once the stream is
// running.
type Requester[M any] struct {
	buf *Buffer

	// pos is the number of samples of buf already consumed (output)
	// or already filled (input).
	pos int
}

// NewOutputRequester creates a Requester for an output stream. The
// logical buffer starts fully consumed, so the first Fill renders
// immediately. Panics if framesPerBuffer or channels is not positive.
func NewOutputRequester[M any](framesPerBuffer, channels, sampleRate int) *Requester[M] {
	buf := newRequesterBuffer(framesPerBuffer, channels, sampleRate)
	return &Requester[M]{buf: buf, pos: buf.Len()}
}

// NewInputRequester creates a Requester for an input stream. The
// logical buffer starts empty, accumulating captured samples. Panics
// if framesPerBuffer or channels is not positive.
func NewInputRequester[M any](framesPerBuffer, channels, sampleRate int) *Requester[M] {
	return &Requester[M]{buf: newRequesterBuffer(framesPerBuffer, channels, sampleRate)}
}

func newRequesterBuffer(framesPerBuffer, channels, sampleRate int) *Buffer {
	if framesPerBuffer < 1 {
		panic("audio: requester needs at least one frame per buffer")
	}
	buf := NewBuffer(framesPerBuffer, channels)
	buf.sampleRate = sampleRate
	return buf
}

// Fill writes exactly len(out) samples into out, invoking render
// against the logical buffer each time it runs dry. Only valid on
// requesters from NewOutputRequester.
func (r *Requester[M]) Fill(model *M, render RenderFn[M], out []float32) {
	for filled := 0; filled < len(out); {
		if r.pos == r.buf.Len() {
			r.buf.Silence()
			render(model, r.buf)
			r.pos = 0
		}
		n := copy(out[filled:], r.buf.samples[r.pos:])
		filled += n
		r.pos += n
	}
}

// Push feeds len(in) captured samples through the logical buffer,
// invoking capture each time it fills. Only valid on requesters from
// NewInputRequester.
func (r *Requester[M]) Push(model *M, capture CaptureFn[M], in []float32) {
	for pushed := 0; pushed < len(in); {
		n := copy(r.buf.samples[r.pos:], in[pushed:])
		pushed += n
		r.pos += n
		if r.pos == r.buf.Len() {
			capture(model, r.buf)
			r.pos = 0
		}
	}
}
