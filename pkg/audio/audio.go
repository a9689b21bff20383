// Package audio is the real-time audio stream engine of minstrel.
//
// A stream couples three things: a user-defined model, a render or
// capture function operating on fixed-size interleaved float32
// buffers, and a hardware endpoint resolved through audioapi. The
// engine rebuffers between the hardware's callback granularity and the
// configured frames per buffer, applies model updates sent from other
// goroutines strictly between buffer renders, and hands back a stream
// with pause, resume, and close control.
//
//	type sine struct{ hz, phase float64 }
//
//	stream, err := audio.NewOutputStream(api, sine{hz: 440}).
//		Render(renderSine).
//		Channels(2).
//		Build()
//	if err != nil {
//		return err
//	}
//	defer stream.Close()
//
//	stream.SendUpdate(func(m *sine) { m.hz = 220 })
package audio

const (
	// DefaultSampleRate is requested when a stream is built without an
	// explicit sample rate.
	DefaultSampleRate = 44100

	// DefaultFramesPerBuffer is the logical buffer length used when a
	// stream is built without an explicit frames per buffer.
	DefaultFramesPerBuffer = 64
)
