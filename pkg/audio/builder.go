package audio

import (
	"log/slog"

	"github.com/Honorable-Knights-of-the-Roundtable/minstrel/pkg/audioapi"
)

// streamConfig is the configuration a builder collects before Build
// validates it against a device. Zero fields mean "not requested" and
// receive defaults at build time.
type streamConfig struct {
	api             audioapi.DeviceAPI
	sampleRate      int
	channels        int
	framesPerBuffer int
	encoding        audioapi.Encoding
	hasEncoding     bool
	device          audioapi.Device
	hasDevice       bool
}

func (c *streamConfig) setSampleRate(hz int) {
	if hz < 1 {
		panic("audio: sample rate must be positive")
	}
	c.sampleRate = hz
}

func (c *streamConfig) setChannels(n int) {
	if n < 1 {
		panic("audio: channel count must be positive")
	}
	c.channels = n
}

func (c *streamConfig) setFramesPerBuffer(n int) {
	if n < 1 {
		panic("audio: frames per buffer must be positive")
	}
	c.framesPerBuffer = n
}

func (c *streamConfig) request() formatRequest {
	rate := c.sampleRate
	if rate == 0 {
		rate = DefaultSampleRate
	}
	return formatRequest{
		sampleRate:  rate,
		channels:    c.channels,
		encoding:    c.encoding,
		hasEncoding: c.hasEncoding,
	}
}

func (c *streamConfig) framesPerBufferOrDefault() int {
	if c.framesPerBuffer == 0 {
		return DefaultFramesPerBuffer
	}
	return c.framesPerBuffer
}

// OutputBuilder configures a playback stream. Setters return the
// builder for chaining and panic immediately on invalid values, so a
// bad configuration never reaches the hardware.
type OutputBuilder[M any] struct {
	cfg    streamConfig
	model  M
	render RenderFn[M]
}

// NewOutputStream begins configuring an output stream that renders
// audio from model. Everything is optional before Build: unset
// parameters fall back to the API's default output device,
// DefaultSampleRate, DefaultFramesPerBuffer, the device's own channel
// count and encoding, and a render function that leaves buffers
// silent.
func NewOutputStream[M any](api audioapi.DeviceAPI, model M) *OutputBuilder[M] {
	return &OutputBuilder[M]{
		cfg:    streamConfig{api: api},
		model:  model,
		render: func(*M, *Buffer) {},
	}
}

// Render sets the function invoked to fill every logical buffer.
func (b *OutputBuilder[M]) Render(fn RenderFn[M]) *OutputBuilder[M] {
	b.render = fn
	return b
}

// SampleRate requests a sample rate in frames per second. Panics if hz
// is not positive.
func (b *OutputBuilder[M]) SampleRate(hz int) *OutputBuilder[M] {
	b.cfg.setSampleRate(hz)
	return b
}

// Channels requests a channel count. Panics if n is not positive.
func (b *OutputBuilder[M]) Channels(n int) *OutputBuilder[M] {
	b.cfg.setChannels(n)
	return b
}

// FramesPerBuffer sets the logical buffer length handed to the render
// function. Panics if n is not positive.
func (b *OutputBuilder[M]) FramesPerBuffer(n int) *OutputBuilder[M] {
	b.cfg.setFramesPerBuffer(n)
	return b
}

// Encoding requests a hardware sample encoding. Without it any
// encoding the device offers is acceptable.
func (b *OutputBuilder[M]) Encoding(e audioapi.Encoding) *OutputBuilder[M] {
	b.cfg.encoding = e
	b.cfg.hasEncoding = true
	return b
}

// Device pins the stream to a specific device instead of the API's
// default output device.
func (b *OutputBuilder[M]) Device(dev audioapi.Device) *OutputBuilder[M] {
	b.cfg.device = dev
	b.cfg.hasDevice = true
	return b
}

// Build resolves the device, negotiates the hardware format, and
// registers the stream's callback with the backend. Any failure is
// returned as a *BuildError wrapping the cause; no stream is
// registered on failure.
func (b *OutputBuilder[M]) Build() (*Stream[M], error) {
	dev := b.cfg.device
	if !b.cfg.hasDevice {
		var err error
		dev, err = b.cfg.api.DefaultOutputDevice()
		if err != nil {
			return nil, &BuildError{Op: "resolve output device", Err: err}
		}
	}

	format, err := negotiateFormat(dev, b.cfg.request())
	if err != nil {
		return nil, &BuildError{Op: "negotiate output format", Err: err}
	}
	framesPerBuffer := b.cfg.framesPerBufferOrDefault()

	sh := newShared(b.model)
	proc := outputProc(sh, b.render, format, framesPerBuffer)
	handle, err := b.cfg.api.OpenOutputStream(dev, format, framesPerBuffer, proc)
	if err != nil {
		return nil, &BuildError{Op: "open output stream", Err: err}
	}

	logger := slog.Default().With("audio stream uuid", handle.ID())
	logger.Debug(
		"built output stream",
		"device", dev.Name,
		"format", format,
		"frames per buffer", framesPerBuffer,
	)

	return &Stream[M]{
		shared:          sh,
		handle:          handle,
		format:          format,
		framesPerBuffer: framesPerBuffer,
		logger:          logger,
	}, nil
}

// InputBuilder configures a capture stream. Same contract as
// OutputBuilder.
type InputBuilder[M any] struct {
	cfg     streamConfig
	model   M
	capture CaptureFn[M]
}

// NewInputStream begins configuring an input stream that feeds
// captured audio to model. Unset parameters fall back the same way as
// NewOutputStream, with the default input device and a capture
// function that discards buffers.
func NewInputStream[M any](api audioapi.DeviceAPI, model M) *InputBuilder[M] {
	return &InputBuilder[M]{
		cfg:     streamConfig{api: api},
		model:   model,
		capture: func(*M, *Buffer) {},
	}
}

// Capture sets the function invoked with every filled logical buffer.
func (b *InputBuilder[M]) Capture(fn CaptureFn[M]) *InputBuilder[M] {
	b.capture = fn
	return b
}

// SampleRate requests a sample rate in frames per second. Panics if hz
// is not positive.
func (b *InputBuilder[M]) SampleRate(hz int) *InputBuilder[M] {
	b.cfg.setSampleRate(hz)
	return b
}

// Channels requests a channel count. Panics if n is not positive.
func (b *InputBuilder[M]) Channels(n int) *InputBuilder[M] {
	b.cfg.setChannels(n)
	return b
}

// FramesPerBuffer sets the logical buffer length handed to the capture
// function. Panics if n is not positive.
func (b *InputBuilder[M]) FramesPerBuffer(n int) *InputBuilder[M] {
	b.cfg.setFramesPerBuffer(n)
	return b
}

// Encoding requests a hardware sample encoding. Without it any
// encoding the device offers is acceptable.
func (b *InputBuilder[M]) Encoding(e audioapi.Encoding) *InputBuilder[M] {
	b.cfg.encoding = e
	b.cfg.hasEncoding = true
	return b
}

// Device pins the stream to a specific device instead of the API's
// default input device.
func (b *InputBuilder[M]) Device(dev audioapi.Device) *InputBuilder[M] {
	b.cfg.device = dev
	b.cfg.hasDevice = true
	return b
}

// Build resolves the device, negotiates the hardware format, and
// registers the stream's callback with the backend. Any failure is
// returned as a *BuildError wrapping the cause; no stream is
// registered on failure.
func (b *InputBuilder[M]) Build() (*Stream[M], error) {
	dev := b.cfg.device
	if !b.cfg.hasDevice {
		var err error
		dev, err = b.cfg.api.DefaultInputDevice()
		if err != nil {
			return nil, &BuildError{Op: "resolve input device", Err: err}
		}
	}

	format, err := negotiateFormat(dev, b.cfg.request())
	if err != nil {
		return nil, &BuildError{Op: "negotiate input format", Err: err}
	}
	framesPerBuffer := b.cfg.framesPerBufferOrDefault()

	sh := newShared(b.model)
	proc := inputProc(sh, b.capture, format, framesPerBuffer)
	handle, err := b.cfg.api.OpenInputStream(dev, format, framesPerBuffer, proc)
	if err != nil {
		return nil, &BuildError{Op: "open input stream", Err: err}
	}

	logger := slog.Default().With("audio stream uuid", handle.ID())
	logger.Debug(
		"built input stream",
		"device", dev.Name,
		"format", format,
		"frames per buffer", framesPerBuffer,
	)

	return &Stream[M]{
		shared:          sh,
		handle:          handle,
		format:          format,
		framesPerBuffer: framesPerBuffer,
		logger:          logger,
	}, nil
}
