package audioapi

import (
	"sync"

	"github.com/google/uuid"
)

// A dummy API whose devices and streams live entirely in memory.
// Intended to be used in testing, and for driving the stream engine
// without hardware!
//
// Devices are registered by the caller with AddInputDevice and
// AddOutputDevice. Streams record their processing closure and are
// driven manually: each DummyStream.Pump invokes the closure once with
// a caller-supplied buffer, exactly as a backend would on its own
// thread.
type DummyAPI struct {
	mu      sync.Mutex
	inputs  []Device
	outputs []Device
	openErr error
	streams map[uuid.UUID]*DummyStream
}

func NewDummyAPI() *DummyAPI {
	return &DummyAPI{
		streams: make(map[uuid.UUID]*DummyStream),
	}
}

// AddInputDevice registers an input device and assigns its ID. The
// first input device added becomes the default.
func (api *DummyAPI) AddInputDevice(dev Device) Device {
	api.mu.Lock()
	defer api.mu.Unlock()

	dev.ID = len(api.inputs)
	api.inputs = append(api.inputs, dev)
	return dev
}

// AddOutputDevice registers an output device and assigns its ID. The
// first output device added becomes the default.
func (api *DummyAPI) AddOutputDevice(dev Device) Device {
	api.mu.Lock()
	defer api.mu.Unlock()

	dev.ID = len(api.outputs)
	api.outputs = append(api.outputs, dev)
	return dev
}

// SetOpenError injects a failure that subsequent OpenInputStream and
// OpenOutputStream calls return. Pass nil to clear it.
func (api *DummyAPI) SetOpenError(err error) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.openErr = err
}

func (api *DummyAPI) InputDevices() ([]Device, error) {
	api.mu.Lock()
	defer api.mu.Unlock()

	devices := make([]Device, len(api.inputs))
	copy(devices, api.inputs)
	return devices, nil
}

func (api *DummyAPI) DefaultInputDevice() (Device, error) {
	api.mu.Lock()
	defer api.mu.Unlock()

	if len(api.inputs) == 0 {
		return Device{}, ErrNoDefaultDevice
	}
	return api.inputs[0], nil
}

func (api *DummyAPI) OpenInputStream(dev Device, format Format, framesPerBuffer int, proc ProcessFunc) (StreamHandle, error) {
	return api.open(dev, true, format, framesPerBuffer, proc)
}

func (api *DummyAPI) OutputDevices() ([]Device, error) {
	api.mu.Lock()
	defer api.mu.Unlock()

	devices := make([]Device, len(api.outputs))
	copy(devices, api.outputs)
	return devices, nil
}

func (api *DummyAPI) DefaultOutputDevice() (Device, error) {
	api.mu.Lock()
	defer api.mu.Unlock()

	if len(api.outputs) == 0 {
		return Device{}, ErrNoDefaultDevice
	}
	return api.outputs[0], nil
}

func (api *DummyAPI) OpenOutputStream(dev Device, format Format, framesPerBuffer int, proc ProcessFunc) (StreamHandle, error) {
	return api.open(dev, false, format, framesPerBuffer, proc)
}

func (api *DummyAPI) open(dev Device, input bool, format Format, framesPerBuffer int, proc ProcessFunc) (StreamHandle, error) {
	api.mu.Lock()
	defer api.mu.Unlock()

	if api.openErr != nil {
		return nil, api.openErr
	}

	known := api.outputs
	if input {
		known = api.inputs
	}
	if dev.ID < 0 || dev.ID >= len(known) {
		return nil, ErrUnknownDevice
	}

	stream := &DummyStream{
		api:             api,
		id:              uuid.New(),
		device:          known[dev.ID],
		input:           input,
		format:          format,
		framesPerBuffer: framesPerBuffer,
		proc:            proc,
	}
	api.streams[stream.id] = stream
	return stream, nil
}

// Stream returns the open stream with the given ID, or nil if it was
// never opened or has been closed.
func (api *DummyAPI) Stream(id uuid.UUID) *DummyStream {
	api.mu.Lock()
	defer api.mu.Unlock()
	return api.streams[id]
}

// OpenStreams returns every stream registered and not yet closed.
func (api *DummyAPI) OpenStreams() []*DummyStream {
	api.mu.Lock()
	defer api.mu.Unlock()

	streams := make([]*DummyStream, 0, len(api.streams))
	for _, stream := range api.streams {
		streams = append(streams, stream)
	}
	return streams
}

func (api *DummyAPI) remove(id uuid.UUID) {
	api.mu.Lock()
	defer api.mu.Unlock()
	delete(api.streams, id)
}

// Close closes every stream still open. The API remains usable
// afterwards.
func (api *DummyAPI) Close() error {
	for _, stream := range api.OpenStreams() {
		stream.Close()
	}
	return nil
}

// DummyStream is a registered dummy callback stream. The hardware
// clock is the caller: Pump stands in for the backend's own thread.
type DummyStream struct {
	api             *DummyAPI
	id              uuid.UUID
	device          Device
	input           bool
	format          Format
	framesPerBuffer int
	proc            ProcessFunc

	mu     sync.Mutex
	closed bool
}

func (stream *DummyStream) ID() uuid.UUID { return stream.id }

// Device is the device the stream was opened on.
func (stream *DummyStream) Device() Device { return stream.device }

// Input reports whether the stream was opened for capture.
func (stream *DummyStream) Input() bool { return stream.input }

// Format is the format the stream was opened with.
func (stream *DummyStream) Format() Format { return stream.format }

// FramesPerBuffer is the buffer size hint the stream was opened with.
func (stream *DummyStream) FramesPerBuffer() int { return stream.framesPerBuffer }

// Pump drives one hardware callback with buf. Pumping a closed stream
// is a no-op, mirroring a deregistered callback never firing again.
func (stream *DummyStream) Pump(buf Buffer) {
	stream.mu.Lock()
	if stream.closed {
		stream.mu.Unlock()
		return
	}
	proc := stream.proc
	stream.mu.Unlock()

	proc(buf)
}

func (stream *DummyStream) Close() error {
	stream.mu.Lock()
	if stream.closed {
		stream.mu.Unlock()
		return nil
	}
	stream.closed = true
	stream.mu.Unlock()

	stream.api.remove(stream.id)
	return nil
}
