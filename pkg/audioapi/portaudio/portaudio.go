// Package portaudio implements audioapi.DeviceAPI on top of the
// PortAudio bindings. It lives in its own package so that the stream
// engine and its tests build without CGo or audio hardware.
package portaudio

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	pa "github.com/gordonklaus/portaudio"

	"github.com/Honorable-Knights-of-the-Roundtable/minstrel/pkg/audioapi"
)

// encodings lists the sample encodings this backend opens streams
// with, in preference order. PortAudio converts to the device's native
// format internally, so both are advertised for every device.
var encodings = []audioapi.Encoding{audioapi.EncodingF32, audioapi.EncodingI16}

// API implements audioapi.DeviceAPI using PortAudio.
//
// Create one with New, which initializes the PortAudio runtime and
// snapshots the device table; Close terminates the runtime. Only one
// API should be live per process.
type API struct {
	logger  *slog.Logger
	devices []*pa.DeviceInfo

	mu      sync.Mutex
	streams map[uuid.UUID]*paStream
	closed  bool
}

func New() (*API, error) {
	if err := pa.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	devices, err := pa.Devices()
	if err != nil {
		pa.Terminate()
		return nil, fmt.Errorf("failed to enumerate portaudio devices: %w", err)
	}

	return &API{
		logger:  slog.Default().With("audio api", "portaudio"),
		devices: devices,
		streams: make(map[uuid.UUID]*paStream),
	}, nil
}

func (api *API) InputDevices() ([]audioapi.Device, error) {
	devices := make([]audioapi.Device, 0, len(api.devices))
	for id, info := range api.devices {
		if info.MaxInputChannels < 1 {
			continue
		}
		devices = append(devices, deviceFromInfo(id, info, info.MaxInputChannels))
	}
	return devices, nil
}

func (api *API) DefaultInputDevice() (audioapi.Device, error) {
	info, err := pa.DefaultInputDevice()
	if err != nil {
		return audioapi.Device{}, fmt.Errorf("%w: %v", audioapi.ErrNoDefaultDevice, err)
	}
	id, err := api.idFor(info)
	if err != nil {
		return audioapi.Device{}, err
	}
	return deviceFromInfo(id, info, info.MaxInputChannels), nil
}

func (api *API) OpenInputStream(dev audioapi.Device, format audioapi.Format, framesPerBuffer int, proc audioapi.ProcessFunc) (audioapi.StreamHandle, error) {
	info, err := api.infoFor(dev)
	if err != nil {
		return nil, err
	}

	params := pa.LowLatencyParameters(info, nil)
	params.Input.Channels = format.Channels
	params.SampleRate = float64(format.SampleRate)
	params.FramesPerBuffer = framesPerBuffer

	var stream *pa.Stream
	switch format.Encoding {
	case audioapi.EncodingF32:
		stream, err = pa.OpenStream(params, func(in []float32) {
			proc(audioapi.WrapFloat32(in, format.Channels))
		})
	case audioapi.EncodingI16:
		stream, err = pa.OpenStream(params, func(in []int16) {
			proc(audioapi.WrapInt16(in, format.Channels))
		})
	default:
		return nil, fmt.Errorf("portaudio cannot capture %v buffers", format.Encoding)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open portaudio input stream: %w", err)
	}

	return api.startStream(stream, dev, format)
}

func (api *API) OutputDevices() ([]audioapi.Device, error) {
	devices := make([]audioapi.Device, 0, len(api.devices))
	for id, info := range api.devices {
		if info.MaxOutputChannels < 1 {
			continue
		}
		devices = append(devices, deviceFromInfo(id, info, info.MaxOutputChannels))
	}
	return devices, nil
}

func (api *API) DefaultOutputDevice() (audioapi.Device, error) {
	info, err := pa.DefaultOutputDevice()
	if err != nil {
		return audioapi.Device{}, fmt.Errorf("%w: %v", audioapi.ErrNoDefaultDevice, err)
	}
	id, err := api.idFor(info)
	if err != nil {
		return audioapi.Device{}, err
	}
	return deviceFromInfo(id, info, info.MaxOutputChannels), nil
}

func (api *API) OpenOutputStream(dev audioapi.Device, format audioapi.Format, framesPerBuffer int, proc audioapi.ProcessFunc) (audioapi.StreamHandle, error) {
	info, err := api.infoFor(dev)
	if err != nil {
		return nil, err
	}

	params := pa.LowLatencyParameters(nil, info)
	params.Output.Channels = format.Channels
	params.SampleRate = float64(format.SampleRate)
	params.FramesPerBuffer = framesPerBuffer

	var stream *pa.Stream
	switch format.Encoding {
	case audioapi.EncodingF32:
		stream, err = pa.OpenStream(params, func(out []float32) {
			proc(audioapi.WrapFloat32(out, format.Channels))
		})
	case audioapi.EncodingI16:
		stream, err = pa.OpenStream(params, func(out []int16) {
			proc(audioapi.WrapInt16(out, format.Channels))
		})
	default:
		return nil, fmt.Errorf("portaudio cannot play %v buffers", format.Encoding)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open portaudio output stream: %w", err)
	}

	return api.startStream(stream, dev, format)
}

func (api *API) startStream(stream *pa.Stream, dev audioapi.Device, format audioapi.Format) (audioapi.StreamHandle, error) {
	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("failed to start portaudio stream: %w", err)
	}

	s := &paStream{
		api:    api,
		id:     uuid.New(),
		stream: stream,
	}
	api.mu.Lock()
	api.streams[s.id] = s
	api.mu.Unlock()

	api.logger.Debug(
		"started portaudio stream",
		"stream uuid", s.id,
		"device", dev.Name,
		"format", format,
	)
	return s, nil
}

// Close stops every open stream and terminates the PortAudio runtime.
func (api *API) Close() error {
	api.mu.Lock()
	if api.closed {
		api.mu.Unlock()
		return nil
	}
	api.closed = true
	streams := make([]*paStream, 0, len(api.streams))
	for _, s := range api.streams {
		streams = append(streams, s)
	}
	api.mu.Unlock()

	for _, s := range streams {
		if err := s.Close(); err != nil {
			api.logger.Error("failed to close portaudio stream", "stream uuid", s.id, "err", err)
		}
	}

	if err := pa.Terminate(); err != nil {
		return fmt.Errorf("failed to terminate portaudio: %w", err)
	}
	return nil
}

// idFor locates info in the snapshotted device table. The bindings
// hand out pointers into one table built at initialization, so pointer
// identity is the primary key; the name comparison covers backends
// that rebuild DeviceInfo values.
func (api *API) idFor(info *pa.DeviceInfo) (int, error) {
	for id, known := range api.devices {
		if known == info || known.Name == info.Name {
			return id, nil
		}
	}
	return 0, audioapi.ErrNoDefaultDevice
}

func (api *API) infoFor(dev audioapi.Device) (*pa.DeviceInfo, error) {
	if dev.ID < 0 || dev.ID >= len(api.devices) {
		return nil, audioapi.ErrUnknownDevice
	}
	return api.devices[dev.ID], nil
}

// deviceFromInfo converts a PortAudio device entry for one direction.
// PortAudio reports no preferred channel count, so the default format
// assumes stereo where available. Rate ranges are left unconstrained:
// PortAudio accepts arbitrary rates and resamples, and rates it truly
// cannot deliver fail at open time instead.
func deviceFromInfo(id int, info *pa.DeviceInfo, maxChannels int) audioapi.Device {
	formats := make([]audioapi.FormatRange, 0, maxChannels*len(encodings))
	for channels := 1; channels <= maxChannels; channels++ {
		for _, encoding := range encodings {
			formats = append(formats, audioapi.FormatRange{
				Channels: channels,
				Encoding: encoding,
			})
		}
	}

	return audioapi.Device{
		ID:   id,
		Name: info.Name,
		Default: &audioapi.Format{
			SampleRate: int(info.DefaultSampleRate),
			Channels:   min(2, maxChannels),
			Encoding:   audioapi.EncodingF32,
		},
		Formats: formats,
	}
}

type paStream struct {
	api    *API
	id     uuid.UUID
	stream *pa.Stream

	closeOnce sync.Once
	closeErr  error
}

func (s *paStream) ID() uuid.UUID { return s.id }

func (s *paStream) Close() error {
	s.closeOnce.Do(func() {
		if err := s.stream.Stop(); err != nil {
			s.closeErr = fmt.Errorf("failed to stop portaudio stream: %w", err)
		}
		if err := s.stream.Close(); err != nil && s.closeErr == nil {
			s.closeErr = fmt.Errorf("failed to close portaudio stream: %w", err)
		}

		s.api.mu.Lock()
		delete(s.api.streams, s.id)
		s.api.mu.Unlock()
	})
	return s.closeErr
}
