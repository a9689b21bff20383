package audioapi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDevice(name string) Device {
	return Device{
		Name:    name,
		Default: &Format{SampleRate: 44100, Channels: 2, Encoding: EncodingF32},
		Formats: []FormatRange{
			{Channels: 1, Encoding: EncodingF32},
			{Channels: 2, Encoding: EncodingF32},
		},
	}
}

func TestDummyAPIDeviceRegistration(t *testing.T) {
	t.Parallel()
	api := NewDummyAPI()

	first := api.AddOutputDevice(testDevice("Speakers"))
	second := api.AddOutputDevice(testDevice("Headphones"))
	assert.Equal(t, 0, first.ID)
	assert.Equal(t, 1, second.ID)

	devices, err := api.OutputDevices()
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "Speakers", devices[0].Name)
	assert.Equal(t, "Headphones", devices[1].Name)

	def, err := api.DefaultOutputDevice()
	require.NoError(t, err)
	assert.Equal(t, "Speakers", def.Name)

	inputs, err := api.InputDevices()
	require.NoError(t, err)
	assert.Empty(t, inputs)
}

func TestDummyAPINoDefaultDevice(t *testing.T) {
	t.Parallel()
	api := NewDummyAPI()

	_, err := api.DefaultOutputDevice()
	assert.ErrorIs(t, err, ErrNoDefaultDevice)

	_, err = api.DefaultInputDevice()
	assert.ErrorIs(t, err, ErrNoDefaultDevice)
}

func TestDummyAPIOpenStream(t *testing.T) {
	t.Parallel()
	api := NewDummyAPI()
	dev := api.AddOutputDevice(testDevice("Speakers"))
	format := Format{SampleRate: 48000, Channels: 2, Encoding: EncodingF32}

	handle, err := api.OpenOutputStream(dev, format, 64, func(buf Buffer) {})
	require.NoError(t, err)

	stream := api.Stream(handle.ID())
	require.NotNil(t, stream)
	assert.False(t, stream.Input())
	assert.Equal(t, dev.ID, stream.Device().ID)
	assert.Equal(t, format, stream.Format())
	assert.Equal(t, 64, stream.FramesPerBuffer())
	assert.Len(t, api.OpenStreams(), 1)
}

func TestDummyAPIOpenUnknownDevice(t *testing.T) {
	t.Parallel()
	api := NewDummyAPI()
	api.AddOutputDevice(testDevice("Speakers"))

	_, err := api.OpenOutputStream(Device{ID: 7}, Format{}, 64, func(buf Buffer) {})
	assert.ErrorIs(t, err, ErrUnknownDevice)

	// Input and output device tables are separate.
	_, err = api.OpenInputStream(Device{ID: 0}, Format{}, 64, func(buf Buffer) {})
	assert.ErrorIs(t, err, ErrUnknownDevice)
}

func TestDummyAPIOpenError(t *testing.T) {
	t.Parallel()
	api := NewDummyAPI()
	dev := api.AddOutputDevice(testDevice("Speakers"))

	injected := errors.New("device is busy")
	api.SetOpenError(injected)
	_, err := api.OpenOutputStream(dev, Format{}, 64, func(buf Buffer) {})
	assert.ErrorIs(t, err, injected)
	assert.Empty(t, api.OpenStreams())

	api.SetOpenError(nil)
	_, err = api.OpenOutputStream(dev, Format{}, 64, func(buf Buffer) {})
	assert.NoError(t, err)
}

func TestDummyStreamPump(t *testing.T) {
	t.Parallel()
	api := NewDummyAPI()
	dev := api.AddOutputDevice(testDevice("Speakers"))

	var calls int
	handle, err := api.OpenOutputStream(dev, Format{}, 64, func(buf Buffer) {
		calls++
		assert.Equal(t, 4, buf.Frames())
	})
	require.NoError(t, err)

	stream := api.Stream(handle.ID())
	stream.Pump(WrapFloat32(make([]float32, 8), 2))
	stream.Pump(WrapFloat32(make([]float32, 8), 2))
	assert.Equal(t, 2, calls)
}

func TestDummyStreamCloseStopsPump(t *testing.T) {
	t.Parallel()
	api := NewDummyAPI()
	dev := api.AddOutputDevice(testDevice("Speakers"))

	var calls int
	handle, err := api.OpenOutputStream(dev, Format{}, 64, func(buf Buffer) { calls++ })
	require.NoError(t, err)
	stream := api.Stream(handle.ID())

	require.NoError(t, handle.Close())
	require.NoError(t, handle.Close())

	stream.Pump(WrapFloat32(make([]float32, 2), 1))
	assert.Zero(t, calls)
	assert.Nil(t, api.Stream(handle.ID()))
	assert.Empty(t, api.OpenStreams())
}

func TestDummyAPICloseClosesStreams(t *testing.T) {
	t.Parallel()
	api := NewDummyAPI()
	dev := api.AddOutputDevice(testDevice("Speakers"))

	_, err := api.OpenOutputStream(dev, Format{}, 64, func(buf Buffer) {})
	require.NoError(t, err)
	_, err = api.OpenOutputStream(dev, Format{}, 64, func(buf Buffer) {})
	require.NoError(t, err)

	require.NoError(t, api.Close())
	assert.Empty(t, api.OpenStreams())
}
