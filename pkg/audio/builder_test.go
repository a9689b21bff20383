package audio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Honorable-Knights-of-the-Roundtable/minstrel/pkg/audioapi"
)

func TestBuilderSettersRejectInvalidValues(t *testing.T) {
	t.Parallel()

	api := audioapi.NewDummyAPI()

	require.Panics(t, func() { NewOutputStream(api, struct{}{}).SampleRate(0) })
	require.Panics(t, func() { NewOutputStream(api, struct{}{}).SampleRate(-44100) })
	require.Panics(t, func() { NewOutputStream(api, struct{}{}).Channels(0) })
	require.Panics(t, func() { NewOutputStream(api, struct{}{}).FramesPerBuffer(0) })

	require.Panics(t, func() { NewInputStream(api, struct{}{}).SampleRate(0) })
	require.Panics(t, func() { NewInputStream(api, struct{}{}).Channels(-1) })
	require.Panics(t, func() { NewInputStream(api, struct{}{}).FramesPerBuffer(-64) })

	// Nothing was registered by the failed configuration attempts.
	assert.Empty(t, api.OpenStreams())
}

func TestBuildNoDefaultDevice(t *testing.T) {
	t.Parallel()

	api := audioapi.NewDummyAPI()

	_, err := NewOutputStream(api, struct{}{}).Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, audioapi.ErrNoDefaultDevice)

	var buildErr *BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, "resolve output device", buildErr.Op)

	_, err = NewInputStream(api, struct{}{}).Build()
	assert.ErrorIs(t, err, audioapi.ErrNoDefaultDevice)
}

func TestBuildFormatUnsupported(t *testing.T) {
	t.Parallel()

	api := audioapi.NewDummyAPI()
	api.AddOutputDevice(audioapi.Device{
		Name:    "Mono Integer",
		Default: &audioapi.Format{SampleRate: 44100, Channels: 1, Encoding: audioapi.EncodingI16},
		Formats: []audioapi.FormatRange{{Channels: 1, Encoding: audioapi.EncodingI16}},
	})

	_, err := NewOutputStream(api, struct{}{}).Channels(2).Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFormatUnsupported)

	_, err = NewOutputStream(api, struct{}{}).Encoding(audioapi.EncodingF32).Build()
	assert.ErrorIs(t, err, ErrFormatUnsupported)

	// No stream reached the hardware.
	assert.Empty(t, api.OpenStreams())
}

func TestBuildSampleRateMismatchNeverFails(t *testing.T) {
	t.Parallel()

	api := audioapi.NewDummyAPI()
	api.AddOutputDevice(audioapi.Device{
		Name:    "Narrow",
		Default: &audioapi.Format{SampleRate: 48000, Channels: 2, Encoding: audioapi.EncodingF32},
		Formats: []audioapi.FormatRange{
			{Channels: 2, Encoding: audioapi.EncodingF32, MinSampleRate: 48000, MaxSampleRate: 48000},
		},
	})

	stream, err := NewOutputStream(api, struct{}{}).SampleRate(96000).Build()
	require.NoError(t, err)
	defer stream.Close()
	assert.Equal(t, 48000, stream.SampleRate())
}

func TestBuildHardwareError(t *testing.T) {
	t.Parallel()

	api := audioapi.NewDummyAPI()
	dummyOutputDevice(api, audioapi.EncodingF32)

	injected := errors.New("device wedged")
	api.SetOpenError(injected)

	_, err := NewOutputStream(api, struct{}{}).Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, injected)

	var buildErr *BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, "open output stream", buildErr.Op)
	assert.Empty(t, api.OpenStreams())
}

func TestBuildDefaults(t *testing.T) {
	t.Parallel()

	api := audioapi.NewDummyAPI()
	api.AddOutputDevice(audioapi.Device{
		Name:    "Flexible",
		Default: &audioapi.Format{SampleRate: 48000, Channels: 2, Encoding: audioapi.EncodingF32},
		Formats: []audioapi.FormatRange{
			{Channels: 2, Encoding: audioapi.EncodingF32},
		},
	})

	stream, err := NewOutputStream(api, struct{}{}).Build()
	require.NoError(t, err)
	defer stream.Close()

	// An unset sample rate requests DefaultSampleRate, which the
	// device's unconstrained range honors; channels and encoding come
	// from the device default.
	assert.Equal(t, DefaultSampleRate, stream.SampleRate())
	assert.Equal(t, 2, stream.Channels())
	assert.Equal(t, audioapi.EncodingF32, stream.Format().Encoding)
	assert.Equal(t, DefaultFramesPerBuffer, stream.FramesPerBuffer())
}

func TestBuildWithPinnedDevice(t *testing.T) {
	t.Parallel()

	api := audioapi.NewDummyAPI()
	dummyOutputDevice(api, audioapi.EncodingF32)
	second := api.AddOutputDevice(audioapi.Device{
		Name:    "Second Output",
		Default: &audioapi.Format{SampleRate: 48000, Channels: 2, Encoding: audioapi.EncodingF32},
		Formats: []audioapi.FormatRange{{Channels: 2, Encoding: audioapi.EncodingF32}},
	})

	stream, err := NewOutputStream(api, struct{}{}).Device(second).Build()
	require.NoError(t, err)
	defer stream.Close()

	hw := api.Stream(stream.ID())
	require.NotNil(t, hw)
	assert.Equal(t, second.ID, hw.Device().ID)
	assert.Equal(t, "Second Output", hw.Device().Name)
}

func TestBuildRequestedConfigurationIsHonored(t *testing.T) {
	t.Parallel()

	api := audioapi.NewDummyAPI()
	api.AddInputDevice(audioapi.Device{
		Name:    "Multiformat",
		Default: &audioapi.Format{SampleRate: 44100, Channels: 2, Encoding: audioapi.EncodingF32},
		Formats: []audioapi.FormatRange{
			{Channels: 1, Encoding: audioapi.EncodingI16, MinSampleRate: 8000, MaxSampleRate: 96000},
			{Channels: 2, Encoding: audioapi.EncodingF32, MinSampleRate: 8000, MaxSampleRate: 96000},
		},
	})

	stream, err := NewInputStream(api, struct{}{}).
		SampleRate(16000).
		Channels(1).
		Encoding(audioapi.EncodingI16).
		FramesPerBuffer(128).
		Build()
	require.NoError(t, err)
	defer stream.Close()

	assert.Equal(t, audioapi.Format{SampleRate: 16000, Channels: 1, Encoding: audioapi.EncodingI16}, stream.Format())
	assert.Equal(t, 128, stream.FramesPerBuffer())

	hw := api.Stream(stream.ID())
	require.NotNil(t, hw)
	assert.True(t, hw.Input())
	assert.Equal(t, 128, hw.FramesPerBuffer())
}
