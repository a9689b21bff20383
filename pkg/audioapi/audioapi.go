// Package audioapi abstracts the hardware audio subsystem: device
// enumeration, format capabilities, and callback-driven sample streams.
//
// Implementations are thin wrappers around a real backend (see the
// portaudio subpackage) or fully in-memory (DummyAPI), so the stream
// engine and its tests never have to touch hardware directly.
package audioapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrNoDefaultDevice is returned by DefaultInputDevice and
	// DefaultOutputDevice when the backend reports no usable default
	// endpoint for that direction.
	ErrNoDefaultDevice = errors.New("audioapi: no default device available")

	// ErrUnknownDevice is returned when opening a stream on a Device
	// that does not belong to the API it is used with.
	ErrUnknownDevice = errors.New("audioapi: no device with specified ID")
)

type Device struct {
	// The ID of the device.
	//
	// Comes from the underlying backend (e.g. the PortAudio device
	// index) or is assigned in registration order by in-memory
	// implementations.
	//
	// Intended to be the canonical way to reference a device when
	// opening a stream on it.
	ID int

	// A human-readable name for the device, if one exists.
	// Not necessary, and not canonical.
	Name string

	// The format the backend prefers for this device, if it reports
	// one. Negotiation favors this shape when it satisfies the
	// requested configuration.
	Default *Format

	// Every (channels, encoding, sample rate range) combination the
	// device accepts, in backend order. Negotiation scans this list in
	// order, so earlier entries win ties.
	Formats []FormatRange
}

func (device Device) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "ID:        %v\n", device.ID)
	fmt.Fprintf(&sb, "Name:      %v\n", device.Name)
	if device.Default != nil {
		fmt.Fprintf(&sb, "Default:   %v\n", *device.Default)
	}
	for i, formatRange := range device.Formats {
		if i == 0 {
			fmt.Fprintf(&sb, "Formats:   %v\n", formatRange)
		} else {
			fmt.Fprintf(&sb, "           %v\n", formatRange)
		}
	}

	return sb.String()
}

// ProcessFunc is invoked by the backend once per hardware buffer, on a
// thread the backend owns. Output streams write samples into the
// buffer; input streams read the captured samples out of it. The
// function must not block.
type ProcessFunc func(buf Buffer)

// StreamHandle represents one registered callback stream on a device.
type StreamHandle interface {
	// ID is the identity of this registration, minted when the stream
	// is opened.
	ID() uuid.UUID

	// Close deregisters the callback and releases backend resources
	// held by the stream. After Close returns the callback will not be
	// invoked again.
	Close() error
}

// DeviceAPI is an abstract way to:
//   - query existing devices (input and output) and their formats
//   - resolve the system default device for each direction
//   - open callback-driven streams on a device
//
// Implementations over real backends hold OS resources and must be
// closed when no longer needed.
type DeviceAPI interface {
	InputDevices() ([]Device, error)
	DefaultInputDevice() (Device, error)
	OpenInputStream(dev Device, format Format, framesPerBuffer int, proc ProcessFunc) (StreamHandle, error)

	OutputDevices() ([]Device, error)
	DefaultOutputDevice() (Device, error)
	OpenOutputStream(dev Device, format Format, framesPerBuffer int, proc ProcessFunc) (StreamHandle, error)

	// Close shuts down the backend, closing any streams still open.
	Close() error
}
