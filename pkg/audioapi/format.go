package audioapi

import "fmt"

// Encoding identifies the sample encoding a hardware buffer carries.
// These are the encodings the stream engine can convert to and from
// its float32 working format.
type Encoding int

const (
	// EncodingU16 uses 16-bit unsigned integers centered on 32768.
	EncodingU16 Encoding = iota
	// EncodingI16 uses 16-bit signed integers.
	EncodingI16
	// EncodingF32 uses 32-bit floating point values normalized between (-1..1).
	EncodingF32
)

func (e Encoding) String() string {
	switch e {
	case EncodingU16:
		return "u16"
	case EncodingI16:
		return "i16"
	case EncodingF32:
		return "f32"
	}
	return "?"
}

// Format is a concrete (sample rate, channel count, sample encoding)
// triple: either a device's preferred shape, or the result of
// negotiating a requested configuration against a device's supported
// formats. Immutable once a stream is opened with it.
type Format struct {
	SampleRate int
	Channels   int
	Encoding   Encoding
}

func (f Format) String() string {
	return fmt.Sprintf("%dHz %dch %s", f.SampleRate, f.Channels, f.Encoding)
}

// FormatRange is one entry of a device's supported-format list: a
// channel count and encoding valid for any sample rate within
// [MinSampleRate, MaxSampleRate]. A zero bound leaves that side of the
// range unconstrained.
type FormatRange struct {
	Channels      int
	Encoding      Encoding
	MinSampleRate int
	MaxSampleRate int
}

// ContainsRate reports whether rate lies within the range's sample
// rate bounds.
func (r FormatRange) ContainsRate(rate int) bool {
	if r.MinSampleRate > 0 && rate < r.MinSampleRate {
		return false
	}
	if r.MaxSampleRate > 0 && rate > r.MaxSampleRate {
		return false
	}
	return true
}

// ClampRate forces rate into the range's sample rate bounds.
func (r FormatRange) ClampRate(rate int) int {
	if r.MinSampleRate > 0 && rate < r.MinSampleRate {
		return r.MinSampleRate
	}
	if r.MaxSampleRate > 0 && rate > r.MaxSampleRate {
		return r.MaxSampleRate
	}
	return rate
}

// Format is the concrete format this range yields at the given rate,
// clamped into the range's bounds.
func (r FormatRange) Format(rate int) Format {
	return Format{
		SampleRate: r.ClampRate(rate),
		Channels:   r.Channels,
		Encoding:   r.Encoding,
	}
}

func (r FormatRange) String() string {
	switch {
	case r.MinSampleRate == 0 && r.MaxSampleRate == 0:
		return fmt.Sprintf("any Hz %dch %s", r.Channels, r.Encoding)
	case r.MinSampleRate == r.MaxSampleRate:
		return fmt.Sprintf("%dHz %dch %s", r.MinSampleRate, r.Channels, r.Encoding)
	default:
		return fmt.Sprintf("%d-%dHz %dch %s", r.MinSampleRate, r.MaxSampleRate, r.Channels, r.Encoding)
	}
}
