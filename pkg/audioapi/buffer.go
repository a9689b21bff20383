package audioapi

// equilibriumU16 is the silence value for unsigned 16-bit samples,
// which sit centered on the middle of their range rather than on zero.
const equilibriumU16 uint16 = 1 << 15

// Buffer is a common interface over the hardware sample buffers of the
// supported encodings. Exactly one typed view is backed by real
// memory; the other two return nil, so callers can branch on Encoding
// and take the matching view without reflection.
type Buffer interface {
	// Frames is the number of sample frames in the buffer.
	Frames() int
	// Channels is the number of interleaved channels per frame.
	Channels() int
	// Encoding reports which typed view is backed by real memory.
	Encoding() Encoding

	// Uint16 returns the u16 view of the buffer, or nil if the
	// encoding differs.
	Uint16() []uint16
	// Int16 returns the i16 view of the buffer, or nil if the
	// encoding differs.
	Int16() []int16
	// Float32 returns the f32 view of the buffer, or nil if the
	// encoding differs.
	Float32() []float32

	// Silence fills the buffer with its encoding's equilibrium value.
	Silence()
}

type buffer struct {
	encoding    Encoding
	frames      int
	numChannels int
	u16         []uint16
	i16         []int16
	f32         []float32
}

// WrapUint16 wraps an interleaved u16 sample slice as a Buffer.
// Panics if len(samples) is not a multiple of numChannels.
func WrapUint16(samples []uint16, numChannels int) Buffer {
	checkShape(len(samples), numChannels)
	return &buffer{
		encoding:    EncodingU16,
		frames:      len(samples) / numChannels,
		numChannels: numChannels,
		u16:         samples,
	}
}

// WrapInt16 wraps an interleaved i16 sample slice as a Buffer.
// Panics if len(samples) is not a multiple of numChannels.
func WrapInt16(samples []int16, numChannels int) Buffer {
	checkShape(len(samples), numChannels)
	return &buffer{
		encoding:    EncodingI16,
		frames:      len(samples) / numChannels,
		numChannels: numChannels,
		i16:         samples,
	}
}

// WrapFloat32 wraps an interleaved f32 sample slice as a Buffer.
// Panics if len(samples) is not a multiple of numChannels.
func WrapFloat32(samples []float32, numChannels int) Buffer {
	checkShape(len(samples), numChannels)
	return &buffer{
		encoding:    EncodingF32,
		frames:      len(samples) / numChannels,
		numChannels: numChannels,
		f32:         samples,
	}
}

func checkShape(numSamples, numChannels int) {
	if numChannels < 1 {
		panic("audioapi: buffer must have at least one channel")
	}
	if numSamples%numChannels != 0 {
		panic("audioapi: buffer length must be a multiple of the channel count")
	}
}

func (b *buffer) Frames() int        { return b.frames }
func (b *buffer) Channels() int      { return b.numChannels }
func (b *buffer) Encoding() Encoding { return b.encoding }

func (b *buffer) Uint16() []uint16   { return b.u16 }
func (b *buffer) Int16() []int16     { return b.i16 }
func (b *buffer) Float32() []float32 { return b.f32 }

func (b *buffer) Silence() {
	switch b.encoding {
	case EncodingU16:
		for i := range b.u16 {
			b.u16[i] = equilibriumU16
		}
	case EncodingI16:
		clear(b.i16)
	case EncodingF32:
		clear(b.f32)
	}
}
