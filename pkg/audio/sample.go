package audio

import (
	"math"

	"github.com/Honorable-Knights-of-the-Roundtable/minstrel/pkg/audioapi"
)

// Conversions between the engine's float32 working samples and the
// hardware encodings. Floats clamp to [-1, 1] before scaling by 32768,
// so -1 maps to the most negative 16-bit value and +1 saturates at the
// most positive. Unsigned 16-bit samples sit centered on 32768.

func floatToI16(v float32) int16 {
	s := math.Round(float64(v) * 32768)
	switch {
	case s > math.MaxInt16:
		return math.MaxInt16
	case s < math.MinInt16:
		return math.MinInt16
	}
	return int16(s)
}

func i16ToFloat(v int16) float32 {
	return float32(v) / 32768
}

func floatToU16(v float32) uint16 {
	return uint16(int32(floatToI16(v)) + 32768)
}

func u16ToFloat(v uint16) float32 {
	return i16ToFloat(int16(int32(v) - 32768))
}

// writeHardware copies src into the hardware buffer, converting each
// sample to the buffer's encoding. len(src) must equal the buffer's
// sample count.
func writeHardware(dst audioapi.Buffer, src []float32) {
	switch dst.Encoding() {
	case audioapi.EncodingU16:
		out := dst.Uint16()
		for i, v := range src {
			out[i] = floatToU16(v)
		}
	case audioapi.EncodingI16:
		out := dst.Int16()
		for i, v := range src {
			out[i] = floatToI16(v)
		}
	case audioapi.EncodingF32:
		copy(dst.Float32(), src)
	}
}

// readHardware fills dst from the hardware buffer, converting each
// sample from the buffer's encoding. len(dst) must equal the buffer's
// sample count.
func readHardware(dst []float32, src audioapi.Buffer) {
	switch src.Encoding() {
	case audioapi.EncodingU16:
		for i, v := range src.Uint16() {
			dst[i] = u16ToFloat(v)
		}
	case audioapi.EncodingI16:
		for i, v := range src.Int16() {
			dst[i] = i16ToFloat(v)
		}
	case audioapi.EncodingF32:
		copy(dst, src.Float32())
	}
}
