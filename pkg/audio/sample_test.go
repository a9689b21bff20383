package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Honorable-Knights-of-the-Roundtable/minstrel/pkg/audioapi"
)

func TestFloatToI16(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		in       float32
		expected int16
	}{
		{"zero", 0, 0},
		{"half", 0.5, 16384},
		{"negative half", -0.5, -16384},
		{"full scale positive saturates", 1, 32767},
		{"full scale negative", -1, -32768},
		{"over range clamps", 2.5, 32767},
		{"under range clamps", -2.5, -32768},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, c.expected, floatToI16(c.in))
		})
	}
}

func TestFloatToU16(t *testing.T) {
	t.Parallel()

	// Unsigned samples are the signed values shifted to center on 32768.
	assert.Equal(t, uint16(32768), floatToU16(0))
	assert.Equal(t, uint16(0), floatToU16(-1))
	assert.Equal(t, uint16(65535), floatToU16(1))
	assert.Equal(t, uint16(49152), floatToU16(0.5))
}

func TestIntToFloatRoundTrip(t *testing.T) {
	t.Parallel()

	// Every value that came from hardware survives a round trip
	// through float32 exactly.
	for i := math16Min; i <= math16Max; i += 257 {
		v := int16(i)
		assert.Equal(t, v, floatToI16(i16ToFloat(v)))

		u := uint16(i - math16Min)
		assert.Equal(t, u, floatToU16(u16ToFloat(u)))
	}
}

const (
	math16Min = -32768
	math16Max = 32767
)

func TestWriteHardware(t *testing.T) {
	t.Parallel()

	src := []float32{0, 0.5, -0.5, 1, -1, 0.25}

	t.Run("i16", func(t *testing.T) {
		t.Parallel()
		out := make([]int16, len(src))
		writeHardware(audioapi.WrapInt16(out, 2), src)
		assert.Equal(t, []int16{0, 16384, -16384, 32767, -32768, 8192}, out)
	})

	t.Run("u16", func(t *testing.T) {
		t.Parallel()
		out := make([]uint16, len(src))
		writeHardware(audioapi.WrapUint16(out, 2), src)
		assert.Equal(t, []uint16{32768, 49152, 16384, 65535, 0, 40960}, out)
	})

	t.Run("f32", func(t *testing.T) {
		t.Parallel()
		out := make([]float32, len(src))
		writeHardware(audioapi.WrapFloat32(out, 2), src)
		assert.Equal(t, src, out)
	})
}

func TestReadHardware(t *testing.T) {
	t.Parallel()

	t.Run("i16", func(t *testing.T) {
		t.Parallel()
		in := []int16{0, 16384, -16384, -32768}
		dst := make([]float32, len(in))
		readHardware(dst, audioapi.WrapInt16(in, 2))
		assert.Equal(t, []float32{0, 0.5, -0.5, -1}, dst)
	})

	t.Run("u16 equilibrium reads as zero", func(t *testing.T) {
		t.Parallel()
		in := []uint16{32768, 49152, 16384, 0}
		dst := make([]float32, len(in))
		readHardware(dst, audioapi.WrapUint16(in, 2))
		assert.Equal(t, []float32{0, 0.5, -0.5, -1}, dst)
	})

	t.Run("f32", func(t *testing.T) {
		t.Parallel()
		in := []float32{0.1, -0.2, 0.3, -0.4}
		dst := make([]float32, len(in))
		readHardware(dst, audioapi.WrapFloat32(in, 2))
		assert.Equal(t, in, dst)
	})
}
