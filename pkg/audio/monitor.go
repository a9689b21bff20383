package audio

import (
	"math"
	"sync/atomic"
)

// Band crossover frequencies in Hz.
const (
	lowCrossover = 200.0
	midCrossover = 2000.0
)

// Monitor derives display-friendly levels from the buffers passing
// through a render or capture function: peak, RMS, and a three-band
// split of the mono mix. Process is meant for the audio thread and
// does not lock or allocate; the level getters are safe from any
// goroutine and report the most recently processed buffer.
type Monitor struct {
	rms  atomic.Uint32
	peak atomic.Uint32
	low  atomic.Uint32
	mid  atomic.Uint32
	high atomic.Uint32

	// One-pole low-pass filter states and coefficients for the band
	// crossovers. Touched only by Process.
	lpLow float64
	lpMid float64
	aLow  float64
	aMid  float64
}

// NewMonitor creates a Monitor for a stream running at sampleRate.
// Panics if sampleRate is not positive.
func NewMonitor(sampleRate int) *Monitor {
	if sampleRate < 1 {
		panic("audio: monitor sample rate must be positive")
	}
	return &Monitor{
		aLow: onePoleCoefficient(lowCrossover, sampleRate),
		aMid: onePoleCoefficient(midCrossover, sampleRate),
	}
}

func onePoleCoefficient(cutoff float64, sampleRate int) float64 {
	return 1 - math.Exp(-2*math.Pi*cutoff/float64(sampleRate))
}

// Process folds one buffer into the monitor's levels. Call it from the
// stream's render or capture function with the buffer it was handed.
func (m *Monitor) Process(buf *Buffer) {
	channels := buf.Channels()
	samples := buf.Samples()
	if len(samples) == 0 {
		return
	}

	var sumSquares float64
	var peak, low, mid, high float64

	for i := 0; i < len(samples); i += channels {
		var x float64
		for c := 0; c < channels; c++ {
			x += float64(samples[i+c])
		}
		x /= float64(channels)

		sumSquares += x * x
		if a := math.Abs(x); a > peak {
			peak = a
		}

		m.lpLow += m.aLow * (x - m.lpLow)
		m.lpMid += m.aMid * (x - m.lpMid)

		if a := math.Abs(m.lpLow); a > low {
			low = a
		}
		if a := math.Abs(m.lpMid - m.lpLow); a > mid {
			mid = a
		}
		if a := math.Abs(x - m.lpMid); a > high {
			high = a
		}
	}

	m.rms.Store(math.Float32bits(float32(math.Sqrt(sumSquares / float64(buf.Frames())))))
	m.peak.Store(math.Float32bits(float32(peak)))
	m.low.Store(math.Float32bits(float32(low)))
	m.mid.Store(math.Float32bits(float32(mid)))
	m.high.Store(math.Float32bits(float32(high)))
}

// RMS is the root mean square level of the last processed buffer's
// mono mix.
func (m *Monitor) RMS() float32 {
	return math.Float32frombits(m.rms.Load())
}

// Peak is the peak absolute level of the last processed buffer's mono
// mix.
func (m *Monitor) Peak() float32 {
	return math.Float32frombits(m.peak.Load())
}

// Bands returns the peak levels of the low (up to ~200Hz), mid, and
// high (above ~2kHz) bands of the last processed buffer.
func (m *Monitor) Bands() (low, mid, high float32) {
	return math.Float32frombits(m.low.Load()),
		math.Float32frombits(m.mid.Load()),
		math.Float32frombits(m.high.Load())
}
