package audio

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/Honorable-Knights-of-the-Roundtable/minstrel/pkg/audioapi"
)

// shared is the state reachable from both the controller-facing Stream
// and the hardware callback closure. It is fully constructed before
// the stream is opened, so the callback never observes a partial
// value.
type shared[M any] struct {
	slot     modelSlot[M]
	updates  updateQueue[M]
	isPaused atomic.Bool
	logger   *slog.Logger
}

func newShared[M any](model M) *shared[M] {
	return &shared[M]{
		slot:   modelSlot[M]{m: &model},
		logger: slog.Default(),
	}
}

// Stream is a live, registered audio stream. It owns the model; other
// goroutines reach the model only through SendUpdate. All methods are
// safe to call from any goroutine and none of them blocks on the audio
// thread.
type Stream[M any] struct {
	shared          *shared[M]
	handle          audioapi.StreamHandle
	format          audioapi.Format
	framesPerBuffer int
	logger          *slog.Logger

	closeOnce sync.Once
}

// ID is the identity of the stream's hardware registration.
func (s *Stream[M]) ID() uuid.UUID { return s.handle.ID() }

// Format is the negotiated hardware format the stream runs at.
func (s *Stream[M]) Format() audioapi.Format { return s.format }

// SampleRate is the negotiated sample rate in frames per second.
func (s *Stream[M]) SampleRate() int { return s.format.SampleRate }

// Channels is the negotiated channel count.
func (s *Stream[M]) Channels() int { return s.format.Channels }

// FramesPerBuffer is the logical buffer length the render or capture
// function sees on every invocation.
func (s *Stream[M]) FramesPerBuffer() int { return s.framesPerBuffer }

// Pause makes the callback emit silence (or discard capture) without
// touching the model or the hardware registration. Queued updates are
// still applied while paused. Pausing a paused stream is a no-op;
// never blocks.
func (s *Stream[M]) Pause() {
	s.shared.isPaused.Store(true)
}

// Resume lifts a pause, picking up rendering exactly where the
// requester cursor left off. Resuming a running stream is a no-op;
// never blocks.
func (s *Stream[M]) Resume() {
	s.shared.isPaused.Store(false)
}

// IsPaused reports whether the stream is currently paused.
func (s *Stream[M]) IsPaused() bool {
	return s.shared.isPaused.Load()
}

// SendUpdate queues fn to run against the model on the audio thread,
// strictly between buffer renders and FIFO with other updates. It
// never blocks and never runs fn inline. Updates sent after Close are
// never applied.
func (s *Stream[M]) SendUpdate(fn UpdateFn[M]) {
	s.shared.updates.push(fn)
}

// Close deregisters the stream from the hardware. Closing twice is a
// no-op; only the call that performs the close reports an error.
func (s *Stream[M]) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.logger.Debug("closing stream")
		err = s.handle.Close()
	})
	return err
}

// --------------------------------------------------------------------------------

// outputProc builds the hardware callback for an output stream: apply
// queued updates, render through the requester into the scratch
// buffer, convert into the hardware buffer, then apply updates again
// so work sent during the render takes effect before the next one.
// The requester, scratch buffer, and pending-update batch live in the
// closure and are touched only by the hardware thread.
func outputProc[M any](sh *shared[M], render RenderFn[M], format audioapi.Format, framesPerBuffer int) audioapi.ProcessFunc {
	requester := NewOutputRequester[M](framesPerBuffer, format.Channels, format.SampleRate)
	scratch := NewBuffer(framesPerBuffer, format.Channels)
	var pending []UpdateFn[M]

	return func(hw audioapi.Buffer) {
		pending = applyPending(sh, pending)

		if sh.isPaused.Load() {
			hw.Silence()
			pending = applyPending(sh, pending)
			return
		}

		scratch.Resize(hw.Frames(), hw.Channels())

		model, ok := sh.slot.tryTake()
		if !ok {
			sh.logger.Warn("model unavailable in output callback, emitting silence")
			hw.Silence()
			return
		}
		requester.Fill(model, render, scratch.Samples())
		sh.slot.put(model)

		writeHardware(hw, scratch.Samples())

		pending = applyPending(sh, pending)
	}
}

// inputProc builds the hardware callback for an input stream: apply
// queued updates, convert the hardware buffer into the scratch buffer,
// feed it through the requester, then apply updates again. While
// paused the captured samples are discarded.
func inputProc[M any](sh *shared[M], capture CaptureFn[M], format audioapi.Format, framesPerBuffer int) audioapi.ProcessFunc {
	requester := NewInputRequester[M](framesPerBuffer, format.Channels, format.SampleRate)
	scratch := NewBuffer(framesPerBuffer, format.Channels)
	var pending []UpdateFn[M]

	return func(hw audioapi.Buffer) {
		pending = applyPending(sh, pending)

		if sh.isPaused.Load() {
			pending = applyPending(sh, pending)
			return
		}

		scratch.Resize(hw.Frames(), hw.Channels())
		readHardware(scratch.Samples(), hw)

		model, ok := sh.slot.tryTake()
		if !ok {
			sh.logger.Warn("model unavailable in input callback, dropping captured buffer")
			return
		}
		requester.Push(model, capture, scratch.Samples())
		sh.slot.put(model)

		pending = applyPending(sh, pending)
	}
}

// applyPending drains the update queue and applies everything to the
// model in order. When the model cannot be taken this buffer, the
// drained updates stay in pending for the next attempt, still ahead of
// anything sent later.
func applyPending[M any](sh *shared[M], pending []UpdateFn[M]) []UpdateFn[M] {
	pending = sh.updates.drainInto(pending)
	if len(pending) == 0 {
		return pending
	}

	model, ok := sh.slot.tryTake()
	if !ok {
		return pending
	}
	for _, fn := range pending {
		fn(model)
	}
	sh.slot.put(model)

	clear(pending)
	return pending[:0]
}
