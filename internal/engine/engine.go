// Package engine drives the control loop: poll the value source, map
// values into the DMX frame, and broadcast the frame on change or on
// the maintenance heartbeat.
package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/copsvsninjas/eegsynth/internal/artnet"
	"github.com/copsvsninjas/eegsynth/internal/config"
	"github.com/copsvsninjas/eegsynth/internal/logger"
)

// FrameSize is the full universe size. Frames shorter than 512 are a
// protocol violation downstream, so the frame is always full-size no
// matter how many channels carry a mapping.
const FrameSize = artnet.UniverseSize

// Frame is one complete universe snapshot. It is owned by the Engine
// and never transmitted partially.
type Frame [FrameSize]byte

// ValueSource returns current control values and per-channel mapping
// rules by zero-based channel index.
type ValueSource interface {
	// ChannelValue returns (value, present, error). Not present is a
	// normal condition meaning "no update for this channel".
	ChannelValue(ctx context.Context, channel int) (float64, bool, error)
	Scale(ctx context.Context, channel int) float64
	Offset(ctx context.Context, channel int) float64
}

// Transmitter broadcasts encoded frames.
type Transmitter interface {
	SendDMX(frame []byte, addr artnet.Address) error
	Close() error
}

// Notifier receives informational events.
type Notifier interface {
	ChannelChanged(channel int, value uint8)
	Milestone(event string)
}

// Engine holds all loop state that the original module kept in
// process-wide globals: the frame, the universe address and the
// transmission timestamp.
type Engine struct {
	logger logger.Logger
	values ValueSource
	tx     Transmitter
	mon    Notifier

	addr  artnet.Address
	frame Frame

	delay       time.Duration
	maintenance time.Duration
	blankRepeat int
	blankDelay  time.Duration

	lastSent time.Time
	now      func() time.Time
}

// NewEngine конструктор.
func NewEngine(log logger.Logger, values ValueSource, tx Transmitter, mon Notifier, cfg *config.Config) *Engine {
	return &Engine{
		logger:      log,
		values:      values,
		tx:          tx,
		mon:         mon,
		addr:        artnet.NewAddress(uint8(cfg.ArtNet.Net), uint8(cfg.ArtNet.SubNet), uint8(cfg.ArtNet.Universe)),
		delay:       time.Duration(cfg.General.DelayMS) * time.Millisecond,
		maintenance: time.Duration(cfg.ArtNet.MaintenanceMS) * time.Millisecond,
		blankRepeat: cfg.ArtNet.BlankRepeat,
		blankDelay:  time.Duration(cfg.ArtNet.BlankDelayMS) * time.Millisecond,
		now:         time.Now,
	}
}

// Start blanks the universe with one initial broadcast and arms the
// heartbeat timer.
func (e *Engine) Start() {
	e.mon.Milestone(fmt.Sprintf("universe %v size = %d", e.addr, FrameSize))
	e.send()
}

// Run executes the fixed-period loop until ctx is canceled, then runs
// the shutdown sequence and releases the transmitter.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.delay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return e.stop()
		case <-ticker.C:
			e.cycle(ctx)
		}
	}
}

// cycle runs one fetch → map → compare → send pass.
func (e *Engine) cycle(ctx context.Context) {
	update := false

	for channel := 0; channel < FrameSize; channel++ {
		raw, ok, err := e.values.ChannelValue(ctx, channel)
		if err != nil {
			e.logger.With(logger.Fields{"module": "engine"}).Warnf("channel %d: %v", channel+1, err)
			continue
		}
		if !ok {
			// the value is not present, skip it
			continue
		}

		level := e.mapValue(ctx, channel, raw)
		if e.frame[channel] != level {
			e.frame[channel] = level
			update = true
			e.mon.ChannelChanged(channel, level)
		}
	}

	switch {
	case update:
		e.send()
	case e.now().Sub(e.lastSent) > e.maintenance:
		// maintenance frame: receivers expect a heartbeat even when
		// nothing changed
		e.send()
	}
}

// mapValue applies the channel's scale/offset rule and clamps the
// result to the 8-bit level range.
func (e *Engine) mapValue(ctx context.Context, channel int, raw float64) uint8 {
	scale := e.values.Scale(ctx, channel)
	offset := e.values.Offset(ctx, channel)

	v := raw*scale + offset
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(math.Round(v))
}

// send broadcasts the current frame. A failed send is recoverable: it
// is logged and the next change or heartbeat retries naturally. The
// timestamp resets either way so a dead network does not turn the
// heartbeat into a busy loop.
func (e *Engine) send() {
	if err := e.tx.SendDMX(e.frame[:], e.addr); err != nil {
		e.logger.With(logger.Fields{"module": "engine"}).Errorf("send failed: %v", err)
	}
	e.lastSent = e.now()
}

// stop blanks the frame and rebroadcasts it several times before
// closing the endpoint. Broadcast has no acknowledgement, a single
// final packet can be lost and leave fixtures lit.
func (e *Engine) stop() error {
	e.mon.Milestone("Stopping module...")

	e.frame = Frame{}
	for n := 0; n < e.blankRepeat; n++ {
		e.send()
		if n < e.blankRepeat-1 {
			time.Sleep(e.blankDelay)
		}
	}

	err := e.tx.Close()
	e.mon.Milestone("Done.")
	return err
}
