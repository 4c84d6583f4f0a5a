package pump

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/go-sps/internal/pool"
	"github.com/arloliu/go-sps/logger"
	"github.com/arloliu/go-sps/sps"
)

// Link is the byte stream a Station talks over. *rs232.Conn implements it.
type Link interface {
	Open(ctx context.Context) error
	Close() error
	IsOpen() bool
	Read(buf []byte, timeout time.Duration) (int, error)
	Write(data []byte) (int, error)
}

// Station is the caller-held handle of one pumping station.
type Station struct {
	link   Link
	cfg    *Config
	logger logger.Logger

	codec *sps.Codec
	acct  *Accountant
	out   sps.OutBuffer
	buf   [sps.FrameSize]byte

	// active holds the error conditions of the last decoded frame.
	active map[sps.Fault]struct{}

	metrics StationMetrics
}

// NewStation creates a Station on top of link. The link is not opened.
func NewStation(link Link, opts ...Option) (*Station, error) {
	if link == nil {
		return nil, errors.New("pump: link is nil")
	}

	cfg := newDefaultConfig()
	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return &Station{
		link:   link,
		cfg:    cfg,
		logger: cfg.logger,
		codec:  sps.NewCodec(cfg.logger),
		acct:   NewAccountant(cfg.reportWindow, cfg.clock),
		active: make(map[sps.Fault]struct{}),
	}, nil
}

// Config returns the configuration of the Station.
func (s *Station) Config() *Config {
	return s.cfg
}

// GetMetrics returns the metrics associated with the Station.
func (s *Station) GetMetrics() *StationMetrics {
	return &s.metrics
}

// Counters returns a snapshot of the health counters.
func (s *Station) Counters() Counters {
	return s.acct.Counters()
}

// Open opens the link if it is not open yet. A failure is counted as an open
// error and returned to the caller, who decides when to try again.
func (s *Station) Open(ctx context.Context) error {
	if s.link.IsOpen() {
		return nil
	}

	if err := s.link.Open(ctx); err != nil {
		s.acct.RecordOpenFailure()
		s.logger.Debug("pump: open failed", "error", err)

		return err
	}
	s.logger.Info("pump: link opened")

	return nil
}

// Reconnect closes the link and opens it again.
func (s *Station) Reconnect(ctx context.Context) error {
	if err := s.link.Close(); err != nil {
		s.logger.Debug("pump: close before reconnect failed", "error", err)
	}

	return s.Open(ctx)
}

// Close closes the link.
func (s *Station) Close() error {
	return s.link.Close()
}

// Poll runs one polling cycle and returns the current channel values.
// Errors are accounted for, never returned; on failure the previous values
// are returned unchanged.
func (s *Station) Poll() sps.ChannelSet {
	if r, ok := s.acct.CheckReport(); ok {
		s.emitReport(r)
	}

	if !s.acct.Due(s.cfg.minPollInterval) {
		s.metrics.incPollSkipCount()
		return s.codec.Channels()
	}
	s.metrics.incPollCount()

	n, err := s.link.Read(s.buf[:], s.cfg.readTimeout)
	if n != sps.FrameSize {
		s.acct.RecordRead(n, sps.FrameSize, nil)
		s.metrics.incReadErrCount()
		s.logger.Debug("pump: incomplete frame", "bytes", n, "error", err)

		return s.codec.Channels()
	}

	frame := sps.Frame(s.buf)
	s.out.Load(frame)

	cs, faults, err := s.codec.Decode(frame)
	if s.acct.RecordRead(n, sps.FrameSize, err) {
		s.metrics.incDecodeCount()
	} else {
		s.metrics.incDecodeErrCount()
	}
	s.emitFaults(faults)

	return cs
}

// Channels returns the cached channel values without polling.
func (s *Station) Channels() sps.ChannelSet {
	return s.codec.Channels()
}

// ChannelValue returns the cached value of channel ch.
func (s *Station) ChannelValue(ch sps.Channel) (float32, error) {
	return s.codec.Channels().Value(ch)
}

// Get is the read callback of a host variable: reading the life sign channel
// triggers a poll, all other channels return the values of that poll.
func (s *Station) Get(ch sps.Channel) (float32, error) {
	if !ch.Valid() {
		return 0, fmt.Errorf("%w: %d", sps.ErrInvalidChannel, int(ch))
	}
	if ch == sps.ChannelLifeSign {
		s.Poll()
	}

	return s.ChannelValue(ch)
}

// Label returns the host label of channel ch.
func (s *Station) Label(ch sps.Channel) string {
	return ch.Label()
}

// OutputLabel returns the host label of the command output.
func (s *Station) OutputLabel() string {
	return sps.OutputLabel
}

// IssueCommand writes cmd in the command byte of the outbound block and sends
// the block. CmdIdle sends nothing.
func (s *Station) IssueCommand(cmd sps.Command) error {
	if cmd == sps.CmdIdle {
		return nil
	}

	if err := s.out.Encode(cmd); err != nil {
		return err
	}

	if _, err := s.link.Write(s.out.Bytes()); err != nil {
		s.logger.Error("pump: command failed", "command", cmd.String(), "error", err)
		return fmt.Errorf("pump: send %s: %w", cmd, err)
	}
	s.metrics.incCommandCount()
	s.logger.Info("pump: command sent", "command", cmd.String())

	return nil
}

// SetOutput is the write callback of the host output variable. v selects
// the command: 0 idle, 1 start, 2 stop, 3 lock, 4 unlock, 5 reset.
func (s *Station) SetOutput(v float32) error {
	cmd, err := sps.CommandFromSetpoint(v)
	if err != nil {
		return err
	}

	return s.IssueCommand(cmd)
}

// ErrStopRun is returned by a PollFunc to end Run without an error.
var ErrStopRun = errors.New("pump: stop run")

// PollFunc receives the channels after every poll of Run.
type PollFunc func(cs sps.ChannelSet) error

// Run polls every interval on the calling goroutine until ctx is done. A
// closed link is opened again before the next poll; open failures are
// counted like any other.
//
// If fn is not nil it is called after every poll. Run stops as soon as fn
// returns an error and returns that error, or nil for ErrStopRun. Otherwise
// Run returns the context error.
func (s *Station) Run(ctx context.Context, interval time.Duration, fn PollFunc) error {
	if interval <= 0 {
		return fmt.Errorf("pump: invalid poll interval: %v", interval)
	}

	for {
		if !s.link.IsOpen() {
			_ = s.Open(ctx)
		}
		cs := s.Poll()

		if fn != nil {
			if err := fn(cs); err != nil {
				if errors.Is(err, ErrStopRun) {
					return nil
				}

				return err
			}
		}

		if err := pool.Sleep(ctx, interval); err != nil {
			return err
		}
	}
}

func (s *Station) emitReport(r Report) {
	s.metrics.incReportCount()

	if s.cfg.reportHandler != nil {
		s.cfg.reportHandler(r)
		return
	}

	s.logger.Warn("pump: "+r.String(),
		"openErrors", r.OpenErrors,
		"readErrors", r.ReadErrors,
		"readAttempts", r.ReadAttempts,
		"window", r.Window.String())
}

func (s *Station) emitFaults(faults []sps.FaultCondition) {
	if s.cfg.faultHandler != nil {
		s.cfg.faultHandler(faults)
	}

	current := make(map[sps.Fault]struct{}, len(faults))
	for _, fc := range faults {
		if fc.Severity != sps.SeverityError {
			continue
		}
		current[fc.Code] = struct{}{}

		if s.cfg.faultHandler != nil {
			continue
		}
		if _, seen := s.active[fc.Code]; seen && !s.cfg.detailedMessages {
			continue
		}
		s.logger.Error(fc.Text(), "messageByte", fc.MessageByte, "bit", fc.Bit)
	}
	s.active = current
}
