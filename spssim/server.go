package spssim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arloliu/go-sps/internal/task"
	"github.com/arloliu/go-sps/logger"
	"github.com/arloliu/go-sps/sps"
	"github.com/puzpuzpuz/xsync/v3"
)

const (
	DefaultInterval     = 500 * time.Millisecond
	DefaultNominalSpeed = 820
)

// Option is a functional option for configuring a Server.
type Option interface {
	apply(*Server) error
}

type optFunc func(*Server) error

func (f optFunc) apply(s *Server) error { return f(s) }

// WithInterval sets the time between two frames sent to each client.
func WithInterval(d time.Duration) Option {
	return optFunc(func(s *Server) error {
		if d <= 0 {
			return errors.New("spssim: interval must be positive")
		}
		s.interval = d

		return nil
	})
}

// WithNominalSpeed sets the turbo speed reported while the station runs.
func WithNominalSpeed(speed int16) Option {
	return optFunc(func(s *Server) error {
		if speed <= 0 {
			return errors.New("spssim: nominal speed must be positive")
		}
		s.nominalSpeed = speed

		return nil
	})
}

// WithLogger sets the logger of the server.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(s *Server) error {
		if l == nil {
			return errors.New("spssim: logger must not be nil")
		}
		s.logger = l

		return nil
	})
}

// station is the simulated controller state.
type station struct {
	on       bool
	status2  byte
	status3  byte
	messages [3]byte
	speed    int16
	gp       float32
	gti      float32
}

// Server is a simulated SPS controller.
type Server struct {
	interval     time.Duration
	nominalSpeed int16
	logger       logger.Logger

	ln    net.Listener
	tasks *task.Manager

	mu    sync.Mutex
	state station

	silent      atomic.Bool
	lastCommand atomic.Uint32
	commands    atomic.Uint64

	clients  *xsync.MapOf[uint64, net.Conn]
	clientID atomic.Uint64

	closeOnce sync.Once
}

// Listen creates a Server listening on addr, e.g. "127.0.0.1:0". The station
// starts switched on with the turbo at nominal speed.
func Listen(addr string, opts ...Option) (*Server, error) {
	s := &Server{
		interval:     DefaultInterval,
		nominalSpeed: DefaultNominalSpeed,
		logger:       logger.GetLogger(),
		clients:      xsync.NewMapOf[uint64, net.Conn](),
	}
	for _, opt := range opts {
		if err := opt.apply(s); err != nil {
			return nil, err
		}
	}

	s.state = station{
		on:    true,
		speed: s.nominalSpeed,
		gp:    1.2e-2,
		gti:   4.7e-7,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("spssim: listen: %w", err)
	}
	s.ln = ln
	s.logger = s.logger.With("component", "spssim", "addr", ln.Addr().String())

	return s, nil
}

// Addr returns the listening address.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Port returns the listening TCP port.
func (s *Server) Port() int {
	_, port, _ := net.SplitHostPort(s.ln.Addr().String())
	p, _ := strconv.Atoi(port)

	return p
}

// Start accepts clients until ctx is done or Close is called. Cancelling ctx
// closes the listener; connected clients are served until Close.
func (s *Server) Start(ctx context.Context) error {
	s.tasks = task.NewManager(ctx, s.logger)
	context.AfterFunc(ctx, func() { _ = s.ln.Close() })

	s.logger.Info("simulator listening", "interval", s.interval.String())

	return s.tasks.Start("accept", s.acceptLoop)
}

// Close stops the server and disconnects all clients.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.ln.Close()

		if s.tasks != nil {
			s.tasks.Stop()
		}
		s.clients.Range(func(id uint64, conn net.Conn) bool {
			_ = conn.Close()
			s.clients.Delete(id)

			return true
		})
		if s.tasks != nil {
			s.tasks.Wait()
		}
	})

	if errors.Is(err, net.ErrClosed) {
		return nil
	}

	return err
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	return s.clients.Size()
}

// Frame returns the frame currently sent to clients.
func (s *Server) Frame() sps.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b sps.Builder
	b.PumpOn(s.state.on).
		Status(s.state.status2, s.state.status3).
		Messages(s.state.messages[0], s.state.messages[1], s.state.messages[2]).
		TurboSpeed(s.state.speed).
		Pressures(s.state.gp, s.state.gti)

	return b.Frame()
}

// SetMessages sets the message bytes, raising fault conditions.
func (s *Server) SetMessages(m1, m2, m3 byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.messages = [3]byte{m1, m2, m3}
}

// SetPressures sets the GP and Gti pressures.
func (s *Server) SetPressures(gp, gti float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.gp = gp
	s.state.gti = gti
}

// SetPumpOn switches the station on or off without a command.
func (s *Server) SetPumpOn(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setOn(on)
}

// SetSilent stops or resumes sending frames, to provoke read timeouts.
func (s *Server) SetSilent(silent bool) {
	s.silent.Store(silent)
}

// LastCommand returns the last command received and the number of command
// blocks received so far.
func (s *Server) LastCommand() (sps.Command, uint64) {
	return sps.Command(s.lastCommand.Load()), s.commands.Load()
}

func (s *Server) setOn(on bool) {
	s.state.on = on
	if on {
		s.state.speed = s.nominalSpeed
	} else {
		s.state.speed = 0
	}
}

func (s *Server) apply(cmd sps.Command) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch cmd {
	case sps.CmdStartPump:
		s.setOn(true)
	case sps.CmdStopPump:
		s.setOn(false)
	case sps.CmdLockGateValve:
		s.state.status2 |= 0x01
	case sps.CmdUnlockGateValve:
		s.state.status2 &^= 0x01
	case sps.CmdResetFaults:
		s.state.messages = [3]byte{}
	}
}

func (s *Server) acceptLoop() bool {
	conn, err := s.ln.Accept()
	if err != nil {
		if !errors.Is(err, net.ErrClosed) {
			s.logger.Error("accept failed", "error", err)
		}

		return false
	}

	id := s.clientID.Add(1)
	s.clients.Store(id, conn)
	s.logger.Info("client connected", "id", id, "remoteAddr", conn.RemoteAddr().String())

	name := "client-" + strconv.FormatUint(id, 10)
	if err := s.tasks.StartInterval(name+"-send", func() bool {
		return s.sendFrame(id, conn)
	}, s.interval, true); err != nil {
		s.dropClient(id, conn, err)
		return false
	}

	buf := make([]byte, sps.FrameSize)
	if err := s.tasks.Start(name+"-recv", func() bool {
		return s.recvCommand(id, conn, buf)
	}); err != nil {
		s.dropClient(id, conn, err)
		return false
	}

	return true
}

func (s *Server) sendFrame(id uint64, conn net.Conn) bool {
	if _, ok := s.clients.Load(id); !ok {
		return false
	}
	if s.silent.Load() {
		return true
	}

	f := s.Frame()
	if _, err := conn.Write(f[:]); err != nil {
		s.dropClient(id, conn, err)
		return false
	}

	return true
}

func (s *Server) recvCommand(id uint64, conn net.Conn, buf []byte) bool {
	if _, err := io.ReadFull(conn, buf); err != nil {
		s.dropClient(id, conn, err)
		return false
	}

	cmd := sps.Command(buf[sps.OffsetCommand])
	if !cmd.Valid() {
		s.logger.Warn("invalid command byte", "id", id, "value", buf[sps.OffsetCommand])
		return true
	}

	s.lastCommand.Store(uint32(cmd))
	s.commands.Add(1)
	s.apply(cmd)
	s.logger.Info("command received", "id", id, "command", cmd.String())

	return true
}

func (s *Server) dropClient(id uint64, conn net.Conn, err error) {
	if _, loaded := s.clients.LoadAndDelete(id); !loaded {
		return
	}
	_ = conn.Close()

	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		s.logger.Info("client disconnected", "id", id)
	} else {
		s.logger.Info("client dropped", "id", id, "error", err)
	}
}
