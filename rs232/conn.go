package rs232

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/arloliu/go-sps/logger"
)

// Sentinel errors for the link.
var (
	ErrConnect     = errors.New("rs232: connect failed")
	ErrNotOpen     = errors.New("rs232: connection is not open")
	ErrAlreadyOpen = errors.New("rs232: connection is already open")
	ErrReadTimeout = errors.New("rs232: read timeout")
	ErrReadShort   = errors.New("rs232: peer closed the connection")
	ErrShortWrite  = errors.New("rs232: short write")
)

// Conn is a single link to a serial device.
//
// Conn is NOT goroutine-safe; see the package documentation.
type Conn struct {
	cfg    *ConnectionConfig
	logger logger.Logger

	opState atomicOpState
	link    link
	reader  *bufio.Reader

	metrics ConnectionMetrics
}

// NewConn creates a closed Conn for the given configuration.
func NewConn(cfg *ConnectionConfig) (*Conn, error) {
	if cfg == nil {
		return nil, errors.New("rs232: connection config is nil")
	}

	return &Conn{
		cfg:    cfg,
		logger: cfg.logger.With("addr", cfg.Addr()),
	}, nil
}

// Open establishes the link.
//
// On failure the Conn stays Closed and the returned error wraps ErrConnect.
// Open never retries; the caller decides when to try again.
func (c *Conn) Open(ctx context.Context) error {
	if !c.opState.ToOpening() {
		return ErrAlreadyOpen
	}

	var (
		lk  link
		err error
	)
	if c.cfg.network == NetworkSerial {
		lk, err = openSerial(c.cfg)
	} else {
		lk, err = dialTCP(ctx, c.cfg)
	}

	if err != nil {
		c.opState.Set(ClosedState)
		c.metrics.incOpenErrCount()
		c.logger.Debug("rs232: open failed", "error", err)

		return fmt.Errorf("%w: %s: %w", ErrConnect, c.cfg.Addr(), err)
	}

	c.link = lk
	c.reader = bufio.NewReader(lk)
	c.opState.ToOpened()
	c.metrics.incOpenCount()

	if tcp, ok := lk.(*tcpLink); ok {
		c.logger.Debug("rs232: connected",
			"localAddr", tcp.LocalAddr(),
			"remoteAddr", tcp.RemoteAddr())
	} else {
		c.logger.Debug("rs232: serial port opened", "baudRate", c.cfg.baudRate)
	}

	return nil
}

// Close releases the link. Closing a closed Conn is a no-op.
func (c *Conn) Close() error {
	if !c.opState.ToClosing() {
		return nil
	}

	var err error
	if c.link != nil {
		err = c.link.Close()
	}
	c.link = nil
	c.reader = nil
	c.opState.ToClosed()

	if err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("rs232: close: %w", err)
	}

	c.logger.Debug("rs232: connection closed")

	return nil
}

// IsOpen reports whether the link is open.
func (c *Conn) IsOpen() bool {
	return c.opState.IsOpened()
}

// State returns the lifecycle state.
func (c *Conn) State() OpState {
	return c.opState.Get()
}

// Config returns the configuration of the Conn.
func (c *Conn) Config() *ConnectionConfig {
	return c.cfg
}

// GetMetrics returns the metrics associated with the Conn.
func (c *Conn) GetMetrics() *ConnectionMetrics {
	return &c.metrics
}

// Read fills buf from the link.
//
// It returns when buf is full, when the peer closes the link, or when timeout
// elapses without a new byte. The timeout restarts whenever data arrives; a
// timeout <= 0 means no bound. buf is zero-filled first, so bytes past the
// returned count are always zero.
//
// A nil error means len(buf) bytes were read. Otherwise the error wraps
// ErrReadTimeout or ErrReadShort and n is the number of bytes received.
func (c *Conn) Read(buf []byte, timeout time.Duration) (int, error) {
	clear(buf)

	if !c.opState.IsOpened() {
		return 0, ErrNotOpen
	}
	c.metrics.incReadCount()

	n := 0
	for n < len(buf) {
		if err := c.link.setReadTimeout(timeout); err != nil {
			return n, c.readFailed(buf, n, err)
		}

		m, err := c.reader.Read(buf[n:])
		n += m
		if err != nil {
			return n, c.readFailed(buf, n, err)
		}
	}

	c.metrics.addBytesRead(n)
	c.traceBytes("read", buf[:n])

	return n, nil
}

// ReadUntil reads like Read, but also stops as soon as the bytes received so
// far end with pattern. An empty pattern disables the check.
//
// Reaching the pattern returns a nil error even if buf is not full.
func (c *Conn) ReadUntil(buf []byte, pattern []byte, timeout time.Duration) (int, error) {
	clear(buf)

	if !c.opState.IsOpened() {
		return 0, ErrNotOpen
	}
	c.metrics.incReadCount()

	n := 0
	for n < len(buf) {
		if err := c.link.setReadTimeout(timeout); err != nil {
			return n, c.readFailed(buf, n, err)
		}

		b, err := c.reader.ReadByte()
		if err != nil {
			return n, c.readFailed(buf, n, err)
		}

		buf[n] = b
		n++

		if len(pattern) > 0 && bytes.HasSuffix(buf[:n], pattern) {
			break
		}
	}

	c.metrics.addBytesRead(n)
	if c.cfg.trace {
		c.logger.Debug("rs232: gets", "pattern", string(pattern), "data", string(buf[:n]))
	}

	return n, nil
}

// Write sends data in a single call.
//
// It returns the number of bytes sent. A short send is reported as
// ErrShortWrite and is not retried.
func (c *Conn) Write(data []byte) (int, error) {
	if !c.opState.IsOpened() {
		return 0, ErrNotOpen
	}
	c.metrics.incWriteCount()
	c.traceBytes("write", data)

	if err := c.link.setWriteTimeout(c.cfg.writeTimeout); err != nil {
		c.metrics.incWriteErrCount()
		return 0, c.ioFailed("write", err)
	}

	n, err := c.link.Write(data)
	c.metrics.addBytesWritten(n)

	if err != nil {
		c.metrics.incWriteErrCount()
		return n, c.ioFailed("write", err)
	}
	if n < len(data) {
		c.metrics.incWriteErrCount()
		return n, fmt.Errorf("%w: sent %d of %d bytes", ErrShortWrite, n, len(data))
	}

	return n, nil
}

// WriteString sends s without any terminator added.
func (c *Conn) WriteString(s string) (int, error) {
	return c.Write([]byte(s))
}

// readFailed classifies a read error. Timeouts keep the link open; a closed
// peer or any other I/O error closes it.
func (c *Conn) readFailed(buf []byte, n int, err error) error {
	c.metrics.addBytesRead(n)

	if n == 0 {
		c.traceTimeout()
	} else {
		c.traceBytes("read", buf[:n])
	}

	switch {
	case errors.Is(err, os.ErrDeadlineExceeded):
		c.metrics.incReadTimeoutCount()
		return fmt.Errorf("%w: got %d of %d bytes", ErrReadTimeout, n, len(buf))

	case errors.Is(err, io.EOF):
		c.metrics.incReadShortCount()
		_ = c.Close()

		return fmt.Errorf("%w: got %d of %d bytes", ErrReadShort, n, len(buf))

	default:
		return c.ioFailed("read", err)
	}
}

// ioFailed closes the link after an unrecoverable error. Write timeouts are
// reported without closing.
func (c *Conn) ioFailed(op string, err error) error {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return fmt.Errorf("rs232: %s: %w", op, err)
	}

	c.logger.Error("rs232: link failed, closing", "op", op, "error", err)
	_ = c.Close()

	return fmt.Errorf("rs232: %s: %w", op, err)
}

func (c *Conn) traceBytes(op string, data []byte) {
	if !c.cfg.trace {
		return
	}

	c.logger.Debug("rs232: "+op, "len", len(data), "data", fmt.Sprintf("% X", data))
}

func (c *Conn) traceTimeout() {
	if !c.cfg.trace {
		return
	}

	c.logger.Debug("rs232: read", "len", 0, "data", "<TIMEOUT>")
}
