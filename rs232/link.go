package rs232

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"syscall"
	"time"

	"go.bug.st/serial"
)

// link is the byte stream underneath a Conn.
type link interface {
	io.ReadWriteCloser

	// setReadTimeout bounds the next read; d <= 0 removes the bound.
	// A read that times out returns an error matching os.ErrDeadlineExceeded.
	setReadTimeout(d time.Duration) error
	// setWriteTimeout bounds the next write; d <= 0 removes the bound.
	setWriteTimeout(d time.Duration) error
}

// --- TCP ---

type tcpLink struct {
	net.Conn
}

func (l *tcpLink) setReadTimeout(d time.Duration) error {
	return l.SetReadDeadline(deadline(d))
}

func (l *tcpLink) setWriteTimeout(d time.Duration) error {
	return l.SetWriteDeadline(deadline(d))
}

func deadline(d time.Duration) time.Time {
	if d <= 0 {
		return time.Time{}
	}

	return time.Now().Add(d)
}

// dialTCP resolves the host and connects from an ephemeral local port.
// Interrupted system calls are retried; every other failure is returned.
func dialTCP(ctx context.Context, cfg *ConnectionConfig) (link, error) {
	dialer := &net.Dialer{KeepAlive: 30 * time.Second}

	dialCtx, cancel := context.WithTimeout(ctx, cfg.connectTimeout)
	defer cancel()

	for {
		conn, err := dialer.DialContext(dialCtx, "tcp", cfg.Addr())
		if err == nil {
			return &tcpLink{Conn: conn}, nil
		}
		if errors.Is(err, syscall.EINTR) && dialCtx.Err() == nil {
			continue
		}

		return nil, err
	}
}

// --- Serial ---

type serialLink struct {
	port serial.Port
}

// Read converts the (0, nil) timeout result of serial.Port into a deadline
// error so both backends share the same timeout detection.
func (l *serialLink) Read(p []byte) (int, error) {
	n, err := l.port.Read(p)
	if err == nil && n == 0 && len(p) > 0 {
		return 0, os.ErrDeadlineExceeded
	}

	return n, err
}

func (l *serialLink) Write(p []byte) (int, error) {
	return l.port.Write(p)
}

func (l *serialLink) Close() error {
	return l.port.Close()
}

func (l *serialLink) setReadTimeout(d time.Duration) error {
	if d <= 0 {
		return l.port.SetReadTimeout(serial.NoTimeout)
	}

	return l.port.SetReadTimeout(d)
}

// setWriteTimeout is a no-op; serial writes complete at line speed.
func (l *serialLink) setWriteTimeout(time.Duration) error {
	return nil
}

func openSerial(cfg *ConnectionConfig) (link, error) {
	mode := &serial.Mode{
		BaudRate: cfg.baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(cfg.device, mode)
	if err != nil {
		return nil, err
	}

	return &serialLink{port: port}, nil
}
