package rs232

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// newTestServer starts a loopback listener and returns its port and a channel
// delivering the accepted server side connection.
func newTestServer(t *testing.T) (int, <-chan net.Conn) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			close(accepted)
			return
		}
		accepted <- conn
	}()

	return ln.Addr().(*net.TCPAddr).Port, accepted
}

// newOpenConn returns an opened client Conn and the server end of the link.
func newOpenConn(t *testing.T, opts ...ConnOption) (*Conn, net.Conn) {
	t.Helper()

	port, accepted := newTestServer(t)

	cfg, err := NewTCPConfig("127.0.0.1", port, opts...)
	require.NoError(t, err)

	c, err := NewConn(cfg)
	require.NoError(t, err)
	require.NoError(t, c.Open(context.Background()))
	t.Cleanup(func() { _ = c.Close() })

	select {
	case remote, ok := <-accepted:
		require.True(t, ok, "accept failed")
		t.Cleanup(func() { _ = remote.Close() })

		return c, remote
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for accept")
	}

	return nil, nil
}

// freePort returns a loopback port with nothing listening on it.
func freePort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	return port
}

// mustWrite writes data to w, failing the test on error.
func mustWrite(t *testing.T, w io.Writer, data []byte) {
	t.Helper()

	_, err := w.Write(data)
	if err != nil {
		t.Errorf("mustWrite: %v", err)
	}
}

// readExactly reads exactly n bytes from r, failing the test on error.
func readExactly(t *testing.T, r io.Reader, n int) []byte {
	t.Helper()

	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		t.Fatalf("readExactly: %v", err)
	}

	return buf
}
