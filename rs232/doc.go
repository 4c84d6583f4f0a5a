// Package rs232 provides a byte-stream link to serial devices that are reached
// either through a TCP terminal server (the RS232 line is emulated over a plain
// TCP stream) or through a local serial port.
//
// # Operations
//
// A [Conn] owns at most one live link. It starts Closed, becomes Opened after a
// successful [Conn.Open], and returns to Closed on [Conn.Close] or when the
// peer drops the link. There is no reconnect in place; callers open again.
//
//   - [Conn.Read] blocks until the buffer is full, the peer closes the link,
//     or the timeout elapses without a new byte arriving.
//   - [Conn.ReadUntil] additionally stops as soon as the received bytes end
//     with a terminator pattern, for line oriented instruments.
//   - [Conn.Write] sends a buffer in one call and reports short writes without
//     retrying.
//
// Read buffers are zero-filled before reading, so a short read always yields a
// deterministically zero padded buffer.
//
// # Concurrency
//
// Conn performs no internal locking. All operations block the caller and must
// be issued by a single owner at a time; callers sharing a Conn between
// goroutines must serialize access themselves.
package rs232
