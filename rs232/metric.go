package rs232

import (
	"sync/atomic"
)

// ConnectionMetrics contains atomic metrics for a Conn.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type ConnectionMetrics struct {
	// OpenCount indicates the number of successful opens.
	OpenCount atomic.Uint64
	// OpenErrCount indicates the number of failed open attempts.
	OpenErrCount atomic.Uint64

	// ReadCount indicates the number of Read and ReadUntil calls on an open link.
	ReadCount atomic.Uint64
	// ReadTimeoutCount indicates the number of reads that ended on timeout.
	ReadTimeoutCount atomic.Uint64
	// ReadShortCount indicates the number of reads cut short by the peer.
	ReadShortCount atomic.Uint64
	// BytesRead indicates the total number of bytes received.
	BytesRead atomic.Uint64

	// WriteCount indicates the number of Write calls on an open link.
	WriteCount atomic.Uint64
	// WriteErrCount indicates the number of failed or short writes.
	WriteErrCount atomic.Uint64
	// BytesWritten indicates the total number of bytes sent.
	BytesWritten atomic.Uint64
}

func (m *ConnectionMetrics) incOpenCount() {
	m.OpenCount.Add(1)
}

func (m *ConnectionMetrics) incOpenErrCount() {
	m.OpenErrCount.Add(1)
}

func (m *ConnectionMetrics) incReadCount() {
	m.ReadCount.Add(1)
}

func (m *ConnectionMetrics) incReadTimeoutCount() {
	m.ReadTimeoutCount.Add(1)
}

func (m *ConnectionMetrics) incReadShortCount() {
	m.ReadShortCount.Add(1)
}

func (m *ConnectionMetrics) addBytesRead(n int) {
	m.BytesRead.Add(uint64(n))
}

func (m *ConnectionMetrics) incWriteCount() {
	m.WriteCount.Add(1)
}

func (m *ConnectionMetrics) incWriteErrCount() {
	m.WriteErrCount.Add(1)
}

func (m *ConnectionMetrics) addBytesWritten(n int) {
	m.BytesWritten.Add(uint64(n))
}
