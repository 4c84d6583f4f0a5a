package pump

import "sync/atomic"

// StationMetrics contains atomic metrics for a Station.
type StationMetrics struct {
	// PollCount indicates the number of polls that read from the link.
	PollCount atomic.Uint64
	// PollSkipCount indicates the number of polls answered from the cache.
	PollSkipCount atomic.Uint64
	// DecodeCount indicates the number of frames decoded successfully.
	DecodeCount atomic.Uint64
	// ReadErrCount indicates the number of polls without a complete frame.
	ReadErrCount atomic.Uint64
	// DecodeErrCount indicates the number of complete frames that failed to
	// decode, including frames sent while the station is off.
	DecodeErrCount atomic.Uint64
	// CommandCount indicates the number of commands written.
	CommandCount atomic.Uint64
	// ReportCount indicates the number of reports emitted.
	ReportCount atomic.Uint64
}

func (m *StationMetrics) incPollCount()      { m.PollCount.Add(1) }
func (m *StationMetrics) incPollSkipCount()  { m.PollSkipCount.Add(1) }
func (m *StationMetrics) incDecodeCount()    { m.DecodeCount.Add(1) }
func (m *StationMetrics) incReadErrCount()   { m.ReadErrCount.Add(1) }
func (m *StationMetrics) incDecodeErrCount() { m.DecodeErrCount.Add(1) }
func (m *StationMetrics) incCommandCount()   { m.CommandCount.Add(1) }
func (m *StationMetrics) incReportCount()    { m.ReportCount.Add(1) }
