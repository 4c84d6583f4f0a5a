package pump

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arloliu/go-sps/logger"
	"github.com/arloliu/go-sps/sps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestStation(t *testing.T, opts ...Option) (*Station, *fakeLink, *fakeClock) {
	t.Helper()

	link := &fakeLink{}
	clk := newFakeClock()

	opts = append([]Option{WithClock(clk.Now)}, opts...)
	s, err := NewStation(link, opts...)
	require.NoError(t, err)
	require.NoError(t, s.Open(context.Background()))

	return s, link, clk
}

func TestNewStation_Invalid(t *testing.T) {
	_, err := NewStation(nil)
	require.Error(t, err)

	tests := []Option{
		WithMinPollInterval(-1),
		WithReadTimeout(0),
		WithReportWindow(0),
		WithClock(nil),
		WithLogger(nil),
	}
	for _, opt := range tests {
		_, err := NewStation(&fakeLink{}, opt)
		assert.Error(t, err)
	}
}

func TestNewStation_Defaults(t *testing.T) {
	s, err := NewStation(&fakeLink{})
	require.NoError(t, err)

	cfg := s.Config()
	assert.Equal(t, 3*time.Second, cfg.ReadTimeout())
	assert.Equal(t, time.Hour, cfg.ReportWindow())
	assert.Zero(t, cfg.MinPollInterval())
	assert.False(t, cfg.DetailedMessages())
}

func TestStation_Poll(t *testing.T) {
	s, link, _ := newTestStation(t)

	link.pushFrame(onFrame(820, 1.5e-2, 4e-7))
	cs := s.Poll()

	assert.Equal(t, int16(820), cs.TurboSpeed)
	assert.Equal(t, float32(1.5e-2), cs.GaugePirani)
	assert.Equal(t, float32(4e-7), cs.GaugeTI)
	assert.Equal(t, cs, s.Channels())
	assert.Equal(t, uint64(1), s.GetMetrics().DecodeCount.Load())

	v, err := s.ChannelValue(sps.ChannelTurboSpeed)
	require.NoError(t, err)
	assert.Equal(t, float32(820), v)
}

func TestStation_ShortReadsKeepValues(t *testing.T) {
	s, link, _ := newTestStation(t)

	link.pushFrame(onFrame(500, 1, 2))
	want := s.Poll()

	for i := 0; i < 10; i++ {
		link.pushShort(i)
		assert.Equal(t, want, s.Poll())
	}

	c := s.Counters()
	assert.Equal(t, 10, c.ReadErrors)
	assert.Equal(t, 10, c.ReadAttempts)
	assert.Equal(t, uint64(10), s.GetMetrics().ReadErrCount.Load())

	link.pushFrame(onFrame(600, 1, 2))
	cs := s.Poll()
	assert.Equal(t, int16(600), cs.TurboSpeed)

	c = s.Counters()
	assert.Equal(t, 10, c.ReadErrors)
	assert.Zero(t, c.ReadAttempts)
}

func TestStation_PumpOffCountsAsReadError(t *testing.T) {
	s, link, _ := newTestStation(t)

	link.pushFrame(onFrame(500, 1, 2))
	want := s.Poll()

	var off sps.Builder
	off.TurboSpeed(0).Pressures(1000, 1000)
	link.pushFrame(off.Frame())

	assert.Equal(t, want, s.Poll())
	c := s.Counters()
	assert.Equal(t, 1, c.ReadErrors)
	assert.Zero(t, c.ReadAttempts)
	assert.Equal(t, uint64(1), s.GetMetrics().DecodeErrCount.Load())
}

func TestStation_MinPollInterval(t *testing.T) {
	s, link, clk := newTestStation(t, WithMinPollInterval(time.Second))

	link.pushFrame(onFrame(1, 0, 0))
	link.pushFrame(onFrame(2, 0, 0))

	assert.Equal(t, int16(1), s.Poll().TurboSpeed)
	assert.Equal(t, int16(1), s.Poll().TurboSpeed)
	assert.Equal(t, 1, link.readCount())
	assert.Equal(t, uint64(1), s.GetMetrics().PollSkipCount.Load())

	clk.Advance(time.Second)
	assert.Equal(t, int16(2), s.Poll().TurboSpeed)
	assert.Equal(t, 2, link.readCount())
}

func TestStation_ReportOncePerWindow(t *testing.T) {
	var reports []Report
	s, link, clk := newTestStation(t, WithReportHandler(func(r Report) {
		reports = append(reports, r)
	}))

	for i := 0; i < 3; i++ {
		link.pushShort(4)
		s.Poll()
	}

	clk.Advance(30 * time.Minute)
	link.pushFrame(onFrame(1, 0, 0))
	s.Poll()
	assert.Empty(t, reports)

	clk.Advance(31 * time.Minute)
	link.pushFrame(onFrame(1, 0, 0))
	s.Poll()
	require.Len(t, reports, 1)
	assert.Equal(t, 3, reports[0].ReadErrors)
	assert.Zero(t, reports[0].ReadAttempts)
	assert.Equal(t, 61*time.Minute, reports[0].Window)

	c := s.Counters()
	assert.Zero(t, c.ReadErrors)
	assert.Zero(t, c.OpenErrors)

	// later cycles in the new window stay quiet
	link.pushShort(0)
	s.Poll()
	clk.Advance(10 * time.Minute)
	s.Poll()
	assert.Len(t, reports, 1)
	assert.Equal(t, uint64(1), s.GetMetrics().ReportCount.Load())
}

func TestStation_ReportLogged(t *testing.T) {
	ml := logger.NewMockLogger()
	ml.On("Debug", mock.Anything, mock.Anything).Maybe()
	ml.On("Info", mock.Anything, mock.Anything).Maybe()
	ml.On("Warn", "pump: 1 open errors, 0 read errors, 0 read attempts in the last 1h0m1s", mock.Anything).Once()

	link := &fakeLink{openErr: errors.New("refused")}
	clk := newFakeClock()
	s, err := NewStation(link, WithClock(clk.Now), WithLogger(ml))
	require.NoError(t, err)

	require.Error(t, s.Open(context.Background()))
	assert.Equal(t, 1, s.Counters().OpenErrors)

	clk.Advance(time.Hour + time.Second)
	s.Poll()

	ml.AssertExpectations(t)
}

func TestStation_Faults(t *testing.T) {
	ml := logger.NewMockLogger()
	ml.On("Debug", mock.Anything, mock.Anything).Maybe()
	ml.On("Info", mock.Anything, mock.Anything).Maybe()
	ml.On("Error", "**ERROR** turbo timeout", mock.Anything).Once()
	ml.On("Error", "**ERROR** bypass valve timeout", mock.Anything).Once()

	s, link, _ := newTestStation(t, WithLogger(ml))

	var b sps.Builder
	b.PumpOn(true).Messages(0b0001_0000, 0, 0)
	link.pushFrame(b.Frame())
	link.pushFrame(b.Frame())

	b.Messages(0b0001_0000, 0b0001_0000, 0)
	link.pushFrame(b.Frame())

	s.Poll()
	s.Poll()
	s.Poll()

	ml.AssertExpectations(t)
}

func TestStation_DetailedMessages(t *testing.T) {
	ml := logger.NewMockLogger()
	ml.On("Debug", mock.Anything, mock.Anything).Maybe()
	ml.On("Info", mock.Anything, mock.Anything).Maybe()
	ml.On("Error", "**ERROR** fault TCP", mock.Anything).Times(3)

	s, link, _ := newTestStation(t, WithLogger(ml), WithDetailedMessages(true))

	var b sps.Builder
	b.PumpOn(true).Messages(0b0000_1000, 0, 0)
	for i := 0; i < 3; i++ {
		link.pushFrame(b.Frame())
		s.Poll()
	}

	ml.AssertExpectations(t)
}

func TestStation_FaultHandler(t *testing.T) {
	var got [][]sps.FaultCondition
	s, link, _ := newTestStation(t, WithFaultHandler(func(fc []sps.FaultCondition) {
		got = append(got, fc)
	}))

	var b sps.Builder
	b.PumpOn(true).Messages(0, 0, 0b0000_0001)
	link.pushFrame(b.Frame())
	link.pushFrame(sps.Frame{})

	s.Poll()
	s.Poll()

	require.Len(t, got, 2)
	require.Len(t, got[0], 1)
	assert.Equal(t, sps.FaultHighVacuumValveTimeout, got[0][0].Code)
	require.Len(t, got[1], 1)
	assert.Equal(t, sps.FaultPumpOff, got[1][0].Code)
}

func TestStation_IssueCommand(t *testing.T) {
	s, link, _ := newTestStation(t)

	var b sps.Builder
	b.PumpOn(true).Status(0x55, 0x66).TurboSpeed(321)
	in := b.Frame()
	link.pushFrame(in)
	s.Poll()

	require.NoError(t, s.IssueCommand(sps.CmdStartPump))
	require.NoError(t, s.IssueCommand(sps.CmdIdle))
	require.NoError(t, s.SetOutput(5))

	require.Len(t, link.writes, 2)
	assert.Equal(t, byte(sps.CmdStartPump), link.writes[0][sps.OffsetCommand])
	assert.Equal(t, byte(sps.CmdResetFaults), link.writes[1][sps.OffsetCommand])

	// the rest of the block mirrors the last received frame
	for i, w := range link.writes[1] {
		if i != sps.OffsetCommand {
			assert.Equal(t, in[i], w, "byte %d", i)
		}
	}
	assert.Equal(t, uint64(2), s.GetMetrics().CommandCount.Load())

	assert.ErrorIs(t, s.SetOutput(9), sps.ErrInvalidCommand)
	assert.ErrorIs(t, s.IssueCommand(sps.Command(3)), sps.ErrInvalidCommand)
}

func TestStation_Get(t *testing.T) {
	s, link, _ := newTestStation(t)

	link.pushFrame(onFrame(111, 0, 0))
	link.pushFrame(onFrame(222, 0, 0))

	// only the life sign channel triggers a poll
	v, err := s.Get(sps.ChannelTurboSpeed)
	require.NoError(t, err)
	assert.Zero(t, v)

	v, err = s.Get(sps.ChannelLifeSign)
	require.NoError(t, err)
	assert.Zero(t, v)

	v, err = s.Get(sps.ChannelTurboSpeed)
	require.NoError(t, err)
	assert.Equal(t, float32(111), v)

	v, err = s.Get(sps.ChannelLifeSign)
	require.NoError(t, err)
	assert.Equal(t, float32(1), v)

	_, err = s.Get(sps.Channel(12))
	assert.ErrorIs(t, err, sps.ErrInvalidChannel)

	assert.Equal(t, "Turbo Speed", s.Label(sps.ChannelTurboSpeed))
	assert.Equal(t, "Cmd", s.OutputLabel())
}

func TestStation_Reconnect(t *testing.T) {
	s, link, _ := newTestStation(t)

	require.NoError(t, s.Reconnect(context.Background()))
	assert.True(t, link.IsOpen())
	assert.Equal(t, 2, link.opens)

	// opening an open link does nothing
	require.NoError(t, s.Open(context.Background()))
	assert.Equal(t, 2, link.opens)

	require.NoError(t, s.Close())
	assert.False(t, link.IsOpen())
}

func TestStation_Run(t *testing.T) {
	link := &fakeLink{}
	s, err := NewStation(link)
	require.NoError(t, err)

	link.pushFrame(onFrame(42, 0, 0))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err = s.Run(ctx, 10*time.Millisecond, nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	assert.True(t, link.IsOpen())
	assert.Equal(t, int16(42), s.Channels().TurboSpeed)
	assert.Greater(t, link.readCount(), 1)

	assert.Error(t, s.Run(context.Background(), 0, nil))
}

func TestStation_RunPollFunc(t *testing.T) {
	link := &fakeLink{}
	s, err := NewStation(link)
	require.NoError(t, err)

	link.pushFrame(onFrame(7, 0, 0))

	var polls []int16
	err = s.Run(context.Background(), time.Millisecond, func(cs sps.ChannelSet) error {
		polls = append(polls, cs.TurboSpeed)
		if len(polls) == 3 {
			return ErrStopRun
		}

		return nil
	})
	require.NoError(t, err)
	require.Len(t, polls, 3)
	assert.Equal(t, int16(7), polls[0])
	assert.Equal(t, 3, link.readCount())

	errSample := errors.New("sample failed")
	err = s.Run(context.Background(), time.Millisecond, func(sps.ChannelSet) error {
		return errSample
	})
	assert.ErrorIs(t, err, errSample)
}
