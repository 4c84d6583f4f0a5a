package pump

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/arloliu/go-sps/sps"
)

var errFakeTimeout = errors.New("fake: read timeout")

type readResult struct {
	data []byte
	err  error
}

// fakeLink replays scripted reads and records writes. Reads past the end of
// the script time out with no data.
type fakeLink struct {
	mu      sync.Mutex
	open    bool
	openErr error
	opens   int
	reads   []readResult
	nread   int
	writes  [][]byte
}

func (l *fakeLink) Open(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.opens++
	if l.openErr != nil {
		return l.openErr
	}
	l.open = true

	return nil
}

func (l *fakeLink) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.open = false

	return nil
}

func (l *fakeLink) IsOpen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.open
}

func (l *fakeLink) Read(buf []byte, _ time.Duration) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	clear(buf)
	l.nread++
	if len(l.reads) == 0 {
		return 0, errFakeTimeout
	}

	r := l.reads[0]
	l.reads = l.reads[1:]

	return copy(buf, r.data), r.err
}

func (l *fakeLink) Write(data []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.writes = append(l.writes, append([]byte(nil), data...))

	return len(data), nil
}

func (l *fakeLink) push(data []byte, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.reads = append(l.reads, readResult{data: data, err: err})
}

func (l *fakeLink) pushFrame(f sps.Frame) {
	l.push(f[:], nil)
}

func (l *fakeLink) pushShort(n int) {
	l.push(make([]byte, n), errFakeTimeout)
}

func (l *fakeLink) readCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.nread
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func onFrame(speed int16, gp, gti float32) sps.Frame {
	var b sps.Builder
	b.PumpOn(true).TurboSpeed(speed).Pressures(gp, gti)

	return b.Frame()
}
