package pump

import (
	"fmt"
	"time"
)

// Counters holds the health counters of a link.
type Counters struct {
	// OpenErrors counts failed open attempts in the current window.
	OpenErrors int
	// ReadErrors counts short reads and decode failures in the current window.
	ReadErrors int
	// ReadAttempts counts consecutive reads that did not return a full frame.
	ReadAttempts int
	// WindowStart is the start of the current report window.
	WindowStart time.Time
	// LastSuccess is the time of the last successfully decoded frame.
	LastSuccess time.Time
}

// Report summarizes the errors counted over one report window.
type Report struct {
	OpenErrors   int
	ReadErrors   int
	ReadAttempts int
	Window       time.Duration
}

func (r Report) String() string {
	return fmt.Sprintf("%d open errors, %d read errors, %d read attempts in the last %s",
		r.OpenErrors, r.ReadErrors, r.ReadAttempts, r.Window.Round(time.Second))
}

// Accountant counts open and read failures and decides when a summary report
// is due. It only observes; it never reconnects.
//
// Accountant is not goroutine-safe.
type Accountant struct {
	window time.Duration
	now    func() time.Time
	c      Counters
}

// NewAccountant creates an Accountant whose first window starts now.
// A nil clock selects time.Now.
func NewAccountant(window time.Duration, clock func() time.Time) *Accountant {
	if clock == nil {
		clock = time.Now
	}

	return &Accountant{
		window: window,
		now:    clock,
		c:      Counters{WindowStart: clock()},
	}
}

// Counters returns a snapshot of the counters.
func (a *Accountant) Counters() Counters {
	return a.c
}

// Due reports whether at least minInterval has passed since the last
// successful poll. It is always true before the first success.
func (a *Accountant) Due(minInterval time.Duration) bool {
	if a.c.LastSuccess.IsZero() || minInterval <= 0 {
		return true
	}

	return a.now().Sub(a.c.LastSuccess) >= minInterval
}

// RecordOpenFailure counts a failed open attempt.
func (a *Accountant) RecordOpenFailure() {
	a.c.OpenErrors++
}

// RecordRead accounts for a read that returned n of want bytes. decodeErr is
// the result of decoding a complete frame and is ignored for short reads.
//
// It reports whether the cycle succeeded.
func (a *Accountant) RecordRead(n, want int, decodeErr error) bool {
	if n != want {
		a.c.ReadErrors++
		a.c.ReadAttempts++

		return false
	}

	a.c.ReadAttempts = 0
	if decodeErr != nil {
		a.c.ReadErrors++
		return false
	}
	a.c.LastSuccess = a.now()

	return true
}

// CheckReport returns a Report when at least one window has passed since the
// window start and errors were counted. The error counters and the window
// start are then reset. Without errors the window keeps running.
func (a *Accountant) CheckReport() (Report, bool) {
	now := a.now()
	elapsed := now.Sub(a.c.WindowStart)

	if elapsed < a.window || (a.c.OpenErrors == 0 && a.c.ReadErrors == 0) {
		return Report{}, false
	}

	r := Report{
		OpenErrors:   a.c.OpenErrors,
		ReadErrors:   a.c.ReadErrors,
		ReadAttempts: a.c.ReadAttempts,
		Window:       elapsed,
	}

	a.c.OpenErrors = 0
	a.c.ReadErrors = 0
	a.c.ReadAttempts = 0
	a.c.WindowStart = now

	return r, true
}
