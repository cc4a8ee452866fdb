// Package clock provides the time source used by the services, so that sale
// timestamps and day windows can be pinned in tests.
package clock

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type systemClock struct{ loc *time.Location }

// New returns a wall clock reporting times in loc.
func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return systemClock{loc: loc}
}

func (c systemClock) Now() time.Time           { return time.Now().In(c.loc) }
func (c systemClock) Location() *time.Location { return c.loc }

// Fixed is a manually driven clock for tests.
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixed(t time.Time) *Fixed { return &Fixed{now: t} }

func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fixed) Location() *time.Location { return f.Now().Location() }

func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}

func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// Dia returns the inclusive bounds of the calendar day containing t in loc:
// 00:00:00 and 23:59:59.999999999.
func Dia(t time.Time, loc *time.Location) (inicio, fim time.Time) {
	t = t.In(loc)
	inicio = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	fim = inicio.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return inicio, fim
}

// ParseDia parses a YYYY-MM-DD date as midnight in loc.
func ParseDia(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, loc)
}
