package clock

import (
	"time"

	clockport "github.com/solace-advocates/advocate-directory-api/internal/ports/out/clock"
)

// SystemClock returns the current wall-clock time.
type SystemClock struct{}

var _ clockport.Scheduler = SystemClock{}

func NewSystemClock() SystemClock { return SystemClock{} }

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// AfterFunc runs f in its own goroutine once d has elapsed.
func (SystemClock) AfterFunc(d time.Duration, f func()) clockport.Timer {
	return time.AfterFunc(d, f)
}
