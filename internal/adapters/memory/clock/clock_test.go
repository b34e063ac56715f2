package clock

import (
	"testing"
	"time"
)

func TestManualClock_AdvanceFiresDueTimersInOrder(t *testing.T) {
	t.Parallel()

	start := time.Unix(0, 0).UTC()
	c := NewManualClock(start)

	var fired []string
	var firedAt []time.Time
	record := func(name string) func() {
		return func() {
			fired = append(fired, name)
			firedAt = append(firedAt, c.Now())
		}
	}
	c.AfterFunc(300*time.Millisecond, record("c"))
	c.AfterFunc(100*time.Millisecond, record("a"))
	c.AfterFunc(200*time.Millisecond, record("b"))

	c.Advance(250 * time.Millisecond)
	if len(fired) != 2 || fired[0] != "a" || fired[1] != "b" {
		t.Fatalf("fired=%v, want [a b]", fired)
	}
	if !firedAt[0].Equal(start.Add(100*time.Millisecond)) {
		t.Fatalf("a fired at %v", firedAt[0])
	}
	if !c.Now().Equal(start.Add(250 * time.Millisecond)) {
		t.Fatalf("now=%v", c.Now())
	}
	if c.Pending() != 1 {
		t.Fatalf("pending=%d, want 1", c.Pending())
	}
}

func TestManualClock_StopAndChainedTimers(t *testing.T) {
	t.Parallel()

	c := NewManualClock(time.Unix(0, 0).UTC())

	stopped := c.AfterFunc(time.Second, func() { t.Errorf("stopped timer fired") })
	if !stopped.Stop() {
		t.Fatalf("Stop() = false, want true")
	}
	if stopped.Stop() {
		t.Fatalf("second Stop() = true, want false")
	}

	count := 0
	c.AfterFunc(10*time.Millisecond, func() {
		count++
		c.AfterFunc(10*time.Millisecond, func() { count++ })
	})
	c.Advance(20 * time.Millisecond)
	if count != 2 {
		t.Fatalf("count=%d, want 2", count)
	}
}
