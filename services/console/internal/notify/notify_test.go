package notify

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func TestNoticesExpire(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	c := NewCenter(0, clock.now)

	c.Success("Department added successfully!")
	c.Error("Failed to delete department")
	if got := len(c.Active()); got != 2 {
		t.Fatalf("expected 2 live notices, got %d", got)
	}

	clock.t = clock.t.Add(DefaultTTL - time.Millisecond)
	if c.SuccessMessage() == "" {
		t.Fatal("notice expired early")
	}
	clock.t = clock.t.Add(time.Millisecond)
	if c.SuccessMessage() != "" || c.ErrorMessage() != "" {
		t.Fatal("notices must be gone after the ttl")
	}
}

func TestRepostRestartsTimer(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	c := NewCenter(DoctorTTL, clock.now)
	c.Error("first")
	clock.t = clock.t.Add(4 * time.Second)
	c.Error("second")
	clock.t = clock.t.Add(4 * time.Second)
	if got := c.ErrorMessage(); got != "second" {
		t.Fatalf("expected latest notice, got %q", got)
	}
	c.Clear()
	if len(c.Active()) != 0 {
		t.Fatal("Clear must dismiss everything")
	}
}
