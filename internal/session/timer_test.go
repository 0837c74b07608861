package session

import "testing"

func TestTimerExpiresAtLimit(t *testing.T) {
	timer := NewTimer(60)
	for i := 1; i < 60; i++ {
		if ev := timer.Tick(); ev != TickAdvanced {
			t.Fatalf("tick %d: expected advance, got %v", i, ev)
		}
	}
	if timer.Remaining() != 1 {
		t.Fatalf("expected 1 second remaining, got %d", timer.Remaining())
	}
	if ev := timer.Tick(); ev != TickExpired {
		t.Fatalf("expected expiry on tick 60, got %v", ev)
	}
	if !timer.Expired() || !timer.Stopped() {
		t.Fatalf("expected expired and stopped timer")
	}
	if ev := timer.Tick(); ev != TickIgnored {
		t.Fatalf("expected ticks after expiry to be ignored, got %v", ev)
	}
	if timer.Elapsed() != 60 || timer.Remaining() != 0 {
		t.Fatalf("unexpected elapsed %d remaining %d", timer.Elapsed(), timer.Remaining())
	}
}

func TestTimerStopFreezesElapsed(t *testing.T) {
	timer := NewTimer(0)
	timer.Tick()
	timer.Tick()
	timer.Stop()
	for i := 0; i < 5; i++ {
		if ev := timer.Tick(); ev != TickIgnored {
			t.Fatalf("expected ignored tick after stop, got %v", ev)
		}
	}
	if timer.Elapsed() != 2 {
		t.Fatalf("expected elapsed 2 after stop, got %d", timer.Elapsed())
	}
}

func TestUnlimitedTimerNeverExpires(t *testing.T) {
	timer := NewTimer(-5)
	for i := 0; i < 500; i++ {
		timer.Tick()
	}
	if timer.Expired() || timer.Limit() != 0 || timer.Remaining() != 0 {
		t.Fatalf("unlimited timer should not expire")
	}
}

func TestFormatClockAndDuration(t *testing.T) {
	if got := FormatClock(299); got != "4:59" {
		t.Fatalf("unexpected clock: %q", got)
	}
	if got := FormatClock(-3); got != "0:00" {
		t.Fatalf("unexpected clock: %q", got)
	}
	if got := FormatDuration(125); got != "2m 5s" {
		t.Fatalf("unexpected duration: %q", got)
	}
}
