package clock

import (
	"testing"
	"time"
)

func TestSystemNowIsUTC(t *testing.T) {
	now := System().Now()
	if now.Location() != time.UTC {
		t.Errorf("location = %v, want UTC", now.Location())
	}
}

func TestFakeAdvance(t *testing.T) {
	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	fake := NewFake(start)

	if !fake.Now().Equal(start) {
		t.Errorf("Now() = %v, want %v", fake.Now(), start)
	}

	fake.Advance(15 * time.Minute)
	want := start.Add(15 * time.Minute)
	if !fake.Now().Equal(want) {
		t.Errorf("Now() after advance = %v, want %v", fake.Now(), want)
	}
}
