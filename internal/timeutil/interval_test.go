package timeutil

import (
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 3, 10, hour, min, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		want                       bool
	}{
		{"identical", at(14, 0), at(15, 0), at(14, 0), at(15, 0), true},
		{"partial overlap", at(14, 0), at(15, 0), at(14, 30), at(15, 30), true},
		{"contained", at(14, 0), at(16, 0), at(14, 30), at(15, 0), true},
		{"back to back", at(14, 0), at(15, 0), at(15, 0), at(16, 0), false},
		{"back to back reversed", at(15, 0), at(16, 0), at(14, 0), at(15, 0), false},
		{"disjoint", at(14, 0), at(15, 0), at(16, 0), at(17, 0), false},
		{"one minute overlap", at(14, 0), at(15, 1), at(15, 0), at(16, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// пересечение симметрично
			if got := Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd); got != tt.want {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadZone(t *testing.T) {
	for _, name := range []string{"UTC", "Europe/Moscow", "America/New_York"} {
		if _, err := LoadZone(name); err != nil {
			t.Errorf("LoadZone(%q) = %v, want nil", name, err)
		}
	}

	for _, name := range []string{"", "Local", "Mars/Olympus", "Europe\\Moscow"} {
		if _, err := LoadZone(name); err == nil {
			t.Errorf("LoadZone(%q) = nil, want error", name)
		}
	}
}

func TestFormatRange(t *testing.T) {
	msk, err := LoadZone("Europe/Moscow")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}

	// 14:00 UTC это 17:00 в Москве: зона влияет только на отображение
	got := FormatRange(at(14, 0), at(15, 0), msk)
	want := "10.03.2025 17:00-18:00"
	if got != want {
		t.Errorf("FormatRange() = %q, want %q", got, want)
	}
}

func TestFormatRange_CrossesMidnight(t *testing.T) {
	start := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC)

	got := FormatRange(start, end, time.UTC)
	want := "10.03.2025 23:00 - 11.03.2025 01:00"
	if got != want {
		t.Errorf("FormatRange() = %q, want %q", got, want)
	}
}
