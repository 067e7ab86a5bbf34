package stats

import (
	"testing"
	"time"
)

func TestToday(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 2, 15, 20, 30, 0, 0, time.UTC)

	tests := []struct {
		tz   string
		want string
	}{
		{tz: "UTC", want: "2024-02-15"},
		{tz: "America/New_York", want: "2024-02-15"},
		{tz: "Asia/Tokyo", want: "2024-02-16"},
	}

	for _, tt := range tests {
		t.Run(tt.tz, func(t *testing.T) {
			t.Parallel()
			if got := Today(now, ParseTimezone(tt.tz)); got != tt.want {
				t.Errorf("Today() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDayStart(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		tz       string
		wantHour int
		wantDay  int
	}{
		{name: "UTC midnight", tz: "UTC", wantHour: 0, wantDay: 15},
		{name: "America/New_York", tz: "America/New_York", wantHour: 5, wantDay: 15},
		{name: "Asia/Tokyo", tz: "Asia/Tokyo", wantHour: 15, wantDay: 14},
	}

	now := time.Date(2024, 2, 15, 12, 30, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := DayStart(now, ParseTimezone(tt.tz))

			if result.Hour() != tt.wantHour || result.Day() != tt.wantDay {
				t.Errorf("DayStart() = %v, want day %d hour %d", result, tt.wantDay, tt.wantHour)
			}
			if result.Minute() != 0 || result.Second() != 0 {
				t.Errorf("DayStart() should be on the hour, got %v", result)
			}
		})
	}
}

func TestNextDayStart(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 2, 15, 12, 30, 0, 0, time.UTC)
	if diff := NextDayStart(now, time.UTC).Sub(DayStart(now, time.UTC)); diff != 24*time.Hour {
		t.Errorf("NextDayStart should be 24h after DayStart, got %v", diff)
	}

	// Spring-forward day in New York is 23 hours long.
	ny := ParseTimezone("America/New_York")
	dst := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	if diff := NextDayStart(dst, ny).Sub(DayStart(dst, ny)); diff != 23*time.Hour {
		t.Errorf("DST day length = %v, want 23h", diff)
	}
}

func TestParseTimezone(t *testing.T) {
	t.Parallel()

	if loc := ParseTimezone("Asia/Tokyo"); loc == time.UTC {
		t.Error("expected a non-UTC location for a valid timezone")
	}
	if loc := ParseTimezone("Invalid/Timezone"); loc != time.UTC {
		t.Error("expected UTC fallback for an invalid timezone")
	}
}
