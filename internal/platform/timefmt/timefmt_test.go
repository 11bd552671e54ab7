package timefmt_test

import (
	"testing"
	"time"

	"tasktrack/internal/platform/timefmt"
)

func TestClock(t *testing.T) {
	t.Parallel()
	cases := map[time.Duration]string{
		0:                      "00:00:00",
		999 * time.Millisecond: "00:00:00",
		61 * time.Second:       "00:01:01",
		3*time.Hour + 4*time.Minute + 5*time.Second: "03:04:05",
		26 * time.Hour:   "26:00:00",
		-5 * time.Second: "00:00:00",
	}
	for in, want := range cases {
		if got := timefmt.Clock(in); got != want {
			t.Fatalf("Clock(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestISOAndHours(t *testing.T) {
	t.Parallel()
	if got := timefmt.ISO(0); got != "1970-01-01T00:00:00.000Z" {
		t.Fatalf("unexpected ISO for epoch: %s", got)
	}
	if got := timefmt.ISO(3600000); got != "1970-01-01T01:00:00.000Z" {
		t.Fatalf("unexpected ISO for one hour: %s", got)
	}
	if got := timefmt.Hours(30 * time.Minute); got != "0.50" {
		t.Fatalf("expected 0.50, got %s", got)
	}
	if got := timefmt.Hours(time.Hour); got != "1.00" {
		t.Fatalf("expected 1.00, got %s", got)
	}
}

func TestHoursRoundsHalfUp(t *testing.T) {
	t.Parallel()
	cases := map[time.Duration]string{
		0:                            "0.00",
		450_000 * time.Millisecond:   "0.13",
		2_250_000 * time.Millisecond: "0.63",
		449_999 * time.Millisecond:   "0.12",
		17_999 * time.Millisecond:    "0.00",
		18_000 * time.Millisecond:    "0.01",
		50 * time.Hour:               "50.00",
		-450_000 * time.Millisecond:  "-0.13",
	}
	for in, want := range cases {
		if got := timefmt.Hours(in); got != want {
			t.Fatalf("Hours(%s) = %s, want %s", in, got, want)
		}
	}
}
