package timefmt

import (
	"fmt"
	"time"
)

// ISOMillis is the export timestamp layout: UTC with millisecond precision.
const ISOMillis = "2006-01-02T15:04:05.000Z"

// Clock renders d as HH:MM:SS. Hours are not wrapped at 24 and negative
// durations render as zero.
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// ISO formats epoch milliseconds as an ISO-8601 UTC timestamp.
func ISO(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(ISOMillis)
}

// Hours renders d as decimal hours with two places, rounding half away from
// zero on whole milliseconds (7m30s is "0.13").
func Hours(d time.Duration) string {
	ms := d.Milliseconds()
	sign := ""
	if ms < 0 {
		sign, ms = "-", -ms
	}
	const msPerHour = int64(time.Hour / time.Millisecond)
	hundredths := (ms*100 + msPerHour/2) / msPerHour
	return fmt.Sprintf("%s%d.%02d", sign, hundredths/100, hundredths%100)
}
