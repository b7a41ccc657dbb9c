// Package view holds presentation helpers for the embedding shell.
package view

import (
	"fmt"
	"strings"
	"time"
)

// FormatTimeLeft renders the remaining time of an auction as a compact
// countdown ("2d 3h 4m 5s"). Zero-valued leading units are omitted and
// seconds are always shown; expired auctions render as finished.
func FormatTimeLeft(endTime, now time.Time) string {
	left := endTime.Sub(now)
	if left <= 0 {
		return "Subasta finalizada"
	}

	days := int(left / (24 * time.Hour))
	left -= time.Duration(days) * 24 * time.Hour
	hours := int(left / time.Hour)
	left -= time.Duration(hours) * time.Hour
	minutes := int(left / time.Minute)
	left -= time.Duration(minutes) * time.Minute
	seconds := int(left / time.Second)

	var b strings.Builder
	if days > 0 {
		fmt.Fprintf(&b, "%dd ", days)
	}
	if hours > 0 {
		fmt.Fprintf(&b, "%dh ", hours)
	}
	if minutes > 0 {
		fmt.Fprintf(&b, "%dm ", minutes)
	}
	fmt.Fprintf(&b, "%ds", seconds)

	return b.String()
}
