// Package span parses age spans like "7d" used for decay thresholds.
package span

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const hoursPerDay = 24

// Parse converts an age span into a duration. Day suffixes ("7d", "0d")
// are handled directly; anything else falls through to time.ParseDuration
// so "12h" and "90m" also work.
func Parse(s string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid age span %q: expected a day count like 7d", s)
		}
		return time.Duration(n) * hoursPerDay * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid age span %q: expected 7d, 12h or similar", s)
	}
	return d, nil
}

// Format renders a duration as a compact day count when it divides evenly,
// otherwise as the duration's own string form.
func Format(d time.Duration) string {
	if d%(hoursPerDay*time.Hour) == 0 {
		return strconv.Itoa(int(d/(hoursPerDay*time.Hour))) + "d"
	}
	return d.String()
}
