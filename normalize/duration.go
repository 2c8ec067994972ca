package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// isoDuration matches the ISO-8601 duration forms recipe sites publish:
// PT30M, PT1H30M, PT0H45M0S, P0DT2H. Weeks/months/years never occur in
// cooking times and are not accepted.
var isoDuration = regexp.MustCompile(`(?i)^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseMinutes converts a raw time value into whole minutes. Accepted forms
// are a bare integer (already minutes) and an ISO-8601 duration. Anything
// else yields nil: a missing timing is better than a guessed one.
func ParseMinutes(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if n, err := strconv.Atoi(raw); err == nil {
		if n < 0 {
			return nil
		}
		return &n
	}

	m := isoDuration.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}

	days := atoiDefault(m[1])
	hours := atoiDefault(m[2])
	mins := atoiDefault(m[3])
	secs := atoiDefault(m[4])
	if m[1] == "" && m[2] == "" && m[3] == "" && m[4] == "" {
		// "P" or "PT" alone carries no components.
		return nil
	}

	total := days*24*60 + hours*60 + mins
	if secs >= 30 {
		total++
	}
	return &total
}

func atoiDefault(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
