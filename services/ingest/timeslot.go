package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	rangeRe  = regexp.MustCompile(`^(\d{1,2})[.:](\d{2})\s*(AM|PM)?\s*-\s*(\d{1,2})[.:](\d{2})\s*(AM|PM)?$`)
	singleRe = regexp.MustCompile(`^(\d{1,2})[.:](\d{2})\s*(AM|PM)?$`)
)

// earliestMorningHour: hour values below this are assumed to be PM times
// written without a suffix (the academic day starts at 8).
const earliestMorningHour = 8

// ParseRange converts a header cell like "8.15-9.05" or "1.30 - 2.20 PM"
// into canonical 24-hour HH:MM start and end times. A single time with no
// range yields a one-hour slot. ok=false means the column is non-scheduling.
func ParseRange(text string) (startTime, endTime string, ok bool) {
	s := normalizeCell(text)
	if s == "" {
		return "", "", false
	}

	if m := rangeRe.FindStringSubmatch(s); m != nil {
		sh, sm := atoi(m[1]), atoi(m[2])
		eh, em := atoi(m[4]), atoi(m[5])
		if sm > 59 || em > 59 || sh > 23 || eh > 23 {
			return "", "", false
		}
		sh = adjustHour(sh, m[3])
		eh = adjustHour(eh, m[6])
		// A slot can cross noon without an explicit PM marking on the end
		// time; an end at or before the start means the end is PM.
		if eh*60+em <= sh*60+sm {
			eh += 12
		}
		if eh > 23 {
			return "", "", false
		}
		return clock(sh, sm), clock(eh, em), true
	}

	if m := singleRe.FindStringSubmatch(s); m != nil {
		h, min := atoi(m[1]), atoi(m[2])
		if min > 59 || h > 23 {
			return "", "", false
		}
		h = adjustHour(h, m[3])
		if h >= 23 {
			return "", "", false
		}
		return clock(h, min), clock(h+1, min), true
	}

	return "", "", false
}

func adjustHour(h int, suffix string) int {
	switch suffix {
	case "PM":
		if h < 12 {
			return h + 12
		}
		return h
	case "AM":
		return h
	}
	if h < earliestMorningHour {
		return h + 12
	}
	return h
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func clock(h, m int) string {
	return fmt.Sprintf("%02d:%02d", h, m)
}

// minutesOf converts "HH:MM" to minutes since midnight. Malformed input
// yields -1 so comparisons against it never report an overlap.
func minutesOf(t string) int {
	if len(t) != 5 || t[2] != ':' {
		return -1
	}
	h, err1 := strconv.Atoi(t[:2])
	m, err2 := strconv.Atoi(t[3:])
	if err1 != nil || err2 != nil {
		return -1
	}
	return h*60 + m
}
