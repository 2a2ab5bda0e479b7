package ingest

import "strings"

var dayAliases = map[string]string{
	"MONDAY":    "Monday",
	"MON":       "Monday",
	"M":         "Monday",
	"TUESDAY":   "Tuesday",
	"TUE":       "Tuesday",
	"TUES":      "Tuesday",
	"WEDNESDAY": "Wednesday",
	"WED":       "Wednesday",
	"W":         "Wednesday",
	"THURSDAY":  "Thursday",
	"THU":       "Thursday",
	"THUR":      "Thursday",
	"THURS":     "Thursday",
	"FRIDAY":    "Friday",
	"FRI":       "Friday",
	"F":         "Friday",
	"SATURDAY":  "Saturday",
	"SAT":       "Saturday",
	"SUNDAY":    "Sunday",
	"SUN":       "Sunday",
}

// ParseDay normalizes a day-name cell to its canonical weekday token.
// Single letters are only accepted where unambiguous (M, W, F). Anything
// else, including the "Day"/"Days" header label, is not a day.
func ParseDay(text string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(text))
	day, ok := dayAliases[s]
	return day, ok
}
