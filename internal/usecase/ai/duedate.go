package ai

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// absoluteDateLayouts are tried in order for phrases that already carry a
// concrete date.
var absoluteDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
}

var relativeSpanPattern = regexp.MustCompile(`in (\d+) (day|week)s?`)

// weekdayNames is ordered so matching is deterministic when a phrase
// somehow names more than one day.
var weekdayNames = []struct {
	name string
	day  time.Weekday
}{
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
	{"sunday", time.Sunday},
}

// ParseDueDate resolves a spoken due-date phrase against now. The second
// return value reports whether the phrase was understood; unrecognized
// phrases are not an error, the caller decides what a miss means.
//
// Resolution is first-match: an absolute date, a weekday name, "in N
// days/weeks", "tomorrow", "end of week", then "end of month". Relative
// results land at 17:00 in now's location. Ambiguous phrases fall
// through unresolved on purpose.
func ParseDueDate(phrase string, now time.Time) (time.Time, bool) {
	p := strings.ToLower(strings.TrimSpace(phrase))
	if p == "" {
		return time.Time{}, false
	}

	for _, layout := range absoluteDateLayouts {
		if t, err := time.ParseInLocation(layout, strings.TrimSpace(phrase), now.Location()); err == nil {
			return t, true
		}
	}

	for _, wd := range weekdayNames {
		if !strings.Contains(p, wd.name) {
			continue
		}
		days := daysUntilWeekday(now, wd.day)
		if strings.Contains(p, "next") {
			days += 7
		}
		return atFive(now.AddDate(0, 0, days)), true
	}

	if m := relativeSpanPattern.FindStringSubmatch(p); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			if m[2] == "week" {
				n *= 7
			}
			return atFive(now.AddDate(0, 0, n)), true
		}
	}

	if strings.Contains(p, "tomorrow") {
		return atFive(now.AddDate(0, 0, 1)), true
	}

	if strings.Contains(p, "end of week") || strings.Contains(p, "eow") {
		return atFive(now.AddDate(0, 0, daysUntilWeekday(now, time.Friday))), true
	}

	if strings.Contains(p, "end of month") || strings.Contains(p, "eom") {
		last := time.Date(now.Year(), now.Month()+1, 0, 17, 0, 0, 0, now.Location())
		return last, true
	}

	return time.Time{}, false
}

// daysUntilWeekday returns the day count to the next occurrence of target,
// never zero: on the target weekday itself the answer is a full week out.
func daysUntilWeekday(now time.Time, target time.Weekday) int {
	days := (int(target) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return days
}

func atFive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 17, 0, 0, 0, t.Location())
}
