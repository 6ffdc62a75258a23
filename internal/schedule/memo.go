package schedule

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dayNames maps the spellings clients actually write in memos to
// weekdays.
var dayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"mon":       time.Monday,
	"tuesday":   time.Tuesday,
	"tues":      time.Tuesday,
	"tue":       time.Tuesday,
	"wednesday": time.Wednesday,
	"wed":       time.Wednesday,
	"thursday":  time.Thursday,
	"thurs":     time.Thursday,
	"thu":       time.Thursday,
	"friday":    time.Friday,
	"fri":       time.Friday,
	"saturday":  time.Saturday,
	"sat":       time.Saturday,
	"sunday":    time.Sunday,
	"sun":       time.Sunday,
}

var periodNames = map[string]Period{
	"morning":   Morning,
	"afternoon": Afternoon,
	"evening":   Evening,
	"night":     Night,
}

// ParseWeekday resolves a day name or common abbreviation ("friday",
// "fri") to its weekday.
func ParseWeekday(name string) (time.Weekday, bool) {
	day, ok := dayNames[strings.ToLower(strings.TrimSpace(name))]
	return day, ok
}

// ParsePeriod resolves a named band of the day ("morning").
func ParsePeriod(name string) (Period, bool) {
	p, ok := periodNames[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// clockPattern matches times like "2pm", "9a", "10:30am".
var clockPattern = regexp.MustCompile(`(\d{1,2})(?::\d{2})?\s*(am|pm|a|p)\b`)

// StatedPreferences is what a free-text memo says about when the client
// likes to come in.
type StatedPreferences struct {
	Weekdays map[time.Weekday]bool
	Periods  map[Period]bool
	Hours    map[int]bool
}

func (s StatedPreferences) Empty() bool {
	return len(s.Weekdays) == 0 && len(s.Periods) == 0 && len(s.Hours) == 0
}

// ParseMemo extracts stated scheduling preferences from memo text such
// as "tuesday mornings or Fridays at 2PM". Unrecognized text is
// ignored; an empty memo yields empty preferences.
func ParseMemo(memo string) StatedPreferences {
	prefs := StatedPreferences{
		Weekdays: make(map[time.Weekday]bool),
		Periods:  make(map[Period]bool),
		Hours:    make(map[int]bool),
	}
	if memo == "" {
		return prefs
	}

	text := strings.ToLower(memo)

	for name, day := range dayNames {
		if containsWord(text, name) {
			prefs.Weekdays[day] = true
		}
	}

	for name, period := range periodNames {
		if strings.Contains(text, name) {
			prefs.Periods[period] = true
		}
	}

	for _, m := range clockPattern.FindAllStringSubmatch(text, -1) {
		hour, err := strconv.Atoi(m[1])
		if err != nil || hour < 1 || hour > 12 {
			continue
		}
		switch m[2] {
		case "pm", "p":
			if hour != 12 {
				hour += 12
			}
		case "am", "a":
			if hour == 12 {
				hour = 0
			}
		}
		prefs.Hours[hour] = true
	}

	return prefs
}

// containsWord avoids substring traps like "sun" inside "sunny" by
// requiring non-letter boundaries.
func containsWord(text, word string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isLetter(text[start-1])
		afterOK := end == len(text) || !isLetter(text[end]) ||
			(text[end] == 's' && (end+1 == len(text) || !isLetter(text[end+1]))) // allow plurals
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
