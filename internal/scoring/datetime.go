package scoring

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"

	defaultClock = "09:00"
)

var (
	clock12Re = regexp.MustCompile(`(?i)\b(\d{1,2})(?::([0-5]\d))?\s*(am|pm)\b`)
	clock24Re = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)

	todayRe     = regexp.MustCompile(`(?i)\b(?:today|tonight|eod|end of (?:the )?day)\b`)
	endOfWeekRe = regexp.MustCompile(`(?i)\b(?:end of (?:the )?week|eow|this week)\b`)
	asapRe      = regexp.MustCompile(`(?i)\b(?:asap|soon|urgent|urgently)\b`)
	weekdayRe   = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// DateTime is a calendar date and wall-clock time in the caller's location.
type DateTime struct {
	Date string // 2006-01-02
	Time string // 15:04
}

// At resolves the date and time to an instant in loc.
func (d DateTime) At(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+ClockLayout, d.Date+" "+d.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date time %q %q: %w", d.Date, d.Time, err)
	}
	return t, nil
}

// ExtractDateTime resolves relative day words against now and picks up an
// explicit clock time. Without a day cue the date is today; without a clock
// time the time is 09:00.
func ExtractDateTime(text string, now time.Time) DateTime {
	lower := strings.ToLower(text)
	day := now
	switch {
	case strings.Contains(lower, "tomorrow"):
		day = now.AddDate(0, 0, 1)
	case strings.Contains(lower, "next week"):
		day = now.AddDate(0, 0, 7)
	}
	clock, ok := extractClock(text)
	if !ok {
		clock = defaultClock
	}
	return DateTime{Date: day.Format(DateLayout), Time: clock}
}

// extractClock returns the first valid "2pm", "2:30 PM" or "14:30" token as HH:MM.
func extractClock(text string) (string, bool) {
	for _, m := range clock12Re.FindAllStringSubmatch(text, -1) {
		hour, err := strconv.Atoi(m[1])
		if err != nil || hour < 1 || hour > 12 {
			continue
		}
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		hour %= 12
		if strings.EqualFold(m[3], "pm") {
			hour += 12
		}
		return fmt.Sprintf("%02d:%02d", hour, minute), true
	}
	if m := clock24Re.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		return fmt.Sprintf("%02d:%02d", hour, minute), true
	}
	return "", false
}

// NextBusinessDay returns tomorrow, rolled forward to Monday over a weekend.
func NextBusinessDay(now time.Time) time.Time {
	next := now.AddDate(0, 0, 1)
	switch next.Weekday() {
	case time.Saturday:
		return next.AddDate(0, 0, 2)
	case time.Sunday:
		return next.AddDate(0, 0, 1)
	}
	return next
}

// DueDate infers a due date from deadline phrasing. Returns nil when the
// text has no recognisable cue.
func DueDate(text string, now time.Time) *string {
	lower := strings.ToLower(text)
	var due time.Time
	switch {
	case strings.Contains(lower, "tomorrow"):
		due = now.AddDate(0, 0, 1)
	case todayRe.MatchString(text):
		due = now
	case strings.Contains(lower, "next week"):
		due = now.AddDate(0, 0, 7)
	case endOfWeekRe.MatchString(text):
		due = upcoming(now, time.Friday, true)
	case weekdayRe.MatchString(text):
		name := strings.ToLower(weekdayRe.FindStringSubmatch(text)[1])
		due = upcoming(now, weekdays[name], false)
	case asapRe.MatchString(text):
		due = NextBusinessDay(now)
	default:
		return nil
	}
	s := due.Format(DateLayout)
	return &s
}

// upcoming returns the next date falling on wd. When includeToday is false a
// match on today's weekday resolves to the following week.
func upcoming(now time.Time, wd time.Weekday, includeToday bool) time.Time {
	diff := (int(wd) - int(now.Weekday()) + 7) % 7
	if diff == 0 && !includeToday {
		diff = 7
	}
	return now.AddDate(0, 0, diff)
}
