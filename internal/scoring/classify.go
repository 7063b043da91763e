package scoring

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/MikeSquared-Agency/notewise/internal/action"
)

const (
	titleWords      = 6
	defaultDuration = 30
)

var (
	weekdaysRe = regexp.MustCompile(`(?i)\b(?:weekdays?|monday (?:through|to|-) friday|mon-fri)\b`)
	dailyRe    = regexp.MustCompile(`(?i)\b(?:daily|every day|each day|every morning|every evening|stand-?ups?)\b`)
	monthlyRe  = regexp.MustCompile(`(?i)\b(?:monthly|every month|each month)\b`)

	everyNRe     = regexp.MustCompile(`(?i)\bevery\s+(\d+)\s+(days?|weeks?|months?)\b`)
	everyOtherRe = regexp.MustCompile(`(?i)\b(?:every other|bi-?weekly|fortnightly)\b`)

	quickRe    = regexp.MustCompile(`(?i)\b(?:quick|brief)\b`)
	halfHourRe = regexp.MustCompile(`(?i)\b(?:half (?:an )?hour)\b`)
	hoursRe    = regexp.MustCompile(`(?i)\b(\d+)\s*(?:hours?|hrs?)\b`)
	minutesRe  = regexp.MustCompile(`(?i)\b(\d+)\s*(?:minutes?|mins?)\b`)
	standupRe  = regexp.MustCompile(`(?i)\b(?:stand-?ups?|daily)\b`)
	hourRe     = regexp.MustCompile(`(?i)\bhour\b`)
)

// ExtractRecurrence classifies the cadence of a repeating event. Without a
// recognised cue the pattern is weekly with interval 1.
func ExtractRecurrence(text string) (action.RecurrencePattern, int) {
	if m := everyNRe.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			unit := strings.ToLower(m[2])
			switch {
			case strings.HasPrefix(unit, "day"):
				return action.RecurrenceDaily, n
			case strings.HasPrefix(unit, "month"):
				return action.RecurrenceMonthly, n
			default:
				return action.RecurrenceWeekly, n
			}
		}
	}

	interval := 1
	if everyOtherRe.MatchString(text) {
		interval = 2
	}

	switch {
	case weekdaysRe.MatchString(text):
		return action.RecurrenceWeekdays, interval
	case dailyRe.MatchString(text):
		return action.RecurrenceDaily, interval
	case monthlyRe.MatchString(text):
		return action.RecurrenceMonthly, interval
	default:
		return action.RecurrenceWeekly, interval
	}
}

// EstimateDuration guesses a meeting length in minutes from wording.
func EstimateDuration(text string) int {
	if quickRe.MatchString(text) {
		return 15
	}
	if halfHourRe.MatchString(text) {
		return 30
	}
	if m := hoursRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n * 60
		}
	}
	if m := minutesRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	if standupRe.MatchString(text) {
		return 15
	}
	if hourRe.MatchString(text) {
		return 60
	}
	return defaultDuration
}

// Title builds a short title from the first words of a matched span.
func Title(span string) string {
	words := make([]string, 0, titleWords)
	for _, w := range strings.Fields(span) {
		w = strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if w == "" {
			continue
		}
		words = append(words, w)
		if len(words) == titleWords {
			break
		}
	}
	if len(words) == 0 {
		return "Untitled"
	}
	title := strings.Join(words, " ")
	r := []rune(title)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// DefaultTagRules maps a task tag to the keywords that indicate it.
var DefaultTagRules = map[string][]string{
	"meeting":       {"meeting", "sync", "standup", "stand-up", "1:1"},
	"communication": {"email", "call", "message", "reply", "reach out", "follow up", "follow-up"},
	"document":      {"report", "doc", "proposal", "presentation", "slides", "deck", "notes"},
	"review":        {"review", "feedback", "approve", "sign off"},
	"engineering":   {"bug", "fix", "deploy", "release", "code", "test"},
	"planning":      {"plan", "roadmap", "schedule", "agenda", "prepare"},
	"finance":       {"budget", "invoice", "contract", "payment", "expense"},
	"urgent":        {"urgent", "asap", "critical"},
}

// Tags returns the sorted set of tags whose keywords appear in text.
func Tags(text string) []string {
	lower := strings.ToLower(text)
	tags := make([]string, 0)
	for tag, keywords := range DefaultTagRules {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				tags = append(tags, tag)
				break
			}
		}
	}
	sort.Strings(tags)
	return tags
}
