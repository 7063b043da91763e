package detector

import (
	"regexp"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/notewise/internal/action"
	"github.com/MikeSquared-Agency/notewise/internal/entity"
	"github.com/MikeSquared-Agency/notewise/internal/scoring"
)

const (
	unknownContact = "Unknown"
	defaultPurpose = "General discussion"
)

var (
	aboutRe    = regexp.MustCompile(`(?i)\b(?:about|regarding|re:|to discuss|concerning)\s+((?:[^.!?\n]|\.\S)+)`)
	assigneeRe = regexp.MustCompile(`\b([A-Z][a-z]+)\s+(?:will|should|needs to|has to|must|is going to)\b`)
	repeatRe   = regexp.MustCompile(`(?i)\b(?:every|each|daily|weekly|monthly|weekdays?)\b`)
	nowRe      = regexp.MustCompile(`(?i)\b(?:now|right away|immediately)\b`)
)

// nonNames are capitalised words that a name capture can pick up but that
// never name a person.
var nonNames = wordSet(
	"i", "we", "you", "they", "he", "she", "it", "this", "that", "someone", "everyone", "who",
	"me", "us", "him", "her", "them", "back",
	"call", "phone", "ring", "dial", "email", "meet", "ask", "tell", "contact", "reach", "ping",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"today", "tomorrow", "tonight", "next",
)

func buildSingleEvent(a *action.Action, m Match, in Input) error {
	when := scoring.ExtractDateTime(m.Text, in.Now)
	if nowRe.MatchString(m.Text) {
		when.Time = in.Now.Format(scoring.ClockLayout)
	}
	a.EventDetails = eventDetails(m, in, when)
	return nil
}

func buildScheduledEvent(a *action.Action, m Match, in Input) error {
	a.EventDetails = eventDetails(m, in, resolve(m.Text, in.Now))
	return nil
}

func buildRecurringEvent(a *action.Action, m Match, in Input) error {
	a.EventDetails = eventDetails(m, in, resolve(m.Text, in.Now))
	pattern, interval := scoring.ExtractRecurrence(m.Text)
	a.Recurrence = &action.Recurrence{Pattern: pattern, Interval: interval}
	return nil
}

func eventDetails(m Match, in Input, when scoring.DateTime) *action.EventDetails {
	tz := in.Now.Location().String()
	return &action.EventDetails{
		Title:           scoring.Title(m.Text),
		Description:     m.Text,
		StartDate:       &when.Date,
		StartTime:       &when.Time,
		DurationMinutes: scoring.EstimateDuration(m.Text),
		Attendees:       mentioned(m.Text, in.Entities.People),
		Location:        firstMentioned(m.Text, in.Entities.Locations),
		Timezone:        &tz,
	}
}

func buildTask(a *action.Action, m Match, in Input) error {
	a.TaskDetails = &action.TaskDetails{
		Title:       scoring.Title(m.Text),
		Description: m.Text,
		DueDate:     scoring.DueDate(m.Text, in.Now),
		Assignee:    assignee(sentenceOf(in.Text, m), m.Text, in.Entities),
		Tags:        scoring.Tags(m.Text),
	}
	return nil
}

// assignee prefers "<Name> will/should/..." in the sentence leading up to the
// match, then any person mentioned in the match itself.
func assignee(sentence, span string, ents entity.Entities) *string {
	for _, sm := range assigneeRe.FindAllStringSubmatch(sentence, -1) {
		if !nonNames[strings.ToLower(sm[1])] {
			name := sm[1]
			return &name
		}
	}
	return firstMentioned(span, ents.People)
}

func buildEmail(a *action.Action, m Match, in Input) error {
	recipients := entity.EmailRe.FindAllString(m.Text, -1)
	recipients = append(recipients, mentioned(m.Text, in.Entities.People)...)
	if recipients == nil {
		recipients = []string{}
	}

	subject := scoring.Title(m.Text)
	if about := aboutRe.FindStringSubmatch(m.Text); about != nil {
		subject = scoring.Title(about[1])
	}

	details := &action.EmailDetails{
		Recipients: recipients,
		Subject:    subject,
		Body:       m.Text,
	}
	if scoring.HasDateTime(m.Text) {
		at, err := resolve(m.Text, in.Now).At(in.Now.Location())
		if err != nil {
			return err
		}
		details.SendAt = &at
	}
	a.EmailDetails = details
	return nil
}

func buildContact(a *action.Action, m Match, in Input) error {
	name := cleanName(strings.TrimSuffix(m.Group("name"), "'s"))
	if name == "" {
		if p := firstMentioned(m.Text, in.Entities.People); p != nil {
			name = *p
		} else {
			name = unknownContact
		}
	}

	details := &action.ContactDetails{
		Name:    name,
		Email:   nonEmpty(m.Group("email"), entity.EmailRe.FindString(m.Text)),
		Phone:   nonEmpty(m.Group("phone"), entity.PhoneRe.FindString(m.Text)),
		Company: nonEmpty(m.Group("company")),
		Notes:   "Mentioned in: " + m.Text,
	}
	if details.Company == nil {
		details.Company = firstMentioned(m.Text, in.Entities.Organizations)
	}
	a.ContactDetails = details
	return nil
}

func buildReminder(a *action.Action, m Match, in Input) error {
	at, err := resolve(m.Text, in.Now).At(in.Now.Location())
	if err != nil {
		return err
	}
	details := &action.ReminderDetails{
		Title:       scoring.Title(m.Text),
		Description: m.Text,
		RemindAt:    at,
	}
	if repeatRe.MatchString(m.Text) {
		pattern, _ := scoring.ExtractRecurrence(m.Text)
		details.Repeat = &pattern
	}
	a.ReminderDetails = details
	return nil
}

func buildCall(a *action.Action, m Match, in Input) error {
	contact := cleanName(m.Group("name"))
	if contact == "" {
		if p := firstMentioned(m.Text, in.Entities.People); p != nil {
			contact = *p
		} else {
			contact = unknownContact
		}
	}

	purpose := defaultPurpose
	if about := aboutRe.FindStringSubmatch(m.Text); about != nil {
		purpose = strings.TrimSpace(about[1])
	}

	details := &action.CallDetails{
		ContactName:     contact,
		Purpose:         purpose,
		DurationMinutes: scoring.EstimateDuration(m.Text),
	}
	if scoring.HasDateTime(m.Text) {
		at, err := resolve(m.Text, in.Now).At(in.Now.Location())
		if err != nil {
			return err
		}
		details.ScheduledTime = &at
	}
	a.CallDetails = details
	return nil
}

// resolve reads the date and time of a span. Deadline phrasing ("by Friday",
// "end of week") overrides the plain relative-day reading.
func resolve(span string, now time.Time) scoring.DateTime {
	when := scoring.ExtractDateTime(span, now)
	if due := scoring.DueDate(span, now); due != nil {
		when.Date = *due
	}
	return when
}

// cleanName drops leading words that are not part of a name ("Call John"
// becomes "John"). A capture made only of such words yields "".
func cleanName(raw string) string {
	words := strings.Fields(raw)
	for len(words) > 0 && nonNames[strings.ToLower(words[0])] {
		words = words[1:]
	}
	return strings.Join(words, " ")
}

// sentenceOf returns the text from the start of the match's sentence to the
// end of the match.
func sentenceOf(text string, m Match) string {
	start := strings.LastIndexAny(text[:m.Start], ".!?\n") + 1
	return text[start:m.End]
}

func mentioned(span string, candidates []string) []string {
	out := make([]string, 0)
	for _, c := range candidates {
		if strings.Contains(span, c) {
			out = append(out, c)
		}
	}
	return out
}

func firstMentioned(span string, candidates []string) *string {
	for _, c := range candidates {
		if strings.Contains(span, c) {
			v := c
			return &v
		}
	}
	return nil
}

// nonEmpty returns a pointer to the first non-empty value.
func nonEmpty(values ...string) *string {
	for _, v := range values {
		if v != "" {
			return &v
		}
	}
	return nil
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
