package detector

import "github.com/MikeSquared-Agency/notewise/internal/action"

const (
	// tail extends a match to the end of its sentence. A dot followed by a
	// non-space (an address or a decimal) does not end the sentence.
	tail = `(?:[^.!?\n]|\.\S)*`

	weekdays   = `monday|tuesday|wednesday|thursday|friday|saturday|sunday`
	personName = `[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?`
	emailAddr  = `[\w.+-]+@[\w-]+(?:\.[\w-]+)*\.[A-Za-z]{2,}`
)

// Defaults returns the built-in detector table in execution order. Each call
// returns fresh slices, so callers may extend the result.
func Defaults() []Definition {
	return []Definition{
		{
			Type:   action.TypeSingleEvent,
			Family: "single event",
			Patterns: []Pattern{
				{Name: "lets_meet", Regex: `(?i)\b(?:let'?s|let us|we should|we need to)\s+(?:meet|sync(?:\s+up)?|catch up|get together|huddle)\b` + tail},
				{Name: "meet_now", Regex: `(?i)\bmeet(?:ing)?\s+(?:right\s+)?(?:now|today|tonight|this (?:morning|afternoon|evening))\b` + tail},
				{Name: "ad_hoc_meeting", Regex: `(?i)\b(?:quick|urgent|emergency|impromptu)\s+(?:meeting|sync|huddle|chat)\b` + tail},
			},
			Build: buildSingleEvent,
		},
		{
			Type:   action.TypeScheduledEvent,
			Family: "scheduled event",
			Patterns: []Pattern{
				{Name: "schedule_meeting", Regex: `(?i)\b(?:schedule|book|set up)\s+(?:a|an|the)?\s*(?:meeting|call|appointment|session|review|sync|demo|interview)\b` + tail},
				{Name: "meeting_on_day", Regex: `(?i)\b(?:meeting|appointment|session|review|demo|interview)\s+(?:on|this|next)\s+(?:` + weekdays + `|week)\b` + tail},
				{Name: "meeting_at_time", Regex: `(?i)\b(?:meeting|appointment|session|interview)\b` + tail + `\bat\s+\d{1,2}(?::[0-5]\d)?\s*(?:am|pm)\b` + tail},
			},
			Build: buildScheduledEvent,
		},
		{
			Type:   action.TypeRecurringEvent,
			Family: "recurring event",
			Patterns: []Pattern{
				{Name: "cadence_meeting", Regex: `(?i)\b(?:weekly|daily|monthly|bi-?weekly|fortnightly)\s+(?:team\s+)?(?:meeting|stand-?up|sync|check-in|call|review|1:1|one-on-one)s?\b` + tail},
				{Name: "every_interval", Regex: `(?i)\bevery\s+(?:day|week|month|weekday|morning|other\s+\w+|\d+\s+(?:days|weeks|months)|` + weekdays + `)\b` + tail},
				{Name: "standup", Regex: `(?i)\bstand-?ups?\b` + tail},
			},
			Build: buildRecurringEvent,
		},
		{
			Type:   action.TypeTask,
			Family: "task",
			Patterns: []Pattern{
				{Name: "obligation", Regex: `(?i)\b(?:needs? to|ha(?:ve|s) to|got to|gotta|should|must)\s+\w` + tail},
				{Name: "explicit_task", Regex: `(?i)\b(?:task|todo|to-do|action item)s?\s*:\s*\w` + tail},
				{Name: "follow_up", Regex: `(?i)\bfollow(?:\s+|-)up\s+(?:on|with)\s+\w` + tail},
				{Name: "commitment", Regex: `(?i)\b(?:i'll|i will|we'll|we will)\s+(?:make sure|handle|finish|prepare|review|update|fix|take care of|look into)\b` + tail},
			},
			Build: buildTask,
		},
		{
			Type:   action.TypeEmail,
			Family: "email",
			Patterns: []Pattern{
				{Name: "send_email", Regex: `(?i)\b(?:send|shoot|forward|draft|write)\s+(?:\w+\s+)?(?:an?\s+)?(?:email|e-mail|message)\b` + tail},
				{Name: "email_person", Regex: `\b[Ee]-?mail\s+(?:him|her|them|everyone|the team|` + personName + `|` + emailAddr + `)\b` + tail},
				{Name: "follow_up_email", Regex: `(?i)\bfollow(?:\s+|-)up\s+(?:email|e-mail|message)\b` + tail},
				{Name: "send_document", Regex: `(?i)\b(?:send|forward|share)\s+(?:\w+\s+)?(?:the|a|our|my)\s+(?:report|proposal|deck|slides|document|doc|notes|summary|invoice|contract|agenda|presentation)\b` + tail},
			},
			Build: buildEmail,
		},
		{
			Type:   action.TypeContact,
			Family: "contact",
			Patterns: []Pattern{
				{Name: "email_is", Regex: `\b(?P<name>` + personName + `)(?:'s)?\s+(?:[Ee]-?mail)(?:\s+address)?\s+is\s+(?P<email>` + emailAddr + `)`},
				{Name: "phone_is", Regex: `\b(?P<name>` + personName + `)(?:'s)?\s+(?:[Pp]hone|[Nn]umber|[Cc]ell|[Mm]obile)(?:\s+number)?\s+is\s+(?P<phone>\+?[\d(][\d\s().-]{6,}\d)`},
				{Name: "reach_at", Regex: `\b(?:[Cc]ontact|[Rr]each)\s+(?P<name>` + personName + `)\s+(?:at|via|on)\s+\S+(?:\s+\d[\d-]*)*`},
				{Name: "person_from_company", Regex: `\b(?P<name>[A-Z][a-z]+\s+[A-Z][a-z]+)\s+(?:from|at|of)\s+(?P<company>[A-Z][\w&]*(?:\s+[A-Z][\w&]*)*)`},
			},
			Build: buildContact,
		},
		{
			Type:   action.TypeReminder,
			Family: "reminder",
			Patterns: []Pattern{
				{Name: "remind", Regex: `(?i)\bremind\s+(?:me|us|him|her|them|everyone)\s+(?:to|about|that)\s+\w` + tail},
				{Name: "dont_forget", Regex: `(?i)\b(?:don'?t|do not)\s+forget\b` + tail},
				{Name: "deadline", Regex: `(?i)\bdeadline\b` + tail},
				{Name: "due", Regex: `(?i)\bdue\s+(?:on|by|tomorrow|today|next|this|` + weekdays + `)\b` + tail},
				{Name: "remember_to", Regex: `(?i)\bremember\s+to\s+\w` + tail},
			},
			Build: buildReminder,
		},
		{
			Type:   action.TypeCall,
			Family: "call",
			Patterns: []Pattern{
				{Name: "call_person", Regex: `\b(?i:call|phone|ring|dial)\s+(?i:up\s+)?(?P<name>` + personName + `)\b` + tail},
				{Name: "give_call", Regex: `(?i)\bgive\s+(?P<name>\w+(?:\s+[A-Z][a-z]+)?)\s+a\s+(?:call|ring|buzz)\b` + tail},
				{Name: "set_up_call", Regex: `(?i)\b(?:hop on|set up|schedule|arrange|book|have)\s+(?:a|an|the)\s+(?:(?:quick|phone|video|conference)\s+)*call\b` + tail},
				{Name: "call_back", Regex: `(?i)\bcall\s+(?:him|her|them|back)\b` + tail},
			},
			Build: buildCall,
		},
	}
}
