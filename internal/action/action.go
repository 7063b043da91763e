package action

import (
	"errors"
	"fmt"
	"time"
)

// Type discriminates the action variants.
type Type string

const (
	TypeSingleEvent    Type = "single_event"
	TypeScheduledEvent Type = "scheduled_event"
	TypeRecurringEvent Type = "recurring_event"
	TypeTask           Type = "task"
	TypeEmail          Type = "email"
	TypeContact        Type = "contact"
	TypeReminder       Type = "reminder"
	TypeCall           Type = "call"
)

// Types lists every action type in detector execution order.
var Types = []Type{
	TypeSingleEvent,
	TypeScheduledEvent,
	TypeRecurringEvent,
	TypeTask,
	TypeEmail,
	TypeContact,
	TypeReminder,
	TypeCall,
}

func (t Type) Valid() bool {
	for _, v := range Types {
		if v == t {
			return true
		}
	}
	return false
}

// Priority is the urgency assigned by the keyword heuristic.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Action is a single structured item extracted from text. Exactly one of the
// detail payloads is set, matching Type; recurring events also carry Recurrence.
type Action struct {
	ID           string    `json:"id"`
	Type         Type      `json:"type"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Priority     Priority  `json:"priority"`
	Confidence   float64   `json:"confidence"`
	Reasoning    string    `json:"reasoning"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	SourceText   string    `json:"source_text"` // full input, never just the matched span
	UserID       string    `json:"user_id"`
	TranscriptID *string   `json:"transcript_id,omitempty"`

	EventDetails    *EventDetails    `json:"event_details,omitempty"`
	Recurrence      *Recurrence      `json:"recurrence,omitempty"`
	TaskDetails     *TaskDetails     `json:"task_details,omitempty"`
	EmailDetails    *EmailDetails    `json:"email_details,omitempty"`
	ContactDetails  *ContactDetails  `json:"contact_details,omitempty"`
	ReminderDetails *ReminderDetails `json:"reminder_details,omitempty"`
	CallDetails     *CallDetails     `json:"call_details,omitempty"`
}

// EventDetails backs single, scheduled and recurring events.
type EventDetails struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	StartDate       *string  `json:"start_date,omitempty"` // 2006-01-02
	StartTime       *string  `json:"start_time,omitempty"` // 15:04
	DurationMinutes int      `json:"duration_minutes"`
	Attendees       []string `json:"attendees"`
	Location        *string  `json:"location,omitempty"`
	Timezone        *string  `json:"timezone,omitempty"`
}

// RecurrencePattern is the cadence of a recurring event.
type RecurrencePattern string

const (
	RecurrenceDaily    RecurrencePattern = "daily"
	RecurrenceWeekly   RecurrencePattern = "weekly"
	RecurrenceMonthly  RecurrencePattern = "monthly"
	RecurrenceWeekdays RecurrencePattern = "weekdays"
)

type Recurrence struct {
	Pattern  RecurrencePattern `json:"pattern"`
	Interval int               `json:"interval"`
}

type TaskDetails struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     *string  `json:"due_date,omitempty"`
	Assignee    *string  `json:"assignee,omitempty"`
	Tags        []string `json:"tags"`
}

type EmailDetails struct {
	Recipients []string   `json:"recipients"`
	Subject    string     `json:"subject"`
	Body       string     `json:"body"`
	SendAt     *time.Time `json:"send_at,omitempty"`
}

type ContactDetails struct {
	Name    string  `json:"name"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Company *string `json:"company,omitempty"`
	Notes   string  `json:"notes"`
}

type ReminderDetails struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	RemindAt    time.Time          `json:"remind_at"`
	Repeat      *RecurrencePattern `json:"repeat,omitempty"`
}

type CallDetails struct {
	ContactName     string     `json:"contact_name"`
	Purpose         string     `json:"purpose"`
	ScheduledTime   *time.Time `json:"scheduled_time,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
}

// ErrInvalidTransition is returned when a status change is not allowed.
var ErrInvalidTransition = errors.New("invalid status transition")

// Transition moves the action to the given status and stamps UpdatedAt.
func (a *Action) Transition(to Status, at time.Time) error {
	if !a.Status.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, to)
	}
	a.Status = to
	a.UpdatedAt = at
	return nil
}
