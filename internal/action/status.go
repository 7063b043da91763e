package action

// Status is the approval lifecycle state. The engine only creates pending
// actions; everything after that is driven by the approval queue.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusDenied    Status = "denied"
	StatusExecuted  Status = "executed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusDenied},
	StatusApproved: {StatusExecuted, StatusFailed},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDenied, StatusExecuted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether s may move to next. Any state may be cancelled.
func (s Status) CanTransition(next Status) bool {
	if !s.Valid() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
