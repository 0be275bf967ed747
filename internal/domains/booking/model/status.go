package model

const (
	StatusPending    = "PENDING"
	StatusConfirmed  = "CONFIRMED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

// allowedTransitions is the full lifecycle graph. Absent statuses are
// terminal.
var allowedTransitions = map[string][]string{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// IsValidStatus reports whether the value names a known booking status.
func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}

	return false
}

// CanTransition reports whether a booking in `from` may move to `to`.
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}

	return false
}

// IsTerminal reports whether the status admits no further transitions.
func IsTerminal(status string) bool {
	return len(allowedTransitions[status]) == 0
}
