package domain

// Status represents the lifecycle state of an issue.
type Status string

const (
	StatusOpen             Status = "open"               // Created, not resolved
	StatusClosedCompleted  Status = "closed_completed"   // Closed as completed
	StatusClosedNotPlanned Status = "closed_not_planned" // Closed as not planned
	StatusClosedForked     Status = "closed_forked"      // Closed because a fork replaced it
)

// AllStatuses returns all valid status values.
func AllStatuses() []Status {
	return []Status{
		StatusOpen,
		StatusClosedCompleted,
		StatusClosedNotPlanned,
		StatusClosedForked,
	}
}

// IsClosed returns true for every status except open.
func (s Status) IsClosed() bool {
	switch s {
	case StatusClosedCompleted, StatusClosedNotPlanned, StatusClosedForked:
		return true
	case StatusOpen:
		return false
	}
	return false
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s {
	case StatusOpen:
		return "Open"
	case StatusClosedCompleted:
		return "Completed"
	case StatusClosedNotPlanned:
		return "Not Planned"
	case StatusClosedForked:
		return "Forked"
	default:
		return string(s)
	}
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusClosedCompleted, StatusClosedNotPlanned, StatusClosedForked:
		return true
	default:
		return false
	}
}
