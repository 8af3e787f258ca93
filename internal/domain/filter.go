package domain

// FilterStatus selects which issues a listing shows.
type FilterStatus string

const (
	FilterOpen       FilterStatus = "open"
	FilterCompleted  FilterStatus = "completed"
	FilterNotPlanned FilterStatus = "not_planned"
	FilterAll        FilterStatus = "all"
)

// AllFilters returns the filters in display order.
func AllFilters() []FilterStatus {
	return []FilterStatus{FilterOpen, FilterCompleted, FilterNotPlanned, FilterAll}
}

// Matches reports whether an issue in status s is shown under the filter.
// Forked issues count as resolved, so they appear under completed.
func (f FilterStatus) Matches(s Status) bool {
	switch f {
	case FilterOpen:
		return s == StatusOpen
	case FilterCompleted:
		return s == StatusClosedCompleted || s == StatusClosedForked
	case FilterNotPlanned:
		return s == StatusClosedNotPlanned
	case FilterAll:
		return true
	}
	return false
}

// IsValid returns true if the filter is a known value.
func (f FilterStatus) IsValid() bool {
	switch f {
	case FilterOpen, FilterCompleted, FilterNotPlanned, FilterAll:
		return true
	}
	return false
}

// Display returns the tab label for the filter.
func (f FilterStatus) Display() string {
	switch f {
	case FilterOpen:
		return "Open"
	case FilterCompleted:
		return "Completed"
	case FilterNotPlanned:
		return "Not Planned"
	case FilterAll:
		return "All"
	default:
		return string(f)
	}
}

// Next returns the filter after f in display order, wrapping around.
func (f FilterStatus) Next() FilterStatus {
	all := AllFilters()
	for i, v := range all {
		if v == f {
			return all[(i+1)%len(all)]
		}
	}
	return FilterOpen
}

// ParseFilter converts user input into a FilterStatus.
func ParseFilter(s string) (FilterStatus, error) {
	switch s {
	case "open":
		return FilterOpen, nil
	case "completed", "done":
		return FilterCompleted, nil
	case "not_planned", "not-planned", "notplanned":
		return FilterNotPlanned, nil
	case "all":
		return FilterAll, nil
	}
	return "", ErrInvalidFilter
}
