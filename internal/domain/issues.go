package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Issues is the append-only issue repository.
//
// IDs come from a counter that only moves forward, independent of where an
// issue sits in the slice, so ids are never reused or compacted.
type Issues struct {
	items  []Issue // Ordered by ID ascending (insertion order)
	nextID int     // ID assigned to the next created issue
}

// NewIssues creates an empty repository. The first issue gets ID 1.
func NewIssues() *Issues {
	return &Issues{nextID: 1}
}

// RestoreIssues rebuilds a repository from persisted issues and counter.
// Issues must have strictly increasing positive IDs below nextID, and every
// parent must name an earlier issue.
func RestoreIssues(items []Issue, nextID int) (*Issues, error) {
	seen := make(map[int]bool, len(items))
	last := 0
	for i := range items {
		issue := &items[i]
		if issue.ID <= last {
			return nil, fmt.Errorf("issue id %d is not greater than %d", issue.ID, last)
		}
		if strings.TrimSpace(issue.Name) == "" {
			return nil, fmt.Errorf("issue #%d: %w", issue.ID, ErrEmptyName)
		}
		if err := issue.validateText(); err != nil {
			return nil, fmt.Errorf("issue #%d: %w", issue.ID, err)
		}
		if !issue.Status.IsValid() {
			return nil, fmt.Errorf("issue #%d: unknown status %q", issue.ID, issue.Status)
		}
		if issue.ParentID != nil && !seen[*issue.ParentID] {
			return nil, fmt.Errorf("issue #%d: parent #%d does not precede it", issue.ID, *issue.ParentID)
		}
		seen[issue.ID] = true
		last = issue.ID
	}
	if nextID <= last {
		return nil, fmt.Errorf("next id %d must be greater than %d", nextID, last)
	}

	restored := &Issues{items: make([]Issue, 0, len(items)), nextID: nextID}
	for _, issue := range items {
		restored.items = append(restored.items, issue.clone())
	}
	return restored, nil
}

// Create appends a new open issue and returns its ID.
func (r *Issues) Create(name string, creator User, labels []string, at time.Time) (int, error) {
	if strings.TrimSpace(name) == "" {
		return 0, ErrEmptyName
	}
	if err := validateText(append([]string{name}, labels...)...); err != nil {
		return 0, err
	}
	if err := creator.validate(); err != nil {
		return 0, err
	}
	return r.append(Issue{
		Name:      name,
		Creator:   creator,
		Labels:    append(make([]string, 0, len(labels)), labels...),
		Comments:  []Comment{},
		CreatedAt: at,
		Status:    StatusOpen,
	}), nil
}

// AddComment appends a comment to the issue.
func (r *Issues) AddComment(id int, text string, author User, at time.Time) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyComment
	}
	if err := validateText(text); err != nil {
		return err
	}
	if err := author.validate(); err != nil {
		return err
	}
	issue, err := r.find(id)
	if err != nil {
		return err
	}
	issue.Comments = append(issue.Comments, NewComment(text, author, at))
	return nil
}

// CloseAsCompleted sets the status to closed_completed from any state.
func (r *Issues) CloseAsCompleted(id int) error {
	return r.setStatus(id, StatusClosedCompleted)
}

// CloseAsNotPlanned sets the status to closed_not_planned from any state.
func (r *Issues) CloseAsNotPlanned(id int) error {
	return r.setStatus(id, StatusClosedNotPlanned)
}

// Reopen sets the status back to open. Forked issues may be reopened too;
// the child keeps its parent reference.
func (r *Issues) Reopen(id int) error {
	return r.setStatus(id, StatusOpen)
}

// Fork creates a child of the issue and marks the source closed_forked.
// The child copies name and labels, is created by actor and records id as
// its parent. Returns the child's ID.
func (r *Issues) Fork(id int, actor User, at time.Time) (int, error) {
	if err := actor.validate(); err != nil {
		return 0, err
	}
	source, err := r.find(id)
	if err != nil {
		return 0, err
	}
	parentID := source.ID
	child := Issue{
		Name:      source.Name,
		Creator:   actor,
		Labels:    append(make([]string, 0, len(source.Labels)), source.Labels...),
		Comments:  []Comment{},
		CreatedAt: at,
		Status:    StatusOpen,
		ParentID:  &parentID,
	}
	source.Status = StatusClosedForked
	// append may reallocate items, so source is not used after this point.
	return r.append(child), nil
}

// Get returns a copy of the issue with the given ID.
func (r *Issues) Get(id int) (Issue, bool) {
	issue, err := r.find(id)
	if err != nil {
		return Issue{}, false
	}
	return issue.clone(), true
}

// List returns the issues matching filter whose name contains query
// (case-insensitive), newest first.
func (r *Issues) List(filter FilterStatus, query string) []Issue {
	var out []Issue
	for i := len(r.items) - 1; i >= 0; i-- {
		issue := &r.items[i]
		if !filter.Matches(issue.Status) || !issue.matchesQuery(query) {
			continue
		}
		out = append(out, issue.clone())
	}
	return out
}

// All returns every issue in insertion order.
func (r *Issues) All() []Issue {
	out := make([]Issue, 0, len(r.items))
	for _, issue := range r.items {
		out = append(out, issue.clone())
	}
	return out
}

// Children returns the issues forked directly from parentID.
func (r *Issues) Children(parentID int) []Issue {
	var out []Issue
	for _, issue := range r.items {
		if issue.ParentID != nil && *issue.ParentID == parentID {
			out = append(out, issue.clone())
		}
	}
	return out
}

// Len returns the number of issues.
func (r *Issues) Len() int {
	return len(r.items)
}

// NextID returns the ID the next created issue will receive.
func (r *Issues) NextID() int {
	return r.nextID
}

func (r *Issues) append(issue Issue) int {
	issue.ID = r.nextID
	r.nextID++
	r.items = append(r.items, issue)
	return issue.ID
}

func (r *Issues) setStatus(id int, status Status) error {
	issue, err := r.find(id)
	if err != nil {
		return err
	}
	issue.Status = status
	return nil
}

func (r *Issues) find(id int) (*Issue, error) {
	idx, ok := slices.BinarySearchFunc(r.items, id, func(issue Issue, target int) int {
		return issue.ID - target
	})
	if !ok {
		return nil, ErrIssueNotFound
	}
	return &r.items[idx], nil
}

func (r *Issues) clone() *Issues {
	return &Issues{items: r.All(), nextID: r.nextID}
}
