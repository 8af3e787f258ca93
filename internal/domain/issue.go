// Package domain contains core business entities and interfaces.
package domain

import (
	"strings"
	"time"
)

// Issue represents a trackable unit of work.
// Fields are ordered to minimize memory padding.
type Issue struct {
	CreatedAt time.Time // Creation time (immutable)
	ParentID  *int      // Issue this one was forked from (nil = root issue)
	Creator   User      // Creator, copied by value
	Name      string    // Display name (required)
	Status    Status    // Current status
	Labels    []string  // Labels in insertion order, duplicates allowed
	Comments  []Comment // Comment thread, append-only
	ID        int       // Issue ID, assigned once by Issues
}

// Comment represents a note attached to an issue.
// Fields are ordered to minimize memory padding.
type Comment struct {
	Date   time.Time // Creation time
	Author User      // Author, copied by value
	Text   string    // Comment text
}

// NewComment creates a comment authored by author at the given time.
func NewComment(text string, author User, at time.Time) Comment {
	return Comment{Text: text, Author: author, Date: at}
}

// IsRoot returns true if this issue was not forked from another one.
func (i *Issue) IsRoot() bool {
	return i.ParentID == nil
}

// Description returns the first comment's text, which mirrors the issue description.
func (i *Issue) Description() string {
	if len(i.Comments) == 0 {
		return ""
	}
	return i.Comments[0].Text
}

// HasLabel returns true if the issue carries the label (case-sensitive).
func (i *Issue) HasLabel(label string) bool {
	for _, l := range i.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// matchesQuery reports whether the name contains query, ignoring case.
// An empty query matches everything.
func (i *Issue) matchesQuery(query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(i.Name), strings.ToLower(query))
}

// validateText rejects stored text that is not valid UTF-8.
func (i *Issue) validateText() error {
	if err := validateText(append([]string{i.Name}, i.Labels...)...); err != nil {
		return err
	}
	if err := i.Creator.validate(); err != nil {
		return err
	}
	for _, c := range i.Comments {
		if err := validateText(c.Text); err != nil {
			return err
		}
		if err := c.Author.validate(); err != nil {
			return err
		}
	}
	return nil
}

// clone returns a deep copy so callers never share slices with the repository.
func (i Issue) clone() Issue {
	out := i
	if i.ParentID != nil {
		parent := *i.ParentID
		out.ParentID = &parent
	}
	out.Labels = append(make([]string, 0, len(i.Labels)), i.Labels...)
	out.Comments = append(make([]Comment, 0, len(i.Comments)), i.Comments...)
	return out
}
