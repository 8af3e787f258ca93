// Package snapshot encodes and decodes the whole application state.
//
// A snapshot is a field-named, versioned document:
//
//	schema: ramifi.snapshot/v1
//	issues:
//	  nextID: 4
//	  items: [{id, name, status, creator, labels, comments, createdAt, parentID}]
//	users: [{name, email}]
//	currentUser: {name, email}
//	filter: open
//
// The same document is written as indented JSON (exports, file store) or
// YAML (git store). Decode accepts either.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/coyuki/ramifi/internal/domain"
)

// Schema identifies the snapshot layout. Documents with any other schema are rejected.
const Schema = "ramifi.snapshot/v1"

// Format selects the encoding of a snapshot.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the format from a file extension; anything that is not
// .yaml or .yml is JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// document is the wire representation of domain.State.
// Fields are ordered to minimize memory padding.
type document struct {
	CurrentUser userData   `json:"currentUser" yaml:"currentUser"`
	Schema      string     `json:"schema" yaml:"schema"`
	Filter      string     `json:"filter" yaml:"filter"`
	Users       []userData `json:"users" yaml:"users"`
	Issues      issuesData `json:"issues" yaml:"issues"`
}

type issuesData struct {
	Items  []issueData `json:"items" yaml:"items"`
	NextID int         `json:"nextID" yaml:"nextID"`
}

type issueData struct {
	CreatedAt time.Time     `json:"createdAt" yaml:"createdAt"`
	ParentID  *int          `json:"parentID" yaml:"parentID"` // null = root issue
	Creator   userData      `json:"creator" yaml:"creator"`
	Name      string        `json:"name" yaml:"name"`
	Status    string        `json:"status" yaml:"status"`
	Labels    []string      `json:"labels" yaml:"labels"`
	Comments  []commentData `json:"comments" yaml:"comments"`
	ID        int           `json:"id" yaml:"id"`
}

type commentData struct {
	Date   time.Time `json:"date" yaml:"date"`
	Author userData  `json:"author" yaml:"author"`
	Text   string    `json:"text" yaml:"text"`
}

type userData struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

// Encode serializes the full state.
func Encode(state *domain.State, format Format) ([]byte, error) {
	if state == nil {
		return nil, errors.New("encode snapshot: state is nil")
	}
	doc := fromState(state)

	switch format {
	case FormatJSON, "":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal snapshot: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("marshal snapshot: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("marshal snapshot: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown snapshot format %q", format)
	}
}

// Decode parses a JSON or YAML snapshot into a new state.
// Any problem yields an error wrapping domain.ErrFormat and a nil state;
// nothing outside the returned value is touched.
func Decode(data []byte) (*domain.State, error) {
	doc, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFormat, err)
	}
	state, err := doc.toState()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFormat, err)
	}
	return state, nil
}

func parse(data []byte) (*document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty snapshot")
	}

	var doc document
	if trimmed[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			return nil, errors.New("parse json: trailing data after snapshot")
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(trimmed))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	}

	if doc.Schema != Schema {
		return nil, fmt.Errorf("unsupported schema %q", doc.Schema)
	}
	return &doc, nil
}

func fromState(state *domain.State) document {
	all := state.Issues.All()
	items := make([]issueData, 0, len(all))
	for _, issue := range all {
		comments := make([]commentData, 0, len(issue.Comments))
		for _, c := range issue.Comments {
			comments = append(comments, commentData{
				Date:   c.Date,
				Author: fromUser(c.Author),
				Text:   c.Text,
			})
		}
		labels := issue.Labels
		if labels == nil {
			labels = []string{}
		}
		items = append(items, issueData{
			ID:        issue.ID,
			Name:      issue.Name,
			Status:    string(issue.Status),
			Creator:   fromUser(issue.Creator),
			Labels:    labels,
			Comments:  comments,
			CreatedAt: issue.CreatedAt,
			ParentID:  issue.ParentID,
		})
	}

	list := state.Users.List()
	users := make([]userData, 0, len(list))
	for _, u := range list {
		users = append(users, fromUser(u))
	}

	return document{
		Schema:      Schema,
		Issues:      issuesData{NextID: state.Issues.NextID(), Items: items},
		Users:       users,
		CurrentUser: fromUser(state.CurrentUser),
		Filter:      string(state.Filter),
	}
}

func (d *document) toState() (*domain.State, error) {
	filter := domain.FilterStatus(d.Filter)
	if !filter.IsValid() {
		return nil, fmt.Errorf("unknown filter %q", d.Filter)
	}

	items := make([]domain.Issue, 0, len(d.Issues.Items))
	for _, it := range d.Issues.Items {
		labels := it.Labels
		if labels == nil {
			labels = []string{}
		}
		comments := make([]domain.Comment, 0, len(it.Comments))
		for _, c := range it.Comments {
			comments = append(comments, domain.NewComment(c.Text, c.Author.toUser(), c.Date))
		}
		items = append(items, domain.Issue{
			ID:        it.ID,
			Name:      it.Name,
			Status:    domain.Status(it.Status),
			Creator:   it.Creator.toUser(),
			Labels:    labels,
			Comments:  comments,
			CreatedAt: it.CreatedAt,
			ParentID:  it.ParentID,
		})
	}
	issues, err := domain.RestoreIssues(items, d.Issues.NextID)
	if err != nil {
		return nil, err
	}

	list := make([]domain.User, 0, len(d.Users))
	for _, u := range d.Users {
		list = append(list, u.toUser())
	}
	users, err := domain.NewUsers(list...)
	if err != nil {
		return nil, fmt.Errorf("users: %w", err)
	}

	current, ok := users.Find(d.CurrentUser.Name)
	if !ok || current != d.CurrentUser.toUser() {
		return nil, fmt.Errorf("current user %q is not in users", d.CurrentUser.Name)
	}

	return &domain.State{
		Issues:      issues,
		Users:       users,
		CurrentUser: current,
		Filter:      filter,
	}, nil
}

func fromUser(u domain.User) userData {
	return userData{Name: u.Name, Email: u.Email}
}

func (u userData) toUser() domain.User {
	return domain.NewUser(u.Name, u.Email)
}
