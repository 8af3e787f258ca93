package snapshot

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coyuki/ramifi/internal/domain"
)

var (
	t0    = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	alice = domain.NewUser("alice", "alice@example.com")
	bob   = domain.NewUser("bob", "")
)

// richState builds a state touching every field: forks (including of the
// first issue), every status, duplicate labels, multi-line and ordered comments.
func richState(t *testing.T) *domain.State {
	t.Helper()
	s, err := domain.DefaultState(alice, t0)
	require.NoError(t, err)
	require.NoError(t, s.Users.Add(bob))
	require.NoError(t, s.SwitchUser("bob"))

	id, err := s.Issues.Create("Labels", bob, []string{"b", "a", "b"}, t0.Add(time.Second))
	require.NoError(t, err)
	require.NoError(t, s.Issues.AddComment(id, "one", bob, t0.Add(2*time.Second)))
	require.NoError(t, s.Issues.AddComment(id, "two\nlines", alice, t0.Add(3*time.Second)))
	require.NoError(t, s.Issues.AddComment(id, "three", bob, t0.Add(4*time.Second)))

	_, err = s.Issues.Fork(1, bob, t0.Add(5*time.Second))
	require.NoError(t, err)
	require.NoError(t, s.Issues.CloseAsCompleted(2))
	require.NoError(t, s.Issues.CloseAsNotPlanned(3))
	s.Filter = domain.FilterNotPlanned
	return s
}

// stateView flattens a state into exported values for comparison.
type stateView struct {
	Issues      []domain.Issue
	Users       []domain.User
	CurrentUser domain.User
	Filter      domain.FilterStatus
	NextID      int
}

func view(s *domain.State) stateView {
	return stateView{
		Issues:      s.Issues.All(),
		NextID:      s.Issues.NextID(),
		Users:       s.Users.List(),
		CurrentUser: s.CurrentUser,
		Filter:      s.Filter,
	}
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			want := richState(t)

			data, err := Encode(want, format)
			require.NoError(t, err)
			got, err := Decode(data)
			require.NoError(t, err)

			if diff := cmp.Diff(view(want), view(got)); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRoundTrip_EmptyState(t *testing.T) {
	want, err := domain.NewState(alice)
	require.NoError(t, err)

	data, err := Encode(want, FormatJSON)
	require.NoError(t, err)
	got, err := Decode(data)
	require.NoError(t, err)

	if diff := cmp.Diff(view(want), view(got)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTrip_NonUTCTimestamps(t *testing.T) {
	zone := time.FixedZone("JST", 9*60*60)
	s, err := domain.NewState(alice)
	require.NoError(t, err)
	_, err = s.Issues.Create("zoned", alice, nil, time.Date(2025, 5, 5, 12, 0, 0, 123456789, zone))
	require.NoError(t, err)

	data, err := Encode(s, FormatJSON)
	require.NoError(t, err)
	got, err := Decode(data)
	require.NoError(t, err)

	// cmp compares time.Time with Equal, so the instant must survive exactly.
	if diff := cmp.Diff(view(s), view(got)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTrip_ContinuesIDCounter(t *testing.T) {
	s := richState(t)
	next := s.Issues.NextID()

	data, err := Encode(s, FormatYAML)
	require.NoError(t, err)
	got, err := Decode(data)
	require.NoError(t, err)

	id, err := got.Issues.Create("after import", alice, nil, t0)
	require.NoError(t, err)
	assert.Equal(t, next, id)
}

func TestEncode_JSONIsFieldNamed(t *testing.T) {
	data, err := Encode(richState(t), FormatJSON)
	require.NoError(t, err)

	text := string(data)
	for _, key := range []string{`"schema": "ramifi.snapshot/v1"`, `"nextID"`, `"parentID": null`, `"parentID": 1`, `"currentUser"`, `"filter": "not_planned"`, `"status": "closed_forked"`} {
		assert.Contains(t, text, key)
	}
}

func TestEncode_UnknownFormat(t *testing.T) {
	_, err := Encode(richState(t), Format("xml"))
	assert.Error(t, err)
}

func TestDecode_Malformed(t *testing.T) {
	valid, err := Encode(richState(t), FormatJSON)
	require.NoError(t, err)
	validText := string(valid)

	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"whitespace", "  \n"},
		{"truncated json", validText[:len(validText)/2]},
		{"not a document", "just some text"},
		{"json array", "[1, 2, 3]"},
		{"wrong schema", strings.Replace(validText, Schema, "ramifi.snapshot/v0", 1)},
		{"missing schema", `{"issues": {"nextID": 1, "items": []}, "users": [{"name": "a", "email": ""}], "currentUser": {"name": "a", "email": ""}, "filter": "open"}`},
		{"unknown field", strings.Replace(validText, `"schema"`, `"extra": 1, "schema"`, 1)},
		{"bad status", strings.Replace(validText, `"closed_forked"`, `"closed"`, 1)},
		{"bad filter", strings.Replace(validText, `"filter": "not_planned"`, `"filter": "NotPlanned"`, 1)},
		{"trailing data", validText + "{}"},
		{"foreign yaml", "issues:\n  - title: x\n"},
		{"duplicate users", `{"schema": "ramifi.snapshot/v1", "issues": {"nextID": 1, "items": []}, "users": [{"name": "a", "email": ""}, {"name": "a", "email": ""}], "currentUser": {"name": "a", "email": ""}, "filter": "open"}`},
		{"dangling parent", `{"schema": "ramifi.snapshot/v1", "issues": {"nextID": 3, "items": [{"id": 2, "name": "x", "status": "open", "creator": {"name": "a", "email": ""}, "labels": [], "comments": [], "createdAt": "2025-01-01T00:00:00Z", "parentID": 1}]}, "users": [{"name": "a", "email": ""}], "currentUser": {"name": "a", "email": ""}, "filter": "open"}`},
		{"current user missing", `{"schema": "ramifi.snapshot/v1", "issues": {"nextID": 1, "items": []}, "users": [], "currentUser": {"name": "", "email": ""}, "filter": "open"}`},
		{"current user unknown", `{"schema": "ramifi.snapshot/v1", "issues": {"nextID": 1, "items": []}, "users": [{"name": "a", "email": ""}], "currentUser": {"name": "carol", "email": ""}, "filter": "open"}`},
		{"current user email differs", `{"schema": "ramifi.snapshot/v1", "issues": {"nextID": 1, "items": []}, "users": [{"name": "a", "email": ""}], "currentUser": {"name": "a", "email": "other@example.com"}, "filter": "open"}`},
		{"counter behind ids", `{"schema": "ramifi.snapshot/v1", "issues": {"nextID": 2, "items": [{"id": 2, "name": "x", "status": "open", "creator": {"name": "a", "email": ""}, "labels": [], "comments": [], "createdAt": "2025-01-01T00:00:00Z", "parentID": null}]}, "users": [{"name": "a", "email": ""}], "currentUser": {"name": "a", "email": ""}, "filter": "open"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.data))
			assert.ErrorIs(t, err, domain.ErrFormat)
			assert.Nil(t, got)
		})
	}
}

func TestEncode_JSONRejectedTextNeverReachesState(t *testing.T) {
	// Bytes that encoding/json would rewrite as U+FFFD cannot enter the state,
	// so every reachable state survives the JSON round trip unchanged.
	s := richState(t)
	_, err := s.Issues.Create("bad\xffname", alice, []string{"l\xfe"}, t0)
	require.ErrorIs(t, err, domain.ErrInvalidText)
	require.ErrorIs(t, s.Issues.AddComment(1, "\xff", alice, t0), domain.ErrInvalidText)
	require.ErrorIs(t, s.Users.Add(domain.NewUser("c\xffrol", "")), domain.ErrInvalidText)

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Encode(s, format)
			require.NoError(t, err)
			got, err := Decode(data)
			require.NoError(t, err)

			if diff := cmp.Diff(view(s), view(got)); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_CurrentUserComesFromUsers(t *testing.T) {
	data := `{"schema": "ramifi.snapshot/v1", "issues": {"nextID": 1, "items": []}, "users": [{"name": "a", "email": "a@example.com"}, {"name": "b", "email": ""}], "currentUser": {"name": "b", "email": ""}, "filter": "open"}`

	got, err := Decode([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, domain.NewUser("b", ""), got.CurrentUser)
	assert.Equal(t, 2, got.Users.Len())
}

func TestDecode_MissingLabelsBecomeEmpty(t *testing.T) {
	data := `{"schema": "ramifi.snapshot/v1", "issues": {"nextID": 2, "items": [{"id": 1, "name": "x", "status": "open", "creator": {"name": "a", "email": ""}, "createdAt": "2025-01-01T00:00:00Z", "parentID": null}]}, "users": [{"name": "a", "email": ""}], "currentUser": {"name": "a", "email": ""}, "filter": "all"}`

	got, err := Decode([]byte(data))
	require.NoError(t, err)

	issue, ok := got.Issues.Get(1)
	require.True(t, ok)
	assert.NotNil(t, issue.Labels)
	assert.Empty(t, issue.Labels)
	assert.True(t, issue.IsRoot())
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatForPath("backup.yaml"))
	assert.Equal(t, FormatYAML, FormatForPath("BACKUP.YML"))
	assert.Equal(t, FormatJSON, FormatForPath("ramifi_export.json"))
	assert.Equal(t, FormatJSON, FormatForPath("noext"))
}
