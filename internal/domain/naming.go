package domain

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// IssueRef returns the display reference for an issue, e.g. "#3".
func IssueRef(id int) string {
	return "#" + strconv.Itoa(id)
}

// issueRefPattern matches "3" or "#3".
var issueRefPattern = regexp.MustCompile(`^#?(\d+)$`)

// ParseIssueRef extracts the issue ID from "3" or "#3".
// Returns the ID and true on success, or 0 and false if s is not a reference.
func ParseIssueRef(s string) (int, bool) {
	matches := issueRefPattern.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		return 0, false
	}
	id, err := strconv.Atoi(matches[1])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// IssueLogPath returns the path to the issue log file.
func IssueLogPath(dataDir string, issueID int) string {
	return filepath.Join(dataDir, "logs", fmt.Sprintf("issue-%d.log", issueID))
}

// storageKeyPattern restricts storage keys to names that are valid both as
// file name stems and as git ref components.
var storageKeyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// IsValidStorageKey reports whether key can name a saved state.
func IsValidStorageKey(key string) bool {
	return storageKeyPattern.MatchString(key)
}

// StateRefName returns the git ref holding the saved state for key.
func StateRefName(key string) string {
	return "refs/" + AppDirName + "/" + key
}
