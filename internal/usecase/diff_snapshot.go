package usecase

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/coyuki/ramifi/internal/snapshot"
)

// DiffSnapshotInput contains the parameters for comparing with a snapshot file.
type DiffSnapshotInput struct {
	Path string
}

// DiffLine is one line of a line diff.
type DiffLine struct {
	Text string
	Op   DiffOp
}

// DiffOp tells whether a line is shared, only saved, or only in the file.
type DiffOp int

const (
	DiffEqual  DiffOp = iota // In both
	DiffDelete               // Only in the saved state
	DiffInsert               // Only in the file
)

// DiffSnapshotOutput contains the line diff from the saved state to the file.
type DiffSnapshotOutput struct {
	Lines   []DiffLine
	Changed bool
}

// DiffSnapshot compares the saved state with a snapshot file.
// Both sides are normalized to the JSON encoding first, so a YAML file with
// the same content shows no changes.
type DiffSnapshot struct {
	repo *Repo
}

// NewDiffSnapshot creates a new DiffSnapshot use case.
func NewDiffSnapshot(repo *Repo) *DiffSnapshot {
	return &DiffSnapshot{repo: repo}
}

// Execute returns the line diff. A file that is not a valid snapshot is an
// error wrapping domain.ErrFormat.
func (uc *DiffSnapshot) Execute(_ context.Context, in DiffSnapshotInput) (*DiffSnapshotOutput, error) {
	live, err := uc.repo.Load()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(in.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", in.Path, err)
	}
	other, err := snapshot.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", in.Path, err)
	}

	before, err := snapshot.Encode(live, snapshot.FormatJSON)
	if err != nil {
		return nil, err
	}
	after, err := snapshot.Encode(other, snapshot.FormatJSON)
	if err != nil {
		return nil, err
	}

	lines := lineDiff(string(before), string(after))
	out := &DiffSnapshotOutput{Lines: lines}
	for _, l := range lines {
		if l.Op != DiffEqual {
			out.Changed = true
			break
		}
	}
	return out, nil
}

// lineDiff diffs a and b line by line.
func lineDiff(a, b string) []DiffLine {
	dmp := diffmatchpatch.New()
	charsA, charsB, lineArray := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(charsA, charsB, false), lineArray)

	var out []DiffLine
	for _, d := range diffs {
		op := DiffEqual
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = DiffDelete
		case diffmatchpatch.DiffInsert:
			op = DiffInsert
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out = append(out, DiffLine{Op: op, Text: strings.TrimSuffix(line, "\n")})
		}
	}
	return out
}
