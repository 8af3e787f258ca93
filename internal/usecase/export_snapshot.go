package usecase

import (
	"context"

	"github.com/coyuki/ramifi/internal/domain"
)

// ExportSnapshotInput contains the parameters for exporting a snapshot.
type ExportSnapshotInput struct {
	Path string // Destination (empty = ask with the file picker)
}

// ExportSnapshotOutput contains the written path.
type ExportSnapshotOutput struct {
	Path string
}

// ExportSnapshot writes the saved state to a snapshot file.
type ExportSnapshot struct {
	repo      *Repo
	transfers Transfers
}

// NewExportSnapshot creates a new ExportSnapshot use case.
func NewExportSnapshot(repo *Repo, transfers Transfers) *ExportSnapshot {
	return &ExportSnapshot{
		repo:      repo,
		transfers: transfers,
	}
}

// Execute writes the snapshot on a worker and waits for it.
// The format follows the extension: .yaml/.yml is YAML, anything else JSON.
// Results left by earlier requests on the same Transfers are discarded first.
// Returns domain.ErrCancelled if the picker was dismissed.
func (uc *ExportSnapshot) Execute(ctx context.Context, in ExportSnapshotInput) (*ExportSnapshotOutput, error) {
	state, err := uc.repo.Load()
	if err != nil {
		return nil, err
	}

	drainTransfers(uc.transfers)
	if in.Path == "" {
		uc.transfers.RequestExport(ctx, state, "")
	} else {
		uc.transfers.RequestExportPath(ctx, state, in.Path)
	}
	uc.transfers.Wait()

	if err := uc.transfers.PollFailure(); err != nil {
		return nil, err
	}
	path, ok := uc.transfers.PollExported()
	if !ok {
		return nil, domain.ErrCancelled
	}
	return &ExportSnapshotOutput{Path: path}, nil
}
