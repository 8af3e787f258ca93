package usecase

import (
	"context"
	"fmt"

	"github.com/coyuki/ramifi/internal/domain"
)

// ImportSnapshotInput contains the parameters for importing a snapshot.
type ImportSnapshotInput struct {
	Path string // Snapshot file (empty = ask with the file picker)
}

// ImportSnapshotOutput describes the state now in effect.
type ImportSnapshotOutput struct {
	CurrentUser domain.User
	Issues      int
	Users       int
}

// ImportSnapshot replaces the saved state with a snapshot file.
type ImportSnapshot struct {
	repo      *Repo
	transfers Transfers
	logger    domain.Logger
}

// NewImportSnapshot creates a new ImportSnapshot use case.
func NewImportSnapshot(repo *Repo, transfers Transfers, logger domain.Logger) *ImportSnapshot {
	return &ImportSnapshot{
		repo:      repo,
		transfers: transfers,
		logger:    logger,
	}
}

// Execute reads the snapshot on a worker, waits for it and saves it in place
// of the current state. Nothing is saved if the file is rejected.
// Results left by earlier requests on the same Transfers are discarded first.
// Returns domain.ErrCancelled if the picker was dismissed.
func (uc *ImportSnapshot) Execute(ctx context.Context, in ImportSnapshotInput) (*ImportSnapshotOutput, error) {
	drainTransfers(uc.transfers)
	if in.Path == "" {
		uc.transfers.RequestImport(ctx)
	} else {
		uc.transfers.RequestImportPath(ctx, in.Path)
	}
	uc.transfers.Wait()

	state, ok := uc.transfers.Poll()
	if !ok {
		if err := uc.transfers.PollFailure(); err != nil {
			return nil, err
		}
		return nil, domain.ErrCancelled
	}

	if err := uc.repo.Save(state); err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(0, "import", fmt.Sprintf("replaced state: %d issues", state.Issues.Len()))
	}
	return &ImportSnapshotOutput{
		Issues:      state.Issues.Len(),
		Users:       state.Users.Len(),
		CurrentUser: state.CurrentUser,
	}, nil
}
