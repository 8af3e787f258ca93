package usecase

import (
	"context"

	"github.com/coyuki/ramifi/internal/domain"
)

// Transfers runs snapshot import and export off the caller's goroutine.
// It is implemented by *transfer.Coordinator.
type Transfers interface {
	RequestImport(ctx context.Context)
	RequestImportPath(ctx context.Context, path string)
	RequestExport(ctx context.Context, state *domain.State, hint string)
	RequestExportPath(ctx context.Context, state *domain.State, path string)
	Poll() (*domain.State, bool)
	PollFailure() error
	PollExported() (string, bool)
	Wait()
}

// drainTransfers waits for earlier workers and discards whatever they left in
// the slots, so the next Poll/PollFailure/PollExported reports only the
// request that follows.
func drainTransfers(t Transfers) {
	t.Wait()
	_, _ = t.Poll()
	_ = t.PollFailure()
	_, _ = t.PollExported()
}
