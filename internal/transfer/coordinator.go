// Package transfer runs snapshot import and export on worker goroutines and
// hands imported states back to the presenter loop through a single slot.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/coyuki/ramifi/internal/domain"
	"github.com/coyuki/ramifi/internal/handoff"
	"github.com/coyuki/ramifi/internal/infra/dialog"
	"github.com/coyuki/ramifi/internal/snapshot"
)

// Coordinator starts import/export workers.
//
// Workers never see the live state: an import builds a brand-new state and
// deposits it in the slot; an export works on a clone taken by the caller's
// goroutine. The presenter polls once per frame and swaps the state in whole.
// Fields are ordered to minimize memory padding.
type Coordinator struct {
	picker     domain.FilePicker
	logger     domain.Logger
	imports    handoff.Slot[*domain.State]
	failures   handoff.Slot[error]
	exports    handoff.Slot[string]
	exportName string
	wg         sync.WaitGroup
}

// New creates a Coordinator that asks picker for paths.
// exportName is the suggested export file name (empty = default).
func New(picker domain.FilePicker, logger domain.Logger, exportName string) *Coordinator {
	if exportName == "" {
		exportName = domain.DefaultExportFileName
	}
	return &Coordinator{
		picker:     picker,
		logger:     logger,
		exportName: exportName,
	}
}

// RequestImport starts a worker that asks for a file, reads and decodes it,
// and deposits the result. The call returns immediately.
func (c *Coordinator) RequestImport(ctx context.Context) {
	c.startImport(ctx, c.picker)
}

// RequestImportPath is RequestImport with the file already chosen.
func (c *Coordinator) RequestImportPath(ctx context.Context, path string) {
	c.startImport(ctx, dialog.Static{OpenPath: path})
}

// Poll returns the imported state if one is pending, removing it from the slot.
// It never blocks.
func (c *Coordinator) Poll() (*domain.State, bool) {
	return c.imports.Take()
}

// PollFailure returns and clears the most recent worker failure, or nil.
// Cancelled prompts are not failures and never show up here.
func (c *Coordinator) PollFailure() error {
	err, _ := c.failures.Take()
	return err
}

// PollExported returns and clears the path of the most recent finished export.
func (c *Coordinator) PollExported() (string, bool) {
	return c.exports.Take()
}

// RequestExport starts a worker that asks for a destination (suggesting
// hint, or the configured export name when hint is empty) and writes the
// snapshot there. state is cloned before the call returns, so the caller
// may keep mutating it.
func (c *Coordinator) RequestExport(ctx context.Context, state *domain.State, hint string) {
	c.startExport(ctx, c.picker, state, hint)
}

// RequestExportPath is RequestExport with the destination already chosen.
func (c *Coordinator) RequestExportPath(ctx context.Context, state *domain.State, path string) {
	c.startExport(ctx, dialog.Static{SavePath: path}, state, filepath.Base(path))
}

// Wait blocks until every started worker has finished.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

func (c *Coordinator) startImport(ctx context.Context, picker domain.FilePicker) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		state, err := importState(ctx, picker)
		if err != nil {
			c.fail("import", err)
			return
		}
		if replaced := c.imports.Put(state); replaced {
			c.log(func(l domain.Logger) { l.Warn(0, "import", "pending import replaced before it was applied") })
		}
		c.log(func(l domain.Logger) {
			l.Info(0, "import", fmt.Sprintf("snapshot ready: %d issues, %d users", state.Issues.Len(), state.Users.Len()))
		})
	}()
}

func (c *Coordinator) startExport(ctx context.Context, picker domain.FilePicker, state *domain.State, hint string) {
	if hint == "" {
		hint = c.exportName
	}
	snap := state.Clone()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		path, err := exportState(ctx, picker, snap, hint)
		if err != nil {
			c.fail("export", err)
			return
		}
		c.exports.Put(path)
		c.log(func(l domain.Logger) { l.Info(0, "export", "wrote "+path) })
	}()
}

func importState(ctx context.Context, picker domain.FilePicker) (*domain.State, error) {
	path, err := picker.PickOpen(ctx)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	state, err := snapshot.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return state, nil
}

func exportState(ctx context.Context, picker domain.FilePicker, state *domain.State, hint string) (string, error) {
	path, err := picker.PickSave(ctx, hint)
	if err != nil {
		return "", err
	}
	data, err := snapshot.Encode(state, snapshot.FormatForPath(path))
	if err != nil {
		return "", err
	}
	if err := WriteFileAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// fail records a worker error. Cancellation is absorbed silently.
func (c *Coordinator) fail(category string, err error) {
	if errors.Is(err, domain.ErrCancelled) {
		c.log(func(l domain.Logger) { l.Debug(0, category, "cancelled") })
		return
	}
	c.failures.Put(fmt.Errorf("%s: %w", category, err))
	c.log(func(l domain.Logger) { l.Error(0, category, err.Error()) })
}

func (c *Coordinator) log(fn func(domain.Logger)) {
	if c.logger != nil {
		fn(c.logger)
	}
}

// WriteFileAtomic writes data to a temp file next to path, then renames it
// into place, so readers never observe a partial snapshot. Every call gets
// its own temp file; concurrent writers to one path each publish a whole file.
func WriteFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
