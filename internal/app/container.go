// Package app provides the dependency injection container for the application.
package app

import (
	"errors"
	"io"
	"os"

	"github.com/coyuki/ramifi/internal/domain"
	"github.com/coyuki/ramifi/internal/infra/config"
	"github.com/coyuki/ramifi/internal/infra/dialog"
	"github.com/coyuki/ramifi/internal/infra/filestore"
	"github.com/coyuki/ramifi/internal/infra/gitstore"
	"github.com/coyuki/ramifi/internal/infra/logging"
	"github.com/coyuki/ramifi/internal/transfer"
	"github.com/coyuki/ramifi/internal/usecase"
)

// Paths holds the resolved locations the application works with.
type Paths struct {
	WorkDir string // Directory holding the local .ramifi.toml
	DataDir string // State, git repository and logs
}

// Options tweaks container construction.
type Options struct {
	LogMirror io.Writer // Receives a copy of every log entry (nil = none)
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
// Fields are ordered to minimize memory padding.
type Container struct {
	// Ports (interfaces bound to implementations)
	Store         domain.StateStore
	Clock         domain.Clock
	Picker        domain.FilePicker
	Logger        domain.Logger
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager

	// Pointer fields
	Transfers *transfer.Coordinator
	AppConfig *domain.Config

	closeLog func() error

	// Configuration
	Paths Paths
}

// New creates a Container for workDir: it loads configuration, then binds
// the configured store backend, logger and file picker.
func New(workDir string, opts Options) (*Container, error) {
	configLoader := config.NewLoader(workDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, err
	}

	paths := Paths{WorkDir: workDir, DataDir: appConfig.Store.Dir}
	if paths.DataDir == "" {
		paths.DataDir = domain.DefaultDataDir()
	}
	if paths.DataDir == "" {
		return nil, errors.New("cannot determine data directory: set [store] dir")
	}

	store, err := newStore(appConfig.Store, paths.DataDir)
	if err != nil {
		return nil, err
	}

	level, _ := logging.ParseLevel(appConfig.Log.Level)
	var logOpts []logging.Option
	if opts.LogMirror != nil {
		logOpts = append(logOpts, logging.WithMirror(opts.LogMirror))
	}
	logger := logging.New(paths.DataDir, level, logOpts...)

	picker := dialog.NewCommand(appConfig.Picker.Command)

	return &Container{
		Store:         store,
		Clock:         domain.RealClock{},
		Picker:        picker,
		Logger:        logger,
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(workDir),
		Transfers:     transfer.New(picker, logger, appConfig.Export.FileName),
		AppConfig:     appConfig,
		closeLog:      logger.Close,
		Paths:         paths,
	}, nil
}

// newStore binds the configured backend.
func newStore(cfg domain.StoreConfig, dataDir string) (domain.StateStore, error) {
	switch cfg.Backend {
	case domain.BackendFile, "":
		return filestore.New(domain.StateFilePath(dataDir, cfg.Key)), nil
	case domain.BackendGit:
		if err := os.MkdirAll(dataDir, 0o750); err != nil {
			return nil, err
		}
		return gitstore.Open(domain.GitStoreDir(dataDir), cfg.Key, cfg.EncryptionKey)
	default:
		return nil, domain.ErrUnknownBackend
	}
}

// Deps are the ports injected by NewWithDeps.
type Deps struct {
	Store         domain.StateStore
	Clock         domain.Clock
	Picker        domain.FilePicker
	Logger        domain.Logger
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	AppConfig     *domain.Config
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(paths Paths, deps Deps) *Container {
	cfg := deps.AppConfig
	if cfg == nil {
		cfg = domain.NewDefaultConfig()
	}
	return &Container{
		Store:         deps.Store,
		Clock:         deps.Clock,
		Picker:        deps.Picker,
		Logger:        deps.Logger,
		ConfigLoader:  deps.ConfigLoader,
		ConfigManager: deps.ConfigManager,
		Transfers:     transfer.New(deps.Picker, deps.Logger, cfg.Export.FileName),
		AppConfig:     cfg,
		Paths:         paths,
	}
}

// Close releases resources held by the container.
func (c *Container) Close() error {
	c.Transfers.Wait()
	if c.closeLog != nil {
		return c.closeLog()
	}
	return nil
}

// UseCase factory methods

// Repo returns the state repository shared by use cases.
func (c *Container) Repo() *usecase.Repo {
	return usecase.NewRepo(c.Store, c.Clock, c.AppConfig.DefaultUser())
}

// NewIssueUseCase returns a new NewIssue use case.
func (c *Container) NewIssueUseCase() *usecase.NewIssue {
	return usecase.NewNewIssue(c.Repo(), c.Logger)
}

// AddCommentUseCase returns a new AddComment use case.
func (c *Container) AddCommentUseCase() *usecase.AddComment {
	return usecase.NewAddComment(c.Repo(), c.Logger)
}

// CloseIssueUseCase returns a new CloseIssue use case.
func (c *Container) CloseIssueUseCase() *usecase.CloseIssue {
	return usecase.NewCloseIssue(c.Repo(), c.Logger)
}

// ReopenIssueUseCase returns a new ReopenIssue use case.
func (c *Container) ReopenIssueUseCase() *usecase.ReopenIssue {
	return usecase.NewReopenIssue(c.Repo(), c.Logger)
}

// ForkIssueUseCase returns a new ForkIssue use case.
func (c *Container) ForkIssueUseCase() *usecase.ForkIssue {
	return usecase.NewForkIssue(c.Repo(), c.Logger)
}

// ListIssuesUseCase returns a new ListIssues use case.
func (c *Container) ListIssuesUseCase() *usecase.ListIssues {
	return usecase.NewListIssues(c.Repo())
}

// ShowIssueUseCase returns a new ShowIssue use case.
func (c *Container) ShowIssueUseCase() *usecase.ShowIssue {
	return usecase.NewShowIssue(c.Repo())
}

// AddUserUseCase returns a new AddUser use case.
func (c *Container) AddUserUseCase() *usecase.AddUser {
	return usecase.NewAddUser(c.Repo(), c.Logger)
}

// ListUsersUseCase returns a new ListUsers use case.
func (c *Container) ListUsersUseCase() *usecase.ListUsers {
	return usecase.NewListUsers(c.Repo())
}

// SwitchUserUseCase returns a new SwitchUser use case.
func (c *Container) SwitchUserUseCase() *usecase.SwitchUser {
	return usecase.NewSwitchUser(c.Repo(), c.Logger)
}

// ImportSnapshotUseCase returns a new ImportSnapshot use case.
func (c *Container) ImportSnapshotUseCase() *usecase.ImportSnapshot {
	return usecase.NewImportSnapshot(c.Repo(), c.Transfers, c.Logger)
}

// ExportSnapshotUseCase returns a new ExportSnapshot use case.
func (c *Container) ExportSnapshotUseCase() *usecase.ExportSnapshot {
	return usecase.NewExportSnapshot(c.Repo(), c.Transfers)
}

// DiffSnapshotUseCase returns a new DiffSnapshot use case.
func (c *Container) DiffSnapshotUseCase() *usecase.DiffSnapshot {
	return usecase.NewDiffSnapshot(c.Repo())
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}
