// Package tuisvc provides the real implementation of ports.TUIService and
// the wiring the CLI shares with it.
package tuisvc

import (
	"context"
	"io"
	"log/slog"

	"github.com/jmcdonald/folderup/internal/adapters/hfhub"
	"github.com/jmcdonald/folderup/internal/adapters/osfs"
	"github.com/jmcdonald/folderup/internal/adapters/tokenfile"
	"github.com/jmcdonald/folderup/internal/adapters/ziparchiver"
	"github.com/jmcdonald/folderup/internal/config"
	"github.com/jmcdonald/folderup/internal/history"
	"github.com/jmcdonald/folderup/internal/ports"
	"github.com/jmcdonald/folderup/internal/publish"
)

// Service implements ports.TUIService using the real filesystem and hub.
type Service struct {
	Logger    *slog.Logger
	UserAgent string
}

// New creates a new TUI service. A nil logger discards output.
func New(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{Logger: logger, UserAgent: "folderup"}
}

// LoadConfig loads the application configuration.
func (s *Service) LoadConfig() (*config.Config, error) {
	return config.Load()
}

// Credentials returns the token store configured by cfg.
func (s *Service) Credentials(cfg *config.Config) (*tokenfile.Store, error) {
	path, err := config.ExpandPath(cfg.TokenPath)
	if err != nil {
		return nil, err
	}
	return tokenfile.New(path)
}

// Hub returns a hub client for cfg's endpoint.
func (s *Service) Hub(cfg *config.Config) *hfhub.Client {
	return hfhub.NewClient(
		hfhub.WithEndpoint(cfg.EndpointURL()),
		hfhub.WithTimeout(cfg.UploadTimeout),
		hfhub.WithLogger(s.Logger),
		hfhub.WithUserAgent(s.UserAgent),
	)
}

// Publisher assembles a Publisher from cfg. Errors are *publish.Error.
func (s *Service) Publisher(cfg *config.Config) (*publish.Publisher, error) {
	creds, err := s.Credentials(cfg)
	if err != nil {
		return nil, &publish.Error{Kind: publish.KindCredential, Op: "locating token", Err: err}
	}
	workDir, err := config.ExpandPath(cfg.WorkDir)
	if err != nil {
		return nil, &publish.Error{Kind: publish.KindArchive, Op: "locating work directory", Err: err}
	}
	historyPath, err := config.HistoryPath()
	if err != nil {
		return nil, &publish.Error{Kind: publish.KindArchive, Op: "locating history", Err: err}
	}

	p := publish.New(ziparchiver.New(), osfs.New(), creds, s.Hub(cfg), publish.Options{
		WorkDir:     workDir,
		KeepArchive: cfg.KeepArchive,
		SaveToken:   cfg.SaveToken,
		Revision:    cfg.Revision,
		Archive: ports.ArchiveOptions{
			Exclude:  cfg.Exclude,
			Symlinks: ports.SymlinkPolicy(cfg.Symlinks),
		},
	})
	p.Logger = s.Logger
	p.Recorder = &history.FileRecorder{Path: historyPath, KeepLast: cfg.History.KeepLast}
	return p, nil
}

// Publish runs one archive-and-publish operation.
func (s *Service) Publish(ctx context.Context, cfg *config.Config, req publish.Request) publish.Result {
	p, err := s.Publisher(cfg)
	if err != nil {
		return publish.Result{Folder: req.Folder, RepoID: req.RepoID, Err: err}
	}
	return p.Publish(ctx, req)
}

// Upload performs the uploader tab's operation.
func (s *Service) Upload(cfg *config.Config, req ports.TUIUploadRequest) ports.TUIUploadResult {
	res := s.Publish(context.Background(), cfg, publish.Request{
		Folder: req.Folder,
		Token:  req.Token,
		RepoID: req.RepoID,
	})
	return ports.TUIUploadResult{
		Status:  res.Status(),
		Archive: res.Archive,
		RepoID:  res.RepoID,
		Size:    res.Size,
		Error:   res.Err,
	}
}

// History returns past uploads, newest first.
func (s *Service) History(cfg *config.Config) ([]ports.TUIHistoryEntry, error) {
	path, err := config.HistoryPath()
	if err != nil {
		return nil, err
	}
	l, err := history.Load(path)
	if err != nil {
		return nil, err
	}

	var result []ports.TUIHistoryEntry
	for _, e := range l.Newest() {
		result = append(result, ports.TUIHistoryEntry{
			Archive:    e.Archive,
			RepoID:     e.RepoID,
			Size:       e.SizeBytes,
			FileCount:  e.FileCount,
			CommitURL:  e.CommitURL,
			UploadedAt: e.UploadedAt,
		})
	}
	return result, nil
}

// WhoAmI returns the account owning token.
func (s *Service) WhoAmI(ctx context.Context, cfg *config.Config, token string) (ports.Account, error) {
	return s.Hub(cfg).WhoAmI(ctx, token)
}

// Compile-time checks.
var (
	_ ports.TUIService      = (*Service)(nil)
	_ ports.Hub             = (*hfhub.Client)(nil)
	_ ports.CredentialStore = (*tokenfile.Store)(nil)
)
