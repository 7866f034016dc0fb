package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/jmcdonald/folderup/internal/adapters/tuisvc"
	"github.com/jmcdonald/folderup/internal/config"
	"github.com/jmcdonald/folderup/internal/logging"
	"github.com/jmcdonald/folderup/internal/ports"
	"github.com/jmcdonald/folderup/internal/publish"
)

// defaultHubService wires the real adapters. Logs go to the configured file,
// or to logOut when none is set.
type defaultHubService struct {
	logOut    io.Writer
	userAgent string
}

func (d *defaultHubService) service(cfg *config.Config) (*tuisvc.Service, func()) {
	logger, closer, err := logging.New(cfg.Log, d.logOut)
	if err != nil {
		logger = slog.New(slog.NewTextHandler(d.logOut, nil))
		closer = io.NopCloser(nil)
	}
	svc := tuisvc.New(logger)
	if d.userAgent != "" {
		svc.UserAgent = d.userAgent
	}
	return svc, func() { _ = closer.Close() }
}

func (d *defaultHubService) Publish(ctx context.Context, cfg *config.Config, req publish.Request) publish.Result {
	svc, done := d.service(cfg)
	defer done()
	return svc.Publish(ctx, cfg, req)
}

func (d *defaultHubService) History(cfg *config.Config) ([]ports.TUIHistoryEntry, error) {
	svc, done := d.service(cfg)
	defer done()
	return svc.History(cfg)
}

func (d *defaultHubService) WhoAmI(ctx context.Context, cfg *config.Config, token string) (ports.Account, error) {
	svc, done := d.service(cfg)
	defer done()
	return svc.WhoAmI(ctx, cfg, token)
}

func (d *defaultHubService) Credentials(cfg *config.Config) (ports.CredentialStore, error) {
	svc, done := d.service(cfg)
	defer done()
	store, err := svc.Credentials(cfg)
	if err != nil {
		return nil, err
	}
	return store, nil
}
