package app

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"birdfeed/pkg/auth"
	"birdfeed/pkg/banner"
	"birdfeed/pkg/blob"
	"birdfeed/pkg/config"
	"birdfeed/pkg/social"
	"birdfeed/pkg/store"
)

// App encapsulates the server components and lifecycle.
type App struct {
	eff     config.Effective
	version string

	st  *store.Store
	svc *social.Services
}

// New opens the store and wires the services. It does not start the HTTP
// server; call Run to start it and block until shutdown.
func New(eff config.Effective, version string) (*App, error) {
	_ = godotenv.Load(".env")

	if err := validateConfig(eff); err != nil {
		return nil, err
	}

	st, err := store.Open(eff.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble at %s: %w", eff.DBPath, err)
	}

	var blobs blob.Store
	if dir := eff.Config.Storage.BlobDir; dir != "" {
		base := eff.Config.Storage.BlobBaseURL
		if base == "" {
			base = "/blobs"
		}
		fs, berr := blob.NewFileStore(dir, base)
		if berr != nil {
			_ = st.Close()
			return nil, berr
		}
		blobs = fs
	}

	return &App{
		eff:     eff,
		version: version,
		st:      st,
		svc:     social.New(st, blobs),
	}, nil
}

// Services exposes the wired engine, mainly for embedding callers.
func (a *App) Services() *social.Services { return a.svc }

// Run starts the HTTP server and blocks until ctx is canceled or a fatal
// server error occurs. The store is closed on the way out.
func (a *App) Run(ctx context.Context) error {
	defer func() { _ = a.st.Close() }()

	banner.Print(a.eff.Addr, a.eff.DBPath, a.eff.Source, a.version)

	errCh := a.startHTTP(ctx, auth.RateConfig{
		RPS:   a.eff.Config.Security.RateLimit.RPS,
		Burst: a.eff.Config.Security.RateLimit.Burst,
	})

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}
