package app

import (
	"context"
	"net/http"
	"time"

	"birdfeed/pkg/api"
	"birdfeed/pkg/auth"
	"birdfeed/pkg/logger"
)

// startHTTP starts the HTTP server in the background and returns a channel
// delivering a fatal serve error. On ctx cancellation the server drains
// with a bounded shutdown window.
func (a *App) startHTTP(ctx context.Context, rateCfg auth.RateConfig) <-chan error {
	mux := http.NewServeMux()
	mux.Handle("/", api.Handler(a.svc, a.st, rateCfg))
	if dir := a.eff.Config.Storage.BlobDir; dir != "" {
		mux.Handle("/blobs/", http.StripPrefix("/blobs/", http.FileServer(http.Dir(dir))))
	}

	srv := &http.Server{
		Addr:              a.eff.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http_listening", "addr", a.eff.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http_shutdown_failed", "error", err)
		}
	}()
	return errCh
}
