package main

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// httpServer is the part of server.Server that serve drives.
type httpServer interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// runUntilDone starts srv and the background tasks, then blocks until ctx is
// done or srv fails. On return the server is shut down and every task has
// returned, so callers may release shared resources afterwards.
func runUntilDone(ctx context.Context, srv httpServer, shutdownTimeout time.Duration, tasks ...func(context.Context)) error {
	taskCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task(taskCtx)
		}()
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	var err error
	select {
	case err = <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server stopped")
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received, stopping")
		shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
		err = srv.Shutdown(shutdownCtx)
		stop()
	}

	cancel()
	wg.Wait()
	return err
}
