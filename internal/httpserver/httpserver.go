package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Run maps the routes and serves until ctx is done, then shuts the
// listener down gracefully.
func (srv *HTTPServer) Run(ctx context.Context) error {
	srv.mapHandlers()

	hs := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", srv.host, srv.port),
		Handler:           srv.gin,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		srv.l.Infof(ctx, "internal.httpserver.Run: listening on %s", hs.Addr)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err, ok := <-errc:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := hs.Shutdown(sctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	srv.l.Infof(ctx, "internal.httpserver.Run: stopped")
	return nil
}
