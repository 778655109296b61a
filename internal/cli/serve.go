package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/kadavr95/spoiler"
	httpAdapter "github.com/kadavr95/spoiler/internal/adapters/http"
	"github.com/kadavr95/spoiler/internal/presentation/outline"
)

// ShutdownTimeout bounds the graceful shutdown of the preview server.
const ShutdownTimeout = 5 * time.Second

// SignalContext is cancelled on SIGINT or SIGTERM and remembers the signal.
type SignalContext struct {
	context.Context
	Cancel func()
	once   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sc.sigCh:
			sc.mu.Lock()
			sc.sigVal = sig
			sc.mu.Unlock()
			sc.Cancel()
		case <-sc.Context.Done():
		}
		sc.once.Do(func() { signal.Stop(sc.sigCh) })
	}()
	return sc
}

// Signal returns the signal that cancelled the context, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// Handler returns the preview API handler backed by the app configuration.
func (a *App) Handler() http.Handler {
	opts := []httpAdapter.Option{
		httpAdapter.WithLogger(a.Logger),
		httpAdapter.WithVersion(spoiler.Version),
	}
	if a.Registry != nil {
		opts = append(opts, httpAdapter.WithGatherer(a.Registry))
	}
	return httpAdapter.NewHandler(a.NewEditor, opts...)
}

// Serve runs the preview server on ln until ctx is done, then shuts it down
// gracefully. The banner goes to out.
func (a *App) Serve(ctx context.Context, ln net.Listener, out io.Writer) error {
	srv := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	outline.PrintBanner(out)
	fmt.Fprintf(out, "Serving the preview API on %s\n", ln.Addr())
	a.Logger.Info("server started", "addr", ln.Addr().String())

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	if sc, ok := ctx.(*SignalContext); ok && sc.Signal() != nil {
		a.Logger.Info("shutdown requested", "signal", sc.Signal().String())
	}

	// Give outstanding requests a deadline for completion.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warn("graceful shutdown did not complete", "timeout", ShutdownTimeout, "error", err)
		if err := srv.Close(); err != nil {
			return fmt.Errorf("failed to close server: %w", err)
		}
	}
	if err := <-serverErrors; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	fmt.Fprintln(out, "Server stopped gracefully")
	return nil
}
