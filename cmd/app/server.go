package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 20 * time.Second

func (app *application) serve(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      app.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		app.logger.Info("starting server", slog.String("addr", addr), slog.String("environment", app.config.Environment))
		if app.config.Environment == "production" {
			serveErr <- srv.ListenAndServeTLS(app.config.TLSCertFile, app.config.TLSKeyFile)
			return
		}
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	app.logger.Info("shutting down server", slog.String("addr", addr))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	// the listener goroutine reports ErrServerClosed once Shutdown completes
	if err := <-serveErr; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	app.logger.Info("stopped server", slog.String("addr", addr))
	return nil
}
