package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/helpachild/recordbook/internal/export"
	"github.com/helpachild/recordbook/internal/file"
	"github.com/helpachild/recordbook/internal/httpapi"
	"github.com/helpachild/recordbook/internal/sqlite"
	"github.com/helpachild/recordbook/pkg/types"
)

// serveFlags holds flag values for the serve command.
type serveFlags struct {
	listen string
}

func newServeCmd() *cobra.Command {
	var sf serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the recordbook HTTP server",
		Long:  "Attach the configured storage backend and serve the record and sheet API over HTTP.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(sf)
		},
	}
	cmd.Flags().StringVar(&sf.listen, "listen", "", "listen address (default from config, "+defaultListen+")")
	return cmd
}

// storeBackend is implemented by both backends: the Store contract plus the
// export regeneration hook.
type storeBackend interface {
	types.Store
	SetRecordsChangedHook(fn func([]types.Record))
}

// newStore selects the backend named by the config.
func newStore(cfg types.Config, log zerolog.Logger) (storeBackend, error) {
	switch cfg.Backend {
	case types.BackendFile:
		return file.NewBackend(log), nil
	case types.BackendSQLite:
		return sqlite.NewBackend(log), nil
	default:
		return nil, types.ErrBackendUnknown
	}
}

func runServe(sf serveFlags) error {
	log := newLogger()

	cfg, listen, err := resolveStoreConfig()
	if err != nil {
		return err
	}
	if sf.listen != "" {
		listen = sf.listen
	}

	store, err := newStore(cfg, log)
	if err != nil {
		return err
	}
	if err := store.Attach(cfg); err != nil {
		return fmt.Errorf("attach store: %w", err)
	}
	defer store.Detach()

	exporter := export.New(log)
	store.SetRecordsChangedHook(exporter.RegenerateHook(cfg.ExportDir))

	log.Info().
		Str("backend", cfg.Backend).
		Str("data_dir", cfg.DataDir).
		Str("export_dir", cfg.ExportDir).
		Msg("store attached")

	srv := httpapi.New(store, exporter, cfg.ExportDir, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(listen)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		return srv.Shutdown()
	}
}
