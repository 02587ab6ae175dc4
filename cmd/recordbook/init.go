package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize recordbook storage",
		Long:  "Create configuration and data directories, write a default config.yaml, and materialize empty stores.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg, _, err := resolveStoreConfig()
	if err != nil {
		return err
	}

	// Attach then detach once so the empty record and sheet stores exist
	// before the first request arrives.
	store, err := newStore(cfg, log)
	if err != nil {
		return err
	}
	if err := store.Attach(cfg); err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	if err := store.Detach(); err != nil {
		return fmt.Errorf("finalize storage: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Recordbook initialized (%s backend, data in %s)\n", cfg.Backend, cfg.DataDir)
	return nil
}
