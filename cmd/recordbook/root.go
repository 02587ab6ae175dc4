package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
}

var flags rootFlags

// newRootCmd creates the top-level "recordbook" command with global flags
// and all subcommands registered.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "recordbook",
		Short: "A record-keeping web backend",
		Long: "Recordbook accepts JSON records over HTTP, persists them to a\n" +
			"backend store, groups them into sheets, and mirrors the record\n" +
			"list to a downloadable spreadsheet.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: .recordbook-db)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// newLogger builds the process logger. Output goes to stderr so the data
// plane stays clean.
func newLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
