// Package cli wires configuration, storage and the HTTP API into the
// cuentaclaras command.
package cli

import (
	"io"
	"log/slog"

	"github.com/ElPoteRD/CuentaClaras-sub000/internal/config"
	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

type options struct {
	envFile string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:     "cuentaclaras",
		Short:   "Personal finance API",
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "optional dotenv file read before the environment")

	rootCmd.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newReconcileCommand(opts),
		newAuditCommand(opts),
	)
	return rootCmd
}

// load reads configuration and installs the JSON logger as the default.
func (o *options) load(stderr io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.envFile)
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(stderr, cfg.LogLevel)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
