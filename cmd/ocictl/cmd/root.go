// Package cmd implements the ocictl commands.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hsiuhsiu/oci-go/cmd/ocictl/internal/config"
	"github.com/hsiuhsiu/oci-go/pkg/oracle"
	"github.com/hsiuhsiu/oci-go/pkg/oracle/logging"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ocictl",
	Short: "Oracle Call Interface diagnostics",
	Long: `ocictl exercises the oci-go handle lifecycle against a real Oracle
client library.

Commands:
  version       - print the wrapper version
  ping          - connect, commit and disconnect
  check-status  - translate an OCI status code into its error message`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $"+config.EnvVar+" or ./ocictl.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.LoadFromEnv()
}

// newLogger builds the text logger for level, forced to debug by --verbose.
func newLogger(w io.Writer, level string) (logging.Logger, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return logging.New(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))), nil
}

// configure applies the client section of cfg to the oracle package.
func configure(cfg *config.Config, w io.Writer) error {
	log, err := newLogger(w, cfg.Client.LogLevel)
	if err != nil {
		return err
	}
	return oracle.Configure(oracle.Config{
		LibraryPath:   cfg.Client.LibraryPath,
		EnableObjects: cfg.Client.EnableObjects,
		Logger:        log,
	})
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
}
