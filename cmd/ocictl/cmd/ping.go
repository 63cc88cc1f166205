package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hsiuhsiu/oci-go/pkg/oracle"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Connect, commit and disconnect",
	Long: `Connects to the database named in the config file, commits an empty
transaction and closes the session. Every OCI call is checked; the first
failure is printed with its error code and the call that produced it.`,
	Args: cobra.NoArgs,
	RunE: runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		printError("load config", err)
		return err
	}
	if err := cfg.Validate(); err != nil {
		printError("invalid config", err)
		return err
	}
	if err := configure(cfg, cmd.ErrOrStderr()); err != nil {
		printError("configure", err)
		return err
	}
	defer func() {
		if serr := oracle.Shutdown(); serr != nil {
			err = errors.Join(err, serr)
		}
	}()

	start := time.Now()
	conn, err := oracle.ConnectWith(oracle.ConnectOptions{
		Address:  cfg.Connection.Address,
		Username: cfg.Connection.Username,
		Password: cfg.Connection.Password,
	})
	if err != nil {
		printError("connect", err)
		return err
	}
	connected := time.Since(start)

	if err := conn.Commit(); err != nil {
		_ = conn.Close()
		printError("commit", err)
		return err
	}
	if err := conn.Close(); err != nil {
		printError("close", err)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "ok: %s@%s (connect %s, total %s)\n",
		cfg.Connection.Username, cfg.Connection.Address,
		connected.Round(time.Millisecond), time.Since(start).Round(time.Millisecond))
	return nil
}
