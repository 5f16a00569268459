// Command nanoeln is the command-line front end of the lab data store.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nanoeln/internal/config"
	"nanoeln/internal/core"
	"nanoeln/pkg/domain"
)

// cli holds state shared by every subcommand.
type cli struct {
	configPath string
	getenv     func(string) string
	open       func(ctx context.Context, cfg config.Config) (*core.App, error)

	app *core.App
}

func newCLI() *cli {
	return &cli{
		getenv: os.Getenv,
		open: func(ctx context.Context, cfg config.Config) (*core.App, error) {
			return core.Open(ctx, cfg)
		},
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "nanoeln",
		Short: "Electronic lab notebook for nanoparticle formulation work",
		Long: `nanoeln records projects, experiments and formulation batches, links
instrument files to batches, keeps an audit trail and runs formulation
property predictions. State is kept in a snapshot backend (sqlite by default).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if c.app != nil {
				return nil
			}
			cfg, err := config.Load(c.configPath, c.getenv)
			if err != nil {
				return err
			}
			app, err := c.open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			c.app = app
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML config file (or set "+config.EnvConfigPath+")")

	root.AddCommand(
		c.resetCmd(),
		c.summaryCmd(),
		c.projectsCmd(),
		c.experimentsCmd(),
		c.batchesCmd(),
		c.instrumentsCmd(),
		c.uploadsCmd(),
		c.auditCmd(),
		c.predictCmd(),
		c.integrityCmd(),
		c.serveMetricsCmd(),
	)
	return root
}

func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitCode maps store errors to process exit codes.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrNotFound):
		return 3
	case errors.Is(err, domain.ErrValidationFailed):
		return 2
	default:
		return 1
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	c := newCLI()
	err := c.rootCmd().ExecuteContext(ctx)
	if err != nil {
		if c.app != nil {
			c.app.Logger.Error("command failed", zap.Error(err))
		}
		fmt.Fprintln(os.Stderr, "nanoeln:", err)
	}
	if closeErr := c.close(); closeErr != nil {
		fmt.Fprintln(os.Stderr, "nanoeln: close:", closeErr)
	}
	stop()
	os.Exit(exitCode(err))
}
