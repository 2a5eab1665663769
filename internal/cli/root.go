// Package cli provides the readingctl command-line interface.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"reading/internal/app"
	"reading/internal/stats"
)

// Opener builds an engine over the configured store and returns a close func
type Opener func(ctx context.Context) (*stats.Engine, func() error, error)

const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

type globalFlags struct {
	format string
}

// NewRootCmd creates the root command backed by the environment configuration
func NewRootCmd() *cobra.Command {
	return newRootCmd(openFromEnv)
}

func newRootCmd(open Opener) *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "readingctl",
		Short: "Reading statistics from the command line",
		Long: `readingctl prints reading statistics computed from the configured store.

The store is selected with the same environment variables as the bot
(USE_MOCK_DB, CLICKHOUSE_*); a .env file is read when present.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.format != FormatYAML && flags.format != FormatJSON {
				return fmt.Errorf("unknown format %q: use yaml or json", flags.format)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.format, "format", "f", FormatYAML, "output format: yaml, json")

	var run runner = func(compute computeFunc) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			engine, closeStore, err := open(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			result, err := compute(ctx, engine)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), flags.format, result)
		}
	}

	rootCmd.AddCommand(
		newSummaryCmd(run),
		newStreaksCmd(run),
		newTotalsCmd(run),
		newPeriodCmd(run),
		newYearCmd(run),
		newWrappedCmd(run),
		newYearsCmd(run),
	)

	return rootCmd
}

type computeFunc func(ctx context.Context, engine *stats.Engine) (any, error)

// runner wraps a computation into a RunE that opens the store and renders the result
type runner func(compute computeFunc) func(*cobra.Command, []string) error

func openFromEnv(ctx context.Context) (*stats.Engine, func() error, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	// The production logger writes to stderr, stdout stays for the result
	logger, err := app.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	db, err := app.OpenStorage(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return stats.NewEngine(db, db, logger), db.Close, nil
}

// render writes v as YAML or JSON; YAML keeps the JSON field names and order
func render(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if format == FormatJSON {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return fmt.Errorf("failed to convert result: %w", err)
	}
	blockStyle(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(&node)
}

// blockStyle drops the flow and quoting styles the JSON input parsed with
func blockStyle(n *yaml.Node) {
	n.Style &^= yaml.FlowStyle | yaml.DoubleQuotedStyle
	for _, c := range n.Content {
		blockStyle(c)
	}
}
