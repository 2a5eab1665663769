package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"reading/internal/models"
	"reading/internal/stats"
)

func newSummaryCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "All-time totals, streaks and favorites",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, engine *stats.Engine) (any, error) {
			return engine.Summary(ctx)
		}),
	}
}

func newStreaksCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "streaks",
		Short: "Current and longest reading streak",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, engine *stats.Engine) (any, error) {
			return engine.Streaks(ctx)
		}),
	}
}

type totalsParams struct {
	year int
}

func newTotalsCmd(run runner) *cobra.Command {
	var p totalsParams

	cmd := &cobra.Command{
		Use:       "totals {daily|books|authors}",
		Short:     "Minutes grouped by day, book or author",
		Example:   "  readingctl totals books --year 2024\n  readingctl totals daily -f json",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"daily", "books", "authors"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var compute computeFunc
			switch args[0] {
			case "daily":
				compute = func(ctx context.Context, engine *stats.Engine) (any, error) {
					return engine.DailyTotals(ctx, p.year)
				}
			case "books":
				compute = func(ctx context.Context, engine *stats.Engine) (any, error) {
					return engine.BookTotals(ctx, p.year)
				}
			case "authors":
				compute = func(ctx context.Context, engine *stats.Engine) (any, error) {
					return engine.AuthorTotals(ctx, p.year)
				}
			default:
				return fmt.Errorf("unknown grouping %q: use daily, books or authors", args[0])
			}
			return run(compute)(cmd, args)
		},
	}

	cmd.Flags().IntVar(&p.year, "year", stats.AllTime, "restrict to one calendar year (0 = all time)")
	return cmd
}

type periodParams struct {
	start string
	end   string
}

func newPeriodCmd(run runner) *cobra.Command {
	var p periodParams

	cmd := &cobra.Command{
		Use:     "period",
		Short:   "Statistics for an inclusive date range",
		Example: "  readingctl period --start 2024-01-01 --end 2024-03-31",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := time.Parse(models.DateLayout, p.start)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			end, err := time.Parse(models.DateLayout, p.end)
			if err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}
			if end.Before(start) {
				return fmt.Errorf("--end must not be before --start")
			}

			return run(func(ctx context.Context, engine *stats.Engine) (any, error) {
				return engine.PeriodStats(ctx, start, end)
			})(cmd, args)
		},
	}

	cmd.Flags().StringVar(&p.start, "start", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&p.end, "end", "", "last day, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

// yearArg resolves an optional [year] argument against the engine's clock
func yearArg(args []string, engine *stats.Engine) (int, error) {
	raw := ""
	if len(args) > 0 {
		raw = args[0]
	}
	return stats.ParseYear(raw, engine.Today())
}

func newYearCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "year [year]",
		Short: "Year report, the current year by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, engine *stats.Engine) (any, error) {
				year, err := yearArg(args, engine)
				if err != nil {
					return nil, err
				}
				return engine.YearReport(ctx, year)
			})(cmd, args)
		},
	}
}

func newWrappedCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "wrapped [year]",
		Short: "Year in review with habits and reader personality",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, engine *stats.Engine) (any, error) {
				year, err := yearArg(args, engine)
				if err != nil {
					return nil, err
				}
				return engine.Wrapped(ctx, year)
			})(cmd, args)
		},
	}
}

func newYearsCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "Years that have at least one reading session",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, engine *stats.Engine) (any, error) {
			return engine.AvailableYears(ctx)
		}),
	}
}
