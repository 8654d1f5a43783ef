package cli

import (
	"fmt"
	"time"

	"github.com/jobcal/jobcal/internal/app"
	"github.com/jobcal/jobcal/internal/utils"
	"github.com/spf13/cobra"
)

func newMonthCmd(opts *options) *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Print a month grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)
			deps, closeDB, err := app.OpenDependencies(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			now := deps.Clock.Now().In(deps.Location)
			if !cmd.Flags().Changed("year") {
				year = now.Year()
			}
			if !cmd.Flags().Changed("month") {
				month = int(now.Month())
			}
			if month < 1 || month > 12 {
				return fmt.Errorf("month must be between 1 and 12, got %d", month)
			}

			view, err := deps.CalendarService.Month(ctx, year, time.Month(month))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), RenderMonth(view))
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year, defaults to the current year")
	cmd.Flags().IntVar(&month, "month", 0, "Month 1-12, defaults to the current month")
	return cmd
}

func newAgendaCmd(opts *options) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "List everything on one day",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)
			deps, closeDB, err := app.OpenDependencies(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			day := utils.Today(deps.Clock, deps.Location)
			if date != "" {
				if day, err = time.ParseInLocation(time.DateOnly, date, deps.Location); err != nil {
					return fmt.Errorf("--date must be in YYYY-MM-DD format: %w", err)
				}
			}
			view, err := deps.CalendarService.Day(ctx, day)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), RenderDay(view))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day in YYYY-MM-DD format, defaults to today")
	return cmd
}
