package cli

import (
	"github.com/spf13/cobra"

	"github.com/tgienger/chores/internal/dates"
)

func newWeekCommand(opts *RootOptions) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show who is on duty each day of a week",
		Args:  cobra.NoArgs,
		RunE: withSession(opts, func(cmd *cobra.Command, s *session, args []string) error {
			now := s.svc.Now()
			day := now
			if date != "" {
				d, err := parseDay(s, date)
				if err != nil {
					return err
				}
				day = d
			}
			return renderWeek(cmd.OutOrStdout(), s.svc.Snapshot(), dates.WeekStart(day), now)
		}),
	}
	cmd.Flags().StringVar(&date, "date", "", "any day in the week to show (YYYY-MM-DD)")
	return cmd
}

func newStatsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show completion counts and recent history",
		Args:  cobra.NoArgs,
		RunE: withSession(opts, func(cmd *cobra.Command, s *session, args []string) error {
			return renderStats(cmd.OutOrStdout(), s.svc.Snapshot(), s.svc.Now())
		}),
	}
}
