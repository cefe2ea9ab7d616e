package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tgienger/chores/internal/chores"
	"github.com/tgienger/chores/internal/dates"
)

// parseDay reads a --date value in the household zone
func parseDay(s *session, value string) (time.Time, error) {
	day, err := dates.ParseKey(value, s.svc.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", chores.ErrInvalidDateKey, value)
	}
	return day, nil
}

func newAssignCommand(opts *RootOptions) *cobra.Command {
	var date, day string
	cmd := &cobra.Command{
		Use:   "assign <task> <member>",
		Short: "Put a member on duty for one day",
		Long: `Override the rotation for a single day. Use --date for a specific
day or --day for the next such weekday after today.`,
		Args: cobra.ExactArgs(2),
		RunE: withSession(opts, func(cmd *cobra.Command, s *session, args []string) error {
			if (date == "") == (day == "") {
				return errors.New("give exactly one of --date or --day")
			}
			t, err := s.svc.FindTask(args[0])
			if err != nil {
				return err
			}
			m, err := s.svc.FindMember(args[1])
			if err != nil {
				return err
			}

			var when time.Time
			if date != "" {
				if when, err = parseDay(s, date); err != nil {
					return err
				}
				err = s.svc.Assign(cmd.Context(), t.ID, m.ID, when)
			} else {
				wd, perr := dates.ParseWeekday(day)
				if perr != nil {
					return perr
				}
				when, err = s.svc.AssignWeekday(cmd.Context(), t.ID, m.ID, wd)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s assigned to %s on %s %s\n",
				t.Name, m.Name, dates.DayName(dates.DayIndex(when)), dates.Key(when))
			return nil
		}),
	}
	cmd.Flags().StringVar(&date, "date", "", "day as YYYY-MM-DD")
	cmd.Flags().StringVar(&day, "day", "", "weekday name, e.g. fri")
	cmd.MarkFlagsMutuallyExclusive("date", "day")
	return cmd
}

func newUnassignCommand(opts *RootOptions) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "unassign <task>",
		Short: "Return a day to the normal rotation",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, s *session, args []string) error {
			t, err := s.svc.FindTask(args[0])
			if err != nil {
				return err
			}
			when, err := parseDay(s, date)
			if err != nil {
				return err
			}
			if err := s.svc.ClearAssignment(cmd.Context(), t.ID, when); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s on %s follows the rotation\n", t.Name, dates.Key(when))
			return nil
		}),
	}
	cmd.Flags().StringVar(&date, "date", "", "day as YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newAssignmentsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "assignments",
		Short: "List manual assignments",
		Args:  cobra.NoArgs,
		RunE: withSession(opts, func(cmd *cobra.Command, s *session, args []string) error {
			views := s.svc.AssignmentList()
			if len(views) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No manual assignments.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tDAY\tTASK\tMEMBER")
			for _, v := range views {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", v.Assignment.Date, v.DayName, v.Task.Name, v.Member.Name)
			}
			return w.Flush()
		}),
	}
}
