package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tgienger/chores/internal/chores"
)

func newTaskCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks"},
		Short:   "Manage chores",
	}

	var icon, cycle string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a chore rotating through every member",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, s *session, args []string) error {
			t, err := s.svc.AddTask(cmd.Context(), args[0], icon, cycle)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s (%s)\n", t.Icon, t.Name, t.ID)
			return nil
		}),
	}
	add.Flags().StringVar(&icon, "icon", "", "task icon")
	add.Flags().StringVar(&cycle, "cycle", "daily", "daily, every2days or weekly")

	var newName, newIcon, newCycle string
	edit := &cobra.Command{
		Use:   "edit <task>",
		Short: "Change a chore's name, icon or cycle",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, s *session, args []string) error {
			t, err := s.svc.FindTask(args[0])
			if err != nil {
				return err
			}
			name, ic, cy := t.Name, t.Icon, string(t.Cycle)
			if cmd.Flags().Changed("name") {
				name = newName
			}
			if cmd.Flags().Changed("icon") {
				ic = newIcon
			}
			if cmd.Flags().Changed("cycle") {
				cy = newCycle
			}
			if err := s.svc.EditTask(cmd.Context(), t.ID, name, ic, cy); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", name)
			return nil
		}),
	}
	edit.Flags().StringVar(&newName, "name", "", "new name")
	edit.Flags().StringVar(&newIcon, "icon", "", "new icon")
	edit.Flags().StringVar(&newCycle, "cycle", "", "new cycle")

	rm := &cobra.Command{
		Use:     "rm <task>",
		Aliases: []string{"delete"},
		Short:   "Remove a chore",
		Args:    cobra.ExactArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, s *session, args []string) error {
			t, err := s.svc.FindTask(args[0])
			if err != nil {
				return err
			}
			if err := s.svc.DeleteTask(cmd.Context(), t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", t.Name)
			return nil
		}),
	}

	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List chores with today's duty",
		Args:    cobra.NoArgs,
		RunE: withSession(opts, func(cmd *cobra.Command, s *session, args []string) error {
			snap := s.svc.Snapshot()
			if len(snap.Tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks yet.")
				return nil
			}
			now := s.svc.Now()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TASK\tCYCLE\tTODAY\tNEXT\tDONE")
			for _, t := range snap.Tasks {
				today := "-"
				if m, manual, ok := chores.ResolveAssignee(snap, t, now); ok {
					today = m.Name
					if manual {
						today += "!"
					}
				}
				next := "-"
				if m, ok := chores.NextAssignee(snap, t); ok {
					next = m.Name
				}
				done := "no"
				if t.CompletedToday(now) {
					done = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.Name, t.Cycle.Label(), today, next, done)
			}
			return w.Flush()
		}),
	}

	cmd.AddCommand(add, edit, rm, ls)
	return cmd
}
