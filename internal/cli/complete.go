package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCompleteCommand(opts *RootOptions) *cobra.Command {
	var photo string
	cmd := &cobra.Command{
		Use:     "complete <task>",
		Aliases: []string{"done"},
		Short:   "Mark today's duty on a chore as done",
		Long: `Credit the member whose turn it is and pass the chore to the next
member in its rotation. A chore can be completed once per day.`,
		Args: cobra.ExactArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, s *session, args []string) error {
			t, err := s.svc.FindTask(args[0])
			if err != nil {
				return err
			}
			entry, err := s.svc.CompleteTask(cmd.Context(), t.ID, photo)
			if err != nil {
				return fmt.Errorf("complete %s: %w", t.Name, err)
			}
			name := entry.MemberID
			if m, ok := s.svc.Snapshot().Member(entry.MemberID); ok {
				name = m.Name
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s done by %s\n", t.Icon, t.Name, name)
			return nil
		}),
	}
	cmd.Flags().StringVar(&photo, "photo", "", "photo path or URL to attach")
	return cmd
}

func newUndoCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <task>",
		Short: "Revert today's completion of a chore",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, s *session, args []string) error {
			t, err := s.svc.FindTask(args[0])
			if err != nil {
				return err
			}
			if err := s.svc.UndoTask(cmd.Context(), t.ID); err != nil {
				return fmt.Errorf("undo %s: %w", t.Name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Undid %s\n", t.Name)
			return nil
		}),
	}
}
