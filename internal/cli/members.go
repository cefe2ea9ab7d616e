package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newMemberCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "member",
		Aliases: []string{"members"},
		Short:   "Manage household members",
	}

	var emoji string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a member",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, s *session, args []string) error {
			m, err := s.svc.AddMember(cmd.Context(), args[0], emoji)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s (%s)\n", m.Emoji, m.Name, m.ID)
			return nil
		}),
	}
	add.Flags().StringVar(&emoji, "emoji", "", "avatar emoji")

	var newName, newEmoji string
	edit := &cobra.Command{
		Use:   "edit <member>",
		Short: "Rename a member or change their emoji",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, s *session, args []string) error {
			m, err := s.svc.FindMember(args[0])
			if err != nil {
				return err
			}
			name, em := m.Name, m.Emoji
			if cmd.Flags().Changed("name") {
				name = newName
			}
			if cmd.Flags().Changed("emoji") {
				em = newEmoji
			}
			if err := s.svc.EditMember(cmd.Context(), m.ID, name, em); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", name)
			return nil
		}),
	}
	edit.Flags().StringVar(&newName, "name", "", "new name")
	edit.Flags().StringVar(&newEmoji, "emoji", "", "new emoji")

	rm := &cobra.Command{
		Use:     "rm <member>",
		Aliases: []string{"delete"},
		Short:   "Remove a member who is in no rotation",
		Args:    cobra.ExactArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, s *session, args []string) error {
			m, err := s.svc.FindMember(args[0])
			if err != nil {
				return err
			}
			if err := s.svc.DeleteMember(cmd.Context(), m.ID); err != nil {
				return fmt.Errorf("remove %s: %w", m.Name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", m.Name)
			return nil
		}),
	}

	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List members",
		Args:    cobra.NoArgs,
		RunE: withSession(opts, func(cmd *cobra.Command, s *session, args []string) error {
			members := s.svc.Snapshot().Members
			if len(members) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No members yet.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMOJI\tCOLOR")
			for _, m := range members {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Emoji, m.Color)
			}
			return w.Flush()
		}),
	}

	cmd.AddCommand(add, edit, rm, ls)
	return cmd
}
