package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tgienger/chores/internal/backup"
)

var errNotConfirmed = errors.New("this replaces all household data; rerun with --yes to confirm")

func newExportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the whole household to a JSON file (.zst to compress)",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, s *session, args []string) error {
			counts, err := s.bridge.Export(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", counts, args[0])
			return nil
		}),
	}
}

func newImportCommand(opts *RootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all household data with a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, s *session, args []string) error {
			if !yes {
				return errNotConfirmed
			}
			counts, err := s.bridge.Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", counts)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm replacing all data")
	return cmd
}

// newTransferCommand builds upload, download and sync, which differ only in
// direction.
func newTransferCommand(opts *RootOptions, name, short string) *cobra.Command {
	var local string
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: withSession(opts, func(cmd *cobra.Command, s *session, args []string) error {
			path := local
			if path == "" {
				path = s.localPath
			}
			out := cmd.OutOrStdout()
			ctx := cmd.Context()

			switch name {
			case "upload":
				counts, err := s.bridge.Upload(ctx, path)
				if errors.Is(err, backup.ErrNoLocalData) {
					return fmt.Errorf("%w at %s", err, path)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Uploaded %s\n", counts)
			case "download":
				counts, err := s.bridge.Download(ctx, path)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Downloaded %s to %s\n", counts, path)
			default:
				up, down, err := s.bridge.Sync(ctx, path)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Uploaded %s\nDownloaded %s to %s\n", up, down, path)
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&local, "local", "", "local copy (default <data dir>/local.json)")
	return cmd
}

func newResetCommand(opts *RootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every member, task, history entry and assignment",
		Args:  cobra.NoArgs,
		RunE: withSession(opts, func(cmd *cobra.Command, s *session, args []string) error {
			if !yes {
				return errNotConfirmed
			}
			if err := s.svc.ResetAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All household data deleted.")
			return nil
		}),
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting everything")
	return cmd
}
