package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

// NewNoteCommand creates the note command group.
func NewNoteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Attach and read prospect notes",
	}

	cmd.AddCommand(newNoteAddCommand(rootOpts))
	cmd.AddCommand(newNoteListCommand(rootOpts))

	return cmd
}

func newNoteAddCommand(rootOpts *RootOptions) *cobra.Command {
	var author string

	cmd := &cobra.Command{
		Use:   "add <prospect-id> <content>",
		Short: "Append a note to a prospect",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			n, err := app.Coord.AddNote(args[0], args[1], author)
			if err != nil {
				return WrapExitError(ExitFailure, "adding note", err)
			}

			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return f.Emit(n, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Note added by %s\n", n.AuthorEmail)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&author, "user", "", "author email (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newNoteListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <prospect-id>",
		Short: "List a prospect's notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			notes, err := app.Query.Notes(args[0])
			if err != nil {
				return WrapExitError(ExitFailure, "listing notes", err)
			}

			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return f.Emit(notes, func(w io.Writer) error {
				if len(notes) == 0 {
					_, err := fmt.Fprintln(w, "No notes")
					return err
				}
				for _, n := range notes {
					if _, err := fmt.Fprintf(w, "[%s] %s: %s\n",
						n.Date.Format(time.RFC3339), n.AuthorEmail, n.Content); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
