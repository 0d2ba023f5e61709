package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/doorstep-crm/doorstep/internal/query"
	"github.com/doorstep-crm/doorstep/internal/record"
)

// NewProspectsCommand creates the prospects command group.
func NewProspectsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prospects",
		Short: "List and manage prospects",
	}

	cmd.AddCommand(newProspectsListCommand(rootOpts))
	cmd.AddCommand(newProspectsAddCommand(rootOpts))
	cmd.AddCommand(newProspectsEditCommand(rootOpts))
	cmd.AddCommand(newProspectsDeleteCommand(rootOpts))

	return cmd
}

func newProspectsListCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		user string
		list string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's prospects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			prospects := query.FilterByList(app.Query.ProspectsFor(user), list)

			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return f.Emit(prospects, func(w io.Writer) error {
				return renderProspects(w, prospects)
			})
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "owning user email (required)")
	cmd.Flags().StringVar(&list, "list", query.AllLists, "filter by list value")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newProspectsAddCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		user string
		name string
		list string
	)

	cmd := &cobra.Command{
		Use:   "add <address>",
		Short: "Add a prospect explicitly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			p, err := app.Coord.AddProspect(cmd.Context(), user, name, args[0], list)
			if err != nil {
				return WrapExitError(ExitFailure, "adding prospect", err)
			}

			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return f.Emit(p, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Added %s (%s) id=%s\n", p.FullName, p.Address, p.ID)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "owning user email (required)")
	cmd.Flags().StringVar(&name, "name", "", "prospect full name")
	cmd.Flags().StringVar(&list, "list", "", "list value")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newProspectsEditCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		name    string
		address string
		list    string
	)

	cmd := &cobra.Command{
		Use:   "edit <prospect-id>",
		Short: "Edit a prospect's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			p, err := app.Coord.EditProspect(cmd.Context(), args[0], name, address, list)
			if err != nil {
				return WrapExitError(ExitFailure, "editing prospect", err)
			}

			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return f.Emit(p, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Updated %s (%s) list=%s\n", p.FullName, p.Address, p.List)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new full name (required)")
	cmd.Flags().StringVar(&address, "address", "", "new address (required)")
	cmd.Flags().StringVar(&list, "list", "", "new list value (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("address")
	_ = cmd.MarkFlagRequired("list")

	return cmd
}

func newProspectsDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <prospect-id>",
		Short: "Delete a prospect and its knocks and notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Coord.DeleteProspect(args[0]); err != nil {
				return WrapExitError(ExitFailure, "deleting prospect", err)
			}

			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return f.Emit(map[string]string{"id": args[0], "status": "deleted"}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, "Deleted")
				return err
			})
		},
	}
}

// renderProspects writes a tab-aligned prospect listing.
func renderProspects(w io.Writer, prospects []record.Prospect) error {
	if len(prospects) == 0 {
		_, err := fmt.Fprintln(w, "No prospects")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tADDRESS\tLIST\tKNOCKS")
	for _, p := range prospects {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", p.ID, p.FullName, p.Address, p.List, p.KnockCount)
	}
	return tw.Flush()
}
