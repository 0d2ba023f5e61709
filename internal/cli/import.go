package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doorstep-crm/doorstep/internal/importer"
)

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Bulk-import prospects from a YAML document",
		Long: `Import prospects from a YAML document for the given user.

The document is validated against a schema before any write is applied;
entries whose address already matches an existing prospect are skipped.

Example document:

  prospects:
    - full_name: Jane Doe
      address: 123 Main St
      list: Customers
    - full_name: John Roe
      address: 9 Oak Ave`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := importer.ParseFile(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "parsing import document", err)
			}

			app, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			imp := importer.New(app.Records, app.Coord)
			res, err := imp.Apply(cmd.Context(), doc, user)
			if err != nil {
				return WrapExitError(ExitFailure, "applying import", err)
			}

			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return f.Emit(res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Imported %d prospects, skipped %d\n", res.Imported, res.Skipped)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "owning user email (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
