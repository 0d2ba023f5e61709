package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doorstep-crm/doorstep/internal/record"
)

// KnockOptions holds flags for the knock command.
type KnockOptions struct {
	*RootOptions
	User   string
	Status string
}

// NewKnockCommand creates the knock command.
func NewKnockCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &KnockOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "knock <address>",
		Short: "Record a knock at an address",
		Long: `Record a visit attempt at an address for the given user.

A knock at an address with no matching prospect creates one with default
name and list. Matching is case- and whitespace-insensitive:

  doorstep knock --user rep@example.com --status Answered "123 Main St"
  doorstep knock --user rep@example.com --status "Not Answered" " 123 MAIN ST "

both land on the same prospect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKnock(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.User, "user", "", "acting user email (required)")
	cmd.Flags().StringVar(&opts.Status, "status", record.StatusAnswered,
		fmt.Sprintf("knock outcome (%q|%q)", record.StatusAnswered, record.StatusNotAnswered))
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runKnock(opts *KnockOptions, address string, cmd *cobra.Command) error {
	status := strings.TrimSpace(opts.Status)
	if status != record.StatusAnswered && status != record.StatusNotAnswered {
		return WrapExitError(ExitCommandError, "invalid status",
			fmt.Errorf("%q is not %q or %q", status, record.StatusAnswered, record.StatusNotAnswered))
	}

	app, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer app.Close()

	p, err := app.Coord.RecordKnock(cmd.Context(), opts.User, address, status)
	if err != nil {
		return WrapExitError(ExitFailure, "recording knock", err)
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return f.Emit(p, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s knock recorded at %q (%s, %d total)\n",
			status, p.Address, p.FullName, p.KnockCount)
		return err
	})
}
