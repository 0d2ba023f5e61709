package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = func() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd()))
}

// NewAccountCommand creates the account command group.
func NewAccountCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage local user accounts",
	}

	cmd.AddCommand(newAccountCreateCommand(rootOpts))
	cmd.AddCommand(newAccountLoginCommand(rootOpts))
	cmd.AddCommand(newAccountResetCommand(rootOpts))

	return cmd
}

func newAccountCreateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create <email>",
		Short: "Create a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			password, err := promptPassword(cmd.OutOrStdout(), "Password: ")
			if err != nil {
				return WrapExitError(ExitCommandError, "reading password", err)
			}

			user, err := app.Users.CreateAccount(args[0], password)
			if err != nil {
				return WrapExitError(ExitFailure, "creating account", err)
			}

			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return f.Emit(map[string]string{"id": user.ID, "email": user.Email}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Account created for %s\n", user.Email)
				return err
			})
		},
	}
}

func newAccountLoginCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Verify credentials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			password, err := promptPassword(cmd.OutOrStdout(), "Password: ")
			if err != nil {
				return WrapExitError(ExitCommandError, "reading password", err)
			}

			user, err := app.Users.Authenticate(args[0], password)
			if err != nil {
				return WrapExitError(ExitFailure, "login failed", err)
			}

			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return f.Emit(map[string]string{"id": user.ID, "email": user.Email}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Logged in as %s\n", user.Email)
				return err
			})
		},
	}
}

func newAccountResetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <email>",
		Short: "Reset an account password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			newPassword, err := promptPassword(cmd.OutOrStdout(), "New password: ")
			if err != nil {
				return WrapExitError(ExitCommandError, "reading password", err)
			}
			confirm, err := promptPassword(cmd.OutOrStdout(), "Confirm password: ")
			if err != nil {
				return WrapExitError(ExitCommandError, "reading password", err)
			}

			if err := app.Users.ResetPassword(args[0], newPassword, confirm); err != nil {
				return WrapExitError(ExitFailure, "resetting password", err)
			}

			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return f.Emit(map[string]string{"email": args[0], "status": "reset"}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, "Password reset")
				return err
			})
		},
	}
}

// promptPassword reads a password from the terminal without echo.
// A newline is printed after the read to keep the output tidy.
func promptPassword(w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return "", err
	}
	pw, err := readPassword()
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
