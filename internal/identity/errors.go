package identity

import "errors"

var (
	// ErrDuplicateEmail is returned by CreateAccount when an account with
	// the trimmed email already exists.
	ErrDuplicateEmail = errors.New("an account with this email already exists")

	// ErrInvalidCredentials is returned by Authenticate when no stored user
	// matches the email and password digest.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountNotFound is returned by ResetPassword when no account
	// matches the email.
	ErrAccountNotFound = errors.New("no account found for this email")

	// ErrPasswordMismatch is returned by ResetPassword when the new password
	// and its confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrEmptyField is returned when an email or password is blank after
	// trimming.
	ErrEmptyField = errors.New("email and password must not be empty")
)
