package auth

import "errors"

var (
	// ErrDuplicateAccount is returned by SignUp when an account with the
	// same (case-insensitive) email already exists.
	ErrDuplicateAccount = errors.New("an account with this email already exists")

	// ErrInvalidCredentials is returned by LogIn for an unknown email or a
	// wrong password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
