package auth

import "errors"

// ErrInvalidToken is returned when a purpose token fails validation
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity error codes reported in IdentityResult errors.
const (
	CodeDuplicateEmail         = "DuplicateEmail"
	CodePasswordTooShort       = "PasswordTooShort"
	CodePasswordRequiresLetter = "PasswordRequiresLetter"
	CodePasswordRequiresDigit  = "PasswordRequiresDigit"
	CodeInvalidToken           = "InvalidToken"
	CodeUnknownRole            = "UnknownRole"
	CodeStoreFailure           = "StoreFailure"
)
