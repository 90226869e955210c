package domain

import (
	"errors"
	"fmt"
)

// StatusTokenInvalidOrExpired is the non-standard status the reset flow
// answers with so the frontend can distinguish a dead link from other
// failures.
const StatusTokenInvalidOrExpired = 498

// Error is the single typed error that crosses the service boundary.
// Path names the offending field ("email") or "global" for whole-request
// failures; Message is a stable key the frontend switches on, never
// prose. Handlers serialize it as {path, message} with Status.
type Error struct {
	Path    string `json:"path"`
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (%d)", e.Path, e.Message, e.Status)
}

// AsError unwraps err into a *Error when there is one in the chain.
func AsError(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// ErrInvalidCredentials covers bad email or password, including the
// account-not-found case so logins cannot be used to enumerate emails.
func ErrInvalidCredentials() *Error {
	return &Error{Path: "global", Status: 401, Message: "invalid_credentials"}
}

// ErrDisabledAccount rejects logins against deactivated accounts.
func ErrDisabledAccount() *Error {
	return &Error{Path: "global", Status: 403, Message: "disabled_account"}
}

// ErrForbidden rejects unauthenticated or under-cleared requests.
func ErrForbidden() *Error {
	return &Error{Path: "global", Status: 403, Message: "forbidden"}
}

// ErrNotFound reports an absent resource at the given path.
func ErrNotFound(path string) *Error {
	return &Error{Path: path, Status: 404, Message: "not_found"}
}

// ErrTokenInvalidOrExpired reports a dead reset token.
func ErrTokenInvalidOrExpired() *Error {
	return &Error{Path: "global", Status: StatusTokenInvalidOrExpired, Message: "token_invalid_or_expired"}
}

// ErrTaken reports a unique-constraint violation on the given field.
func ErrTaken(path string) *Error {
	return &Error{Path: path, Status: 409, Message: "taken"}
}

// ErrValidation reports a structured field-level validation failure.
func ErrValidation(path, message string) *Error {
	return &Error{Path: path, Status: 400, Message: message}
}

// ErrInternal is the hardened fallback. The underlying error is logged
// server-side and never echoed to the client.
func ErrInternal() *Error {
	return &Error{Path: "global", Status: 500, Message: "internal_error"}
}
