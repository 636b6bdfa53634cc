package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error discrimination.
// Repositories wrap these so services can branch without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)

// Stable machine-readable error codes returned to clients.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeServerError        = "SERVER_ERROR"
	CodeAlreadyRegistered  = "ALREADY_REGISTERED"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeCooldownActive     = "COOLDOWN_ACTIVE"
	CodePurposeMismatch    = "PURPOSE_MISMATCH"
	CodeOTPNotFound        = "OTP_NOT_FOUND"
	CodeOTPExpired         = "OTP_EXPIRED"
	CodeTooManyAttempts    = "TOO_MANY_ATTEMPTS"
	CodeInvalidOTP         = "INVALID_OTP"
	CodeOTPNotVerified     = "OTP_NOT_VERIFIED"
	CodeWeakPassword       = "WEAK_PASSWORD"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountDisabled    = "ACCOUNT_DISABLED"
	CodeNoRefreshToken     = "NO_REFRESH_TOKEN"
	CodeCSRFMismatch       = "CSRF_MISMATCH"
	CodeTokenInvalid       = "TOKEN_INVALID"
	CodeTokenRevoked       = "TOKEN_REVOKED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeRateLimited        = "RATE_LIMITED"
)

// Error is a client-facing failure with a stable Code. Message is for display only.
type Error struct {
	Code        string
	Message     string
	Field       string
	WaitSeconds int
}

// NewError builds an Error with the given code and display message.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithField returns a copy of e that names the offending request field.
func (e *Error) WithField(field string) *Error {
	cp := *e
	cp.Field = field
	return &cp
}

func (e *Error) Error() string {
	if e.WaitSeconds > 0 {
		return fmt.Sprintf("%s: %s (wait %ds)", e.Code, e.Message, e.WaitSeconds)
	}
	return e.Code + ": " + e.Message
}

// Is reports whether target is an *Error carrying the same code, so callers can
// write errors.Is(err, domain.ErrOTPExpired) regardless of field or message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// AsError extracts the client-facing *Error from err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

var (
	ErrAlreadyRegistered  = NewError(CodeAlreadyRegistered, "This email is already registered.").WithField("email")
	ErrUserNotFound       = NewError(CodeUserNotFound, "You are not registered with us. Please make sure your email is correct.").WithField("email")
	ErrPurposeMismatch    = NewError(CodePurposeMismatch, "OTP resend must use the same purpose as the original request.").WithField("purpose")
	ErrOTPNotFound        = NewError(CodeOTPNotFound, "OTP not found. Please request a new one.").WithField("otp")
	ErrOTPExpired         = NewError(CodeOTPExpired, "Your OTP has expired. Please request a new one.").WithField("otp")
	ErrTooManyAttempts    = NewError(CodeTooManyAttempts, "Too many invalid attempts. Please request a new OTP.").WithField("otp")
	ErrInvalidOTP         = NewError(CodeInvalidOTP, "The OTP entered is incorrect or does not match the request purpose.").WithField("otp")
	ErrOTPNotVerified     = NewError(CodeOTPNotVerified, "Please verify your email with OTP before registering.").WithField("email")
	ErrInvalidCredentials = NewError(CodeInvalidCredentials, "Invalid credentials.")
	ErrAccountDisabled    = NewError(CodeAccountDisabled, "This account has been disabled.")
	ErrNoRefreshToken     = NewError(CodeNoRefreshToken, "No refresh token cookie.")
	ErrCSRFMismatch       = NewError(CodeCSRFMismatch, "CSRF token missing or invalid.")
	ErrTokenInvalid       = NewError(CodeTokenInvalid, "Invalid refresh token.")
	ErrTokenRevoked       = NewError(CodeTokenRevoked, "Refresh token revoked.")
)

// ErrCooldownActive reports that another OTP may be requested after wait seconds.
func ErrCooldownActive(wait int) *Error {
	return &Error{
		Code:        CodeCooldownActive,
		Message:     fmt.Sprintf("Please wait %d seconds before requesting another OTP.", wait),
		WaitSeconds: wait,
	}
}

// ValidationError reports a malformed request field.
func ValidationError(field, message string) *Error {
	return NewError(CodeValidation, message).WithField(field)
}
