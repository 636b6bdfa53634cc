package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/yatraone/transit-api/internal/domain"
)

const maxBodyBytes = 1 << 20

// statusByCode maps client-facing error codes to HTTP statuses.
var statusByCode = map[string]int{
	domain.CodeValidation:         http.StatusBadRequest,
	domain.CodeServerError:        http.StatusInternalServerError,
	domain.CodeAlreadyRegistered:  http.StatusConflict,
	domain.CodeUserNotFound:       http.StatusNotFound,
	domain.CodeCooldownActive:     http.StatusTooManyRequests,
	domain.CodePurposeMismatch:    http.StatusBadRequest,
	domain.CodeOTPNotFound:        http.StatusNotFound,
	domain.CodeOTPExpired:         http.StatusGone,
	domain.CodeTooManyAttempts:    http.StatusTooManyRequests,
	domain.CodeInvalidOTP:         http.StatusBadRequest,
	domain.CodeOTPNotVerified:     http.StatusBadRequest,
	domain.CodeWeakPassword:       http.StatusBadRequest,
	domain.CodeInvalidCredentials: http.StatusUnauthorized,
	domain.CodeAccountDisabled:    http.StatusForbidden,
	domain.CodeNoRefreshToken:     http.StatusUnauthorized,
	domain.CodeCSRFMismatch:       http.StatusForbidden,
	domain.CodeTokenInvalid:       http.StatusUnauthorized,
	domain.CodeTokenRevoked:       http.StatusUnauthorized,
	domain.CodeForbidden:          http.StatusForbidden,
	domain.CodeNotFound:           http.StatusNotFound,
	domain.CodeRateLimited:        http.StatusTooManyRequests,
}

// ErrorEnvelope is the body of every failed response.
type ErrorEnvelope struct {
	Success     bool   `json:"success"`
	Code        string `json:"code"`
	Message     string `json:"message"`
	Field       string `json:"field,omitempty"`
	WaitSeconds int    `json:"waitSeconds,omitempty"`
}

// MessageEnvelope is the body of a successful action without data.
type MessageEnvelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// AuthEnvelope wraps login/register/refresh responses.
type AuthEnvelope struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken,omitempty"`
	User         *domain.User `json:"user,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeAppError converts err into the uniform error body. Anything that is
// not a known client-facing error becomes SERVER_ERROR and is logged.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	de := toDomainError(err)
	if de == nil {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		de = domain.NewError(domain.CodeServerError, "An unexpected error occurred. Please try again later.")
	}
	status, ok := statusByCode[de.Code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if de.WaitSeconds > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(de.WaitSeconds))
	}
	writeJSON(w, status, ErrorEnvelope{
		Code:        de.Code,
		Message:     de.Message,
		Field:       de.Field,
		WaitSeconds: de.WaitSeconds,
	})
}

func toDomainError(err error) *domain.Error {
	if de, ok := domain.AsError(err); ok {
		return de
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return domain.NewError(domain.CodeNotFound, "Resource not found.")
	case errors.Is(err, domain.ErrForbidden):
		return domain.NewError(domain.CodeForbidden, "You do not have access to this resource.")
	case errors.Is(err, domain.ErrBadRequest):
		return domain.NewError(domain.CodeValidation, err.Error())
	}
	return nil
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.ValidationError("body", "Request body is required.")
		}
		return domain.ValidationError("body", "Request body is not valid JSON.")
	}
	return nil
}
