// Package account holds OTP-gated changes to an existing account.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yatraone/transit-api/internal/domain"
	"github.com/yatraone/transit-api/internal/pkg/password"
)

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,max=72"`
}

type DeleteAccountRequest struct {
	OTP string `json:"otp" validate:"required"`
}

// Principal identifies the caller of an authenticated request.
type Principal struct {
	UserID string
	Email  string
	JTI    string
}

type Service interface {
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	DeleteAccount(ctx context.Context, who Principal, req DeleteAccountRequest) error
}

type verifier interface {
	Verify(ctx context.Context, email, code string, purpose domain.Purpose) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, userID, hash string) error
	Delete(ctx context.Context, userID string) error
}

type revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

type auditor interface {
	Record(ctx context.Context, userID, action string, details map[string]string)
}

type notifier interface {
	Push(ctx context.Context, userID, title, message string) error
}

type ServiceDeps struct {
	OTP        verifier
	Users      userStore
	Revocation revoker
	Audit      auditor
	Notifier   notifier
	Hasher     *password.Hasher
}

type service struct {
	otp        verifier
	users      userStore
	revocation revoker
	audit      auditor
	notifier   notifier
	hasher     *password.Hasher
}

func NewService(deps ServiceDeps) Service {
	return &service{
		otp:        deps.OTP,
		users:      deps.Users,
		revocation: deps.Revocation,
		audit:      deps.Audit,
		notifier:   deps.Notifier,
		hasher:     deps.Hasher,
	}
}

// ResetPassword checks the policy before touching the OTP so a rejected
// password does not burn the code.
func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := password.ValidatePolicy(req.NewPassword); err != nil {
		return err
	}
	if err := s.otp.Verify(ctx, req.Email, req.OTP, domain.PurposeForgotPassword); err != nil {
		return err
	}
	u, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrUserNotFound
	}
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, u.UserID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.audit.Record(ctx, u.UserID, domain.AuditPasswordReset, nil)
	if err := s.notifier.Push(ctx, u.UserID, "Password changed", "Your YatraOne password was reset."); err != nil {
		slog.Warn("password change notification failed", "user_id", u.UserID, "err", err)
	}
	return nil
}

// DeleteAccount removes the caller's account and revokes the session the
// request was made with.
func (s *service) DeleteAccount(ctx context.Context, who Principal, req DeleteAccountRequest) error {
	if err := s.otp.Verify(ctx, who.Email, req.OTP, domain.PurposeDeleteAccount); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, who.UserID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.audit.Record(ctx, who.UserID, domain.AuditDeleteAccount, nil)
	if who.JTI != "" {
		if err := s.revocation.Revoke(ctx, who.JTI, 0); err != nil {
			slog.Warn("revoke after delete failed", "user_id", who.UserID, "err", err)
		}
	}
	return nil
}
