package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/yatraone/transit-api/internal/config"
	"github.com/yatraone/transit-api/internal/domain"
	"github.com/yatraone/transit-api/internal/metrics"
	"github.com/yatraone/transit-api/internal/pkg/password"
)

type recordStore interface {
	Get(ctx context.Context, email string) (*domain.OTPRecord, error)
	Put(ctx context.Context, rec *domain.OTPRecord) error
	DeleteIssued(ctx context.Context, email string, createdAt int64) error
	IncrementAttempts(ctx context.Context, email string, createdAt int64) error
	MarkVerified(ctx context.Context, email string, createdAt int64) error
	ListCreatedBefore(ctx context.Context, cutoff int64) ([]domain.OTPRecord, error)
}

type userLookup interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type mailer interface {
	Send(to, subject, templateID string, data map[string]string)
}

type Service interface {
	// Send issues a new code for purpose and returns its issue time (Unix seconds).
	Send(ctx context.Context, email string, purpose domain.Purpose) (int64, error)
	// Resend reissues a code for the purpose of the live record.
	Resend(ctx context.Context, email string, purpose domain.Purpose) (int64, error)
	Verify(ctx context.Context, email, code string, purpose domain.Purpose) error
	// Sweep deletes every record past its expiry and returns how many were removed.
	Sweep(ctx context.Context) (int, error)
}

type ServiceDeps struct {
	Records recordStore
	Users   userLookup
	Mail    mailer
	Config  config.OTPConfig
}

type service struct {
	records recordStore
	users   userLookup
	mail    mailer
	hasher  *password.Hasher
	cfg     config.OTPConfig
	now     func() time.Time
	newCode func() (string, error)
}

func NewService(deps ServiceDeps) Service {
	return &service{
		records: deps.Records,
		users:   deps.Users,
		mail:    deps.Mail,
		hasher:  password.NewHasher(deps.Config.HashCost),
		cfg:     deps.Config,
		now:     time.Now,
		newCode: generateCode,
	}
}

// generateCode returns a uniformly random six-digit code in [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func (s *service) Send(ctx context.Context, email string, purpose domain.Purpose) (int64, error) {
	if err := s.checkAccount(ctx, email, purpose); err != nil {
		return 0, err
	}
	now := s.now().Unix()
	live, err := s.live(ctx, email, now)
	if err != nil {
		return 0, err
	}
	if live != nil {
		if err := s.checkCooldown(live, now); err != nil {
			return 0, err
		}
	}
	return s.issue(ctx, email, purpose, now)
}

func (s *service) Resend(ctx context.Context, email string, purpose domain.Purpose) (int64, error) {
	now := s.now().Unix()
	live, err := s.live(ctx, email, now)
	if err != nil {
		return 0, err
	}
	if live == nil {
		return 0, domain.ErrOTPNotFound
	}
	if live.Purpose != purpose {
		return 0, domain.ErrPurposeMismatch
	}
	if err := s.checkCooldown(live, now); err != nil {
		return 0, err
	}
	return s.issue(ctx, email, purpose, now)
}

func (s *service) Verify(ctx context.Context, email, code string, purpose domain.Purpose) error {
	rec, err := s.records.Get(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		metrics.OTPVerifyTotal.WithLabelValues("not_found").Inc()
		return domain.ErrOTPNotFound
	}
	if err != nil {
		return err
	}

	if s.expired(rec, s.now().Unix()) {
		s.discard(ctx, rec)
		metrics.OTPVerifyTotal.WithLabelValues("expired").Inc()
		return domain.ErrOTPExpired
	}
	// Best-effort cap: concurrent wrong guesses that read the same count can
	// each pass this check before their increments land.
	if rec.Attempts >= s.cfg.MaxAttempts {
		s.discard(ctx, rec)
		metrics.OTPVerifyTotal.WithLabelValues("too_many_attempts").Inc()
		return domain.ErrTooManyAttempts
	}
	if rec.Purpose != purpose || !s.hasher.Compare(rec.CodeHash, code) {
		if err := s.records.IncrementAttempts(ctx, email, rec.CreatedAt); err != nil && !errors.Is(err, domain.ErrConflict) {
			return err
		}
		metrics.OTPVerifyTotal.WithLabelValues("invalid").Inc()
		return domain.ErrInvalidOTP
	}

	if purpose == domain.PurposeRegister {
		err = s.records.MarkVerified(ctx, email, rec.CreatedAt)
	} else {
		err = s.records.DeleteIssued(ctx, email, rec.CreatedAt)
	}
	// Conflict: another request consumed or replaced this code first.
	if errors.Is(err, domain.ErrConflict) {
		return domain.ErrOTPNotFound
	}
	if err != nil {
		return err
	}
	metrics.OTPVerifyTotal.WithLabelValues("success").Inc()
	return nil
}

func (s *service) Sweep(ctx context.Context) (int, error) {
	now := s.now().Unix()
	cutoff := now - int64(s.cfg.Expiry/time.Second)
	stale, err := s.records.ListCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for i := range stale {
		err := s.records.DeleteIssued(ctx, stale[i].Email, stale[i].CreatedAt)
		switch {
		case err == nil:
			deleted++
		case errors.Is(err, domain.ErrConflict):
			// reissued since the scan
		default:
			slog.Warn("otp sweep delete failed", "email", stale[i].Email, "err", err)
		}
	}
	metrics.OTPSweptTotal.Add(float64(deleted))
	return deleted, nil
}

func (s *service) checkAccount(ctx context.Context, email string, purpose domain.Purpose) error {
	_, err := s.users.GetByEmail(ctx, email)
	exists := err == nil
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	switch {
	case purpose == domain.PurposeRegister && exists:
		return domain.ErrAlreadyRegistered
	case purpose.RequiresAccount() && !exists:
		return domain.ErrUserNotFound
	}
	return nil
}

// live returns the email's record if it exists and has not expired.
func (s *service) live(ctx context.Context, email string, now int64) (*domain.OTPRecord, error) {
	rec, err := s.records.Get(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if s.expired(rec, now) {
		return nil, nil
	}
	return rec, nil
}

func (s *service) checkCooldown(rec *domain.OTPRecord, now int64) error {
	cooldown := int64(s.cfg.ResendCooldown / time.Second)
	if elapsed := now - rec.CreatedAt; elapsed < cooldown {
		return domain.ErrCooldownActive(int(cooldown - elapsed))
	}
	return nil
}

func (s *service) expired(rec *domain.OTPRecord, now int64) bool {
	return now-rec.CreatedAt > int64(s.cfg.Expiry/time.Second)
}

func (s *service) issue(ctx context.Context, email string, purpose domain.Purpose, now int64) (int64, error) {
	code, err := s.newCode()
	if err != nil {
		return 0, err
	}
	hash, err := s.hasher.Hash(code)
	if err != nil {
		return 0, err
	}
	rec := &domain.OTPRecord{
		Email:     email,
		CodeHash:  hash,
		Purpose:   purpose,
		CreatedAt: now,
		ExpiresAt: now + int64(s.cfg.Expiry/time.Second),
	}
	if err := s.records.Put(ctx, rec); err != nil {
		return 0, fmt.Errorf("store otp: %w", err)
	}

	templateID, subject := purpose.EmailTemplate()
	s.mail.Send(email, subject, templateID, map[string]string{
		"name": displayName(email),
		"otp":  code,
	})
	metrics.OTPSentTotal.WithLabelValues(string(purpose)).Inc()
	return now, nil
}

// discard deletes rec unless it was already replaced.
func (s *service) discard(ctx context.Context, rec *domain.OTPRecord) {
	if err := s.records.DeleteIssued(ctx, rec.Email, rec.CreatedAt); err != nil && !errors.Is(err, domain.ErrConflict) {
		slog.Warn("otp delete failed", "email", rec.Email, "err", err)
	}
}

func displayName(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
