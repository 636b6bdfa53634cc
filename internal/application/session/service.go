package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yatraone/transit-api/internal/domain"
	jwtinfra "github.com/yatraone/transit-api/internal/infrastructure/jwt"
	"github.com/yatraone/transit-api/internal/metrics"
	"github.com/yatraone/transit-api/internal/pkg/id"
	"github.com/yatraone/transit-api/internal/pkg/password"
	pkgtoken "github.com/yatraone/transit-api/internal/pkg/token"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Meta carries request details recorded in the audit log.
type Meta struct {
	IP string
}

// Result is a freshly minted token pair. User is set for login and register.
type Result struct {
	AccessToken  string
	RefreshToken string
	CSRFToken    string
	User         *domain.User
}

type Service interface {
	Login(ctx context.Context, req LoginRequest, meta Meta) (*Result, error)
	Register(ctx context.Context, req domain.RegisterRequest, meta Meta) (*Result, error)
	Refresh(ctx context.Context, refreshToken, csrfCookie, csrfHeader string) (*Result, error)
	Logout(ctx context.Context, refreshToken string) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type otpLookup interface {
	Get(ctx context.Context, email string) (*domain.OTPRecord, error)
}

type registrar interface {
	Commit(ctx context.Context, u *domain.User, audit *domain.AuditEntry) error
}

type tokenIssuer interface {
	IssueAccessToken(sub, email, jti string) (string, error)
	IssueRefreshToken(sub, email, jti string) (string, error)
	Verify(token string) (*jwtinfra.Claims, error)
}

type revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	Claim(ctx context.Context, jti string, ttl time.Duration) (bool, error)
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type auditor interface {
	Entry(userID, action string, details map[string]string) *domain.AuditEntry
	Record(ctx context.Context, userID, action string, details map[string]string)
}

type mailer interface {
	Send(to, subject, templateID string, data map[string]string)
}

type notifier interface {
	Push(ctx context.Context, userID, title, message string) error
}

type ServiceDeps struct {
	Users      userStore
	OTPRecords otpLookup
	Registrar  registrar
	Tokens     tokenIssuer
	Revocation revoker
	Audit      auditor
	Mail       mailer
	Notifier   notifier
	Hasher     *password.Hasher
	OTPExpiry  time.Duration
}

type service struct {
	users      userStore
	otpRecords otpLookup
	registrar  registrar
	tokens     tokenIssuer
	revocation revoker
	audit      auditor
	mail       mailer
	notifier   notifier
	hasher     *password.Hasher
	otpExpiry  time.Duration
	now        func() time.Time
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:      deps.Users,
		otpRecords: deps.OTPRecords,
		registrar:  deps.Registrar,
		tokens:     deps.Tokens,
		revocation: deps.Revocation,
		audit:      deps.Audit,
		mail:       deps.Mail,
		notifier:   deps.Notifier,
		hasher:     deps.Hasher,
		otpExpiry:  deps.OTPExpiry,
		now:        time.Now,
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest, meta Meta) (*Result, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, domain.ErrNotFound) {
		metrics.LoginAttemptsTotal.WithLabelValues("failed").Inc()
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.Compare(u.PasswordHash, req.Password) {
		metrics.LoginAttemptsTotal.WithLabelValues("failed").Inc()
		return nil, domain.ErrInvalidCredentials
	}
	if !u.Enable {
		metrics.LoginAttemptsTotal.WithLabelValues("disabled").Inc()
		return nil, domain.ErrAccountDisabled
	}

	res, err := s.mint(u.UserID, u.Email)
	if err != nil {
		return nil, err
	}
	res.User = u
	s.audit.Record(ctx, u.UserID, domain.AuditLogin, map[string]string{"ip": meta.IP})
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return res, nil
}

// Register creates an account for an email that has a verified register OTP.
// The OTP record is consumed in the same transaction that creates the user.
func (s *service) Register(ctx context.Context, req domain.RegisterRequest, meta Meta) (*Result, error) {
	rec, err := s.otpRecords.Get(ctx, req.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if rec == nil || !rec.Verified || rec.Purpose != domain.PurposeRegister ||
		s.now().Unix()-rec.CreatedAt > int64(s.otpExpiry/time.Second) {
		return nil, domain.ErrOTPNotVerified
	}

	_, err = s.users.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, domain.ErrAlreadyRegistered
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if err := password.ValidatePolicy(req.Password); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Enable:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	entry := s.audit.Entry(u.UserID, domain.AuditRegister, map[string]string{"ip": meta.IP})
	if err := s.registrar.Commit(ctx, u, entry); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.ErrOTPNotVerified
		}
		return nil, fmt.Errorf("register: %w", err)
	}
	metrics.NewUsersTotal.Inc()

	res, err := s.mint(u.UserID, u.Email)
	if err != nil {
		return nil, err
	}
	res.User = u

	s.mail.Send(u.Email, "Welcome to YatraOne Public Transport!", "welcome", map[string]string{
		"name":  strings.TrimSpace(u.FirstName + " " + u.LastName),
		"email": u.Email,
	})
	if err := s.notifier.Push(ctx, u.UserID, "Welcome to YatraOne", "Your account is ready."); err != nil {
		slog.Warn("welcome notification failed", "user_id", u.UserID, "err", err)
	}
	return res, nil
}

// Refresh rotates a refresh token. Checks run in a fixed order and a CSRF
// failure leaves all state untouched.
func (s *service) Refresh(ctx context.Context, refreshToken, csrfCookie, csrfHeader string) (*Result, error) {
	if refreshToken == "" {
		return nil, s.refreshFailed(domain.ErrNoRefreshToken, "no_token")
	}
	if !pkgtoken.Equal(csrfCookie, csrfHeader) {
		return nil, s.refreshFailed(domain.ErrCSRFMismatch, "csrf_mismatch")
	}
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return nil, s.refreshFailed(domain.ErrTokenInvalid, "invalid")
	}
	revoked, err := s.revocation.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		s.audit.Record(ctx, claims.Subject, domain.AuditRefreshReplay, map[string]string{"jti": claims.ID})
		return nil, s.refreshFailed(domain.ErrTokenRevoked, "revoked")
	}

	// Mint before claiming so a signing failure leaves the presented token usable.
	// A pair minted by a losing concurrent rotation is simply never handed out.
	res, err := s.mint(claims.Subject, claims.Email)
	if err != nil {
		return nil, err
	}
	won, err := s.revocation.Claim(ctx, claims.ID, claims.Remaining(s.now()))
	if err != nil {
		return nil, err
	}
	if !won {
		s.audit.Record(ctx, claims.Subject, domain.AuditRefreshReplay, map[string]string{"jti": claims.ID})
		return nil, s.refreshFailed(domain.ErrTokenRevoked, "revoked")
	}
	metrics.TokenRefreshTotal.WithLabelValues("success").Inc()
	return res, nil
}

// Logout revokes the token's jti when the token is valid. It always succeeds.
func (s *service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return nil
	}
	if err := s.revocation.Revoke(ctx, claims.ID, claims.Remaining(s.now())); err != nil {
		slog.Warn("logout revoke failed", "user_id", claims.Subject, "err", err)
		return nil
	}
	s.audit.Record(ctx, claims.Subject, domain.AuditLogout, nil)
	return nil
}

// mint issues an access/refresh pair sharing a new jti, plus a CSRF token.
func (s *service) mint(sub, email string) (*Result, error) {
	jti := id.NewJTI()
	access, err := s.tokens.IssueAccessToken(sub, email, jti)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefreshToken(sub, email, jti)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	csrf, err := pkgtoken.NewCSRFToken()
	if err != nil {
		return nil, err
	}
	return &Result{AccessToken: access, RefreshToken: refresh, CSRFToken: csrf}, nil
}

func (s *service) refreshFailed(err *domain.Error, result string) error {
	metrics.TokenRefreshTotal.WithLabelValues(result).Inc()
	return err
}
