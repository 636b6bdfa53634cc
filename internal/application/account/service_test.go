package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yatraone/transit-api/internal/domain"
	"github.com/yatraone/transit-api/internal/pkg/password"
)

// --- mocks ---

type mockVerifier struct{ mock.Mock }

func (m *mockVerifier) Verify(ctx context.Context, email, code string, purpose domain.Purpose) error {
	return m.Called(ctx, email, code, purpose).Error(0)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) UpdatePassword(ctx context.Context, userID, hash string) error {
	return m.Called(ctx, userID, hash).Error(0)
}
func (m *mockUserStore) Delete(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockRevoker struct{ mock.Mock }

func (m *mockRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return m.Called(ctx, jti, ttl).Error(0)
}

type mockAuditor struct{ mock.Mock }

func (m *mockAuditor) Record(ctx context.Context, userID, action string, details map[string]string) {
	m.Called(ctx, userID, action, details)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Push(ctx context.Context, userID, title, message string) error {
	return m.Called(ctx, userID, title, message).Error(0)
}

type mocks struct {
	otp      *mockVerifier
	users    *mockUserStore
	revoker  *mockRevoker
	audit    *mockAuditor
	notifier *mockNotifier
}

func newTestService() (Service, mocks) {
	m := mocks{
		otp:      &mockVerifier{},
		users:    &mockUserStore{},
		revoker:  &mockRevoker{},
		audit:    &mockAuditor{},
		notifier: &mockNotifier{},
	}
	svc := NewService(ServiceDeps{
		OTP:        m.otp,
		Users:      m.users,
		Revocation: m.revoker,
		Audit:      m.audit,
		Notifier:   m.notifier,
		Hasher:     password.NewHasher(4),
	})
	return svc, m
}

const newPassword = "N3w!secret"

// --- reset password ---

func TestResetPassword_WeakPasswordKeepsOTP(t *testing.T) {
	svc, m := newTestService()

	err := svc.ResetPassword(context.Background(), ResetPasswordRequest{Email: "a@b.com", OTP: "123456", NewPassword: "short"})
	assert.True(t, password.IsWeak(err))
	m.otp.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResetPassword_OverlongMultibytePasswordKeepsOTP(t *testing.T) {
	svc, m := newTestService()

	err := svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Email:       "a@b.com",
		OTP:         "123456",
		NewPassword: "Aa1!" + strings.Repeat("é", 40),
	})
	assert.True(t, password.IsWeak(err))
	m.otp.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestResetPassword_OTPErrorPropagates(t *testing.T) {
	svc, m := newTestService()
	m.otp.On("Verify", mock.Anything, "a@b.com", "123456", domain.PurposeForgotPassword).Return(domain.ErrOTPExpired)

	err := svc.ResetPassword(context.Background(), ResetPasswordRequest{Email: "a@b.com", OTP: "123456", NewPassword: newPassword})
	assert.ErrorIs(t, err, domain.ErrOTPExpired)
	m.users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestResetPassword_Success(t *testing.T) {
	svc, m := newTestService()
	m.otp.On("Verify", mock.Anything, "a@b.com", "123456", domain.PurposeForgotPassword).Return(nil)
	m.users.On("GetByEmail", mock.Anything, "a@b.com").Return(&domain.User{UserID: "u1", Email: "a@b.com"}, nil)
	m.users.On("UpdatePassword", mock.Anything, "u1", mock.MatchedBy(func(h string) bool {
		return password.NewHasher(4).Compare(h, newPassword)
	})).Return(nil)
	m.audit.On("Record", mock.Anything, "u1", domain.AuditPasswordReset, mock.Anything).Return()
	m.notifier.On("Push", mock.Anything, "u1", "Password changed", mock.Anything).Return(errors.New("sns down"))

	err := svc.ResetPassword(context.Background(), ResetPasswordRequest{Email: "a@b.com", OTP: "123456", NewPassword: newPassword})
	require.NoError(t, err)
	m.users.AssertExpectations(t)
	m.audit.AssertExpectations(t)
}

func TestResetPassword_UserGone(t *testing.T) {
	svc, m := newTestService()
	m.otp.On("Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.users.On("GetByEmail", mock.Anything, "a@b.com").Return(nil, fmt.Errorf("user: %w", domain.ErrNotFound))

	err := svc.ResetPassword(context.Background(), ResetPasswordRequest{Email: "a@b.com", OTP: "123456", NewPassword: newPassword})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// --- delete account ---

func TestDeleteAccount_InvalidOTP(t *testing.T) {
	svc, m := newTestService()
	m.otp.On("Verify", mock.Anything, "a@b.com", "000000", domain.PurposeDeleteAccount).Return(domain.ErrInvalidOTP)

	err := svc.DeleteAccount(context.Background(), Principal{UserID: "u1", Email: "a@b.com", JTI: "j1"}, DeleteAccountRequest{OTP: "000000"})
	assert.ErrorIs(t, err, domain.ErrInvalidOTP)
	m.users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteAccount_Success(t *testing.T) {
	svc, m := newTestService()
	m.otp.On("Verify", mock.Anything, "a@b.com", "123456", domain.PurposeDeleteAccount).Return(nil)
	m.users.On("Delete", mock.Anything, "u1").Return(nil)
	m.audit.On("Record", mock.Anything, "u1", domain.AuditDeleteAccount, mock.Anything).Return()
	m.revoker.On("Revoke", mock.Anything, "j1", time.Duration(0)).Return(nil)

	err := svc.DeleteAccount(context.Background(), Principal{UserID: "u1", Email: "a@b.com", JTI: "j1"}, DeleteAccountRequest{OTP: "123456"})
	require.NoError(t, err)
	m.users.AssertExpectations(t)
	m.revoker.AssertExpectations(t)
}
