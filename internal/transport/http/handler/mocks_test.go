package handler

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/yatraone/transit-api/internal/application/account"
	"github.com/yatraone/transit-api/internal/application/session"
	"github.com/yatraone/transit-api/internal/domain"
)

type mockOTPService struct{ mock.Mock }

func (m *mockOTPService) Send(ctx context.Context, email string, purpose domain.Purpose) (int64, error) {
	args := m.Called(ctx, email, purpose)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOTPService) Resend(ctx context.Context, email string, purpose domain.Purpose) (int64, error) {
	args := m.Called(ctx, email, purpose)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOTPService) Verify(ctx context.Context, email, code string, purpose domain.Purpose) error {
	return m.Called(ctx, email, code, purpose).Error(0)
}

func (m *mockOTPService) Sweep(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockSessionService struct{ mock.Mock }

func (m *mockSessionService) Login(ctx context.Context, req session.LoginRequest, meta session.Meta) (*session.Result, error) {
	args := m.Called(ctx, req, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Result), args.Error(1)
}

func (m *mockSessionService) Register(ctx context.Context, req domain.RegisterRequest, meta session.Meta) (*session.Result, error) {
	args := m.Called(ctx, req, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Result), args.Error(1)
}

func (m *mockSessionService) Refresh(ctx context.Context, refreshToken, csrfCookie, csrfHeader string) (*session.Result, error) {
	args := m.Called(ctx, refreshToken, csrfCookie, csrfHeader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Result), args.Error(1)
}

func (m *mockSessionService) Logout(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

type mockAccountService struct{ mock.Mock }

func (m *mockAccountService) ResetPassword(ctx context.Context, req account.ResetPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockAccountService) DeleteAccount(ctx context.Context, who account.Principal, req account.DeleteAccountRequest) error {
	return m.Called(ctx, who, req).Error(0)
}

type mockNotificationService struct{ mock.Mock }

func (m *mockNotificationService) Push(ctx context.Context, userID, title, message string) error {
	return m.Called(ctx, userID, title, message).Error(0)
}

func (m *mockNotificationService) ListUnread(ctx context.Context, userID string) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *mockNotificationService) MarkAsRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }
