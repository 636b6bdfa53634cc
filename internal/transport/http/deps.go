package http

import (
	"context"

	"github.com/yatraone/transit-api/internal/application/account"
	"github.com/yatraone/transit-api/internal/application/notification"
	"github.com/yatraone/transit-api/internal/application/otp"
	"github.com/yatraone/transit-api/internal/application/session"
	jwtinfra "github.com/yatraone/transit-api/internal/infrastructure/jwt"
)

// TokenVerifier validates bearer tokens for the authenticated routes.
type TokenVerifier interface {
	Verify(token string) (*jwtinfra.Claims, error)
}

// Pinger is a dependency the health endpoint pings.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps holds the application services and the auth collaborators the router wires.
type Deps struct {
	OTP           otp.Service
	Sessions      session.Service
	Accounts      account.Service
	Notifications notification.Service
	Tokens        TokenVerifier
	Redis         Pinger
}
