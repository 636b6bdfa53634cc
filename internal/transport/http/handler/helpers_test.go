package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yatraone/transit-api/internal/config"
	jwtinfra "github.com/yatraone/transit-api/internal/infrastructure/jwt"
	"github.com/yatraone/transit-api/internal/transport/http/middleware"
)

var testCookies = config.CookieConfig{Path: "/api/auth/refresh-token", Secure: true, MaxAge: 7 * 24 * time.Hour}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withClaims(req *http.Request, sub, email, jti string) *http.Request {
	claims := &jwtinfra.Claims{Email: email}
	claims.Subject = sub
	claims.ID = jti
	return req.WithContext(context.WithValue(req.Context(), middleware.ClaimsKey, claims))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorEnvelope {
	t.Helper()
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

func findCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
