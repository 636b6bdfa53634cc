package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yatraone/transit-api/internal/config"
	"github.com/yatraone/transit-api/internal/transport/http/handler"
	appmiddleware "github.com/yatraone/transit-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. ctx bounds the
// lifetime of the rate limiter's background cleanup.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(appmiddleware.Instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.Tokens)

	// 5 requests/second, burst of 10, on endpoints that send mail or check secrets.
	sensitiveRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(5), 10)

	healthH := handler.NewHealthHandler(deps.Redis)
	otpH := handler.NewOTPHandler(deps.OTP)
	sessionH := handler.NewSessionHandler(deps.Sessions, cfg.Cookie)
	accountH := handler.NewAccountHandler(deps.Accounts, cfg.Cookie)
	notifH := handler.NewNotificationHandler(deps.Notifications)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthH.Check)

		r.Route("/auth", func(r chi.Router) {
			r.With(sensitiveRL.Limit).Post("/send-otp", otpH.Send)
			r.With(sensitiveRL.Limit).Post("/resend-otp", otpH.Resend)
			r.Post("/verify-otp", otpH.Verify)
			r.With(sensitiveRL.Limit).Post("/login", sessionH.Login)
			r.With(sensitiveRL.Limit).Post("/register", sessionH.Register)
			r.Post("/refresh-token", sessionH.Refresh)
			r.Post("/logout", sessionH.Logout)
			r.With(sensitiveRL.Limit).Post("/reset-password", accountH.ResetPassword)
			r.With(authMw).Post("/delete-account", accountH.DeleteAccount)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/notifications", notifH.ListUnread)
			r.Put("/notifications/{id}", notifH.MarkAsRead)
		})
	})

	return r
}
