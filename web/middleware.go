package webui

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/matriculapp/academico/core/session"
)

// publicOnlyMiddleware keeps authenticated sessions away from the auth
// pages; they land on the dashboard instead.
func publicOnlyMiddleware(sessions *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if sessions.IsAuthenticated() {
				return ctx.Redirect(http.StatusFound, "/dashboard")
			}
			return next(ctx)
		}
	}
}

// loginRequiredMiddleware keeps anonymous sessions away from protected
// pages; they land on the login form instead.
func loginRequiredMiddleware(sessions *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if !sessions.IsAuthenticated() {
				return ctx.Redirect(http.StatusFound, "/login")
			}
			return next(ctx)
		}
	}
}
