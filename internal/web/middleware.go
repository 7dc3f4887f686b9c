package web

import (
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"postboard/internal/auth"
	"postboard/internal/models"
)

const userContextKey = "postboard.user"

// identify resolves the session cookie into an explicit current
// identity. A missing, expired or unresolvable cookie means anonymous;
// it is never an error.
func (s *Server) identify(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(auth.CookieName)
		if err != nil || cookie.Value == "" {
			return next(c)
		}

		userID, err := s.sessions.Verify(cookie.Value)
		if err != nil {
			return next(c)
		}

		user, err := s.store.Users.ByID(c.Request().Context(), userID)
		if err != nil {
			// Token for a deleted account; treat as anonymous.
			return next(c)
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

// currentUser returns the authenticated user, or nil for visitors.
func currentUser(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)
	return user
}

// requireAuth redirects anonymous requests to the login form, keeping
// the original destination in the next parameter.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if currentUser(c) == nil {
			target := "/auth/login/?next=" + url.QueryEscape(c.Request().URL.RequestURI())
			return c.Redirect(http.StatusFound, target)
		}
		return next(c)
	}
}

// observe records request latency and writes an access log line.
func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		elapsed := time.Since(start)

		s.recorder.Record(elapsed)
		s.log.Infow("request",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"status", c.Response().Status,
			"duration", elapsed,
		)
		return err
	}
}
