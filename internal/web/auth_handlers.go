package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"postboard/internal/auth"
	"postboard/internal/database"
	"postboard/internal/models"
	"postboard/internal/store"
)

type authFormData struct {
	User      *models.User
	Username  string
	Next      string
	FormError string
}

func (s *Server) loginForm(c echo.Context) error {
	return c.Render(http.StatusOK, "login", authFormData{
		User: currentUser(c),
		Next: c.QueryParam("next"),
	})
}

func (s *Server) login(c echo.Context) error {
	form := authFormData{
		User:     currentUser(c),
		Username: strings.TrimSpace(c.FormValue("username")),
		Next:     c.FormValue("next"),
	}
	password := c.FormValue("password")

	user, err := s.store.Users.ByUsername(c.Request().Context(), form.Username)
	if err != nil && !errors.Is(err, database.ErrNoRows) {
		return err
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		form.FormError = "Wrong username or password."
		return c.Render(http.StatusOK, "login", form)
	}

	if err := s.startSession(c, user); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, safeNext(form.Next))
}

func (s *Server) signupForm(c echo.Context) error {
	return c.Render(http.StatusOK, "signup", authFormData{User: currentUser(c)})
}

func (s *Server) signup(c echo.Context) error {
	form := authFormData{
		User:     currentUser(c),
		Username: strings.TrimSpace(c.FormValue("username")),
	}
	password := c.FormValue("password")

	switch {
	case form.Username == "":
		form.FormError = "A username is required."
	case blank(password):
		form.FormError = "A password is required."
	}
	if form.FormError != "" {
		return c.Render(http.StatusOK, "signup", form)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user, err := s.store.Users.Create(c.Request().Context(), form.Username, hash)
	if err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			form.FormError = "That username is already taken."
			return c.Render(http.StatusOK, "signup", form)
		}
		return err
	}

	if err := s.startSession(c, user); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/")
}

func (s *Server) logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.Redirect(http.StatusFound, "/")
}

func (s *Server) startSession(c echo.Context, user *models.User) error {
	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessions.MaxAge().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// safeNext keeps the post-login redirect on this site. Anything that is
// not a plain local path falls back to the front page.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
