// Package web wires the HTTP surface: routing, identity resolution and
// the request handlers.
package web

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"postboard/internal/auth"
	"postboard/internal/database"
	"postboard/internal/metrics"
	"postboard/internal/models"
	"postboard/internal/storage"
	"postboard/internal/store"
)

type Server struct {
	echo     *echo.Echo
	store    *store.Store
	sessions *auth.Sessions
	images   *storage.ImageStore
	recorder *metrics.Recorder
	log      *zap.SugaredLogger
}

func NewServer(st *store.Store, sessions *auth.Sessions, images *storage.ImageStore, logger *zap.Logger) (*Server, error) {
	r, err := newRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = r

	s := &Server{
		echo:     e,
		store:    st,
		sessions: sessions,
		images:   images,
		recorder: metrics.NewRecorder(),
		log:      logger.Sugar(),
	}
	e.HTTPErrorHandler = s.errorHandler

	e.Use(s.observe)
	e.Use(s.identify)

	e.GET("/", s.home)
	e.GET("/group/:slug/", s.groupPosts)
	e.GET("/profile/:username/", s.profile)
	e.GET("/posts/:id/", s.postDetail)

	authed := s.requireAuth
	e.GET("/create/", s.createPostForm, authed)
	e.POST("/create/", s.createPost, authed)
	e.GET("/posts/:id/edit/", s.editPostForm, authed)
	e.POST("/posts/:id/edit/", s.editPost, authed)
	e.POST("/posts/:id/comment/", s.addComment, authed)
	e.GET("/follow/", s.followFeed, authed)
	e.GET("/profile/:username/follow/", s.follow, authed)
	e.GET("/profile/:username/unfollow/", s.unfollow, authed)

	e.GET("/auth/login/", s.loginForm)
	e.POST("/auth/login/", s.login)
	e.GET("/auth/signup/", s.signupForm)
	e.POST("/auth/signup/", s.signup)
	e.GET("/auth/logout/", s.logout)

	e.GET("/internal/stats", s.stats)
	e.Static("/media", images.Dir)

	return s, nil
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.echo }

func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) stats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.recorder.Snapshot())
}

// notFoundOnMiss translates a storage miss into a 404 page.
func notFoundOnMiss(err error) error {
	if errors.Is(err, database.ErrNoRows) {
		return echo.ErrNotFound
	}
	return err
}

type errorData struct {
	User    *models.User
	Code    int
	Message string
}

func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := ""
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		if m, ok := httpErr.Message.(string); ok && m != http.StatusText(code) {
			message = m
		}
	}
	if message == "" {
		switch code {
		case http.StatusNotFound:
			message = "There is nothing at this address."
		case http.StatusForbidden:
			message = "You are not allowed to do that."
		default:
			message = "Something went wrong on our side."
		}
	}
	if code >= http.StatusInternalServerError {
		s.log.Errorw("request failed", "path", c.Request().URL.Path, "error", err)
	}

	data := errorData{User: currentUser(c), Code: code, Message: message}
	if rerr := c.Render(code, "error", data); rerr != nil {
		s.log.Errorw("render error page", "error", rerr)
		_ = c.String(code, message)
	}
}
