// Package webui serves the browser front end: the auth pages, the dashboard
// shell and the three entity screens, all rendered server-side over the same
// core modules the terminal client uses.
package webui

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/matriculapp/academico/core"
	"github.com/matriculapp/academico/core/auth"
	"github.com/matriculapp/academico/core/estudiante"
	"github.com/matriculapp/academico/core/materia"
	"github.com/matriculapp/academico/core/matricula"
	"github.com/matriculapp/academico/core/session"
)

type (
	ServerDeps struct {
		Addr           string
		DisableReqLogs bool
		Logger         core.Logger
		Sessions       *session.Store
		AuthSvc        *auth.Service
		Estudiantes    *estudiante.Module
		Materias       *materia.Module
		Matriculas     *matricula.Module
		Validate       *validator.Validate
		Translator     ut.Translator
	}

	Server interface {
		http.Handler
		Start() error
		Shutdown(context.Context) error
		ShutdownSignal() <-chan struct{}
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		shutdown chan struct{}
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		shutdown: make(chan struct{}),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	debug := core.Conf.GetBool("debug")

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || core.Conf.GetBool("testMode")) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.Renderer = newRenderer()
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Sessions, s.signalShutdown)
	s.app.Debug = debug
	s.app.HideBanner = true

	publicOnly := publicOnlyMiddleware(s.deps.Sessions)
	loginRequired := loginRequiredMiddleware(s.deps.Sessions)

	registerAuthPages(s.app, publicOnly, loginRequired, s.deps.AuthSvc, s.deps.Sessions, s.deps.Validate, s.deps.Translator)

	dg := s.app.Group("/dashboard", loginRequired)
	dg.GET("", func(ctx echo.Context) error {
		return ctx.Redirect(http.StatusFound, "/dashboard/estudiantes")
	})
	registerEstudiantes(dg, s.deps.Estudiantes, s.deps.Sessions)
	registerMaterias(dg, s.deps.Materias, s.deps.Sessions)
	registerMatriculas(dg, s.deps.Matriculas, s.deps.Sessions)
}

func (s *server) Start() error {
	return s.app.Start(s.deps.Addr)
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ShutdownSignal() <-chan struct{} {
	return s.shutdown
}

func (s *server) signalShutdown() {
	select {
	case <-s.shutdown:
	default:
		close(s.shutdown)
	}
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
