package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"go.uber.org/dig"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/guru"
	"github.com/simtahfidz/backend/core/kelas"
	"github.com/simtahfidz/backend/core/quran"
	"github.com/simtahfidz/backend/core/report"
	"github.com/simtahfidz/backend/core/santri"
	"github.com/simtahfidz/backend/core/setoran"
	"github.com/simtahfidz/backend/core/tag"
	"github.com/simtahfidz/backend/core/user"
)

type (
	// Deps are the collaborators of the Server, resolved by the dig container.
	Deps struct {
		dig.In

		Conf       *core.Config
		Logger     core.Logger
		Metrics    core.Metrics
		Validate   *validator.Validate
		Translator ut.Translator

		UserSvc    user.Service
		ClassSvc   *kelas.Service
		QuranSvc   *quran.Service
		TagSvc     *tag.Service
		SantriSvc  *santri.Service
		GuruSvc    *guru.Service
		SetoranSvc *setoran.Service
		ReportSvc  *report.Service
	}

	Server struct {
		app      *echo.Echo
		deps     Deps
		shutdown chan os.Signal
		errors   chan error
	}
)

func NewServer(deps Deps) *Server {
	s := &Server{
		app:      echo.New(),
		deps:     deps,
		shutdown: make(chan os.Signal, 1),
		errors:   make(chan error, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Server.Addr = conf.Server.Address
	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(metricsMiddleware(s.deps.Metrics))
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.SignalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", s.home)

	api := s.app.Group("/api")
	jwt := middleware.JWTWithConfig(newJWTConfig(conf))
	authed := []echo.MiddlewareFunc{jwt, sessionMiddleware(s.deps.UserSvc)}

	registerAuthAPI(api, authed, s.deps)
	registerLookupAPI(api, authed, s.deps)
	registerGuruAPI(api, append(authed, roleMiddleware(s.deps.UserSvc, user.RoleGuru)), s.deps)
	registerAdminAPI(api, append(authed, roleMiddleware(s.deps.UserSvc, user.RoleAdmin)), s.deps)
	registerSantriAPI(api, append(authed, roleMiddleware(s.deps.UserSvc, user.RoleSantri)), s.deps)
}

func (s *Server) Start() {
	if err := s.app.StartServer(s.app.Server); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

// Errors receives the error that stopped the server, if any.
func (s *Server) Errors() <-chan error {
	return s.errors
}

// ShutdownSignal receives os signals and internal shutdown requests.
func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.deps.Conf.AppName+" API!")
}
