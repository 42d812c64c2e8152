package echoweb

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

	"github.com/trezcool/edutracker/assets"
	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/attendance"
	"github.com/trezcool/edutracker/core/dashboard"
	"github.com/trezcool/edutracker/core/gradebook"
	"github.com/trezcool/edutracker/core/journal"
	"github.com/trezcool/edutracker/core/leave"
	"github.com/trezcool/edutracker/core/reports"
	"github.com/trezcool/edutracker/core/student"
	"github.com/trezcool/edutracker/core/user"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		UserSvc       *user.Service
		GradebookSvc  *gradebook.Service
		AttendanceSvc *attendance.Service
		LeaveSvc      *leave.Service
		JournalSvc    *journal.Service
		StudentSvc    *student.Service
		DashboardSvc  *dashboard.Service
		ReportsSvc    *reports.Service
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		sessions sessionStore
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ http.Handler = (*Server)(nil) // interface compliance check

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps: deps,
		app:  echo.New(),
		sessions: sessionStore{
			issuer: deps.Conf.AppName,
			key:    []byte(deps.Conf.SecretKey),
			ttl:    deps.Conf.Server.SessionTTL,
			secure: !(deps.Conf.Debug || deps.Conf.TestMode),
		},
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(s.loadShell)

	s.app.Renderer = templateRenderer{}
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown, s.renderError)
	s.app.Debug = conf.Debug

	s.app.StaticFS("/static", echo.MustSubFS(assets.FS, "static"))
	s.registerRoutes()
}

// Start listens on the configured address. Failures are reported on Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already shutting down
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
