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

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/core/organizer"
	"github.com/trezcool/organizer/core/user"
)

type (
	ServerDeps struct {
		Conf         *core.Config
		Logger       core.Logger
		UserSvc      *user.Service
		OrganizerSvc *organizer.Service
		Validate     *validator.Validate
		Translator   ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(ctx context.Context) error
		Close() error
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		flashes  *flashStore
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil) // interface compliance check

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		flashes:  newFlashStore(deps.Conf),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.BodyLimit("20M"))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(conf.AppName, s.deps.Logger, s.flashes, s.deps.Translator, s.signalShutdown)
	s.app.Renderer = newTemplateRenderer(appfsWeb())
	s.app.Debug = conf.Debug

	h := &handler{
		conf:       conf,
		logger:     s.deps.Logger,
		users:      s.deps.UserSvc,
		svc:        s.deps.OrganizerSvc,
		flashes:    s.flashes,
		validate:   s.deps.Validate,
		translator: s.deps.Translator,
	}
	registerRoutes(s.app, h)
}

func registerRoutes(app *echo.Echo, h *handler) {
	app.Use(h.actorMiddleware)
	auth := requireLogin

	app.GET("/", h.home)
	app.GET("/login", h.loginPage)
	app.POST("/login", h.login)
	app.POST("/logout", h.logout)

	app.GET("/calendar", h.monthCalendar, auth)
	app.GET("/calendar.ics", h.exportCalendar, auth)

	app.POST("/assignments", h.addAssignment, auth)
	app.POST("/assignments/delete", h.deleteAssignment, auth)
	app.POST("/assignments/check", h.checkAssignment, auth)
	app.POST("/colors", h.setColor, auth)

	cg := app.Group("/classes", auth)
	cg.GET("", h.myClasses)
	cg.GET("/all", h.allClasses)
	cg.GET("/new", h.newClassPage)
	cg.POST("", h.createClass)
	cg.GET("/:name", h.classPage)
	cg.POST("/:name/enroll", h.enroll)
	cg.POST("/:name/unenroll", h.unenroll)
	cg.POST("/:name/syllabus", h.importSyllabus)
	cg.GET("/:name/files", h.classFiles)
	cg.POST("/:name/files", h.uploadFile)

	app.GET("/files/:id", h.downloadFile, auth)
	app.POST("/files/:id/delete", h.deleteFile, auth)

	app.GET("/users/:id", h.userPage, auth)
	app.GET("/users/:id/photo", h.userPhoto, auth)
	app.GET("/profile", h.profilePage, auth)
	app.POST("/profile", h.updateProfile, auth)
	app.POST("/profile/photo", h.updateProfilePhoto, auth)
}

func (s *server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Host); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *server) Errors() <-chan error { return s.errors }

func (s *server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already shutting down
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
