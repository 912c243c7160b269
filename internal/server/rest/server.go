// Package rest exposes the task and user services over HTTP with echo.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

type UserService interface {
	Login(ctx context.Context, userName, password string) (string, error)
	Register(ctx context.Context, userName, password string) (*models.UserSummary, error)
	ListActive(ctx context.Context) ([]models.UserSummary, error)
	ListPage(ctx context.Context, params services.UserListParams) (*models.UserPage, error)
	Get(ctx context.Context, id int64) (*models.UserSummary, error)
	Update(ctx context.Context, id int64, userName, password *string) (*models.UserSummary, error)
	Delete(ctx context.Context, id int64) error
	SetStatus(ctx context.Context, id int64, status string) (*models.UserSummary, error)
	DoneTasks(ctx context.Context, id int64) (*models.UserDoneTasks, error)
}

type TaskService interface {
	List(ctx context.Context, who auth.Identity) ([]models.Task, error)
	Create(ctx context.Context, who auth.Identity, name string) (*models.Task, error)
	Get(ctx context.Context, who auth.Identity, id int64) (*models.Task, error)
	Rename(ctx context.Context, who auth.Identity, id int64, name string) (*models.Task, error)
	SetDone(ctx context.Context, who auth.Identity, id int64, done bool) (*models.Task, error)
	Delete(ctx context.Context, who auth.Identity, id int64) error
}

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

type Server struct {
	address         string
	shutdownTimeout time.Duration
	logger          logging.Logger
	users           UserService
	tasks           TaskService
	tokens          TokenVerifier
	metrics         *Metrics
	echo            *echo.Echo
}

func NewServer(address string, l logging.Logger, us UserService, ts TaskService, tokens TokenVerifier,
	reg *prometheus.Registry, shutdownTimeout time.Duration) *Server {
	s := &Server{
		address:         address,
		shutdownTimeout: shutdownTimeout,
		logger:          l.With("module", "http_server"),
		users:           us,
		tasks:           ts,
		tokens:          tokens,
		metrics:         NewMetrics(reg),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(s.metrics.Middleware())
	e.Use(requestLogger(s.logger))
	// Innermost, so a recovered panic reaches the logger and metrics as a 500.
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableErrorHandler: true,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			s.logger.Error(c.Request().Context(), "panic recovered", "error", err, "stack", string(stack))
			return err
		},
	}))

	s.echo = e
	s.routes()

	return s
}

func (s *Server) routes() {
	e := s.echo

	e.GET("/ping", s.ping)
	e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	e.POST("/login", s.login)

	u := e.Group("/users")
	u.GET("", s.listActiveUsers)
	u.POST("", s.registerUser)
	u.GET("/list", s.listUsers)
	u.GET("/:id", s.getUser)
	u.PUT("/:id", s.updateUser)
	u.DELETE("/:id", s.deleteUser)
	u.PATCH("/:id/status", s.setUserStatus)
	u.GET("/:id/tasks", s.userDoneTasks)

	t := e.Group("/tasks", Gate(s.tokens))
	t.GET("", s.listTasks)
	t.POST("", s.createTask)
	t.GET("/:id", s.getTask)
	t.PUT("/:id", s.renameTask)
	t.PATCH("/:id/done", s.setTaskDone)
	t.DELETE("/:id", s.deleteTask)
}

// Handler returns the routed echo instance.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
}
