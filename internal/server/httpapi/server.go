// Package httpapi exposes the application over HTTP: the public auth
// endpoints, the identity middleware, and the owner-scoped todo routes.
package httpapi

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/babalolajnr/todo-api/internal/logging"
	"github.com/babalolajnr/todo-api/internal/server/models"
	"github.com/babalolajnr/todo-api/internal/server/services"
)

// UserService is the slice of the user service the HTTP layer depends on.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password, clientIP string) (string, error)
}

// TodoService is the slice of the todo service the HTTP layer depends on.
type TodoService interface {
	Create(ctx context.Context, ownerID, title, description string) (*models.Todo, error)
	List(ctx context.Context, ownerID string) ([]*models.Todo, error)
	Get(ctx context.Context, id, ownerID string) (*models.Todo, error)
	Update(ctx context.Context, id, ownerID string, upd services.TodoUpdate) (*models.Todo, error)
	Toggle(ctx context.Context, id, ownerID string) (*models.Todo, error)
	Delete(ctx context.Context, id, ownerID string) error
	AttachmentUploadURL(ctx context.Context, id, ownerID string) (string, error)
	AttachmentDownloadURL(ctx context.Context, id, ownerID string) (string, error)
}

var (
	_ UserService = (*services.UserService)(nil)
	_ TodoService = (*services.TodoService)(nil)
)

type HTTPServer struct {
	address   string
	users     UserService
	todos     TodoService
	logger    logging.Logger
	jwtSecret []byte
}

func NewHTTPServer(address string, l logging.Logger, us UserService, ts TodoService, secretKey string) (*HTTPServer, error) {
	return &HTTPServer{
		address:   address,
		logger:    l.With("module", "http_server"),
		users:     us,
		todos:     ts,
		jwtSecret: []byte(secretKey),
	}, nil
}

func (s *HTTPServer) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	api := app.Group("/api")

	authAPI := api.Group("/auth")
	authAPI.Post("/register", s.register)
	authAPI.Post("/login", s.login)

	todoAPI := api.Group("/todos", s.requireIdentity)
	todoAPI.Get("/", s.listTodos)
	todoAPI.Post("/", s.createTodo)
	todoAPI.Get("/:id", s.getTodo)
	todoAPI.Patch("/:id/toggle", s.toggleTodo)
	todoAPI.Patch("/:id", s.updateTodo)
	todoAPI.Delete("/:id", s.deleteTodo)
	todoAPI.Post("/:id/attachment", s.attachmentUploadURL)
	todoAPI.Get("/:id/attachment", s.attachmentDownloadURL)

	return app
}

func (s *HTTPServer) Run(ctx context.Context) error {

	app := s.newApp()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			s.logger.Error(ctx, "Error stopping HTTP server", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := app.Listen(s.address); err != nil {
		return err
	}

	return nil
}
