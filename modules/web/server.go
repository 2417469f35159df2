package web

import (
	"context"
	"errors"
	"time"

	"github.com/AleksKostadinov/todo-app/modules/activity"
	"github.com/AleksKostadinov/todo-app/modules/auth"
	"github.com/AleksKostadinov/todo-app/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	// DefaultActivityLimit is how many activity entries the list page shows.
	DefaultActivityLimit = 5

	csrfContextKey = "csrf"
	csrfFormField  = "_csrf"
)

// Options configures the HTTP server.
type Options struct {
	Addr          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	SessionTTL    time.Duration
	CookieSecure  bool
	ActivityLimit int
}

// HealthChecker is implemented by every mono module and plugin that reports health.
type HealthChecker interface {
	Health(ctx context.Context) mono.HealthStatus
}

// Deps are the ports the handlers call.
type Deps struct {
	Auth     auth.AuthPort
	Tasks    task.TaskPort
	Activity activity.ActivityPort
	// Storage backs sessions and CSRF tokens; nil keeps both in memory.
	Storage fiber.Storage
	// Throttle returns middleware limiting a scope; nil disables throttling.
	Throttle func(scope string) fiber.Handler
	// HealthChecks are reported by /health, keyed by component name.
	HealthChecks map[string]HealthChecker
	Logger       types.Logger
}

// Server is the fiber application serving the to-do pages.
type Server struct {
	app      *fiber.App
	opts     Options
	auth     auth.AuthPort
	tasks    task.TaskPort
	activity activity.ActivityPort
	sessions *session.Store
	storage  fiber.Storage
	throttle func(scope string) fiber.Handler
	health   map[string]HealthChecker
	logger   types.Logger
}

// NewServer builds the fiber app with all routes registered.
func NewServer(opts Options, deps Deps) (*Server, error) {
	if deps.Auth == nil || deps.Tasks == nil {
		return nil, errors.New("web: auth and task ports are required")
	}
	if opts.ActivityLimit <= 0 {
		opts.ActivityLimit = DefaultActivityLimit
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}

	views, err := NewViews()
	if err != nil {
		return nil, err
	}

	s := &Server{
		opts:     opts,
		auth:     deps.Auth,
		tasks:    deps.Tasks,
		activity: deps.Activity,
		storage:  deps.Storage,
		throttle: deps.Throttle,
		health:   deps.HealthChecks,
		logger:   deps.Logger,
	}
	s.sessions = NewSessionStore(SessionOptions{TTL: opts.SessionTTL, CookieSecure: opts.CookieSecure}, deps.Storage)

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
		ReadTimeout:           opts.ReadTimeout,
		WriteTimeout:          opts.WriteTimeout,
		Views:                 views,
		ViewsLayout:           layoutName,
	})

	s.app.Use(recover.New())
	s.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	s.setupRoutes()
	return s, nil
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) setupRoutes() {
	s.app.Get("/health", s.healthCheck)

	// CSRF tokens live in the session storage for the session lifetime.
	s.app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:" + csrfFormField,
		CookieName:     "todo_csrf",
		CookieSameSite: "Lax",
		CookieSecure:   s.opts.CookieSecure,
		CookieHTTPOnly: true,
		ContextKey:     csrfContextKey,
		Expiration:     s.opts.SessionTTL,
		Storage:        s.storage,
	}))
	s.app.Use(s.loadUser)

	s.app.Get("/login", s.redirectAuthenticated, s.loginForm)
	s.app.Post("/login", s.limit("login"), s.login)
	s.app.Get("/logout", s.logout)
	s.app.Post("/logout", s.logout)
	s.app.Get("/register", s.redirectAuthenticated, s.registerForm)
	s.app.Post("/register", s.limit("register"), s.register)

	s.app.Get("/", s.requireLogin, s.taskList)
	s.app.Get("/detail/:id/", s.requireLogin, s.taskDetail)
	s.app.Get("/create/", s.requireLogin, s.taskList)
	s.app.Post("/create/", s.requireLogin, s.taskCreate)
	s.app.Get("/update/:id/", s.requireLogin, s.taskUpdateForm)
	s.app.Post("/update/:id/", s.requireLogin, s.taskUpdate)
	s.app.Get("/delete/:id/", s.requireLogin, s.taskDeleteConfirm)
	s.app.Post("/delete/:id/", s.requireLogin, s.taskDelete)
	s.app.Post("/delete_completed/", s.requireLogin, s.deleteCompleted)
}

func (s *Server) limit(scope string) fiber.Handler {
	if s.throttle == nil {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return s.throttle(scope)
}

// healthCheck reports the health of every registered component. Any
// unhealthy component turns the response into a 503.
func (s *Server) healthCheck(c *fiber.Ctx) error {
	status := "healthy"
	code := fiber.StatusOK
	components := make(fiber.Map, len(s.health))

	for name, checker := range s.health {
		h := checker.Health(c.UserContext())
		components[name] = fiber.Map{
			"healthy": h.Healthy,
			"message": h.Message,
		}
		if !h.Healthy {
			status = "unhealthy"
			code = fiber.StatusServiceUnavailable
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"status":     status,
		"components": components,
	})
}

// render executes a page template with the values every page needs.
func (s *Server) render(c *fiber.Ctx, status int, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if _, ok := data["Title"]; !ok {
		data["Title"] = pageTitles[name]
	}
	data["CSRF"] = c.Locals(csrfContextKey)
	data["CSRFField"] = csrfFormField
	if claims := currentUser(c); claims != nil {
		data["User"] = claims
	}
	return c.Status(status).Render(name, data)
}

// errorHandler renders the error page. Server errors are logged and shown
// generically.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}
	switch {
	case code == fiber.StatusNotFound:
		message = "Not Found"
	case code >= fiber.StatusInternalServerError:
		s.logger.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
		message = "Server Error"
	}

	if renderErr := s.render(c, code, "error", fiber.Map{"Title": message, "Status": code, "Message": message}); renderErr != nil {
		s.logger.Error("Failed to render error page", "error", renderErr)
		return c.Status(code).SendString(message)
	}
	return nil
}
