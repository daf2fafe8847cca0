// Package httpapi exposes the engine over a JSON HTTP API.
package httpapi

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Server struct {
	reg    *Registry
	logger *log.Logger
}

// New builds the fiber app with every route registered.
func New(reg *Registry, logger *log.Logger) *fiber.App {
	s := &Server{reg: reg, logger: logger}
	app := fiber.New(fiber.Config{
		AppName:               "habitquest",
		DisableStartupMessage: true,
		// Params outlive the request as registry and task-map keys.
		Immutable:    true,
		ErrorHandler: s.handleError,
	})
	app.Use(recover.New())
	app.Use(s.logRequests)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/api/users", s.listUsers)

	users := app.Group("/api/users/:user")
	users.Get("/progress", s.getProgress)
	users.Post("/points", s.addPoints)
	users.Delete("/points", s.resetPoints)
	users.Post("/day", s.recordDay)

	users.Get("/tasks", s.listTasks)
	users.Post("/tasks", s.addTask)
	users.Patch("/tasks/:date/:id", s.updateTask)
	users.Delete("/tasks/:date/:id", s.deleteTask)
	users.Post("/tasks/:date/:id/toggle", s.toggleTask)

	users.Get("/achievements", s.getAchievements)
	users.Get("/leaderboard", s.getLeaderboard)

	users.Post("/quiz", s.startQuiz)
	users.Get("/quiz/:session", s.getQuiz)
	users.Post("/quiz/:session/answer", s.answerQuiz)
	users.Post("/quiz/:session/spin", s.spinQuiz)
	users.Post("/quiz/:session/next", s.nextRound)
	users.Delete("/quiz/:session", s.abandonQuiz)

	return app
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	status := c.Response().StatusCode()
	if err != nil {
		status = StatusFor(err)
	}
	s.logger.Info("request",
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"dur", time.Since(start),
	)
	return err
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Path(), "err", err)
	}
	return c.Status(status).JSON(errorResponse{Error: err.Error()})
}
