package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"habitquest/internal/engine"
)

func (s *Server) service(c *fiber.Ctx) (*engine.Service, error) {
	return s.reg.Service(c.UserContext(), c.Params("user"))
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	return nil
}

// dateOr parses raw as a date-key, falling back to the service's today.
func dateOr(svc *engine.Service, raw string) (engine.DateKey, error) {
	if raw == "" {
		return svc.Today(), nil
	}
	return engine.ParseDateKey(raw)
}

func (s *Server) getProgress(c *fiber.Ctx) error {
	svc, err := s.service(c)
	if err != nil {
		return err
	}
	return c.JSON(svc.Progress())
}

type pointsRequest struct {
	Category string `json:"category"`
	Delta    int    `json:"delta"`
}

func (s *Server) addPoints(c *fiber.Ctx) error {
	svc, err := s.service(c)
	if err != nil {
		return err
	}
	var req pointsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := svc.AddPoints(c.UserContext(), req.Category, req.Delta); err != nil {
		return err
	}
	return c.JSON(svc.Progress())
}

func (s *Server) resetPoints(c *fiber.Ctx) error {
	svc, err := s.service(c)
	if err != nil {
		return err
	}
	if err := svc.ResetPoints(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(svc.Progress())
}

type usersResponse struct {
	Users []string `json:"users"`
}

// listUsers returns every user with saved state, or the users opened since
// start when the store cannot enumerate.
func (s *Server) listUsers(c *fiber.Ctx) error {
	users, err := s.reg.Users(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(usersResponse{Users: users})
}

type dayRequest struct {
	Date      string `json:"date"`
	Qualified bool   `json:"qualified"`
}

func (s *Server) recordDay(c *fiber.Ctx) error {
	svc, err := s.service(c)
	if err != nil {
		return err
	}
	var req dayRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	day, err := dateOr(svc, req.Date)
	if err != nil {
		return err
	}
	res, err := svc.RecordDay(c.UserContext(), day, req.Qualified)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

type tasksResponse struct {
	Date  engine.DateKey `json:"date"`
	Tasks []engine.Task  `json:"tasks"`
}

func (s *Server) listTasks(c *fiber.Ctx) error {
	svc, err := s.service(c)
	if err != nil {
		return err
	}
	day, err := dateOr(svc, c.Query("date"))
	if err != nil {
		return err
	}
	return c.JSON(tasksResponse{Date: day, Tasks: svc.Tasks(day)})
}

type addTaskRequest struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

func (s *Server) addTask(c *fiber.Ctx) error {
	svc, err := s.service(c)
	if err != nil {
		return err
	}
	var req addTaskRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	day, err := dateOr(svc, req.Date)
	if err != nil {
		return err
	}
	task, err := svc.AddTask(c.UserContext(), day, req.Title)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

func (s *Server) updateTask(c *fiber.Ctx) error {
	svc, err := s.service(c)
	if err != nil {
		return err
	}
	day, err := engine.ParseDateKey(c.Params("date"))
	if err != nil {
		return err
	}
	var patch engine.TaskPatch
	if err := parseBody(c, &patch); err != nil {
		return err
	}
	task, err := svc.UpdateTask(c.UserContext(), day, c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(task)
}

func (s *Server) deleteTask(c *fiber.Ctx) error {
	svc, err := s.service(c)
	if err != nil {
		return err
	}
	day, err := engine.ParseDateKey(c.Params("date"))
	if err != nil {
		return err
	}
	if err := svc.DeleteTask(c.UserContext(), day, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type toggleRequest struct {
	Completed bool `json:"completed"`
}

func (s *Server) toggleTask(c *fiber.Ctx) error {
	svc, err := s.service(c)
	if err != nil {
		return err
	}
	day, err := engine.ParseDateKey(c.Params("date"))
	if err != nil {
		return err
	}
	var req toggleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	res, err := svc.ToggleCompletion(c.UserContext(), day, c.Params("id"), req.Completed)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (s *Server) getAchievements(c *fiber.Ctx) error {
	svc, err := s.service(c)
	if err != nil {
		return err
	}
	return c.JSON(svc.Achievements())
}

func (s *Server) getLeaderboard(c *fiber.Ctx) error {
	svc, err := s.service(c)
	if err != nil {
		return err
	}
	if c.QueryBool("refresh") {
		if err := svc.RefreshLeaderboard(c.UserContext()); err != nil {
			return err
		}
	}
	return c.JSON(svc.Ranked())
}

func (s *Server) startQuiz(c *fiber.Ctx) error {
	svc, err := s.service(c)
	if err != nil {
		return err
	}
	view, err := svc.StartQuiz(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

func (s *Server) getQuiz(c *fiber.Ctx) error {
	svc, err := s.service(c)
	if err != nil {
		return err
	}
	view, err := svc.Quiz(c.Params("session"))
	if err != nil {
		return err
	}
	return c.JSON(view)
}

type answerRequest struct {
	Choice *int `json:"choice"`
}

type answerResponse struct {
	Result engine.AnswerResult `json:"result"`
	Quiz   engine.QuizView     `json:"quiz"`
}

func (s *Server) answerQuiz(c *fiber.Ctx) error {
	svc, err := s.service(c)
	if err != nil {
		return err
	}
	var req answerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Choice == nil {
		return &engine.ValidationError{Field: "choice", Reason: "is required"}
	}
	res, view, err := svc.SubmitAnswer(c.UserContext(), c.Params("session"), *req.Choice)
	if err != nil {
		return err
	}
	return c.JSON(answerResponse{Result: res, Quiz: view})
}

func (s *Server) spinQuiz(c *fiber.Ctx) error {
	svc, err := s.service(c)
	if err != nil {
		return err
	}
	res, err := svc.Spin(c.UserContext(), c.Params("session"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (s *Server) nextRound(c *fiber.Ctx) error {
	svc, err := s.service(c)
	if err != nil {
		return err
	}
	view, err := svc.NextRound(c.Params("session"))
	if err != nil {
		return err
	}
	return c.JSON(view)
}

func (s *Server) abandonQuiz(c *fiber.Ctx) error {
	svc, err := s.service(c)
	if err != nil {
		return err
	}
	if err := svc.AbandonQuiz(c.Params("session")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
