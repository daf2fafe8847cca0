package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitquest/internal/engine"
	"habitquest/internal/feed"
	"habitquest/internal/storage"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	reg := NewRegistry(storage.NewMemoryStore(), engine.Options{
		UserID:      "main_user",
		DisplayName: "You",
		Feed:        feed.NewStatic([]engine.LeaderboardEntry{{Name: "ana", XP: 500}}),
		Rand:        engine.NewSeededSource(9),
		Now:         func() time.Time { return time.Date(2026, 10, 16, 8, 0, 0, 0, time.Local) },
	})
	return New(reg, log.New(io.Discard))
}

func do(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestTaskLifecycle(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, http.MethodPost, "/api/users/main_user/tasks", `{"title":"Meditate"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))
	var task engine.Task
	require.NoError(t, json.Unmarshal(body, &task))
	assert.Equal(t, "Meditate", task.Title)
	assert.Equal(t, engine.DateKey("2026-10-16"), task.CreatedOn)

	base := "/api/users/main_user/tasks/2026-10-16/" + task.ID
	resp, body = do(t, app, http.MethodPost, base+"/toggle", `{"completed":true}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	var toggled engine.ToggleResult
	require.NoError(t, json.Unmarshal(body, &toggled))
	assert.Equal(t, engine.TaskCompletionXP, toggled.XPAwarded)

	resp, body = do(t, app, http.MethodPatch, base, `{"title":"Meditate 10 min"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), "Meditate 10 min")

	resp, body = do(t, app, http.MethodGet, "/api/users/main_user/tasks", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list tasksResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Tasks, 1)
	assert.True(t, list.Tasks[0].Completed)

	resp, body = do(t, app, http.MethodGet, "/api/users/main_user/progress", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var p engine.Progress
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, 20, p.TotalXP)

	resp, _ = do(t, app, http.MethodDelete, base, "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp, _ = do(t, app, http.MethodDelete, base, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestErrorMapping(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		method, path, body string
		status             int
	}{
		{http.MethodPost, "/api/users/main_user/points", `{"category":"fitness","delta":0}`, fiber.StatusBadRequest},
		{http.MethodPost, "/api/users/main_user/points", `not json`, fiber.StatusBadRequest},
		{http.MethodPost, "/api/users/main_user/tasks", `{"title":"  "}`, fiber.StatusBadRequest},
		{http.MethodGet, "/api/users/main_user/tasks?date=tomorrow", "", fiber.StatusBadRequest},
		{http.MethodPost, "/api/users/main_user/tasks/2026-10-16/nope/toggle", `{"completed":true}`, fiber.StatusNotFound},
		{http.MethodGet, "/api/users/main_user/quiz/nope", "", fiber.StatusNotFound},
	}
	for _, c := range cases {
		resp, body := do(t, app, c.method, c.path, c.body)
		assert.Equal(t, c.status, resp.StatusCode, "%s %s: %s", c.method, c.path, body)
		var e errorResponse
		require.NoError(t, json.Unmarshal(body, &e))
		assert.NotEmpty(t, e.Error)
	}
}

func TestQuizFlowOverHTTP(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, http.MethodPost, "/api/users/main_user/quiz", "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))
	var view engine.QuizView
	require.NoError(t, json.Unmarshal(body, &view))
	require.NotNil(t, view.Question)
	assert.Equal(t, engine.QuizAwaitingAnswer, view.State)
	assert.NotContains(t, string(body), `"answer"`)

	base := "/api/users/main_user/quiz/" + view.ID
	resp, _ = do(t, app, http.MethodPost, base+"/spin", "")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode, "spin before answering")

	resp, body = do(t, app, http.MethodPost, base+"/answer", `{}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, string(body))

	resp, body = do(t, app, http.MethodPost, base+"/answer", `{"choice":0}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	var ans answerResponse
	require.NoError(t, json.Unmarshal(body, &ans))
	assert.Equal(t, engine.QuizSpinEligible, ans.Quiz.State)
	assert.True(t, ans.Quiz.CanSpin)

	resp, body = do(t, app, http.MethodPost, base+"/spin", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	var spin engine.SpinResult
	require.NoError(t, json.Unmarshal(body, &spin))
	assert.Positive(t, spin.Segment.Reward)

	resp, body = do(t, app, http.MethodPost, base+"/spin", "")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode, string(body))

	resp, body = do(t, app, http.MethodPost, base+"/next", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Equal(t, 1, view.Round)
	assert.False(t, view.CanSpin)

	resp, _ = do(t, app, http.MethodDelete, base, "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp, _ = do(t, app, http.MethodGet, base, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUsersAreIsolated(t *testing.T) {
	app := newTestApp(t)

	resp, _ := do(t, app, http.MethodPost, "/api/users/ana/points", `{"category":"reading","delta":40}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, body := do(t, app, http.MethodGet, "/api/users/bo/progress", "")
	var p engine.Progress
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, 0, p.TotalXP)
	assert.Equal(t, "bo", p.UserID)
}

func TestInterleavedUsersKeepTheirOwnState(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, http.MethodPost, "/api/users/alice/tasks", `{"title":"Stretch"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))
	var task engine.Task
	require.NoError(t, json.Unmarshal(body, &task))

	for i := 0; i < 20; i++ {
		resp, body = do(t, app, http.MethodPost, "/api/users/zzzzz/points", `{"category":"reading","delta":5}`)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	}
	resp, body = do(t, app, http.MethodPost, "/api/users/alice/tasks/2026-10-16/"+task.ID+"/toggle", `{"completed":true}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	var alice, zed engine.Progress
	_, body = do(t, app, http.MethodGet, "/api/users/alice/progress", "")
	require.NoError(t, json.Unmarshal(body, &alice))
	_, body = do(t, app, http.MethodGet, "/api/users/zzzzz/progress", "")
	require.NoError(t, json.Unmarshal(body, &zed))

	assert.Equal(t, "alice", alice.UserID)
	assert.Equal(t, 1, alice.CompletedTasks)
	assert.Zero(t, alice.Categories["reading"])
	assert.Equal(t, "zzzzz", zed.UserID)
	assert.Equal(t, 100, zed.TotalXP)
	assert.Zero(t, zed.CompletedTasks)

	_, body = do(t, app, http.MethodGet, "/api/users/alice/tasks?date=2026-10-16", "")
	var list tasksResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Tasks, 1)
	assert.Equal(t, "Stretch", list.Tasks[0].Title)

	resp, body = do(t, app, http.MethodGet, "/api/users", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var users usersResponse
	require.NoError(t, json.Unmarshal(body, &users))
	assert.Equal(t, []string{"alice", "zzzzz"}, users.Users)
}

func TestResetPoints(t *testing.T) {
	app := newTestApp(t)

	resp, _ := do(t, app, http.MethodPost, "/api/users/ana/points", `{"category":"fitness","delta":30}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := do(t, app, http.MethodDelete, "/api/users/ana/points", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	var p engine.Progress
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Zero(t, p.TotalXP)
	assert.Empty(t, p.Categories)
}

func TestLeaderboardRefresh(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, http.MethodGet, "/api/users/main_user/leaderboard?refresh=true", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var ranked []engine.LeaderboardEntry
	require.NoError(t, json.Unmarshal(body, &ranked))
	require.Len(t, ranked, 2)
	assert.Equal(t, "ana", ranked[0].Name)
	assert.Equal(t, "You", ranked[1].Name)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, fiber.StatusBadRequest, StatusFor(&engine.InvalidDeltaError{Delta: -1}))
	assert.Equal(t, fiber.StatusBadRequest, StatusFor(&engine.InvalidWeightError{Index: -1}))
	assert.Equal(t, fiber.StatusNotFound, StatusFor(&engine.NotFoundError{Kind: "task"}))
	assert.Equal(t, fiber.StatusConflict, StatusFor(engine.GateError{Feature: "reward wheel"}))
	assert.Equal(t, fiber.StatusConflict, StatusFor(&engine.StateError{Action: "spin"}))
	assert.Equal(t, fiber.StatusTeapot, StatusFor(fiber.NewError(fiber.StatusTeapot)))
	assert.Equal(t, fiber.StatusInternalServerError, StatusFor(errors.New("disk full")))
}
