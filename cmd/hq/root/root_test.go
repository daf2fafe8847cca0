package root

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitquest/internal/engine"
	"habitquest/internal/storage"
)

func newTestService(t *testing.T) *engine.Service {
	t.Helper()
	svc, err := engine.Open(context.Background(), storage.NewMemoryStore(), engine.Options{
		UserID: "main_user",
		Rand:   engine.NewSeededSource(5),
		Now:    func() time.Time { return time.Date(2026, 10, 16, 20, 0, 0, 0, time.Local) },
	})
	require.NoError(t, err)
	return svc
}

func TestRunQuizPlaysThreeRounds(t *testing.T) {
	svc := newTestService(t)
	in := strings.NewReader("1\ny\n2\n1\n")
	var out bytes.Buffer

	require.NoError(t, runQuiz(context.Background(), svc, in, &out))
	assert.Contains(t, out.String(), "Round 3/3")
	assert.Contains(t, out.String(), "Quiz complete.")
	assert.Equal(t, 1, strings.Count(out.String(), "Spin the reward wheel?"), "wheel is offered once per day")
	assert.Positive(t, svc.Progress().Categories[engine.CategoryWheel])
}

func TestRunQuizAbandon(t *testing.T) {
	svc := newTestService(t)
	var out bytes.Buffer

	require.NoError(t, runQuiz(context.Background(), svc, strings.NewReader("7\nq\n"), &out))
	assert.Contains(t, out.String(), "Pick a number")
	assert.Contains(t, out.String(), "Quiz abandoned")
}

func TestResolveTask(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	a, err := svc.AddTask(ctx, svc.Today(), "first")
	require.NoError(t, err)
	b, err := svc.AddTask(ctx, "2026-10-01", "older")
	require.NoError(t, err)

	got, day, err := resolveTask(svc, svc.Today(), "1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, svc.Today(), day)

	got, day, err = resolveTask(svc, svc.Today(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "older", got.Title)
	assert.Equal(t, engine.DateKey("2026-10-01"), day)

	var nf *engine.NotFoundError
	_, _, err = resolveTask(svc, svc.Today(), "2")
	assert.True(t, errors.As(err, &nf))
	_, _, err = resolveTask(svc, svc.Today(), "no-such-id")
	assert.True(t, errors.As(err, &nf))
}

func TestParseDelta(t *testing.T) {
	n, err := parseDelta(" 15 ")
	require.NoError(t, err)
	assert.Equal(t, 15, n)

	_, err = parseDelta("lots")
	var ve *engine.ValidationError
	assert.True(t, errors.As(err, &ve))
}
