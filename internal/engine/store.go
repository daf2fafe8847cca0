package engine

import (
	"context"
	"strings"
)

// Store is the per-user key/value persistence the engine saves through.
// Values are opaque strings; ok is false when the key is absent.
type Store interface {
	Get(ctx context.Context, userID, key string) (value string, ok bool, err error)
	Set(ctx context.Context, userID, key, value string) error
	Delete(ctx context.Context, userID, key string) error
	ListAll(ctx context.Context, userID string) (map[string]string, error)
}

// Keys written by the engine.
const (
	keyLedgerCategories = "ledger:categories"
	keyLedgerStreak     = "ledger:streak"
	keyStreakLast       = "streak:last"
	keyTasksPrefix      = "tasks:"
	keyWheelShownPrefix = "wheel:shown:"
)

func tasksKey(d DateKey) string      { return keyTasksPrefix + string(d) }
func wheelShownKey(d DateKey) string { return keyWheelShownPrefix + string(d) }

func dateFromTasksKey(key string) (DateKey, bool) {
	if !strings.HasPrefix(key, keyTasksPrefix) {
		return "", false
	}
	d := DateKey(strings.TrimPrefix(key, keyTasksPrefix))
	if _, err := d.Time(); err != nil {
		return "", false
	}
	return d, true
}

// batchSetter is implemented by stores that can write several keys at once.
type batchSetter interface {
	SetMany(ctx context.Context, userID string, values map[string]string) error
}
