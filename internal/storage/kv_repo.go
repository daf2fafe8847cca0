package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// KVRepo stores opaque per-user values in the kv table.
type KVRepo struct {
	db *sql.DB
}

func NewKVRepo(db *sql.DB) *KVRepo {
	return &KVRepo{db: db}
}

func (r *KVRepo) Get(ctx context.Context, userID, key string) (string, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE user_id = ? AND key = ?`, userID, key)
	var v string
	if err := row.Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("kv get: %w", err)
	}
	return v, true, nil
}

const upsertSQL = `
	INSERT INTO kv (user_id, key, value, updated_at) VALUES (?, ?, ?, ?)
	ON CONFLICT(user_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`

func (r *KVRepo) Set(ctx context.Context, userID, key, value string) error {
	if _, err := r.db.ExecContext(ctx, upsertSQL, userID, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("kv set: %w", err)
	}
	return nil
}

// SetMany writes all values in one transaction.
func (r *KVRepo) SetMany(ctx context.Context, userID string, values map[string]string) error {
	now := time.Now().UTC()
	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, upsertSQL)
		if err != nil {
			return fmt.Errorf("kv set many: %w", err)
		}
		defer stmt.Close()
		for k, v := range values {
			if _, err := stmt.ExecContext(ctx, userID, k, v, now); err != nil {
				return fmt.Errorf("kv set many %s: %w", k, err)
			}
		}
		return nil
	})
}

func (r *KVRepo) Delete(ctx context.Context, userID, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE user_id = ? AND key = ?`, userID, key); err != nil {
		return fmt.Errorf("kv delete: %w", err)
	}
	return nil
}

func (r *KVRepo) ListAll(ctx context.Context, userID string) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM kv WHERE user_id = ? ORDER BY key ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("kv list: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("kv scan: %w", err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("kv rows: %w", err)
	}
	return out, nil
}

// Users lists every user id with saved state.
func (r *KVRepo) Users(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM kv ORDER BY user_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("kv users: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("kv users scan: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("kv users rows: %w", err)
	}
	return out, nil
}
