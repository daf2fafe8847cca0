package httpapi

import (
	"context"
	"sort"
	"strings"
	"sync"

	"habitquest/internal/engine"
)

// maxUserIDLen bounds the :user path segment.
const maxUserIDLen = 64

// Registry opens one Service per user on first use and keeps it.
type Registry struct {
	mu       sync.Mutex
	store    engine.Store
	base     engine.Options
	services map[string]*engine.Service
}

// NewRegistry creates a registry. base is copied for every user; the user id
// is replaced and the display name only kept for base.UserID.
func NewRegistry(store engine.Store, base engine.Options) *Registry {
	if base.Rand != nil {
		// Services run concurrently; a shared source must be locked.
		base.Rand = &lockedSource{src: base.Rand}
	}
	return &Registry{
		store:    store,
		base:     base,
		services: map[string]*engine.Service{},
	}
}

func (r *Registry) Service(ctx context.Context, userID string) (*engine.Service, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || len(userID) > maxUserIDLen {
		return nil, &engine.ValidationError{Field: "user", Reason: "must be 1-64 characters"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if svc, ok := r.services[userID]; ok {
		return svc, nil
	}

	opts := r.base
	opts.UserID = userID
	if userID != r.base.UserID {
		opts.DisplayName = userID
	}
	svc, err := engine.Open(ctx, r.store, opts)
	if err != nil {
		return nil, err
	}
	r.services[userID] = svc
	return svc, nil
}

// userLister is implemented by stores that can enumerate their users.
type userLister interface {
	Users(ctx context.Context) ([]string, error)
}

// Users lists saved users when the store supports it, and the opened ones
// otherwise.
func (r *Registry) Users(ctx context.Context) ([]string, error) {
	if l, ok := r.store.(userLister); ok {
		return l.Users(ctx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.services))
	for id := range r.services {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

type lockedSource struct {
	mu  sync.Mutex
	src engine.RandomSource
}

func (l *lockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}
