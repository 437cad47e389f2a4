// Package dashboard holds the role dashboards: client-side state for one
// signed-in user, loaded in one fan-out and patched locally after each write.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yourusername/careerhub-api/internal/repository"
	"github.com/yourusername/careerhub-api/internal/session"
	"github.com/yourusername/careerhub-api/internal/store"
)

var ErrCancelled = errors.New("action cancelled")

// Confirmer asks the user before a destructive action
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AutoConfirm accepts every prompt
var AutoConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// base is shared by every dashboard
type base struct {
	role    string
	sess    *session.Session
	repos   *repository.Repos
	confirm Confirmer
}

func newBase(role string, sess *session.Session, s store.Store, confirm Confirmer) base {
	if confirm == nil {
		confirm = AutoConfirm
	}
	return base{role: role, sess: sess, repos: repository.NewRepos(s), confirm: confirm}
}

// principal re-asserts the dashboard's role for the current session
func (b *base) principal() (session.Principal, error) {
	return b.sess.Require(b.role)
}

func (b *base) confirmed(ctx context.Context, prompt string) error {
	ok, err := b.confirm.Confirm(ctx, prompt)
	if err != nil {
		return fmt.Errorf("confirming: %w", err)
	}
	if !ok {
		return ErrCancelled
	}
	return nil
}

// applyPatch merges patch into v the way the store merges it into the
// document, so local state matches without a re-fetch
func applyPatch[T any](v *T, patch map[string]any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	for k, val := range patch {
		fields[k] = val
	}
	raw, err = json.Marshal(fields)
	if err != nil {
		return err
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*v = out
	return nil
}

// removeByID drops the element whose id matches
func removeByID[T any](items []T, id string, idOf func(T) string) []T {
	out := items[:0]
	for _, it := range items {
		if idOf(it) != id {
			out = append(out, it)
		}
	}
	return out
}

// findByID returns the loaded element with the given id. Writes go through
// it so a dashboard only touches records it loaded for its own scope.
func findByID[T any](items []T, kind, id string, idOf func(T) string) (*T, error) {
	for i := range items {
		if idOf(items[i]) == id {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("%s %s: %w", kind, id, store.ErrNotFound)
}
