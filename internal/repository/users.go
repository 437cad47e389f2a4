package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/careerhub-api/internal/model"
	"github.com/yourusername/careerhub-api/internal/store"
)

type UserRepo struct {
	users collection[model.User]
}

func NewUserRepo(s store.Store) *UserRepo {
	return &UserRepo{users: collection[model.User]{store: s, name: model.CollectionUsers}}
}

// FindByUID looks up a user by their identity-provider UID. Returns nil
// when the user has no document yet (first login).
func (r *UserRepo) FindByUID(ctx context.Context, uid string) (*model.User, error) {
	u, err := r.users.get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("finding user by uid: %w", err)
	}
	return u, nil
}

// List returns all users, optionally restricted to one role
func (r *UserRepo) List(ctx context.Context, role string) ([]model.User, error) {
	var filters []store.Filter
	if role != "" {
		filters = append(filters, store.Eq("role", role))
	}
	users, err := r.users.list(ctx, filters...)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// UpsertProfile sets name and email, creating the document on first call
func (r *UserRepo) UpsertProfile(ctx context.Context, uid, name, email string) (*model.User, error) {
	existing, err := r.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		u := &model.User{
			ID:        uid,
			Name:      name,
			Email:     email,
			Status:    model.StatusActive,
			CreatedAt: time.Now().UTC(),
		}
		if err := r.users.set(ctx, uid, u); err != nil {
			return nil, fmt.Errorf("creating user: %w", err)
		}
		return u, nil
	}

	if err := r.users.patch(ctx, uid, map[string]any{"name": name, "email": email}); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	existing.Name = name
	existing.Email = email
	return existing, nil
}

// SetRole assigns a role. Any value from the role set is accepted from any
// previous role; a user without a document gets one.
func (r *UserRepo) SetRole(ctx context.Context, uid, role string) error {
	if !model.ValidRole(role) {
		return &model.ValidationError{Field: "role", Reason: "unknown role " + role}
	}

	existing, err := r.FindByUID(ctx, uid)
	if err != nil {
		return err
	}
	if existing == nil {
		u := &model.User{ID: uid, Role: role, Status: model.StatusActive, CreatedAt: time.Now().UTC()}
		if err := r.users.set(ctx, uid, u); err != nil {
			return fmt.Errorf("creating user with role: %w", err)
		}
		return nil
	}

	if err := r.users.patch(ctx, uid, map[string]any{"role": role}); err != nil {
		return fmt.Errorf("setting role: %w", err)
	}
	return nil
}

// UpdateCompanyProfile merges company profile fields onto a company user
func (r *UserRepo) UpdateCompanyProfile(ctx context.Context, uid string, p model.User) error {
	patch := map[string]any{
		"companyName": p.CompanyName,
		"industry":    p.Industry,
		"companySize": p.CompanySize,
		"website":     p.Website,
		"description": p.Description,
	}
	if err := r.users.patch(ctx, uid, patch); err != nil {
		return fmt.Errorf("updating company profile: %w", err)
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, uid string) error {
	if err := r.users.delete(ctx, uid); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}
