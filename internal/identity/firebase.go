package identity

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// NewApp initializes the Firebase app shared by auth, Firestore and Storage
func NewApp(ctx context.Context, projectID, storageBucket string) (*firebase.App, error) {
	var app *firebase.App
	var err error

	if projectID != "" {
		conf := &firebase.Config{ProjectID: projectID, StorageBucket: storageBucket}
		app, err = firebase.NewApp(ctx, conf)
	} else {
		// Falls back to GOOGLE_APPLICATION_CREDENTIALS or default credentials
		app, err = firebase.NewApp(ctx, nil, option.WithoutAuthentication())
	}
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}
	return app, nil
}

// ClaimsSetter mirrors roles into identity-provider custom claims
type ClaimsSetter interface {
	SetCustomUserClaims(ctx context.Context, uid string, claims map[string]any) error
}

var _ ClaimsSetter = (*auth.Client)(nil)

// SetRoleClaim stores the role as a custom claim on the user's token
func SetRoleClaim(ctx context.Context, c ClaimsSetter, uid, role string) error {
	if err := c.SetCustomUserClaims(ctx, uid, map[string]any{"role": role}); err != nil {
		return fmt.Errorf("setting role claim: %w", err)
	}
	return nil
}
