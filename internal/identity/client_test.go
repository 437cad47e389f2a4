package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSignIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/accounts:signInWithPassword") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key")
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "hunter2" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"code":400,"message":"INVALID_PASSWORD"}}`))
			return
		}
		w.Write([]byte(`{"localId":"uid-1","email":"a@b.c","idToken":"tok","refreshToken":"ref"}`))
	}))
	defer srv.Close()

	c := NewClient("test-key").WithBaseURL(srv.URL)

	cred, err := c.SignIn(context.Background(), "a@b.c", "hunter2")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if cred.UID != "uid-1" || cred.IDToken != "tok" {
		t.Fatalf("unexpected credential: %+v", cred)
	}

	_, err = c.SignIn(context.Background(), "a@b.c", "wrong")
	if err == nil || !strings.Contains(err.Error(), "INVALID_PASSWORD") {
		t.Fatalf("expected provider error message, got %v", err)
	}
}

func TestMissingAPIKey(t *testing.T) {
	if err := NewClient("").SendPasswordReset(context.Background(), "a@b.c"); err == nil {
		t.Fatalf("expected error without api key")
	}
}
