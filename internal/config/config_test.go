package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_BACKEND", BackendMemory)
	t.Setenv("PORT", "")
	t.Setenv("RATE_LIMIT_RPS", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.RateLimitRPS != 10 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"http://localhost:5173"}) {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	env := "STORE_BACKEND=memory\nPORT=9000\nALLOWED_ORIGINS=https://a.example, https://b.example\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600); err != nil {
		t.Fatalf("writing .env: %v", err)
	}
	t.Setenv("PORT", "7000")
	os.Unsetenv("PORT")
	t.Setenv("STORE_BACKEND", "")
	os.Unsetenv("STORE_BACKEND")
	t.Setenv("ALLOWED_ORIGINS", "")
	os.Unsetenv("ALLOWED_ORIGINS")
	t.Setenv("RATE_LIMIT_RPS", "25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9000" || cfg.StoreBackend != BackendMemory || cfg.RateLimitRPS != 25 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"https://a.example", "https://b.example"}) {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"firestore needs project", Config{StoreBackend: BackendFirestore, RateLimitRPS: 1}, false},
		{"firestore", Config{StoreBackend: BackendFirestore, FirebaseProjectID: "p", RateLimitRPS: 1}, true},
		{"postgres needs url", Config{StoreBackend: BackendPostgres, RateLimitRPS: 1}, false},
		{"memory", Config{StoreBackend: BackendMemory, RateLimitRPS: 1}, true},
		{"unknown backend", Config{StoreBackend: "mongo", RateLimitRPS: 1}, false},
		{"zero rps", Config{StoreBackend: BackendMemory}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err == nil) != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, err)
			}
		})
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restoring working directory: %v", err)
		}
	})
}
