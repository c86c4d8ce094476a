package secrets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("  secret-token \n"), 0o600); err != nil {
		t.Fatalf("writing token file: %v", err)
	}

	secret, err := Load(Source{Name: "board token", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if secret != "secret-token" {
		t.Fatalf("expected trimmed secret, got %q", secret)
	}
}

func TestLoadFilePrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("from-file"), 0o600); err != nil {
		t.Fatalf("writing token file: %v", err)
	}

	secret, err := Load(Source{File: path, Value: "from-value"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if secret != "from-file" {
		t.Fatalf("expected file to win, got %q", secret)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TEST_BOARD_TOKEN", "from-env")

	secret, err := Load(Source{Env: "TEST_BOARD_TOKEN", Value: "from-value"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if secret != "from-env" {
		t.Fatalf("expected env to win over value, got %q", secret)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("   "), 0o600); err != nil {
		t.Fatalf("writing token file: %v", err)
	}

	if _, err := Load(Source{Name: "board token", File: path}); err == nil {
		t.Fatalf("expected error for empty file")
	}
}

func TestLoadNotConfigured(t *testing.T) {
	if _, err := Load(Source{Name: "board token"}); err == nil {
		t.Fatalf("expected error when nothing is configured")
	}
}
