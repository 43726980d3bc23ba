package history

import (
	"os"
	"path/filepath"
	"testing"
)

func TestProjectIDFromCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")
	if err := os.WriteFile(path, []byte(`{"type":"service_account","project_id":"dalia-test"}`), 0o600); err != nil {
		t.Fatalf("write creds: %v", err)
	}
	id, err := projectIDFromCredentials(path)
	if err != nil {
		t.Fatalf("projectIDFromCredentials failed: %v", err)
	}
	if id != "dalia-test" {
		t.Fatalf("got %q want dalia-test", id)
	}
}

func TestProjectIDFromCredentialsMissingField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")
	if err := os.WriteFile(path, []byte(`{"type":"service_account"}`), 0o600); err != nil {
		t.Fatalf("write creds: %v", err)
	}
	if _, err := projectIDFromCredentials(path); err == nil {
		t.Fatalf("expected error for credentials without project_id")
	}
}

func TestProjectIDFromCredentialsMissingFile(t *testing.T) {
	if _, err := projectIDFromCredentials("/nonexistent/creds.json"); err == nil {
		t.Fatalf("expected error for missing credentials file")
	}
}
