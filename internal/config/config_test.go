package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(&Config{}, cfg); diff != "" {
		t.Errorf("expected zero config (-want +got):\n%s", diff)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ec2kit", "config.json")

	want := &Config{Region: "eu-west-1", KeyName: "deploy-key", SSHPort: "2222"}
	if err := want.SaveTo(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deep")
	path := filepath.Join(dir, "config.json")

	cfg := &Config{Region: "us-east-1"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file at %s: %v", path, err)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestSave_UsesPathOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	SetPath(path)
	t.Cleanup(ResetPath)

	if err := (&Config{ImageID: "ami-123"}).Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.ImageID != "ami-123" {
		t.Errorf("expected ImageID %q, got %q", "ami-123", got.ImageID)
	}
}

func TestValue_FallsBackToDefault(t *testing.T) {
	cfg := &Config{KeyName: "deploy-key"}

	tests := map[string]string{
		KeyKeyName:                  "deploy-key",
		KeySecurityGroup:            "python-sg-for-ssh",
		KeySecurityGroupDescription: "Security group for EC2 instance created via Python",
		KeySSHPort:                  "22",
		KeySSHCIDR:                  "0.0.0.0/0",
		KeyImageID:                  "ami-0c02fb55956c7d316",
		KeyInstanceName:             "MyPythonInstance",
		KeyFallbackType:             "t3.micro",
		KeySSHUser:                  "ec2-user",
		KeyWaitTimeout:              "5m",
		KeyRegion:                   "",
		"bogus":                     "",
	}
	for key, want := range tests {
		if got := cfg.Value(key); got != want {
			t.Errorf("Value(%q) = %q, want %q", key, got, want)
		}
	}
}
