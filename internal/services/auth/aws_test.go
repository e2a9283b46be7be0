package auth

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zalando/go-keyring"
)

func TestAWSCredentials_SaveAndLoad(t *testing.T) {
	store := NewMockStore()
	want := AWSCredentials{AccessKeyID: "AKIAEXAMPLE", SecretAccessKey: "secret"}

	if err := SaveAWSCredentials(store, want); err != nil {
		t.Fatalf("SaveAWSCredentials failed: %v", err)
	}

	got, err := LoadAWSCredentials(store)
	if err != nil {
		t.Fatalf("LoadAWSCredentials failed: %v", err)
	}
	if diff := cmp.Diff(&want, got); diff != "" {
		t.Errorf("credentials mismatch (-want +got):\n%s", diff)
	}
}

func TestAWSCredentials_SaveRejectsIncomplete(t *testing.T) {
	store := NewMockStore()

	err := SaveAWSCredentials(store, AWSCredentials{AccessKeyID: "AKIAEXAMPLE"})
	if err == nil {
		t.Fatal("expected error for missing secret, got nil")
	}
	if _, err := store.GetToken(AWSProvider); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("expected nothing stored, got err=%v", err)
	}
}

func TestAWSCredentials_LoadMissing(t *testing.T) {
	_, err := LoadAWSCredentials(NewMockStore())
	if !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestAWSCredentials_LoadCorrupt(t *testing.T) {
	store := NewMockStore()
	_ = store.SetToken(AWSProvider, "not-json")

	_, err := LoadAWSCredentials(store)
	if err == nil || errors.Is(err, ErrTokenNotFound) {
		t.Errorf("expected corruption error, got %v", err)
	}
}

func TestKeyringStore_RoundTrip(t *testing.T) {
	keyring.MockInit()
	store := NewKeyringStore("")

	if err := store.SetToken("AWS", "value"); err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}
	got, err := store.GetToken("aws")
	if err != nil {
		t.Fatalf("GetToken failed: %v", err)
	}
	if got != "value" {
		t.Errorf("GetToken = %q, want %q", got, "value")
	}

	if err := store.DeleteToken("aws"); err != nil {
		t.Fatalf("DeleteToken failed: %v", err)
	}
	if _, err := store.GetToken("aws"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("expected ErrTokenNotFound after delete, got %v", err)
	}
	if err := store.DeleteToken("aws"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("expected ErrTokenNotFound deleting twice, got %v", err)
	}
}
