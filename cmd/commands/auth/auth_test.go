package auth

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"nathanbeddoewebdev/ec2kit/internal/services/auth"

	"github.com/zalando/go-keyring"
)

func execAuth(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func TestLogin_StoresCredentials(t *testing.T) {
	keyring.MockInit()

	stdout, _, err := execAuth(t, "", "login", "aws",
		"--access-key-id", "AKIAEXAMPLE1234",
		"--secret-access-key", "secret",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "***********1234") {
		t.Errorf("expected masked key id, got: %s", stdout)
	}

	creds, err := auth.LoadAWSCredentials(auth.DefaultStore())
	if err != nil {
		t.Fatalf("LoadAWSCredentials: %v", err)
	}
	if creds.AccessKeyID != "AKIAEXAMPLE1234" || creds.SecretAccessKey != "secret" {
		t.Errorf("unexpected credentials: %+v", creds)
	}
}

func TestLogin_PromptsForKeyID(t *testing.T) {
	keyring.MockInit()

	_, _, err := execAuth(t, "AKIAFROMSTDIN\n", "login", "aws", "--secret-access-key", "s")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	creds, err := auth.LoadAWSCredentials(auth.DefaultStore())
	if err != nil {
		t.Fatalf("LoadAWSCredentials: %v", err)
	}
	if creds.AccessKeyID != "AKIAFROMSTDIN" {
		t.Errorf("AccessKeyID = %q", creds.AccessKeyID)
	}
}

func TestLogin_UnsupportedProvider(t *testing.T) {
	keyring.MockInit()

	_, stderr, err := execAuth(t, "", "login", "gcp", "--access-key-id", "a", "--secret-access-key", "b")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(stderr, "unsupported provider") {
		t.Errorf("unexpected stderr: %s", stderr)
	}
}

func TestStatus(t *testing.T) {
	keyring.MockInit()

	stdout, _, err := execAuth(t, "", "status")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "aws: not logged in") {
		t.Errorf("unexpected output: %s", stdout)
	}

	if err := auth.SaveAWSCredentials(auth.DefaultStore(), auth.AWSCredentials{AccessKeyID: "AKIAZZZZ9876", SecretAccessKey: "x"}); err != nil {
		t.Fatal(err)
	}
	stdout, _, err = execAuth(t, "", "status")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "logged in (access key ********9876)") {
		t.Errorf("unexpected output: %s", stdout)
	}
}

func TestLogout(t *testing.T) {
	keyring.MockInit()
	if err := auth.SaveAWSCredentials(auth.DefaultStore(), auth.AWSCredentials{AccessKeyID: "a", SecretAccessKey: "b"}); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := execAuth(t, "", "logout", "aws")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "Removed credentials") {
		t.Errorf("unexpected output: %s", stdout)
	}
	if _, err := auth.DefaultStore().GetToken(auth.AWSProvider); !errors.Is(err, auth.ErrTokenNotFound) {
		t.Errorf("expected ErrTokenNotFound, got %v", err)
	}

	stdout, _, err = execAuth(t, "", "logout", "aws")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "No credentials stored") {
		t.Errorf("unexpected output: %s", stdout)
	}
}
