package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// AWSProvider is the keychain entry name used for AWS credentials.
const AWSProvider = "aws"

// AWSCredentials is a static access key pair. It is stored in the keychain
// as a JSON blob under AWSProvider.
type AWSCredentials struct {
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	SessionToken    string `json:"session_token,omitempty"`
}

// Validate reports whether both halves of the key pair are present.
func (c AWSCredentials) Validate() error {
	if strings.TrimSpace(c.AccessKeyID) == "" {
		return errors.New("access key ID cannot be empty")
	}
	if strings.TrimSpace(c.SecretAccessKey) == "" {
		return errors.New("secret access key cannot be empty")
	}
	return nil
}

// SaveAWSCredentials validates and stores creds.
func SaveAWSCredentials(store Store, creds AWSCredentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("auth: failed to encode credentials: %w", err)
	}
	return store.SetToken(AWSProvider, string(data))
}

// LoadAWSCredentials returns the stored AWS credentials. It returns
// ErrTokenNotFound when nothing has been stored, in which case callers fall
// back to the SDK's default credential chain.
func LoadAWSCredentials(store Store) (*AWSCredentials, error) {
	raw, err := store.GetToken(AWSProvider)
	if err != nil {
		return nil, err
	}

	var creds AWSCredentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return nil, fmt.Errorf("auth: stored aws credentials are corrupt: %w", err)
	}
	if err := creds.Validate(); err != nil {
		return nil, fmt.Errorf("auth: stored aws credentials are incomplete: %w", err)
	}
	return &creds, nil
}
