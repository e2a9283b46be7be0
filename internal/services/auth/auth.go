package auth

import (
	"errors"

	"nathanbeddoewebdev/ec2kit/internal/util"
)

const ServiceName = "ec2kit"

var ErrTokenNotFound = errors.New("auth token not found")

// Store persists provider secrets. The value is opaque to the store.
type Store interface {
	SetToken(provider string, token string) error
	GetToken(provider string) (string, error)
	DeleteToken(provider string) error
}

// DefaultStore returns the standard auth store backed by the OS keychain.
func DefaultStore() Store {
	return NewKeyringStore(ServiceName)
}

// NormalizeProvider normalizes a provider name for consistent key lookup.
func NormalizeProvider(provider string) string {
	return util.NormalizeKey(provider)
}
