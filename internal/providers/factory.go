package providers

import (
	"context"
	"sync"

	"nathanbeddoewebdev/ec2kit/internal/domain"
	"nathanbeddoewebdev/ec2kit/internal/services/auth"
)

// Factory builds a compute client for a region.
type Factory func(ctx context.Context, region string, store auth.Store) (domain.Compute, error)

func awsFactory(ctx context.Context, region string, store auth.Store) (domain.Compute, error) {
	return NewAWSProvider(ctx, region, store)
}

var (
	mu      sync.RWMutex
	factory Factory = awsFactory
)

// New returns a compute client for region using the current factory.
func New(ctx context.Context, region string, store auth.Store) (domain.Compute, error) {
	mu.RLock()
	f := factory
	mu.RUnlock()
	return f(ctx, region, store)
}

// SetFactory replaces the factory used by New. Intended for use in tests only.
func SetFactory(f Factory) {
	if f == nil {
		panic("providers: nil factory")
	}
	mu.Lock()
	defer mu.Unlock()
	factory = f
}

// Reset restores the AWS factory. Intended for use in tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	factory = awsFactory
}
