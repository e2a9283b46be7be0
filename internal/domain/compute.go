package domain

import (
	"context"
	"time"
)

// Compute is the surface of the cloud compute API that ec2kit consumes.
// Implementations classify failures with the sentinel errors in this
// package; in particular lookups that find nothing return ErrNotFound.
type Compute interface {
	// ListInstances returns every instance in the region, in the order the
	// provider reports them.
	ListInstances(ctx context.Context) ([]Instance, error)
	GetInstance(ctx context.Context, id string) (*Instance, error)

	GetKeyPair(ctx context.Context, name string) (*KeyPair, error)
	CreateKeyPair(ctx context.Context, name string) (*KeyPair, error)

	// FreeTierInstanceTypes returns up to limit free-tier eligible instance
	// type names in provider order.
	FreeTierInstanceTypes(ctx context.Context, limit int32) ([]string, error)

	// FindSecurityGroup returns the ID of the group with the given name.
	FindSecurityGroup(ctx context.Context, name string) (string, error)
	CreateSecurityGroup(ctx context.Context, name, description string) (string, error)
	AuthorizeIngress(ctx context.Context, groupID string, rule IngressRule) error

	RunInstance(ctx context.Context, opts LaunchOpts) (*Instance, error)

	// WaitUntilRunning blocks until the instance is running. It returns an
	// error wrapping ErrTimeout once timeout elapses, and ctx.Err() if ctx
	// is cancelled first.
	WaitUntilRunning(ctx context.Context, id string, timeout time.Duration) error
}
