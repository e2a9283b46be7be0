package provision

import (
	"context"
	"fmt"
	"time"

	"nathanbeddoewebdev/ec2kit/internal/domain"
)

// fakeCompute implements domain.Compute and records every call by name.
type fakeCompute struct {
	calls []string

	keyPairErr error

	freeTier    []string
	freeTierErr error

	groups         map[string]string
	findGroupErr   error
	createGroupErr error
	authorizeErr   error
	createdDesc    string
	rules          []domain.IngressRule

	launchErr  error
	launched   []domain.LaunchOpts
	waitErr    error
	waitedFor  time.Duration
	instance   domain.Instance
	getInstErr error
}

func newFakeCompute() *fakeCompute {
	return &fakeCompute{
		groups: map[string]string{},
		instance: domain.Instance{
			ID:         "i-0123456789abcdef0",
			State:      domain.StateRunning,
			PublicIPv4: "203.0.113.5",
		},
	}
}

func (f *fakeCompute) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeCompute) ListInstances(_ context.Context) ([]domain.Instance, error) {
	f.record("ListInstances")
	return []domain.Instance{f.instance}, nil
}

func (f *fakeCompute) GetInstance(_ context.Context, id string) (*domain.Instance, error) {
	f.record("GetInstance")
	if f.getInstErr != nil {
		return nil, f.getInstErr
	}
	inst := f.instance
	inst.ID = id
	return &inst, nil
}

func (f *fakeCompute) GetKeyPair(_ context.Context, name string) (*domain.KeyPair, error) {
	f.record("GetKeyPair")
	if f.keyPairErr != nil {
		return nil, f.keyPairErr
	}
	return &domain.KeyPair{Name: name, ID: "key-1"}, nil
}

func (f *fakeCompute) CreateKeyPair(_ context.Context, name string) (*domain.KeyPair, error) {
	f.record("CreateKeyPair")
	return &domain.KeyPair{Name: name}, nil
}

func (f *fakeCompute) FreeTierInstanceTypes(_ context.Context, limit int32) ([]string, error) {
	f.record("FreeTierInstanceTypes")
	if f.freeTierErr != nil {
		return nil, f.freeTierErr
	}
	if int(limit) < len(f.freeTier) {
		return f.freeTier[:limit], nil
	}
	return f.freeTier, nil
}

func (f *fakeCompute) FindSecurityGroup(_ context.Context, name string) (string, error) {
	f.record("FindSecurityGroup")
	if f.findGroupErr != nil {
		return "", f.findGroupErr
	}
	id, ok := f.groups[name]
	if !ok {
		return "", fmt.Errorf("security group %q: %w", name, domain.ErrNotFound)
	}
	return id, nil
}

func (f *fakeCompute) CreateSecurityGroup(_ context.Context, name, description string) (string, error) {
	f.record("CreateSecurityGroup")
	if f.createGroupErr != nil {
		return "", f.createGroupErr
	}
	id := fmt.Sprintf("sg-%04d", len(f.groups)+1)
	f.groups[name] = id
	f.createdDesc = description
	return id, nil
}

func (f *fakeCompute) AuthorizeIngress(_ context.Context, _ string, rule domain.IngressRule) error {
	f.record("AuthorizeIngress")
	if f.authorizeErr != nil {
		return f.authorizeErr
	}
	f.rules = append(f.rules, rule)
	return nil
}

func (f *fakeCompute) RunInstance(_ context.Context, opts domain.LaunchOpts) (*domain.Instance, error) {
	f.record("RunInstance")
	if f.launchErr != nil {
		return nil, f.launchErr
	}
	f.launched = append(f.launched, opts)
	return &domain.Instance{ID: f.instance.ID, State: domain.StatePending, InstanceType: opts.InstanceType}, nil
}

func (f *fakeCompute) WaitUntilRunning(_ context.Context, _ string, timeout time.Duration) error {
	f.record("WaitUntilRunning")
	f.waitedFor = timeout
	return f.waitErr
}
