// Package provision launches a single SSH-reachable EC2 instance.
//
// The steps run strictly in order and each feeds the next:
// key pair check, instance type selection, security group, launch and wait,
// connection report. A failed step stops the run; nothing already created
// (for example a new security group) is rolled back.
package provision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"nathanbeddoewebdev/ec2kit/internal/domain"
	"nathanbeddoewebdev/ec2kit/internal/sshkeys"
	"nathanbeddoewebdev/ec2kit/internal/tui/styles"
)

// FreeTierQueryLimit is the page size used for the free-tier type lookup.
const FreeTierQueryLimit = 5

// ReportFileName is the connection report written after a successful launch.
const ReportFileName = "instance_connection.txt"

// ErrKeyFileMissing indicates the key pair exists remotely but the private
// key file is not present locally.
var ErrKeyFileMissing = errors.New("private key file not found")

// Plan is the full set of inputs for a provisioning run.
type Plan struct {
	KeyName string
	// KeyDir is where <KeyName>.pem is expected. Empty means the working directory.
	KeyDir string
	// AllowMissingKeyFile downgrades a missing .pem file from an error to a warning.
	AllowMissingKeyFile bool

	ImageID string
	// InstanceType skips the free-tier lookup when set.
	InstanceType string
	FallbackType string

	SecurityGroup            string
	SecurityGroupDescription string
	Ingress                  domain.IngressRule

	NameTag     string
	SSHUser     string
	WaitTimeout time.Duration

	// ReportPath overrides the report location. Empty means
	// ReportFileName in the working directory.
	ReportPath string
}

func (p Plan) validate() error {
	var missing []string
	if p.KeyName == "" {
		missing = append(missing, "key name")
	}
	if p.ImageID == "" {
		missing = append(missing, "image ID")
	}
	if p.SecurityGroup == "" {
		missing = append(missing, "security group")
	}
	if p.InstanceType == "" && p.FallbackType == "" {
		missing = append(missing, "fallback instance type")
	}
	if len(missing) > 0 {
		return fmt.Errorf("provision plan is missing: %v", missing)
	}
	if p.WaitTimeout <= 0 {
		return fmt.Errorf("wait timeout must be positive, got %s", p.WaitTimeout)
	}
	return nil
}

func (p Plan) reportPath() string {
	if p.ReportPath != "" {
		return p.ReportPath
	}
	return ReportFileName
}

// Result summarises a completed run.
type Result struct {
	Instance        *domain.Instance `json:"instance"`
	InstanceType    string           `json:"instance_type"`
	SecurityGroupID string           `json:"security_group_id"`
	KeyName         string           `json:"key_name"`

	// ReportPath is empty when no report was written (no public address).
	ReportPath string `json:"report_path,omitempty"`
}

// WaitFunc wraps the blocking readiness wait, e.g. to show a spinner.
// It must call wait exactly once and return its error.
type WaitFunc func(title string, wait func() error) error

func directWait(_ string, wait func() error) error { return wait() }

// Service runs provisioning steps against a compute API. Progress is
// written to out.
type Service struct {
	compute domain.Compute
	out     io.Writer
	wait    WaitFunc
}

// Option configures a Service.
type Option func(*Service)

// WithWaitFunc sets the wrapper used around the readiness wait.
func WithWaitFunc(fn WaitFunc) Option {
	return func(s *Service) {
		if fn != nil {
			s.wait = fn
		}
	}
}

// NewService creates a provisioning service.
func NewService(compute domain.Compute, out io.Writer, opts ...Option) *Service {
	if out == nil {
		out = io.Discard
	}
	s := &Service{compute: compute, out: out, wait: directWait}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes every step in order. It returns at the first failure. Once a
// security group is in hand, a failed run still returns a Result describing
// what exists; Instance is nil unless RunInstance succeeded.
func (s *Service) Run(ctx context.Context, plan Plan) (*Result, error) {
	if err := plan.validate(); err != nil {
		return nil, err
	}

	if ok, err := s.CheckKeyPair(ctx, plan); !ok {
		return nil, fmt.Errorf("key pair check failed: %w", err)
	}

	instanceType := plan.InstanceType
	if instanceType == "" {
		instanceType = s.SelectInstanceType(ctx, plan.FallbackType)
	} else {
		fmt.Fprintf(s.out, "Using requested instance type: %s\n", instanceType)
	}

	groupID, err := s.EnsureSecurityGroup(ctx, plan.SecurityGroup, plan.SecurityGroupDescription, plan.Ingress)
	if err != nil {
		return nil, fmt.Errorf("failed to get a security group: %w", err)
	}

	instance, err := s.Launch(ctx, domain.LaunchOpts{
		ImageID:         plan.ImageID,
		InstanceType:    instanceType,
		KeyName:         plan.KeyName,
		SecurityGroupID: groupID,
		NameTag:         plan.NameTag,
	}, plan.WaitTimeout)

	result := &Result{
		Instance:        instance,
		InstanceType:    instanceType,
		SecurityGroupID: groupID,
		KeyName:         plan.KeyName,
	}
	if err != nil {
		return result, err
	}

	if instance.PublicIPv4 != "" {
		report := Report{
			InstanceID: instance.ID,
			PublicIP:   instance.PublicIPv4,
			KeyName:    plan.KeyName,
			SSHUser:    plan.SSHUser,
		}
		PrintConnectionInstructions(s.out, report)

		path := plan.reportPath()
		if err := WriteReport(path, report); err != nil {
			return result, err
		}
		result.ReportPath = path
		fmt.Fprintf(s.out, "\nConnection info saved to '%s'\n", path)
	} else {
		fmt.Fprintln(s.out, "Instance has no public IP address; skipping connection instructions.")
	}

	fmt.Fprintln(s.out, "\nUse this command to check status:")
	fmt.Fprintf(s.out, "aws ec2 describe-instances --instance-ids %s\n", instance.ID)

	return result, nil
}

// CheckKeyPair confirms the key pair exists remotely and that its private
// key file exists locally. It returns false when provisioning must not
// continue, together with the reason.
func (s *Service) CheckKeyPair(ctx context.Context, plan Plan) (bool, error) {
	name := plan.KeyName

	if _, err := s.compute.GetKeyPair(ctx, name); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			fmt.Fprintf(s.out, "Error: key pair '%s' does not exist in AWS.\n", name)
			fmt.Fprintln(s.out, "\nCreate it first with:")
			fmt.Fprintf(s.out, "  ec2kit keypair create %s\n", name)
			fmt.Fprintln(s.out, "or:")
			fmt.Fprintf(s.out, "  aws ec2 create-key-pair --key-name %s --query 'KeyMaterial' --output text > %s.pem\n", name, name)
			fmt.Fprintf(s.out, "\nEither command writes %s.pem to the current directory.\n", name)
			return false, err
		}
		fmt.Fprintf(s.out, "Error checking key pair: %v\n", err)
		return false, err
	}
	fmt.Fprintf(s.out, "Key pair '%s' found in AWS.\n", name)

	path, err := sshkeys.PrivateKeyPath(plan.KeyDir, name)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return false, fmt.Errorf("failed to check %s: %w", path, err)
		}
		if plan.AllowMissingKeyFile {
			fmt.Fprintf(s.out, "Warning: private key file '%s' not found.\n", path)
			fmt.Fprintln(s.out, "  You will need this file to connect to your instance via SSH.")
			return true, nil
		}
		fmt.Fprintf(s.out, "Error: private key file '%s' not found.\n", path)
		fmt.Fprintln(s.out, "  You will not be able to SSH into the instance without it.")
		fmt.Fprintln(s.out, "  Pass --allow-missing-key-file to launch anyway.")
		return false, fmt.Errorf("%s: %w", path, ErrKeyFileMissing)
	}
	fmt.Fprintf(s.out, "Private key file '%s' found locally.\n", path)

	return true, nil
}

// SelectInstanceType returns the first free-tier eligible type, or fallback
// if the query fails or finds nothing.
func (s *Service) SelectInstanceType(ctx context.Context, fallback string) string {
	types, err := s.compute.FreeTierInstanceTypes(ctx, FreeTierQueryLimit)
	if err != nil {
		fmt.Fprintf(s.out, "Error querying instance types: %v, using %s as fallback\n", err, fallback)
		return fallback
	}
	if len(types) == 0 {
		fmt.Fprintf(s.out, "No free-tier instance types found, using %s as fallback\n", fallback)
		return fallback
	}

	fmt.Fprintf(s.out, "Found free-tier instance type: %s\n", types[0])
	return types[0]
}

// EnsureSecurityGroup returns the ID of the named group, creating it with a
// single ingress rule when it does not exist. An existing group is reused
// as-is; its rules are not inspected or changed.
func (s *Service) EnsureSecurityGroup(ctx context.Context, name, description string, rule domain.IngressRule) (string, error) {
	id, err := s.compute.FindSecurityGroup(ctx, name)
	if err == nil {
		fmt.Fprintf(s.out, "Security group '%s' already exists. Using it.\n", name)
		return id, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		fmt.Fprintf(s.out, "Error checking for security group: %v\n", err)
		return "", err
	}

	fmt.Fprintf(s.out, "Creating new security group: '%s'\n", name)
	id, err = s.compute.CreateSecurityGroup(ctx, name, description)
	if err != nil {
		fmt.Fprintf(s.out, "Error creating security group: %v\n", err)
		return "", err
	}
	fmt.Fprintf(s.out, "Security group created: %s\n", id)

	if err := s.compute.AuthorizeIngress(ctx, id, rule); err != nil {
		fmt.Fprintf(s.out, "Error creating security group: %v\n", err)
		return "", err
	}
	fmt.Fprintf(s.out, "Ingress rule added (%s port %d open to %s).\n", ruleProtocol(rule), rule.Port, rule.CIDR)

	return id, nil
}

func ruleProtocol(rule domain.IngressRule) string {
	if rule.Protocol == "" {
		return "tcp"
	}
	return rule.Protocol
}

// Launch creates one instance, waits up to timeout for it to run, and
// re-reads it so the returned value carries its assigned addresses. If the
// wait or the re-read fails, the instance as launched is returned with the
// error.
func (s *Service) Launch(ctx context.Context, opts domain.LaunchOpts, timeout time.Duration) (*domain.Instance, error) {
	instance, err := s.compute.RunInstance(ctx, opts)
	if err != nil {
		fmt.Fprintf(s.out, "Failed to launch instance: %v\n", err)
		return nil, err
	}

	fmt.Fprintln(s.out, "\nSUCCESS: EC2 instance launched!")
	fmt.Fprintf(s.out, "  Instance ID:    %s\n", instance.ID)
	fmt.Fprintf(s.out, "  Instance type:  %s\n", opts.InstanceType)
	fmt.Fprintf(s.out, "  Key pair:       %s\n", opts.KeyName)
	fmt.Fprintf(s.out, "  Security group: %s\n", opts.SecurityGroupID)

	fmt.Fprintf(s.out, "\nWaiting for instance to initialize (timeout %s)...\n", timeout)
	err = s.wait("Waiting for instance to reach running...", func() error {
		return s.compute.WaitUntilRunning(ctx, instance.ID, timeout)
	})
	if err != nil {
		if errors.Is(err, domain.ErrTimeout) {
			fmt.Fprintf(s.out, "Instance %s did not reach running within %s. It may still be starting.\n", instance.ID, timeout)
		}
		return instance, fmt.Errorf("instance %s: %w", instance.ID, err)
	}

	refreshed, err := s.compute.GetInstance(ctx, instance.ID)
	if err != nil {
		return instance, fmt.Errorf("failed to refresh instance %s: %w", instance.ID, err)
	}

	fmt.Fprintf(s.out, "Instance state: %s\n", styles.StatusIndicator(refreshed.State))
	if refreshed.PublicIPv4 != "" {
		fmt.Fprintf(s.out, "Public IP: %s\n", refreshed.PublicIPv4)
	}
	return refreshed, nil
}
