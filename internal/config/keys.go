package config

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/ec2kit/internal/util"
)

// Key names.
const (
	KeyRegion                   = "region"
	KeyKeyName                  = "key-name"
	KeySecurityGroup            = "security-group"
	KeySecurityGroupDescription = "security-group-description"
	KeySSHPort                  = "ssh-port"
	KeySSHCIDR                  = "ssh-cidr"
	KeyImageID                  = "image-id"
	KeyInstanceName             = "instance-name"
	KeyFallbackType             = "fallback-type"
	KeySSHUser                  = "ssh-user"
	KeyWaitTimeout              = "wait-timeout"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "key-name").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Default is the effective value when the key is unset. Empty means
	// "let the SDK decide" (only used for region).
	Default string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set applies a value for this key to the given Config (in memory only;
	// the caller is responsible for calling Save).
	Set func(cfg *Config, value string)

	// Validate checks a value before it is stored. Nil means any value.
	Validate func(value string) error

	// CaseSensitive keeps the value as typed instead of lowercasing it.
	CaseSensitive bool
}

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        KeyRegion,
		Description: "AWS region used when --region is not specified",
		Get:         func(cfg *Config) string { return cfg.Region },
		Set:         func(cfg *Config, v string) { cfg.Region = v },
		Validate:    util.ValidateRegion,
	},
	{
		Name:          KeyKeyName,
		Description:   "EC2 key pair used for SSH access",
		Default:       "my-python-key",
		Get:           func(cfg *Config) string { return cfg.KeyName },
		Set:           func(cfg *Config, v string) { cfg.KeyName = v },
		Validate:      util.ValidateResourceName,
		CaseSensitive: true,
	},
	{
		Name:          KeySecurityGroup,
		Description:   "Security group name created or reused for SSH",
		Default:       "python-sg-for-ssh",
		Get:           func(cfg *Config) string { return cfg.SecurityGroup },
		Set:           func(cfg *Config, v string) { cfg.SecurityGroup = v },
		Validate:      util.ValidateResourceName,
		CaseSensitive: true,
	},
	{
		Name:          KeySecurityGroupDescription,
		Description:   "Description given to a newly created security group",
		Default:       "Security group for EC2 instance created via Python",
		Get:           func(cfg *Config) string { return cfg.SecurityGroupDescription },
		Set:           func(cfg *Config, v string) { cfg.SecurityGroupDescription = v },
		CaseSensitive: true,
	},
	{
		Name:        KeySSHPort,
		Description: "Inbound TCP port opened on a new security group",
		Default:     "22",
		Get:         func(cfg *Config) string { return cfg.SSHPort },
		Set:         func(cfg *Config, v string) { cfg.SSHPort = v },
		Validate: func(v string) error {
			_, err := util.ValidatePort(v)
			return err
		},
	},
	{
		Name:        KeySSHCIDR,
		Description: "Source range allowed by the inbound rule",
		Default:     "0.0.0.0/0",
		Get:         func(cfg *Config) string { return cfg.SSHCIDR },
		Set:         func(cfg *Config, v string) { cfg.SSHCIDR = v },
		Validate:    util.ValidateCIDR,
	},
	{
		Name:        KeyImageID,
		Description: "AMI to launch (region specific)",
		Default:     "ami-0c02fb55956c7d316",
		Get:         func(cfg *Config) string { return cfg.ImageID },
		Set:         func(cfg *Config, v string) { cfg.ImageID = v },
		Validate:    validateImageID,
	},
	{
		Name:          KeyInstanceName,
		Description:   "Value of the Name tag on launched instances",
		Default:       "MyPythonInstance",
		Get:           func(cfg *Config) string { return cfg.InstanceName },
		Set:           func(cfg *Config, v string) { cfg.InstanceName = v },
		CaseSensitive: true,
	},
	{
		Name:        KeyFallbackType,
		Description: "Instance type used when no free-tier type is found",
		Default:     "t3.micro",
		Get:         func(cfg *Config) string { return cfg.FallbackType },
		Set:         func(cfg *Config, v string) { cfg.FallbackType = v },
	},
	{
		Name:        KeySSHUser,
		Description: "Login user shown in connection instructions",
		Default:     "ec2-user",
		Get:         func(cfg *Config) string { return cfg.SSHUser },
		Set:         func(cfg *Config, v string) { cfg.SSHUser = v },
	},
	{
		Name:        KeyWaitTimeout,
		Description: "How long to wait for a new instance to reach running",
		Default:     "5m",
		Get:         func(cfg *Config) string { return cfg.WaitTimeout },
		Set:         func(cfg *Config, v string) { cfg.WaitTimeout = v },
		Validate: func(v string) error {
			_, err := util.ValidateTimeout(v)
			return err
		},
	},
}

func validateImageID(v string) error {
	if !strings.HasPrefix(v, "ami-") || len(v) <= len("ami-") {
		return fmt.Errorf("invalid image ID %q (expected ami-...)", v)
	}
	return nil
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := util.NormalizeKey(name)
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s", maxLen, k.Name, k.Description)
		if k.Default != "" {
			fmt.Fprintf(&b, " (default: %s)", k.Default)
		}
		b.WriteString("\n")
	}
	return b.String()
}
