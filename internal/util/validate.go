package util

import (
	"fmt"
	"net/netip"
	"regexp"
	"strconv"
	"time"
)

// validKeyNameChars matches the characters ec2kit accepts in key pair and
// security group names. EC2 allows a wider ASCII set, but these names also
// become local file names (<name>.pem).
var validKeyNameChars = regexp.MustCompile(`^[a-zA-Z0-9._\-]+$`)

// regionPattern matches region codes such as us-east-1 or us-gov-west-1.
var regionPattern = regexp.MustCompile(`^[a-z]{2}(-gov|-iso[a-z]?)?-[a-z]+-[0-9]+$`)

// ValidateResourceName checks a key pair or security group name:
//   - 1 to 255 characters
//   - Only a-z, A-Z, 0-9, periods, underscores, and hyphens
//   - Must not start with a period or hyphen
func ValidateResourceName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len(name) > 255 {
		return fmt.Errorf("name must be at most 255 characters, got %d", len(name))
	}
	if !validKeyNameChars.MatchString(name) {
		return fmt.Errorf("name %q contains invalid characters (only a-z, A-Z, 0-9, periods, underscores, and hyphens are allowed)", name)
	}
	if name[0] == '.' || name[0] == '-' {
		return fmt.Errorf("name must not start with %q", string(name[0]))
	}
	return nil
}

// ValidateRegion checks that s looks like an AWS region code.
func ValidateRegion(s string) error {
	if !regionPattern.MatchString(s) {
		return fmt.Errorf("invalid region %q (expected a code such as us-east-1)", s)
	}
	return nil
}

// ValidatePort parses s as a TCP port in [1, 65535].
func ValidatePort(s string) (int32, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q: must be a number", s)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}
	return int32(port), nil
}

// ValidateCIDR checks that s is an IPv4 prefix in CIDR notation.
func ValidateCIDR(s string) error {
	prefix, err := netip.ParsePrefix(s)
	if err != nil {
		return fmt.Errorf("invalid CIDR %q: %w", s, err)
	}
	if !prefix.Addr().Is4() {
		return fmt.Errorf("invalid CIDR %q: only IPv4 ranges are supported", s)
	}
	if prefix.Masked() != prefix {
		return fmt.Errorf("invalid CIDR %q: host bits set (did you mean %s?)", s, prefix.Masked())
	}
	return nil
}

// ValidateTimeout parses s as a positive duration.
func ValidateTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q (examples: 90s, 5m)", s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", d)
	}
	return d, nil
}
