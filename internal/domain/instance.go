package domain

import "time"

// Instance lifecycle states as reported by EC2.
const (
	StatePending      = "pending"
	StateRunning      = "running"
	StateShuttingDown = "shutting-down"
	StateTerminated   = "terminated"
	StateStopping     = "stopping"
	StateStopped      = "stopped"
)

// Instance is a compute instance as seen by ec2kit.
type Instance struct {
	ID               string    `json:"id"`
	Name             string    `json:"name,omitempty"`
	State            string    `json:"state"`
	InstanceType     string    `json:"instance_type"`
	ImageID          string    `json:"image_id,omitempty"`
	KeyName          string    `json:"key_name,omitempty"`
	PublicIPv4       string    `json:"public_ipv4,omitempty"`
	PrivateIPv4      string    `json:"private_ipv4,omitempty"`
	AvailabilityZone string    `json:"availability_zone,omitempty"`
	LaunchedAt       time.Time `json:"launched_at,omitempty"`
}

// LaunchOpts holds the parameters for launching a single instance.
type LaunchOpts struct {
	ImageID         string
	InstanceType    string
	KeyName         string
	SecurityGroupID string

	// NameTag is applied as the instance's "Name" tag.
	NameTag string
}

// IngressRule is a single inbound rule on a security group.
type IngressRule struct {
	Protocol    string // e.g. "tcp"
	Port        int32
	CIDR        string // e.g. "0.0.0.0/0"
	Description string
}

// KeyPair describes a key pair registered with the provider.
type KeyPair struct {
	Name        string `json:"name"`
	ID          string `json:"id,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Type        string `json:"type,omitempty"`

	// Material is the private key. Only populated by CreateKeyPair.
	Material string `json:"-"`
}
