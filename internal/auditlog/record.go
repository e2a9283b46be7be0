package auditlog

import (
	"strings"
	"time"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Resource types recorded by commands that touch EC2.
const (
	ResourceInstance = "instance"
	ResourceKeyPair  = "key-pair"
)

// AuditEntry represents a persisted audit event.
type AuditEntry struct {
	ID           int64     `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Command      string    `json:"command"`
	Args         string    `json:"args,omitempty"`
	Region       string    `json:"region,omitempty"`
	ResourceType string    `json:"resource_type,omitempty"`
	ResourceID   string    `json:"resource_id,omitempty"`
	ResourceName string    `json:"resource_name,omitempty"`

	// Launch details, set for instance provisioning only.
	InstanceType  string `json:"instance_type,omitempty"`
	SecurityGroup string `json:"security_group,omitempty"`

	Outcome      string    `json:"outcome"`
	Detail       string    `json:"detail,omitempty"`
	DurationMs   int64     `json:"duration_ms"`
}

// NewEntry builds the entry for one command invocation. args are sanitized
// before they are stored.
func NewEntry(command string, args []string, meta Metadata, start time.Time, err error) *AuditEntry {
	entry := &AuditEntry{
		Timestamp:    start.UTC(),
		Command:      command,
		Args:         strings.Join(SanitizeArgs(args), " "),
		Region:       meta.Region,
		ResourceType: meta.ResourceType,
		ResourceID:   meta.ResourceID,
		ResourceName: meta.ResourceName,

		InstanceType:  meta.InstanceType,
		SecurityGroup: meta.SecurityGroup,

		DurationMs: time.Since(start).Milliseconds(),
		Outcome:    OutcomeSuccess,
	}
	if err != nil {
		entry.Outcome = OutcomeError
		entry.Detail = err.Error()
	}
	return entry
}
