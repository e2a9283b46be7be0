package auditlog

import "context"

// Metadata describes the resource a command acted on. Commands attach it to
// their context and the root command copies it into the audit entry.
type Metadata struct {
	Region       string
	ResourceType string
	ResourceID   string
	ResourceName string

	InstanceType  string
	SecurityGroup string
}

type metadataKey struct{}

// WithMetadata attaches audit metadata to a context. Empty fields keep any
// value already present.
func WithMetadata(ctx context.Context, meta Metadata) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	existing, _ := ctx.Value(metadataKey{}).(Metadata)
	merged := Metadata{
		Region:       pick(meta.Region, existing.Region),
		ResourceType: pick(meta.ResourceType, existing.ResourceType),
		ResourceID:   pick(meta.ResourceID, existing.ResourceID),
		ResourceName: pick(meta.ResourceName, existing.ResourceName),

		InstanceType:  pick(meta.InstanceType, existing.InstanceType),
		SecurityGroup: pick(meta.SecurityGroup, existing.SecurityGroup),
	}
	return context.WithValue(ctx, metadataKey{}, merged)
}

// MetadataFromContext returns audit metadata stored in the context.
func MetadataFromContext(ctx context.Context) Metadata {
	if ctx == nil {
		return Metadata{}
	}
	meta, _ := ctx.Value(metadataKey{}).(Metadata)
	return meta
}

func pick(next, fallback string) string {
	if next != "" {
		return next
	}
	return fallback
}
