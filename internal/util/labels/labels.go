package labels

// Metadata keys. Compute metadata keys are limited to 255 characters and
// are kept free of dots.
const (
	KeyManagedBy = "stacktopo-managed-by"
	KeyRunID     = "stacktopo-run-id"
	KeyNetwork   = "stacktopo-network"
)

// ManagedBy is the value stored under KeyManagedBy.
const ManagedBy = "stacktopo"

// Builder provides a fluent interface for instance metadata.
type Builder struct {
	labels map[string]string
}

// NewBuilder creates a builder with the managed-by key set.
func NewBuilder() *Builder {
	return &Builder{labels: map[string]string{KeyManagedBy: ManagedBy}}
}

// WithRunID records the provisioning run. Empty values are skipped.
func (b *Builder) WithRunID(runID string) *Builder {
	if runID != "" {
		b.labels[KeyRunID] = runID
	}
	return b
}

// WithNetwork records the network the instance is attached to.
func (b *Builder) WithNetwork(network string) *Builder {
	if network != "" {
		b.labels[KeyNetwork] = network
	}
	return b
}

// With adds an arbitrary key.
func (b *Builder) With(key, value string) *Builder {
	b.labels[key] = value
	return b
}

// Build returns a copy of the accumulated metadata.
func (b *Builder) Build() map[string]string {
	out := make(map[string]string, len(b.labels))
	for k, v := range b.labels {
		out[k] = v
	}
	return out
}

// IsManaged reports whether metadata was produced by this tool.
func IsManaged(metadata map[string]string) bool {
	return metadata[KeyManagedBy] == ManagedBy
}
