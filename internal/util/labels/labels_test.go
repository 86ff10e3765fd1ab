package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilder(t *testing.T) {
	t.Parallel()

	got := NewBuilder().WithRunID("run-1").WithNetwork("blue").With("role", "demo").Build()

	assert.Equal(t, map[string]string{
		KeyManagedBy: ManagedBy,
		KeyRunID:     "run-1",
		KeyNetwork:   "blue",
		"role":       "demo",
	}, got)
	assert.True(t, IsManaged(got))
}

func TestBuilder_SkipsEmptyValues(t *testing.T) {
	t.Parallel()

	got := NewBuilder().WithRunID("").WithNetwork("").Build()

	assert.Equal(t, map[string]string{KeyManagedBy: ManagedBy}, got)
}

func TestBuild_ReturnsCopy(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	first := b.Build()
	first["mutated"] = "yes"

	assert.NotContains(t, b.Build(), "mutated")
	assert.False(t, IsManaged(map[string]string{}))
}
