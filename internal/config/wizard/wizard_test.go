package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/stacktopo/internal/config"
)

func TestValidators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		fn      func(string) error
		input   string
		wantErr error
	}{
		{"host ok", validateHost, "10.0.0.5", nil},
		{"host blank", validateHost, "  ", errHostRequired},
		{"port ok", validatePort, "8092", nil},
		{"port zero", validatePort, "0", errPortInvalid},
		{"port too large", validatePort, "70000", errPortInvalid},
		{"port text", validatePort, "http", errPortInvalid},
		{"required", validateRequired, "", errNameRequired},
		{"name ok", validateName, "blue_net-2.a", nil},
		{"name empty", validateName, "", errNameRequired},
		{"name spaces", validateName, "blue net", errNameInvalid},
		{"name leading dash", validateName, "-blue", errNameInvalid},
		{"cidr ok", validateCIDR, "10.1.0.0/16", nil},
		{"cidr empty", validateCIDR, "", errCIDRRequired},
		{"cidr no mask", validateCIDR, "10.1.0.0", errCIDRInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantErr, tt.fn(tt.input))
		})
	}
}

func TestDefaultsBuildDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := BuildConfig(defaults())
	want := config.Default()
	want.ControlPlane.Password = ""

	assert.Equal(t, want, cfg)
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	result := defaults()
	result.Scheme = "https"
	result.Host = " 192.168.56.10 "
	result.Port = "5000"
	result.Password = "s3cret"
	result.StorePassword = true
	result.Flavor = "m1.small"
	result.Parallelism = 3
	result.GenerateKeypair = true
	result.Networks = map[config.Role]NetworkAnswer{
		config.RoleBlue: {Name: "green", CIDR: "10.10.0.0/24"},
	}

	cfg := BuildConfig(result)

	assert.Equal(t, "https", cfg.ControlPlane.Scheme)
	assert.Equal(t, "192.168.56.10", cfg.ControlPlane.Host)
	assert.Equal(t, 5000, cfg.ControlPlane.Port)
	assert.Equal(t, "s3cret", cfg.ControlPlane.Password)
	assert.Equal(t, "m1.small", cfg.Topology.Flavor)
	assert.Equal(t, 3, cfg.Provisioning.Parallelism)
	assert.True(t, cfg.Provisioning.GenerateKeypair)

	assert.Equal(t, "green", cfg.Topology.Blue.Name)
	assert.Equal(t, "green_subnet", cfg.Topology.Blue.Subnet)
	assert.Equal(t, "10.10.0.0/24", cfg.Topology.Blue.CIDR)
	assert.Equal(t, config.Default().Topology.Red, cfg.Topology.Red, "unanswered roles keep their defaults")

	_, err := cfg.Validate()
	require.NoError(t, err)
}

func TestBuildConfig_PasswordNotStored(t *testing.T) {
	t.Parallel()

	result := defaults()
	result.Password = "s3cret"

	assert.Empty(t, BuildConfig(result).ControlPlane.Password)
}

func TestToOptions(t *testing.T) {
	t.Parallel()

	opts := ToOptions(FlavorOptions)
	require.Len(t, opts, len(FlavorOptions))
	assert.Equal(t, config.DefaultFlavor, opts[0].Value)
	assert.Contains(t, opts[0].Key, "512MB")

	assert.True(t, IsValidOption(ImageOptions, config.DefaultImage))
	assert.False(t, IsValidOption(ImageOptions, "windows"))
}
