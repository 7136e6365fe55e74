package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp(t *testing.T) {
	config1 := App()
	config2 := App()

	require.NotNil(t, config1)
	assert.Equal(t, config1, config2, "App() should return singleton instance")
	assert.NotNil(t, config1.Validator, "Validator should be initialized")
	assert.NotEmpty(t, config1.SecretKey, "SecretKey should be generated")
}

func TestAppConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		serverKey string
		clientKey string
		wantErr   bool
	}{
		{"both keys set", "SB-Mid-server-abc", "SB-Mid-client-abc", false},
		{"missing server key", "", "SB-Mid-client-abc", true},
		{"missing client key", "SB-Mid-server-abc", "", true},
		{"both missing", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &AppConfig{ServerKey: tt.serverKey, ClientKey: tt.clientKey}
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSandboxKeyMismatch(t *testing.T) {
	tests := []struct {
		name       string
		production bool
		serverKey  string
		clientKey  string
		mismatch   bool
	}{
		{"sandbox with SB keys", false, "SB-Mid-server-x", "SB-Mid-client-x", false},
		{"sandbox with live keys", false, "Mid-server-x", "Mid-client-x", true},
		{"production with live keys", true, "Mid-server-x", "Mid-client-x", false},
		{"production with SB server key", true, "SB-Mid-server-x", "Mid-client-x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &AppConfig{Production: tt.production, ServerKey: tt.serverKey, ClientKey: tt.clientKey}
			assert.Equal(t, tt.mismatch, cfg.SandboxKeyMismatch())
		})
	}
}

func TestGetEnv(t *testing.T) {
	os.Setenv("PAYSNAP_TEST_KEY", "value")
	defer os.Unsetenv("PAYSNAP_TEST_KEY")

	assert.Equal(t, "value", GetEnv("PAYSNAP_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("PAYSNAP_TEST_MISSING", "fallback"))
}

func TestGetBoolEnv(t *testing.T) {
	os.Setenv("PAYSNAP_TEST_BOOL", "true")
	defer os.Unsetenv("PAYSNAP_TEST_BOOL")

	assert.True(t, GetBoolEnv("PAYSNAP_TEST_BOOL", false))
	assert.True(t, GetBoolEnv("PAYSNAP_TEST_BOOL_MISSING", true))

	os.Setenv("PAYSNAP_TEST_BOOL", "not-a-bool")
	assert.False(t, GetBoolEnv("PAYSNAP_TEST_BOOL", false))
}

func TestGetIntEnv(t *testing.T) {
	os.Setenv("PAYSNAP_TEST_INT", "42")
	defer os.Unsetenv("PAYSNAP_TEST_INT")

	assert.Equal(t, 42, GetIntEnv("PAYSNAP_TEST_INT", 7))
	assert.Equal(t, 7, GetIntEnv("PAYSNAP_TEST_INT_MISSING", 7))
}
