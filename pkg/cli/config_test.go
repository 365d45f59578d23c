package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserConfig_ActiveProfile(t *testing.T) {
	cfg := &UserConfig{
		CurrentProfile: "default",
		Profiles: map[string]Profile{
			"default": {Host: "http://localhost:8080", Token: "tok_default", Output: "table"},
			"staging": {Host: "https://staging.example.com", Token: "tok_staging", Output: "json"},
		},
	}

	tests := []struct {
		name     string
		override string
		wantHost string
	}{
		{name: "uses current profile", override: "", wantHost: "http://localhost:8080"},
		{name: "override to staging", override: "staging", wantHost: "https://staging.example.com"},
		{name: "nonexistent profile returns empty", override: "nonexistent", wantHost: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := cfg.ActiveProfile(tt.override)
			assert.Equal(t, tt.wantHost, p.Host)
		})
	}
}

func TestLoadSaveUserConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	cfg := &UserConfig{
		CurrentProfile: "test",
		Profiles: map[string]Profile{
			"test": {Host: "http://test:8080", Token: "tok_test"},
		},
	}
	require.NoError(t, SaveUserConfig(cfg))

	configPath := filepath.Join(dir, ".orgdesk", "config.yaml")
	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadUserConfig()
	require.NoError(t, err)
	assert.Equal(t, "test", loaded.CurrentProfile)
	require.Contains(t, loaded.Profiles, "test")
	assert.Equal(t, "http://test:8080", loaded.Profiles["test"].Host)
	assert.Equal(t, "tok_test", loaded.Profiles["test"].Token)
}

func TestLoadUserConfig_NotFound(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	_, err := LoadUserConfig()
	require.Error(t, err)
}
