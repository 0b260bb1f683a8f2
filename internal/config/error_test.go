package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigError_Message(t *testing.T) {
	const path = "/etc/marquee/config.toml"
	tests := []struct {
		name string
		err  *ConfigError
		want string
	}{
		{
			name: "nothing recorded",
			err:  &ConfigError{Path: path},
			want: "",
		},
		{
			name: "unresolved references",
			err:  &ConfigError{Path: path, Missing: []string{"TMDB_API_KEY", "MARQUEE_SERVER"}},
			want: path + ": missing environment variables: TMDB_API_KEY, MARQUEE_SERVER",
		},
		{
			name: "rule failures",
			err:  &ConfigError{Path: path, Errors: []string{"server.port: must be 1-65535", "sync.pages: must not be negative"}},
			want: path + ": validation failed:\n  - server.port: must be 1-65535\n  - sync.pages: must not be negative",
		},
		{
			name: "both",
			err:  &ConfigError{Path: path, Missing: []string{"TMDB_API_KEY"}, Errors: []string{"client.timeout: must not be negative"}},
			want: path + ": missing environment variables: TMDB_API_KEY\nvalidation failed:\n  - client.timeout: must not be negative",
		},
		{
			name: "no path",
			err:  &ConfigError{Errors: []string{"sync.lists: unknown list \"trending\""}},
			want: "validation failed:\n  - sync.lists: unknown list \"trending\"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.Equal(t, tt.want != "", tt.err.HasErrors())
		})
	}
}

func TestLoad_ReportsEveryProblemAtOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "[server]\nport = 70000\nlog_level = \"loud\"\n\n[sync]\npages = -2\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	_, err := Load(path)
	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr), "got %v", err)
	assert.Equal(t, path, cerr.Path)
	assert.Empty(t, cerr.Missing)
	assert.GreaterOrEqual(t, len(cerr.Errors), 3)
}

func TestLoad_MissingVariablesBeforeRules(t *testing.T) {
	t.Setenv("MARQUEE_T_REQUIRED", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "[server]\nport = 70000\n\n[tmdb]\napi_key = \"${MARQUEE_T_REQUIRED:?needed for sync}\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	_, err := Load(path)
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, []string{"MARQUEE_T_REQUIRED: needed for sync"}, cerr.Missing)
	assert.Empty(t, cerr.Errors, "rules are not checked until every reference resolves")
}
