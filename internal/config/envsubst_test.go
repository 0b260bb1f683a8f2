package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("MARQUEE_T_KEY", "tmdb-secret")
	t.Setenv("MARQUEE_T_EMPTY", "")
	t.Setenv("MARQUEE_T_SERVER", "http://catalog.lan:8585")

	tests := []struct {
		name        string
		in          string
		want        string
		wantMissing []string
	}{
		{
			name: "plain reference",
			in:   `api_key = "${MARQUEE_T_KEY}"`,
			want: `api_key = "tmdb-secret"`,
		},
		{
			name:        "plain reference unset",
			in:          `api_key = "${MARQUEE_T_UNSET}"`,
			want:        `api_key = "${MARQUEE_T_UNSET}"`,
			wantMissing: []string{"MARQUEE_T_UNSET"},
		},
		{
			name: "plain reference set but empty",
			in:   `api_key = "${MARQUEE_T_EMPTY}"`,
			want: `api_key = ""`,
		},
		{
			name: "fallback used when unset",
			in:   `server_url = "${MARQUEE_T_UNSET:-http://localhost:8585}"`,
			want: `server_url = "http://localhost:8585"`,
		},
		{
			name: "fallback used when empty",
			in:   `server_url = "${MARQUEE_T_EMPTY:-http://localhost:8585}"`,
			want: `server_url = "http://localhost:8585"`,
		},
		{
			name: "fallback ignored when set",
			in:   `server_url = "${MARQUEE_T_SERVER:-http://localhost:8585}"`,
			want: `server_url = "http://catalog.lan:8585"`,
		},
		{
			name: "empty fallback",
			in:   `api_key = "${MARQUEE_T_UNSET:-}"`,
			want: `api_key = ""`,
		},
		{
			name:        "required with message",
			in:          `api_key = "${MARQUEE_T_EMPTY:? set a TMDB key }"`,
			want:        `api_key = "${MARQUEE_T_EMPTY:? set a TMDB key }"`,
			wantMissing: []string{"MARQUEE_T_EMPTY: set a TMDB key"},
		},
		{
			name: "required and present",
			in:   `api_key = "${MARQUEE_T_KEY:?set a TMDB key}"`,
			want: `api_key = "tmdb-secret"`,
		},
		{
			name:        "several on one line",
			in:          `lists = ["${MARQUEE_T_UNSET:-popular}", "${MARQUEE_T_OTHER}"] # ${MARQUEE_T_KEY}`,
			want:        `lists = ["popular", "${MARQUEE_T_OTHER}"] # tmdb-secret`,
			wantMissing: []string{"MARQUEE_T_OTHER"},
		},
		{
			name: "not a reference",
			in:   `path = "$HOME/marquee.db" # {braces}`,
			want: `path = "$HOME/marquee.db" # {braces}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, missing := substituteEnvVars(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantMissing, missing)
		})
	}
}

func TestSubstituteEnvVars_DefaultConfigTemplate(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("MARQUEE_SERVER", "")

	out, missing := substituteEnvVars(string(defaultConfig))
	assert.Empty(t, missing, "the shipped template loads with nothing exported")
	assert.Contains(t, out, `server_url = "http://localhost:8585"`)
	assert.NotContains(t, out, "${TMDB_API_KEY")
}
