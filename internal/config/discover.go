package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvConfig names an explicit config file and disables the search.
const EnvConfig = "MARQUEE_CONFIG"

const appDir = "marquee"

// xdgDir resolves an XDG base directory, falling back to ~/<homeRel>.
// It returns "" when neither is available.
func xdgDir(env, homeRel string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, homeRel)
}

// DefaultPath is where `marquee init` writes and the search looks after the
// working directory.
func DefaultPath() string {
	base := xdgDir("XDG_CONFIG_HOME", ".config")
	if base == "" {
		return "./config.toml"
	}
	return filepath.Join(base, appDir, "config.toml")
}

// DefaultCachePath returns where the CLI keeps its movie list cache.
func DefaultCachePath() string {
	base := xdgDir("XDG_CACHE_HOME", ".cache")
	if base == "" {
		return "./movie-cache.db"
	}
	return filepath.Join(base, appDir, "movie-cache.db")
}

// searchPaths lists the candidates Discover checks, in order.
func searchPaths() []string {
	return []string{
		"./config.toml",
		DefaultPath(),
		filepath.Join("/etc", appDir, "config.toml"),
	}
}

// Discover returns the config file to load. $MARQUEE_CONFIG wins and must
// exist; otherwise the first existing entry of ./config.toml, DefaultPath
// and /etc/marquee/config.toml is used.
func Discover() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfig, p, err)
		}
		return p, nil
	}

	candidates := searchPaths()
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("config not found, checked: %s", strings.Join(candidates, ", "))
}
