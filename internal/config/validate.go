package config

import (
	"fmt"
	"net/url"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validLists = map[string]bool{
	"popular": true, "top_rated": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	if c.TMDB.BaseURL != "" {
		if u, err := url.Parse(c.TMDB.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("tmdb.base_url: invalid URL %q", c.TMDB.BaseURL))
		}
	}
	if c.TMDB.CacheTTL < 0 {
		errs = append(errs, "tmdb.cache_ttl: must not be negative")
	}

	if c.Sync.Enabled && c.TMDB.APIKey == "" {
		errs = append(errs, "tmdb.api_key: required when sync is enabled")
	}
	if c.Sync.Interval < 0 {
		errs = append(errs, "sync.interval: must not be negative")
	}
	for _, l := range c.Sync.Lists {
		if !validLists[l] {
			errs = append(errs, fmt.Sprintf("sync.lists: must be popular or top_rated; got %q", l))
		}
	}
	if c.Sync.Pages < 0 {
		errs = append(errs, fmt.Sprintf("sync.pages: must not be negative, got %d", c.Sync.Pages))
	}
	if c.Sync.Concurrency < 0 {
		errs = append(errs, fmt.Sprintf("sync.concurrency: must not be negative, got %d", c.Sync.Concurrency))
	}

	if c.Client.ServerURL != "" {
		if u, err := url.Parse(c.Client.ServerURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("client.server_url: must be an http(s) URL; got %q", c.Client.ServerURL))
		}
	}
	if c.Client.Timeout < 0 {
		errs = append(errs, "client.timeout: must not be negative")
	}

	return errs
}
