package config

import (
	"fmt"
	"net"
	"net/url"
	"time"

	siteerrors "github.com/docsmith/docsmith/internal/errors"
)

// Validate performs structural validation of the configuration.
// File-existence properties (nav paths, assets) are the lint rules'
// concern; this pass only rejects configurations that cannot be acted on.
func Validate(cfg *Config) error {
	validator := newConfigurationValidator(cfg)
	return validator.validate()
}

// configurationValidator coordinates validation across all configuration domains.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

// validate performs validation using domain-specific methods.
func (cv *configurationValidator) validate() error {
	if err := cv.validateSite(); err != nil {
		return err
	}
	if err := cv.validateTheme(); err != nil {
		return err
	}
	if err := cv.validateExtensions(); err != nil {
		return err
	}
	if err := cv.validateServe(); err != nil {
		return err
	}
	return cv.validateDaemon()
}

func (cv *configurationValidator) validateSite() error {
	if cv.config.SiteName == "" {
		return siteerrors.ValidationFailed("site_name", "must be set")
	}
	if cv.config.RepoURL != "" {
		u, err := url.Parse(cv.config.RepoURL)
		if err != nil || u.Scheme == "" {
			return siteerrors.ValidationFailed("repo_url", fmt.Sprintf("not a valid URL: %s", cv.config.RepoURL))
		}
	}
	for i, id := range cv.config.GoogleAnalytics {
		if id == "" {
			return siteerrors.ValidationFailed(fmt.Sprintf("google_analytics[%d]", i), "empty tracking ID")
		}
	}
	return nil
}

// knownSchemes are the palette schemes the page templates understand.
var knownSchemes = map[string]bool{
	"":        true, // scheme is optional; defaults to light
	"default": true,
	"light":   true,
	"dark":    true,
	"slate":   true,
}

func (cv *configurationValidator) validateTheme() error {
	for i, p := range cv.config.Theme.Palette {
		if !knownSchemes[p.Scheme] {
			return siteerrors.ValidationFailed(fmt.Sprintf("theme.palette[%d]", i), fmt.Sprintf("unknown scheme %q", p.Scheme))
		}
		if p.Toggle != nil && p.Toggle.Name == "" {
			return siteerrors.ValidationFailed(fmt.Sprintf("theme.palette[%d]", i), "toggle requires a name")
		}
	}
	// Multiple palettes need toggles so readers can switch between them.
	if len(cv.config.Theme.Palette) > 1 {
		for i, p := range cv.config.Theme.Palette {
			if p.Toggle == nil {
				return siteerrors.ValidationFailed(fmt.Sprintf("theme.palette[%d]", i), "toggle required when multiple palettes are configured")
			}
		}
	}
	return nil
}

func (cv *configurationValidator) validateExtensions() error {
	for i, ext := range cv.config.MarkdownExtensions {
		if ext.Name == "" {
			return siteerrors.ValidationFailed(fmt.Sprintf("markdown_extensions[%d]", i), "empty extension name")
		}
	}
	for i, p := range cv.config.Plugins {
		if p == "" {
			return siteerrors.ValidationFailed(fmt.Sprintf("plugins[%d]", i), "empty plugin name")
		}
	}
	return nil
}

func (cv *configurationValidator) validateServe() error {
	if cv.config.Serve == nil || cv.config.Serve.Address == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(cv.config.Serve.Address); err != nil {
		return siteerrors.ValidationFailed("serve.address", fmt.Sprintf("not host:port: %s", cv.config.Serve.Address))
	}
	return nil
}

func (cv *configurationValidator) validateDaemon() error {
	d := cv.config.Daemon
	if d == nil {
		return nil
	}
	if d.RebuildInterval != "" {
		interval, err := time.ParseDuration(d.RebuildInterval)
		if err != nil {
			return siteerrors.ValidationFailed("daemon.rebuild_interval", fmt.Sprintf("not a duration: %s", d.RebuildInterval))
		}
		if interval < time.Second {
			return siteerrors.ValidationFailed("daemon.rebuild_interval", fmt.Sprintf("must be at least 1s, got %s", interval))
		}
	}
	if d.GitSync && cv.config.RepoURL == "" {
		return siteerrors.ValidationFailed("daemon.git_sync", "requires repo_url to be set")
	}
	if d.Events != nil && d.Events.Enabled && d.Events.NATSURL == "" {
		return siteerrors.ValidationFailed("daemon.events.nats_url", "required when events are enabled")
	}
	return nil
}
