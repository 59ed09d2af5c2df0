package config

// Default values mirror what the reference static-site generators assume
// when a key is omitted.
const (
	DefaultDocsDir   = "docs"
	DefaultSiteDir   = "site"
	DefaultTheme     = "material"
	DefaultAddress   = "127.0.0.1:8000"
	DefaultCacheSize = 256
	DefaultStateDir  = ".docsmith"
	DefaultSubject   = "docsmith.builds"
	DefaultKVBucket  = "docsmith-links"
)

// applyDefaults fills in omitted settings after parsing.
func applyDefaults(cfg *Config) {
	if cfg.DocsDir == "" {
		cfg.DocsDir = DefaultDocsDir
	}
	if cfg.SiteDir == "" {
		cfg.SiteDir = DefaultSiteDir
	}
	if cfg.Theme.Name == "" {
		cfg.Theme.Name = DefaultTheme
	}

	if cfg.Serve != nil {
		if cfg.Serve.Address == "" {
			cfg.Serve.Address = DefaultAddress
		}
		if cfg.Serve.CacheSize <= 0 {
			cfg.Serve.CacheSize = DefaultCacheSize
		}
	}

	if cfg.Daemon != nil {
		if cfg.Daemon.StateDir == "" {
			cfg.Daemon.StateDir = DefaultStateDir
		}
		if cfg.Daemon.GitBranch == "" {
			cfg.Daemon.GitBranch = "main"
		}
		if cfg.Daemon.Events != nil {
			if cfg.Daemon.Events.Subject == "" {
				cfg.Daemon.Events.Subject = DefaultSubject
			}
			if cfg.Daemon.Events.KVBucket == "" {
				cfg.Daemon.Events.KVBucket = DefaultKVBucket
			}
		}
	}
}
