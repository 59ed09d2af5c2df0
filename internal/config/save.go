package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

// Marshal serializes the configuration. Ordered sections (nav, plugins,
// markdown_extensions, extra assets) come back out in the order they were
// authored, so parse→serialize is idempotent up to YAML formatting.
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize config encoding: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the configuration atomically so a crashed writer never
// leaves a truncated file behind.
func Save(cfg *Config, path string) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Init writes a starter configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}
	return renameio.WriteFile(path, []byte(starterConfig), 0o644)
}

const starterConfig = `site_name: My Documentation

nav:
  - Home: index.md

theme:
  name: material
  palette:
    - scheme: default
      primary: indigo
      accent: indigo

markdown_extensions:
  - toc:
      permalink: true
  - admonition
  - footnotes
`
