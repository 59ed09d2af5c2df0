package site

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/docsmith/docsmith/internal/errors"
)

// IsExternalURL reports whether an asset reference points outside the site
// (absolute http(s) or protocol-relative URLs pass through untouched).
func IsExternalURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") ||
		strings.HasPrefix(ref, "https://") ||
		strings.HasPrefix(ref, "//")
}

// copyAsset copies one file from docs_dir into site_dir, preserving its
// relative path.
func copyAsset(docsDir, siteDir, rel string) error {
	src := filepath.Join(docsDir, filepath.FromSlash(rel))
	dst := filepath.Join(siteDir, filepath.FromSlash(rel))

	in, err := os.Open(src)
	if err != nil {
		return errors.AssetMissing("asset", rel)
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create asset directory for %s: %w", rel, err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create asset %s: %w", rel, err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy asset %s: %w", rel, err)
	}
	return nil
}

// assetRefs collects every local asset path the configuration references:
// theme logo/favicon plus local extra_css/extra_javascript entries.
func (b *Builder) assetRefs() []string {
	var refs []string
	if b.cfg.Theme.Logo != "" {
		refs = append(refs, b.cfg.Theme.Logo)
	}
	if b.cfg.Theme.Favicon != "" {
		refs = append(refs, b.cfg.Theme.Favicon)
	}
	for _, ref := range b.cfg.ExtraCSS {
		if !IsExternalURL(ref) {
			refs = append(refs, ref)
		}
	}
	for _, ref := range b.cfg.ExtraJavascript {
		if !IsExternalURL(ref) {
			refs = append(refs, ref)
		}
	}
	return refs
}

// assetHref converts an asset reference into the href emitted on pages.
// External URLs pass through; local paths become root-relative.
func assetHref(ref string) string {
	if IsExternalURL(ref) {
		return ref
	}
	return "/" + strings.TrimPrefix(ref, "/")
}
