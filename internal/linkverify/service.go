package linkverify

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/docsmith/docsmith/internal/logfields"
)

// BrokenLink is one unresolvable link found during verification.
type BrokenLink struct {
	Page   string `json:"page"`   // HTML file relative to site_dir
	URL    string `json:"url"`    // the offending link
	Reason string `json:"reason"` // why it is considered broken
}

// Report summarizes a verification run.
type Report struct {
	PagesScanned int
	LinksChecked int
	Broken       []BrokenLink
}

// Options configures a verification run.
type Options struct {
	// CheckExternal probes external links over HTTP when true.
	CheckExternal bool
	// HTTPClient used for external probes; a 10s-timeout default applies.
	HTTPClient *http.Client
	// Cache stores external probe results between runs; nil disables caching.
	Cache Cache
}

// VerifySite walks every HTML file under siteDir and verifies its links.
// Internal targets must resolve to files inside siteDir; external targets
// are only probed when opts.CheckExternal is set.
func VerifySite(ctx context.Context, siteDir, baseURL string, opts Options) (*Report, error) {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	report := &Report{}
	err := filepath.WalkDir(siteDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".html") {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rel, err := filepath.Rel(siteDir, p)
		if err != nil {
			return err
		}
		report.PagesScanned++

		links, err := ExtractLinks(p, baseURL)
		if err != nil {
			return err
		}
		for _, link := range links {
			report.LinksChecked++
			if link.IsInternal {
				if reason := checkInternal(siteDir, rel, link.URL); reason != "" {
					report.Broken = append(report.Broken, BrokenLink{Page: rel, URL: link.URL, Reason: reason})
				}
				continue
			}
			if !opts.CheckExternal {
				continue
			}
			if reason := checkExternal(ctx, client, opts.Cache, link.URL); reason != "" {
				report.Broken = append(report.Broken, BrokenLink{Page: rel, URL: link.URL, Reason: reason})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Link verification finished",
		slog.Int("pages", report.PagesScanned),
		slog.Int("links", report.LinksChecked),
		slog.Int("broken", len(report.Broken)))
	return report, nil
}

// checkInternal resolves an internal link against the site tree.
// Returns a non-empty reason when the target does not exist.
func checkInternal(siteDir, fromPage, raw string) string {
	if strings.HasPrefix(raw, "#") ||
		strings.HasPrefix(raw, "mailto:") ||
		strings.HasPrefix(raw, "tel:") ||
		strings.HasPrefix(raw, "javascript:") {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "unparseable URL"
	}
	target := u.Path
	if target == "" {
		return "" // pure fragment or query
	}

	if !strings.HasPrefix(target, "/") {
		// Relative to the directory of the linking page.
		target = path.Join("/", path.Dir(filepath.ToSlash(fromPage)), target)
	}

	candidates := []string{target}
	if strings.HasSuffix(target, "/") {
		candidates = []string{path.Join(target, "index.html")}
	} else if path.Ext(target) == "" {
		candidates = append(candidates, path.Join(target, "index.html"))
	}

	for _, c := range candidates {
		full := filepath.Join(siteDir, filepath.FromSlash(strings.TrimPrefix(c, "/")))
		if st, err := os.Stat(full); err == nil && !st.IsDir() {
			return ""
		}
	}
	return "target not found in site"
}

// checkExternal probes an external link, consulting the cache first.
// Returns a non-empty reason when the target is unreachable.
func checkExternal(ctx context.Context, client *http.Client, cache Cache, raw string) string {
	if cache != nil {
		if entry, ok := cache.Get(ctx, raw); ok {
			if entry.OK {
				return ""
			}
			return entry.Reason
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, raw, nil)
	if err != nil {
		return "unparseable URL"
	}
	resp, err := client.Do(req)
	reason := ""
	if err != nil {
		reason = "unreachable"
	} else {
		_ = resp.Body.Close()
		if resp.StatusCode >= 400 {
			reason = resp.Status
		}
	}

	if cache != nil {
		entry := &CacheEntry{URL: raw, OK: reason == "", Reason: reason, CheckedAt: time.Now()}
		if err := cache.Set(ctx, entry); err != nil {
			slog.Debug("Failed to cache link result", logfields.Error(err))
		}
	}
	return reason
}
