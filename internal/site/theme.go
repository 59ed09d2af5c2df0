package site

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/markdown"
	"github.com/docsmith/docsmith/internal/nav"
)

// pageData is the template context for one rendered page.
type pageData struct {
	SiteName     string
	Title        string
	Content      template.HTML
	Nav          []navItem
	TOC          []markdown.TOCEntry
	Palettes     []config.Palette
	Logo         string
	Favicon      string
	RepoName     string
	RepoURL      string
	AnalyticsIDs []string
	ExtraCSS     []string
	ExtraJS      []string
	Permalink    bool
}

// navItem is a nav entry resolved for rendering: leaf entries carry a
// root-relative href, sections carry children.
type navItem struct {
	Label    string
	Href     string
	Active   bool
	Children []navItem
}

// buildNavItems resolves the nav tree into hrefs, marking the active page.
func buildNavItems(tree nav.Tree, activePath string) []navItem {
	items := make([]navItem, 0, len(tree))
	for _, e := range tree {
		items = append(items, buildNavItem(e, activePath))
	}
	return items
}

func buildNavItem(e nav.Entry, activePath string) navItem {
	label := e.Label
	if label == "" && e.Path != "" {
		label = nav.TitleFromPath(e.Path)
	}
	item := navItem{Label: label}
	if e.IsLeaf() {
		item.Href = PageURL(e.Path)
		item.Active = e.Path == activePath
		return item
	}
	for _, c := range e.Children {
		child := buildNavItem(c, activePath)
		if child.Active {
			item.Active = true
		}
		item.Children = append(item.Children, child)
	}
	return item
}

// PageURL maps a document path to its root-relative pretty URL,
// e.g. "api/guide.md" becomes "/api/guide/".
func PageURL(docPath string) string {
	p := strings.TrimSuffix(docPath, ".md")
	if p == "index" {
		return "/"
	}
	if strings.HasSuffix(p, "/index") {
		p = strings.TrimSuffix(p, "/index")
	}
	return "/" + p + "/"
}

// OutputPath maps a document path to its file location under site_dir.
func OutputPath(docPath string) string {
	p := strings.TrimSuffix(docPath, ".md")
	if p == "index" || strings.HasSuffix(p, "/index") {
		return p + ".html"
	}
	return p + "/index.html"
}

// paletteCSS renders the configured palettes as CSS custom-property blocks.
// The first palette is the default; additional ones are selectable by the
// data-scheme attribute the toggle script flips.
func paletteCSS(palettes []config.Palette) template.CSS {
	if len(palettes) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, p := range palettes {
		selector := fmt.Sprintf("[data-scheme=%q]", schemeName(p, i))
		if i == 0 {
			selector = ":root, " + selector
		}
		sb.WriteString(selector)
		sb.WriteString(" {")
		if p.Primary != "" {
			fmt.Fprintf(&sb, " --md-primary: %s;", p.Primary)
		}
		if p.Accent != "" {
			fmt.Fprintf(&sb, " --md-accent: %s;", p.Accent)
		}
		sb.WriteString(" }\n")
	}
	return template.CSS(sb.String())
}

func schemeName(p config.Palette, idx int) string {
	if p.Scheme != "" {
		return p.Scheme
	}
	if idx == 0 {
		return "default"
	}
	return fmt.Sprintf("palette-%d", idx)
}

// schemeList returns the scheme names in palette order for the toggle script.
func schemeList(palettes []config.Palette) []string {
	names := make([]string, 0, len(palettes))
	for i, p := range palettes {
		names = append(names, schemeName(p, i))
	}
	return names
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"paletteCSS": paletteCSS,
	"schemeList": schemeList,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{if .Title}}{{.Title}} - {{end}}{{.SiteName}}</title>
{{- if .Favicon}}
<link rel="icon" href="/{{.Favicon}}">
{{- end}}
<style>{{paletteCSS .Palettes}}</style>
{{- range .ExtraCSS}}
<link rel="stylesheet" href="{{.}}">
{{- end}}
{{- range .AnalyticsIDs}}
<script async src="https://www.googletagmanager.com/gtag/js?id={{.}}"></script>
<script>window.dataLayer=window.dataLayer||[];function gtag(){dataLayer.push(arguments);}gtag('js',new Date());gtag('config','{{.}}');</script>
{{- end}}
</head>
<body>
<header class="site-header">
{{- if .Logo}}
<img class="site-logo" src="/{{.Logo}}" alt="{{.SiteName}}">
{{- end}}
<span class="site-title">{{.SiteName}}</span>
{{- if .RepoURL}}
<a class="repo-link" href="{{.RepoURL}}">{{if .RepoName}}{{.RepoName}}{{else}}Repository{{end}}</a>
{{- end}}
{{- if gt (len .Palettes) 1}}
<button class="palette-toggle" onclick="toggleScheme()">{{with (index .Palettes 0).Toggle}}{{.Name}}{{end}}</button>
{{- end}}
</header>
<nav class="site-nav">
{{- template "navlist" .Nav}}
</nav>
<main class="site-content">
{{.Content}}
</main>
{{- if .TOC}}
<aside class="page-toc">
<ul>
{{- range .TOC}}
<li class="toc-level-{{.Level}}"><a href="#{{.ID}}">{{.Title}}</a></li>
{{- end}}
</ul>
</aside>
{{- end}}
{{- if gt (len .Palettes) 1}}
<script>
function toggleScheme(){
  var schemes={{schemeList .Palettes}};
  var cur=document.documentElement.getAttribute('data-scheme')||schemes[0];
  var next=schemes[(schemes.indexOf(cur)+1)%schemes.length];
  document.documentElement.setAttribute('data-scheme',next);
}
</script>
{{- end}}
{{- range .ExtraJS}}
<script src="{{.}}"></script>
{{- end}}
</body>
</html>
{{define "navlist"}}<ul>
{{- range .}}
<li{{if .Active}} class="active"{{end}}>
{{- if .Href}}<a href="{{.Href}}">{{.Label}}</a>{{else}}<span>{{.Label}}</span>{{end}}
{{- if .Children}}{{template "navlist" .Children}}{{end}}
</li>
{{- end}}
</ul>{{end}}`))
