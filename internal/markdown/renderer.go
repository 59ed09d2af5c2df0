package markdown

import (
	"bytes"
	"log/slog"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/logfields"
)

// Renderer converts markdown documents to HTML using the extension set
// declared in the site configuration. Extension order follows the
// configured order, which fixes processing precedence.
type Renderer struct {
	md        goldmark.Markdown
	tocDepth  int
	permalink bool

	// Unknown holds configured extension names the pipeline does not
	// understand, in configured order. The build reports them; lint
	// flags them.
	Unknown []string
}

// NewRenderer builds a rendering pipeline from the ordered extension list.
func NewRenderer(exts config.ExtensionList) *Renderer {
	r := &Renderer{tocDepth: 3}

	var active []goldmark.Extender
	parserOpts := []parser.Option{parser.WithAutoHeadingID()}

	for _, ext := range exts {
		if extender, ok := extenders[ext.Name]; ok {
			if extender != nil {
				active = append(active, extender)
			}
			continue
		}
		if recognized[ext.Name] {
			switch ext.Name {
			case "attr_list":
				parserOpts = append(parserOpts, parser.WithAttribute())
			case "toc":
				if v, ok := ext.Options["permalink"].(bool); ok {
					r.permalink = v
				}
				if v, ok := ext.Options["depth"].(int); ok && v > 0 {
					r.tocDepth = v
				}
			}
			continue
		}
		slog.Warn("Unknown markdown extension", logfields.Extension(ext.Name))
		r.Unknown = append(r.Unknown, ext.Name)
	}

	r.md = goldmark.New(
		goldmark.WithExtensions(active...),
		goldmark.WithParserOptions(parserOpts...),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return r
}

// Page is the rendered form of one markdown document.
type Page struct {
	HTML []byte
	TOC  []TOCEntry
}

// TOCEntry is one heading in a rendered document.
type TOCEntry struct {
	Level int
	Title string
	ID    string
}

// Render converts a markdown body (front matter already stripped) to HTML
// and extracts its table of contents.
func (r *Renderer) Render(body []byte) (*Page, error) {
	ctx := parser.NewContext()
	doc := r.md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	toc := r.extractTOC(doc, body)

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, body, doc); err != nil {
		return nil, err
	}
	return &Page{HTML: buf.Bytes(), TOC: toc}, nil
}

// Permalink reports whether heading permalinks were requested via toc options.
func (r *Renderer) Permalink() bool {
	return r.permalink
}

func (r *Renderer) extractTOC(doc gmast.Node, source []byte) []TOCEntry {
	var toc []TOCEntry
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		heading, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		if heading.Level > r.tocDepth {
			return gmast.WalkContinue, nil
		}
		entry := TOCEntry{Level: heading.Level, Title: string(heading.Text(source))}
		if id, ok := heading.AttributeString("id"); ok {
			if b, ok := id.([]byte); ok {
				entry.ID = string(b)
			}
		}
		toc = append(toc, entry)
		return gmast.WalkContinue, nil
	})
	return toc
}
