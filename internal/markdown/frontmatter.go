package markdown

import (
	"bytes"

	"github.com/adrg/frontmatter"
)

// Meta is the front matter a documentation page may carry.
type Meta struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Hidden      bool     `yaml:"hidden"`
	Tags        []string `yaml:"tags"`
}

// SplitFrontMatter separates YAML front matter from the markdown body.
// Documents without front matter come back with a zero Meta and the
// source unchanged.
func SplitFrontMatter(source []byte) (Meta, []byte, error) {
	var meta Meta
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return Meta{}, nil, err
	}
	return meta, body, nil
}
