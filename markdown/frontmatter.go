package markdown

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Metadata is the optional YAML front matter block preceding the body.
type Metadata struct {
	Title             string `yaml:"title"`
	Author            string `yaml:"author"`
	Date              string `yaml:"date"`
	CodeTheme         string `yaml:"code_theme"`
	SlideTheme        string `yaml:"slide_theme"`
	GradientDirection string `yaml:"gradient_direction"`
	Repo              string `yaml:"repo"`
}

// SplitFrontMatter separates a leading front matter block from the
// body. The block must start at the first byte as "---\n" and end with
// a "\n---\n" line; anything else leaves the input untouched with a nil
// Metadata. Invalid YAML inside a well delimited block is an error.
func SplitFrontMatter(src []byte) (*Metadata, []byte, error) {
	content := string(src)
	if !strings.HasPrefix(content, "---\n") {
		return nil, src, nil
	}
	rest := content[4:]
	end := strings.Index(rest, "\n---\n")
	if end < 0 {
		return nil, src, nil
	}
	var meta Metadata
	if err := yaml.Unmarshal([]byte(rest[:end]), &meta); err != nil {
		return nil, nil, fmt.Errorf("markdown: front matter: %w", err)
	}
	return &meta, []byte(rest[end+5:]), nil
}
