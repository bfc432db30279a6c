package markdown

import (
	"log/slog"
	"strings"

	"github.com/dlclark/regexp2"
	"gopkg.in/yaml.v3"
)

var (
	commentPattern    = regexp2.MustCompile(`(?sm)<!--.*?--\s*>`, regexp2.None)
	yamlHeaderPattern = regexp2.MustCompile(`(?sm)\A---(\r\n?|\n)((\w+?): (.+?)(\r\n?|\n))+?---(\r\n?|\n)`, regexp2.None)
)

// Meta is the metadata read from a document's front matter.
type Meta struct {
	Title  string `yaml:"title"`
	Author string `yaml:"author"`
	Date   string `yaml:"date"`
}

// Document is sanitized Markdown ready for Tokenize.
type Document struct {
	Body string
	Meta Meta
}

// Sanitize removes HTML comments and the leading front matter block.
func Sanitize(text string) Document {
	body := StripComments(text)
	var meta Meta
	if m, _ := yamlHeaderPattern.FindStringMatch(body); m != nil {
		// one capture per "key: value" line, without the fences
		var header strings.Builder
		if g := m.GroupByNumber(2); g != nil {
			for _, c := range g.Captures {
				header.WriteString(c.String())
			}
		}
		if err := yaml.Unmarshal([]byte(header.String()), &meta); err != nil {
			slog.Debug("front matter is not yaml", "err", err)
		}
	}
	return Document{Body: StripYAMLHeader(body), Meta: meta}
}

// StripComments removes every <!-- ... --> comment.
func StripComments(text string) string {
	out, err := commentPattern.Replace(text, "", -1, -1)
	if err != nil {
		return text
	}
	return out
}

// StripYAMLHeader removes the "---\nkey: value\n---\n" blocks at the very
// start of text.
func StripYAMLHeader(text string) string {
	for {
		out, err := yamlHeaderPattern.Replace(text, "", -1, 1)
		if err != nil || out == text {
			return text
		}
		text = out
	}
}
