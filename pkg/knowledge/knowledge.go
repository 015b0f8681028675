// Package knowledge imports retrieval corpus entries from YAML and
// Markdown files and keeps them in sync with the database.
package knowledge

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/beauteq/salon-assistant/pkg/store"
)

// keywordsPrefix marks the keyword line inside a Markdown section
const keywordsPrefix = "keywords:"

// Entry is one corpus entry as it appears in an import file
type Entry struct {
	Category string `yaml:"category"`
	Keywords string `yaml:"keywords"`
	Content  string `yaml:"content"`
}

// Importer loads corpus files into the knowledge store
type Importer struct {
	knowledge store.KnowledgeStore
}

// NewImporter creates an Importer over the given store
func NewImporter(knowledge store.KnowledgeStore) *Importer {
	return &Importer{knowledge: knowledge}
}

// ImportFile parses a corpus file by extension and upserts its entries.
// It returns the number of imported entries.
func (i *Importer) ImportFile(path string) (int, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var entries []Entry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		entries, err = ParseYAML(source)
	case ".md", ".markdown":
		entries, err = ParseMarkdown(source)
	default:
		return 0, fmt.Errorf("unsupported corpus format: %s", filepath.Ext(path))
	}
	if err != nil {
		return 0, err
	}

	items := make([]store.KnowledgeItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, store.KnowledgeItem{
			Category: e.Category,
			Keywords: e.Keywords,
			Content:  e.Content,
		})
	}
	if err := i.knowledge.UpsertKnowledge(items); err != nil {
		return 0, err
	}
	return len(items), nil
}

// ParseYAML parses a YAML corpus file: a list of category/keywords/content
// entries.
func ParseYAML(source []byte) ([]Entry, error) {
	var entries []Entry
	if err := yaml.Unmarshal(source, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse corpus: %w", err)
	}
	for idx, e := range entries {
		if e.Category == "" {
			return nil, fmt.Errorf("entry %d: category is required", idx+1)
		}
	}
	return entries, nil
}

// ParseMarkdown parses a Markdown corpus file. Every level-2 heading
// starts an entry named after the heading text. A body line starting
// with "keywords:" supplies the keyword list and is stripped from the
// content.
func ParseMarkdown(source []byte) ([]Entry, error) {
	md := goldmark.New()
	reader := text.NewReader(source)
	doc := md.Parser().Parse(reader, parser.WithContext(parser.NewContext()))

	type headingInfo struct {
		category     string
		contentStart int
		headingStart int
	}
	var headings []headingInfo

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		if heading, ok := n.(*ast.Heading); ok && heading.Level == 2 {
			lines := heading.Lines()
			headingStart := 0
			contentStart := 0
			if lines.Len() > 0 {
				headingStart = lines.At(0).Start
				contentStart = lines.At(lines.Len() - 1).Stop
				// Lines() starts after the ATX marker, back up to the
				// line start so the previous section's content does not
				// swallow the "##".
				for headingStart > 0 && source[headingStart-1] != '\n' {
					headingStart--
				}
			}

			headings = append(headings, headingInfo{
				category:     extractHeadingText(heading, source),
				contentStart: contentStart,
				headingStart: headingStart,
			})
		}

		return ast.WalkContinue, nil
	})

	var entries []Entry
	for i, h := range headings {
		contentEnd := len(source)
		if i+1 < len(headings) {
			contentEnd = headings[i+1].headingStart
		}

		body := ""
		if h.contentStart < contentEnd {
			body = strings.TrimSpace(string(source[h.contentStart:contentEnd]))
		}

		keywords, content := splitKeywords(body)
		entries = append(entries, Entry{
			Category: h.category,
			Keywords: keywords,
			Content:  content,
		})
	}

	return entries, nil
}

func extractHeadingText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if textNode, ok := child.(*ast.Text); ok {
			buf.Write(textNode.Segment.Value(source))
		}
	}
	return strings.TrimSpace(buf.String())
}

func splitKeywords(body string) (keywords, content string) {
	var contentLines []string
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		if keywords == "" && strings.HasPrefix(lower, keywordsPrefix) {
			keywords = strings.TrimSpace(trimmed[len(keywordsPrefix):])
			continue
		}
		contentLines = append(contentLines, line)
	}
	return keywords, strings.TrimSpace(strings.Join(contentLines, "\n"))
}
