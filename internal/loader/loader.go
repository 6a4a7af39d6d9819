package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/docsearch-mcp/pkg/types"
)

// frontMatter is the YAML header of a corpus document.
type frontMatter struct {
	ID       string   `yaml:"id"`
	Title    string   `yaml:"title"`
	Category string   `yaml:"category"`
	Tags     []string `yaml:"tags"`
	Summary  string   `yaml:"summary"`
	Date     string   `yaml:"date"`
	Ready    bool     `yaml:"ready"`
}

// LoadDir reads every markdown file under dir, parses its front matter, and
// returns the documents marked ready, in lexical path order. Files without
// front matter are treated as not ready and skipped; malformed front matter
// fails the load with an error naming the file.
func LoadDir(dir string) ([]types.Document, error) {
	var docs []types.Document
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isMarkdown(path) {
			return nil
		}
		doc, ok, err := LoadFile(path)
		if err != nil {
			return err
		}
		if ok {
			docs = append(docs, doc)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus from %s: %w", dir, err)
	}
	return docs, nil
}

// LoadFile reads a single markdown file. The second return value is false
// when the file has no front matter or is not marked ready.
func LoadFile(path string) (types.Document, bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return types.Document{}, false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	header, body, ok := splitFrontMatter(string(content))
	if !ok {
		return types.Document{}, false, nil
	}

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return types.Document{}, false, fmt.Errorf("invalid front matter in %s: %w", path, err)
	}
	if !fm.Ready {
		return types.Document{}, false, nil
	}

	title := strings.TrimSpace(fm.Title)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	id := fm.ID
	if id == "" {
		id = Slug(title)
	}

	return types.Document{
		ID:       id,
		Title:    title,
		Category: strings.TrimSpace(fm.Category),
		Tags:     NormalizeTags(fm.Tags),
		Body:     body,
		Summary:  strings.TrimSpace(fm.Summary),
		Date:     strings.TrimSpace(fm.Date),
	}, true, nil
}

// splitFrontMatter separates a leading YAML block delimited by "---" lines
// from the document body. Returns ok=false when the file has no front
// matter.
func splitFrontMatter(content string) (header, body string, ok bool) {
	if !strings.HasPrefix(content, "---\n") && content != "---" {
		return "", "", false
	}
	rest := strings.TrimPrefix(content, "---\n")
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return "", "", false
	}
	header = rest[:end]
	body = rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")
	return header, body, true
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives a stable document id from a title: lowercase, with every run
// of non-alphanumeric characters collapsed to a single hyphen.
func Slug(title string) string {
	s := nonSlug.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}

// NormalizeTags trims entries, drops blanks, and removes duplicates while
// preserving first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
