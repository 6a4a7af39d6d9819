package loader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/docsearch-mcp/internal/loader"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "turbo.md", `---
title: Turbo Drive
category: Turbo
tags:
  - rendering
  - events
ready: true
---
# Overview
Turbo Drive speeds up navigation.
`)
	writeFile(t, dir, "draft.md", `---
title: Unfinished
ready: false
---
Not done yet.
`)
	writeFile(t, dir, "plain.md", "No front matter at all.\n")
	writeFile(t, dir, "notes.txt", "not markdown")

	docs, err := loader.LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	d := docs[0]
	assert.Equal(t, "turbo-drive", d.ID)
	assert.Equal(t, "Turbo Drive", d.Title)
	assert.Equal(t, "Turbo", d.Category)
	assert.Equal(t, []string{"rendering", "events"}, d.Tags)
	assert.Contains(t, d.Body, "# Overview")
	assert.NotContains(t, d.Body, "ready:")
}

func TestLoadDir_MalformedFrontMatter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.md", "---\ntitle: [unclosed\nready: true\n---\nbody\n")

	_, err := loader.LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.md")
}

func TestLoadFile_ExplicitID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doc.md", `---
id: custom-id
title: Some Title
ready: true
---
body
`)

	doc, ok, err := loader.LoadFile(filepath.Join(dir, "doc.md"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "custom-id", doc.ID)
}

func TestLoadFile_TitleFallsBackToFilename(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "some-notes.md", "---\nready: true\n---\nbody\n")

	doc, ok, err := loader.LoadFile(filepath.Join(dir, "some-notes.md"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "some-notes", doc.Title)
	assert.Equal(t, "some-notes", doc.ID)
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Turbo Drive", "turbo-drive"},
		{"  Spaces  Everywhere  ", "spaces-everywhere"},
		{"C'est déjà l'été", "c-est-d-j-l-t"},
		{"Rails & Hotwire: A Guide!", "rails-hotwire-a-guide"},
		{"123 Numbers", "123-numbers"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, loader.Slug(tt.in), "Slug(%q)", tt.in)
	}
}

func TestNormalizeTags(t *testing.T) {
	in := []string{" ruby ", "", "backend", "ruby", "  ", "frontend"}
	assert.Equal(t, []string{"ruby", "backend", "frontend"}, loader.NormalizeTags(in))
	assert.Empty(t, loader.NormalizeTags(nil))
}
