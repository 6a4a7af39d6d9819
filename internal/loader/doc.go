// Package loader reads a corpus directory of markdown documents with YAML
// front matter. Only documents marked ready: true are returned; document ids
// are slugs of the title unless the front matter supplies one explicitly.
package loader
