package splitter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dshills/docsearch-mcp/pkg/types"
)

const (
	// MaxChunkSize is the hard ceiling on chunk text length in bytes.
	// A section at or under this size is never split.
	MaxChunkSize = 3500

	// TargetChunkSize is the preferred chunk length. Once an accumulating
	// part reaches it, the splitter prefers an early cut over appending a
	// large paragraph that would leave the part badly unbalanced.
	TargetChunkSize = 2000
)

// headingPattern matches level-1 and level-2 markdown headings. Deeper
// headings stay inside their enclosing section.
var headingPattern = regexp.MustCompile(`^(#{1,2})\s+(.*)$`)

// section is a heading-delimited region of a document body, prior to
// size-based splitting. Its text includes the heading line itself.
type section struct {
	title string // heading text, marker stripped and trimmed; empty for the preamble
	text  string
}

// Split turns a document body into an ordered sequence of bounded chunks.
// It is deterministic and side-effect-free: the same document always yields
// the same chunks, in the same order. Positions are assigned as a single
// running counter across the whole document, starting at zero.
func Split(doc types.Document) []types.Chunk {
	sections := segment(doc.Body)

	chunks := make([]types.Chunk, 0, len(sections))
	position := 0
	for si, sec := range sections {
		for pi, part := range splitSection(sec.text) {
			id := fmt.Sprintf("%s#s%d", doc.ID, si)
			if pi > 0 {
				id = fmt.Sprintf("%s#s%d-%d", doc.ID, si, pi)
			}
			chunks = append(chunks, types.Chunk{
				ID:       id,
				DocID:    doc.ID,
				Title:    sec.title,
				Category: doc.Category,
				Tags:     doc.Tags,
				Position: position,
				Text:     part,
			})
			position++
		}
	}
	return chunks
}

// segment scans the body line by line and cuts a new section at every
// level-1 or level-2 heading. Text before the first heading forms an
// implicit preamble section with an empty title; a body with no headings is
// a single such section. Sections whose text is only whitespace are dropped.
func segment(body string) []section {
	lines := strings.Split(body, "\n")

	sections := make([]section, 0, 4)
	var buf []string
	title := ""
	flush := func() {
		text := strings.Join(buf, "\n")
		if strings.TrimSpace(text) != "" {
			sections = append(sections, section{title: title, text: text})
		}
		buf = buf[:0]
	}

	for _, line := range lines {
		if m := headingPattern.FindStringSubmatch(line); m != nil {
			flush()
			title = strings.TrimSpace(m[2])
		}
		buf = append(buf, line)
	}
	flush()

	return sections
}

// splitSection bounds a section's text at MaxChunkSize. Sections at or under
// the ceiling are emitted unchanged, heading line included. Larger sections
// are cut at paragraph boundaries where possible, and inside a paragraph
// only when that single paragraph alone exceeds the ceiling.
func splitSection(text string) []string {
	if len(text) <= MaxChunkSize {
		return []string{text}
	}

	parts := make([]string, 0, len(text)/TargetChunkSize+1)
	var cur strings.Builder
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			parts = append(parts, s)
		}
		cur.Reset()
	}

	for _, para := range splitParagraphs(text) {
		if len(para) > MaxChunkSize {
			// The paragraph cannot fit in any part. Flush what has
			// accumulated, emit bounded fragments, and let the final
			// fragment seed the next part.
			flush()
			frags := splitOversized(para)
			for _, frag := range frags[:len(frags)-1] {
				if s := strings.TrimSpace(frag); s != "" {
					parts = append(parts, s)
				}
			}
			cur.WriteString(frags[len(frags)-1])
			continue
		}

		if cur.Len() > 0 {
			overflow := cur.Len()+len(para) > MaxChunkSize
			unbalanced := cur.Len() >= TargetChunkSize && len(para) > MaxChunkSize-TargetChunkSize
			if overflow || unbalanced {
				flush()
			}
		}
		cur.WriteString(para)
	}
	flush()

	return parts
}

// paragraphBreak matches runs of two or more newlines. The separator stays
// with the preceding paragraph so parts concatenate back to the original
// text, modulo the final split points.
var paragraphBreak = regexp.MustCompile(`\n{2,}`)

// splitParagraphs splits text into paragraphs, each carrying its trailing
// blank-line separator.
func splitParagraphs(text string) []string {
	seps := paragraphBreak.FindAllStringIndex(text, -1)
	paras := make([]string, 0, len(seps)+1)
	start := 0
	for _, sep := range seps {
		paras = append(paras, text[start:sep[1]])
		start = sep[1]
	}
	if start < len(text) {
		paras = append(paras, text[start:])
	}
	return paras
}

// splitOversized cuts a single paragraph that exceeds MaxChunkSize into
// fragments, each at most MaxChunkSize long. Every fragment but the last is
// final; the last is the remainder and may be merged with following
// paragraphs by the caller.
func splitOversized(para string) []string {
	var frags []string
	rest := para
	for len(rest) > MaxChunkSize {
		cut := findCut(rest, MaxChunkSize)
		frags = append(frags, rest[:cut])
		rest = rest[cut:]
	}
	return append(frags, rest)
}
