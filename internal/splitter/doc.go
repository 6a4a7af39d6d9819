// Package splitter turns a document body into bounded-size chunks for
// indexing.
//
// Splitting happens in two phases. Heading segmentation cuts the body at
// level-1 and level-2 markdown headings, producing sections that keep their
// heading line. Size bounding then emits each section whole when it fits in
// MaxChunkSize, or accumulates its paragraphs into parts that respect both
// MaxChunkSize and, where possible, TargetChunkSize. A single paragraph
// larger than MaxChunkSize is cut at the best available boundary: the end of
// a sentence, then any whitespace, then a hard cut at the ceiling.
//
// Split is a pure function. Chunk identity is positional, so re-splitting an
// unchanged document always reproduces the same IDs:
//
//	chunks := splitter.Split(doc)
//	// doc "guide" with sections 0..n yields "guide#s0", "guide#s1",
//	// "guide#s1-1", ... in emission order.
package splitter
