// Package semantic classifies reading-ordered content blocks into typed
// Markdown nodes: headings, list items, code blocks, quotes, paragraphs
// and inline images. Classification is an ordered chain of predicates with
// first match winning; it never fails, because an unrecognized block
// always falls back to paragraph
package semantic
