// Package markdown serializes typed nodes to Markdown text. It prepends a
// metadata block-quote header, renders each node kind with conventional
// Markdown syntax, and percent-encodes image paths so filenames with
// spaces or non-ASCII text stay resolvable by renderers
package markdown
