// Package model defines the shared data structures passed between the
// conversion pipeline stages: positioned fragments extracted from a page,
// ordered content blocks produced by layout analysis, typed Markdown nodes
// produced by semantic classification, and document metadata.
//
// Each stage of the pipeline owns its output exclusively until it hands it
// to the next stage; nothing in this package is mutated after construction
// by the producing stage
package model
