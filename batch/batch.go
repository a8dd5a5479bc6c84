// Package batch converts many documents with a bounded worker pool. Each
// document's pipeline is independent; a failed document never aborts its
// siblings, and cancellation is honored between documents
package batch

import (
	"context"
	"sync"

	"github.com/tsawler/pdf2md"
)

// ConvertFunc converts one document into outDir. The default implementation
// runs the full pipeline; tests inject fakes
type ConvertFunc func(ctx context.Context, inputPath, outDir string) (*pdf2md.Result, error)

// Config holds configuration for a batch run
type Config struct {
	// Concurrency bounds the number of documents converted at once.
	// Default: 4
	Concurrency int

	// Convert converts a single document. Defaults to the full pipeline
	// with the given per-document options
	Convert ConvertFunc

	// Options configures the default per-document conversion; ignored when
	// Convert is set
	Options func(*pdf2md.Converter) *pdf2md.Converter
}

// DefaultConfig returns sensible default batch configuration
func DefaultConfig() Config {
	return Config{Concurrency: 4}
}

// DocumentResult is the outcome of one document in a batch
type DocumentResult struct {
	// InputPath is the source document path
	InputPath string

	// Result is the conversion result; nil when the document failed outright
	Result *pdf2md.Result

	// Err is the document-level error, if any
	Err error

	// Status summarizes the outcome
	Status pdf2md.Status

	// Reason is a human-readable explanation for partial or failed status
	Reason string
}

// Runner converts batches of documents
type Runner struct {
	config Config
}

// New creates a batch runner with default configuration
func New() *Runner {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a batch runner with custom configuration
func NewWithConfig(config Config) *Runner {
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	if config.Convert == nil {
		opts := config.Options
		config.Convert = func(ctx context.Context, inputPath, outDir string) (*pdf2md.Result, error) {
			c := pdf2md.Open(inputPath)
			if opts != nil {
				c = opts(c)
			}
			return c.Convert(ctx, outDir)
		}
	}
	return &Runner{config: config}
}

// Run converts every input into outDir, at most Concurrency documents at a
// time. Results are returned in input order. Once ctx is canceled, no new
// document starts; already-running documents finish their page and stop
func (r *Runner) Run(ctx context.Context, inputs []string, outDir string) []DocumentResult {
	results := make([]DocumentResult, len(inputs))

	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := r.config.Concurrency
	if workers > len(inputs) {
		workers = len(inputs)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = r.convertOne(ctx, inputs[idx], outDir)
			}
		}()
	}

	for i := range inputs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// convertOne runs a single document, isolating its failure to its own
// result slot
func (r *Runner) convertOne(ctx context.Context, inputPath, outDir string) DocumentResult {
	out := DocumentResult{InputPath: inputPath}

	if err := ctx.Err(); err != nil {
		out.Err = err
		out.Status = pdf2md.StatusFailed
		out.Reason = "canceled before conversion started"
		return out
	}

	result, err := r.config.Convert(ctx, inputPath, outDir)
	out.Result = result
	out.Err = err

	switch {
	case err != nil:
		out.Status = pdf2md.StatusFailed
		out.Reason = err.Error()
	case result == nil:
		out.Status = pdf2md.StatusFailed
		out.Reason = "converter returned no result"
	default:
		out.Status = result.Status
		out.Reason = result.Reason
	}
	return out
}
