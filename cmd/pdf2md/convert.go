package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tsawler/pdf2md"
	"github.com/tsawler/pdf2md/batch"
	"github.com/tsawler/pdf2md/layout"
	"github.com/tsawler/pdf2md/ocr"
	"github.com/tsawler/pdf2md/semantic"
)

var convertCmd = &cobra.Command{
	Use:   "convert [pdfs...]",
	Short: "Convert one or more PDF files to Markdown",
	Long: `Convert writes one Markdown file per source PDF (same base name) into
the output directory. With --images, embedded images land in an images/
subfolder and are referenced from the Markdown. With --ocr, pages that
yield no text are run through Tesseract; if OCR support is unavailable
the flag is ignored with a warning.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("output", "o", ".", "output directory")
	convertCmd.Flags().Bool("images", false, "extract embedded images")
	convertCmd.Flags().Bool("ocr", false, "run OCR on pages without extractable text")
	convertCmd.Flags().String("ocr-lang", "eng", "OCR language hint")
	convertCmd.Flags().Bool("overwrite", false, "overwrite existing output files")
	convertCmd.Flags().Int("concurrency", 4, "documents converted in parallel")

	// Layout and classification tunables; also settable via config file
	convertCmd.Flags().Float64("heading-ratio", 1.2, "font size ratio over body text for headings")
	convertCmd.Flags().Float64("noise-page-ratio", 0.6, "fraction of pages a header/footer must repeat on")
	convertCmd.Flags().Float64("column-gap", 18.0, "minimum gutter width in points for column detection")
	_ = viper.BindPFlag("heading-ratio", convertCmd.Flags().Lookup("heading-ratio"))
	_ = viper.BindPFlag("noise-page-ratio", convertCmd.Flags().Lookup("noise-page-ratio"))
	_ = viper.BindPFlag("column-gap", convertCmd.Flags().Lookup("column-gap"))

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("output")
	images, _ := cmd.Flags().GetBool("images")
	useOCR, _ := cmd.Flags().GetBool("ocr")
	ocrLang, _ := cmd.Flags().GetString("ocr-lang")
	overwrite, _ := cmd.Flags().GetBool("overwrite")
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	var recognizer ocr.Recognizer
	if useOCR {
		client, err := ocr.NewWithConfig(ocr.Config{Language: ocrLang})
		if err != nil {
			fmt.Fprintf(os.Stderr, "OCR disabled: %v\n", err)
		} else {
			defer client.Close()
			recognizer = client
		}
	}

	layoutConfig := layout.DefaultConfig()
	layoutConfig.Noise.MinPageRatio = viper.GetFloat64("noise-page-ratio")
	layoutConfig.Columns.MinGapWidth = viper.GetFloat64("column-gap")

	semanticConfig := semantic.DefaultConfig()
	semanticConfig.HeadingSizeRatio = viper.GetFloat64("heading-ratio")

	options := func(c *pdf2md.Converter) *pdf2md.Converter {
		c = c.WithLayoutConfig(layoutConfig).WithSemanticConfig(semanticConfig)
		if images {
			c = c.ExtractImages()
		}
		if overwrite {
			c = c.Overwrite()
		}
		if recognizer != nil {
			c = c.WithOCR(recognizer)
		}
		return c
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := batch.NewWithConfig(batch.Config{
		Concurrency: concurrency,
		Options:     options,
	})
	results := runner.Run(ctx, args, outDir)

	failed := 0
	for _, r := range results {
		switch r.Status {
		case pdf2md.StatusSuccess:
			fmt.Printf("ok      %s -> %s\n", r.InputPath, r.Result.OutputPath)
		case pdf2md.StatusPartial:
			fmt.Printf("partial %s -> %s (%s)\n", r.InputPath, r.Result.OutputPath, r.Reason)
		default:
			failed++
			fmt.Printf("failed  %s (%s)\n", r.InputPath, r.Reason)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}
