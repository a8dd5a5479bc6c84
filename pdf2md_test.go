package pdf2md

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/pdf2md/extract"
	"github.com/tsawler/pdf2md/model"
)

func TestFluentConfigurationIsImmutable(t *testing.T) {
	base := Open("document.pdf")
	withImages := base.ExtractImages().Overwrite()

	if base == withImages {
		t.Fatal("chain methods must return a new instance")
	}
	if base.options.extractImages || base.options.overwrite {
		t.Error("original converter was mutated by chain methods")
	}
	if !withImages.options.extractImages || !withImages.options.overwrite {
		t.Error("chained converter missing configuration")
	}
}

func TestConvertMissingFile(t *testing.T) {
	result, err := Open(filepath.Join(t.TempDir(), "missing.pdf")).
		Convert(context.Background(), t.TempDir())

	if !errors.Is(err, extract.ErrDocumentOpen) {
		t.Errorf("expected ErrDocumentOpen, got %v", err)
	}
	if result == nil || result.Status != StatusFailed {
		t.Errorf("expected failed result, got %+v", result)
	}
	if result != nil && result.Reason == "" {
		t.Error("expected a human-readable reason")
	}
}

func TestConvertRefusesExistingOutput(t *testing.T) {
	outDir := t.TempDir()
	existing := filepath.Join(outDir, "report.md")
	if err := os.WriteFile(existing, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Open("report.pdf").Convert(context.Background(), outDir)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("expected existing-output error, got %v", err)
	}
}

func TestConvertCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Cancellation must win over missing-file diagnostics only once pages
	// are read; an unreadable document still fails with open error
	_, err := Open(filepath.Join(t.TempDir(), "missing.pdf")).
		Convert(ctx, t.TempDir())
	if err == nil {
		t.Error("expected an error")
	}
}

func TestPlaceholderBlock(t *testing.T) {
	b := placeholderBlock(4)
	if b.PageIndex != 4 {
		t.Errorf("page index = %d, want 4", b.PageIndex)
	}
	if !strings.Contains(b.Text, "Page 5") {
		t.Errorf("placeholder should name the 1-based page: %q", b.Text)
	}
	if b.Kind != model.BlockParagraphLine {
		t.Errorf("placeholder must classify as paragraph, got %v", b.Kind)
	}
}

func TestEmptyPageBlock(t *testing.T) {
	b := emptyPageBlock(2)
	if b.PageIndex != 2 {
		t.Errorf("page index = %d, want 2", b.PageIndex)
	}
	if !strings.Contains(b.Text, "Page 3") {
		t.Errorf("placeholder should name the 1-based page: %q", b.Text)
	}
	if b.Kind != model.BlockParagraphLine {
		t.Errorf("placeholder must classify as paragraph, got %v", b.Kind)
	}
}

func TestImagePaths(t *testing.T) {
	nodes := []model.MarkdownNode{
		{Kind: model.NodeParagraph, Text: "text"},
		{Kind: model.NodeImage, ImagePath: "images/a_p1_img1.png"},
		{Kind: model.NodeImage, ImagePath: "images/a_p2_img1.png"},
	}

	paths := imagePaths(nodes)
	if len(paths) != 2 || paths[0] != "images/a_p1_img1.png" {
		t.Errorf("unexpected image paths: %v", paths)
	}
}

func TestStatusString(t *testing.T) {
	tests := map[Status]string{
		StatusSuccess: "success",
		StatusPartial: "partial",
		StatusFailed:  "failed",
	}
	for status, want := range tests {
		if status.String() != want {
			t.Errorf("Status(%d).String() = %q, want %q", status, status.String(), want)
		}
	}
}

func TestMustPanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic from Must")
		}
	}()
	Must[int](0, errors.New("boom"))
}
