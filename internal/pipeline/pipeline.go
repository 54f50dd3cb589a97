// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences one conversion: extraction, best-effort
// correction, LaTeX generation, and the output file write. It is the only
// package aware of filesystem paths and overall configuration.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/template"

	"github.com/pdiddy/minutes-engine/internal/correct"
	"github.com/pdiddy/minutes-engine/internal/docx"
	"github.com/pdiddy/minutes-engine/internal/extract"
	"github.com/pdiddy/minutes-engine/internal/latex"
	"github.com/pdiddy/minutes-engine/internal/rules"
	"github.com/pdiddy/minutes-engine/pkg/types"
)

// imagesDir is the directory beside the output file for extracted images.
const imagesDir = "images"

// Convert runs one conversion end to end. Extraction and output failures
// are fatal and wrapped with the failing stage; correction failures are
// logged to w and never fatal. On failure no partial output file is left
// in place. Correction is skipped entirely when no API key is configured.
func Convert(ctx context.Context, cfg types.ConvertConfig, r rules.Rules, w io.Writer) error {
	reader, err := docx.Open(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("extraction: %w", err)
	}
	defer reader.Close()

	doc, images := extract.Document(reader)
	fmt.Fprintf(w, "extracted %d blocks from %s\n", len(doc.Blocks), filepath.Base(cfg.InputPath))

	if cfg.Correction.APIKey == "" {
		fmt.Fprintln(w, "no correction credential configured, skipping correction")
	} else {
		client, closeClient, err := buildClient(cfg.Correction, r)
		if err != nil {
			return fmt.Errorf("correction setup: %w", err)
		}
		defer closeClient()

		report := correct.Correct(ctx, doc, client, cfg.Correction, w)
		fmt.Fprintf(w, "correction: %d runs in %d batches, %d corrected, %d batches failed\n",
			report.Runs, report.Batches, report.CorrectedRuns, report.FailedBatches)
	}

	source, err := latex.Generate(doc, r)
	if err != nil {
		return fmt.Errorf("generation: %w", err)
	}

	if err := writeImages(cfg.OutputPath, images); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if err := writeFileAtomic(cfg.OutputPath, []byte(source)); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	fmt.Fprintf(w, "wrote %s\n", cfg.OutputPath)
	return nil
}

// buildClient assembles the correction client from the configuration:
// the Cohere backend, optionally decorated with the on-disk cache.
func buildClient(cfg types.CorrectionConfig, r rules.Rules) (correct.Client, func(), error) {
	backend := &correct.CohereBackend{
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		Whitelist: cfg.Whitelist,
	}

	if r.PromptTemplate != "" {
		tmpl, err := template.New("correction").Parse(r.PromptTemplate)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing prompt template: %w", err)
		}
		backend.Prompt = tmpl
	}

	if cfg.CachePath == "" {
		return backend, func() {}, nil
	}

	cache, err := correct.OpenCache(cfg.CachePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening correction cache: %w", err)
	}
	return &correct.CachedClient{Inner: backend, Cache: cache}, func() { cache.Close() }, nil
}

// writeImages saves extracted images into an images/ directory beside the
// output file. No directory is created when the document has no images.
func writeImages(outputPath string, images []extract.ExtractedImage) error {
	if len(images) == 0 {
		return nil
	}

	dir := filepath.Join(filepath.Dir(outputPath), imagesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating images directory: %w", err)
	}

	for _, img := range images {
		if err := os.WriteFile(filepath.Join(dir, img.Name), img.Data, 0o644); err != nil {
			return fmt.Errorf("writing image %s: %w", img.Name, err)
		}
	}
	return nil
}

// writeFileAtomic writes data to path through a temp file in the same
// directory renamed into place, so a failed conversion never leaves a
// partial output file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".minutes-*.tex")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}
