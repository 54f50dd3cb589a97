// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package correct applies batched spelling and grammar correction to the
// structural document model. Correction is best effort: a failed batch
// keeps its original text and the conversion always completes.
package correct

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/minutes-engine/internal/httputil"
	"github.com/pdiddy/minutes-engine/pkg/types"
)

// Client is the correction service contract: an ordered sequence of texts
// in, an ordered sequence of corrected texts of identical length out.
type Client interface {
	CorrectTexts(ctx context.Context, texts []string) ([]string, error)
}

// defaultBatchSize bounds one service request when the config does not.
const defaultBatchSize = 100

// defaultTimeout bounds one batch request when the config does not.
const defaultTimeout = 60 * time.Second

// Report summarizes a correction run for observability. Batch failures are
// recorded here and logged; they never abort the conversion.
type Report struct {
	Runs          int
	Batches       int
	CorrectedRuns int
	FailedBatches int
	Errors        []string
}

// HasFailures reports whether any batch failed.
func (r Report) HasFailures() bool {
	return r.FailedBatches > 0
}

// Correct replaces Run.Text across the document with corrected text where
// the service provides it. Runs are flattened in document order, grouped
// into batches of at most cfg.BatchSize, and each batch is sent in a
// single request with a single attempt under cfg.Timeout. A batch result
// is applied only after its full response arrives; on any batch failure
// every run of that batch keeps its original text. Formatting flags are
// never touched. Status lines go to w.
func Correct(ctx context.Context, doc *types.StructuralDocument, client Client, cfg types.CorrectionConfig, w io.Writer) Report {
	refs := flattenRuns(doc)

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	report := Report{Runs: len(refs)}
	if len(refs) == 0 {
		return report
	}
	report.Batches = (len(refs) + batchSize - 1) / batchSize

	for start, num := 0, 1; start < len(refs); start, num = start+batchSize, num+1 {
		end := start + batchSize
		if end > len(refs) {
			end = len(refs)
		}
		batch := refs[start:end]

		// Cancellation aborts after the batch in flight, never inside one.
		if err := ctx.Err(); err != nil {
			report.FailedBatches++
			report.Errors = append(report.Errors, fmt.Sprintf("batch %d/%d: %v", num, report.Batches, err))
			fmt.Fprintf(w, "batch %d/%d skipped: %v\n", num, report.Batches, err)
			continue
		}

		texts := make([]string, len(batch))
		for i, ref := range batch {
			texts[i] = ref.Text
		}

		corrected, err := requestBatch(ctx, client, texts, timeout)
		if err != nil {
			report.FailedBatches++
			report.Errors = append(report.Errors, fmt.Sprintf("batch %d/%d: %v", num, report.Batches, err))
			if httputil.IsTimeout(err) {
				fmt.Fprintf(w, "batch %d/%d timed out after %v, keeping original text\n", num, report.Batches, timeout)
			} else {
				fmt.Fprintf(w, "batch %d/%d failed, keeping original text: %v\n", num, report.Batches, err)
			}
			continue
		}

		for i, ref := range batch {
			text := strings.TrimSpace(corrected[i])
			if text == "" {
				continue
			}
			if text != ref.Text {
				report.CorrectedRuns++
			}
			ref.Text = text
		}
		fmt.Fprintf(w, "batch %d/%d: %d runs corrected\n", num, report.Batches, len(batch))
	}

	return report
}

// requestBatch issues one service request with a per-batch timeout and
// validates the same-length response contract. There is no retry: a timed
// out or mismatched batch is a failed batch.
func requestBatch(ctx context.Context, client Client, texts []string, timeout time.Duration) ([]string, error) {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	corrected, err := client.CorrectTexts(tctx, texts)
	if err != nil {
		return nil, err
	}
	if len(corrected) != len(texts) {
		return nil, fmt.Errorf("response length %d does not match request length %d", len(corrected), len(texts))
	}
	return corrected, nil
}

// flattenRuns collects pointers to every correctable run in document
// order: section and subsection body paragraphs, then table cells, as they
// appear. Headings and attendee names are emitted verbatim and are not
// sent for correction.
func flattenRuns(doc *types.StructuralDocument) []*types.Run {
	var refs []*types.Run

	paragraphs := func(body []types.Paragraph) {
		for i := range body {
			for j := range body[i].Runs {
				refs = append(refs, &body[i].Runs[j])
			}
		}
	}

	for _, block := range doc.Blocks {
		switch blk := block.(type) {
		case types.SectionBlock:
			paragraphs(blk.Body)
		case types.SubsectionBlock:
			paragraphs(blk.Body)
		case types.TableBlock:
			for _, row := range blk.Rows {
				for i := range row {
					for j := range row[i].Runs {
						refs = append(refs, &row[i].Runs[j])
					}
				}
			}
		}
	}
	return refs
}
