// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/pdiddy/minutes-engine/internal/docx"
	"github.com/pdiddy/minutes-engine/pkg/types"
)

// Table converts a source table into a uniform row/column grid. Rows with
// fewer cells than the widest row are padded with empty cells; formatting
// flags are read per run exactly as in paragraph extraction.
func Table(tbl *docx.TableXML) types.TableBlock {
	var block types.TableBlock

	maxCols := 0
	for _, row := range tbl.Rows {
		if len(row.Cells) > maxCols {
			maxCols = len(row.Cells)
		}
	}

	for _, row := range tbl.Rows {
		cells := make([]types.Cell, 0, maxCols)
		for _, cell := range row.Cells {
			cells = append(cells, cellContent(cell))
		}
		for len(cells) < maxCols {
			cells = append(cells, types.Cell{})
		}
		block.Rows = append(block.Rows, cells)
	}

	return block
}

// cellContent flattens the paragraphs of one cell into a single run
// sequence, dropping empty runs.
func cellContent(cell docx.TableCellXML) types.Cell {
	var out types.Cell
	for _, para := range cell.Paragraphs {
		for _, run := range para.Runs {
			text := strings.TrimSpace(docx.RunText(run))
			if text == "" {
				continue
			}
			out.Runs = append(out.Runs, types.Run{
				Text:   text,
				Bold:   docx.RunBold(run),
				Italic: docx.RunItalic(run),
			})
		}
	}
	return out
}
