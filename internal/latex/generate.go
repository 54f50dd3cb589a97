// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import (
	"fmt"
	"strings"

	"github.com/pdiddy/minutes-engine/internal/extract"
	"github.com/pdiddy/minutes-engine/internal/rules"
	"github.com/pdiddy/minutes-engine/pkg/types"
)

// Generate renders a structural document as LaTeX source. It is pure and
// deterministic: the same document and rules always produce the same
// output, and nothing is written anywhere.
func Generate(doc *types.StructuralDocument, r rules.Rules) (string, error) {
	n, err := NewNormalizer(r)
	if err != nil {
		return "", err
	}

	g := &generator{n: n, rules: r}
	return g.render(doc), nil
}

type generator struct {
	n     *Normalizer
	rules rules.Rules
}

func (g *generator) render(doc *types.StructuralDocument) string {
	var b strings.Builder

	g.writePreamble(&b)
	b.WriteString(g.pageHeader(doc))
	b.WriteString("\\begin{document}\n\n")

	agendaDone := false
	agenda := func() {
		if !agendaDone {
			g.writeAgenda(&b, doc)
			agendaDone = true
		}
	}

	for _, block := range doc.Blocks {
		switch blk := block.(type) {
		case types.TitleBlock:
			g.writeTitle(&b, blk)
		case types.AttendeeBlock:
			g.writeAttendees(&b, blk)
			agenda()
		case types.SectionBlock:
			agenda()
			g.writeSection(&b, blk)
		case types.SubsectionBlock:
			agenda()
			g.writeSubsection(&b, blk)
		case types.TableBlock:
			g.writeTable(&b, blk)
		case types.ImageBlock:
			g.writeImage(&b, blk)
		}
	}

	b.WriteString("\\end{document}\n")
	return b.String()
}

// writePreamble emits the document class and the configured packages and
// settings.
func (g *generator) writePreamble(b *strings.Builder) {
	b.WriteString("\\documentclass{article}\n")
	for _, pkg := range g.rules.Layout.Packages {
		b.WriteString(pkg)
		b.WriteString("\n")
	}
	for _, s := range g.rules.Layout.Settings {
		b.WriteString(s)
		b.WriteString("\n")
	}
}

// pageHeader emits the fancyhdr running header. A title matching the
// minutes pattern gets the structured header with meeting number, anno,
// academic year, and date; anything else gets a simple centered header
// with the raw title.
func (g *generator) pageHeader(doc *types.StructuralDocument) string {
	raw := ""
	if len(doc.Blocks) > 0 {
		if t, ok := doc.Blocks[0].(types.TitleBlock); ok {
			raw = t.RawTitle
		}
	}
	if raw == "" {
		return ""
	}

	parts, ok := extract.ParseTitle(raw)
	if !ok {
		return fmt.Sprintf("\\fancyhead[C]{%s}\n", g.n.Escape(raw))
	}

	academic := extract.AcademicYear(parts.Year, parts.Month)
	return fmt.Sprintf(
		"\\fancyhead[L]{CBB - Anno %s \\hfill %s}\n\\fancyhead[R]{Réunion Comité n° %d \\hfill %s}\n",
		parts.Anno, academic, parts.Meeting, parts.Date())
}

// writeTitle emits the centered document title.
func (g *generator) writeTitle(b *strings.Builder, blk types.TitleBlock) {
	fmt.Fprintf(b, "\\begin{center}\n\\LARGE \\textbf{%s}\\\\\n\\end{center}\n\n", g.n.Escape(blk.RawTitle))
}

// writeAttendees emits the attendee list as a two-column environment.
func (g *generator) writeAttendees(b *strings.Builder, blk types.AttendeeBlock) {
	if len(blk.Names) == 0 {
		return
	}
	b.WriteString("\\section*{Camarades présents :}\n\n\\begin{multicols}{2}\n")
	for i, name := range blk.Names {
		escaped := g.n.Escape(strings.TrimSpace(name))
		if escaped == "" {
			continue
		}
		if i < len(blk.Names)-1 {
			fmt.Fprintf(b, "%s\\\\\n", escaped)
		} else {
			fmt.Fprintf(b, "%s\n", escaped)
		}
	}
	b.WriteString("\\end{multicols}\n\n")
}

// writeAgenda emits the "Ordre du jour" listing of all section and
// subsection headings, once, ahead of the body.
func (g *generator) writeAgenda(b *strings.Builder, doc *types.StructuralDocument) {
	var lines []string
	for _, block := range doc.Blocks {
		switch blk := block.(type) {
		case types.SectionBlock:
			if blk.Heading == "" {
				continue
			}
			heading := capitalizeFirst(g.n.Escape(blk.Heading))
			lines = append(lines, fmt.Sprintf("\\textbf{- %s}\\\\", heading))
		case types.SubsectionBlock:
			heading := g.n.Escape(blk.Heading)
			lines = append(lines, fmt.Sprintf("\\hspace*{0.8cm} - \\textbf{%s}\\\\", heading))
		}
	}
	if len(lines) == 0 {
		return
	}

	b.WriteString("\\begin{center}\n\\section*{\\hspace{-1.5cm}Ordre du jour}\n\\hspace*{-0.5cm}\\begin{varwidth}{\\textwidth}\n")
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\\end{varwidth}\n\\end{center}\n\n")

	if g.rules.Layout.LogoPath != "" {
		fmt.Fprintf(b,
			"\\vspace{\\fill}\n\\begin{center}\n\\includegraphics[height=\\dimexpr\\textheight-\\pagetotal\\relax]{%s}\n\\end{center}\n\\newpage\n\n",
			g.rules.Layout.LogoPath)
	}
}

// writeSection emits a numbered section and its body. The source ordinal
// is pinned with \setcounter so gaps and repeats in the source numbering
// survive into the output. A section with no number and no heading is the
// degraded preamble: its body is emitted without a heading.
func (g *generator) writeSection(b *strings.Builder, blk types.SectionBlock) {
	if blk.Number > 0 || blk.Heading != "" {
		heading := capitalizeFirst(g.n.Escape(blk.Heading))
		if blk.Number > 0 {
			fmt.Fprintf(b, "\\setcounter{section}{%d}\n", blk.Number-1)
		}
		fmt.Fprintf(b, "\\section{%s}\n\n", heading)
	}
	for _, para := range blk.Body {
		b.WriteString(g.paragraph(para))
	}
}

// writeSubsection emits an unnumbered subsection and its body.
func (g *generator) writeSubsection(b *strings.Builder, blk types.SubsectionBlock) {
	fmt.Fprintf(b, "\\subsection*{%s}\n\n", capitalizeFirst(g.n.Escape(blk.Heading)))
	for _, para := range blk.Body {
		b.WriteString(g.paragraph(para))
	}
}

// paragraph renders the runs of one paragraph. Abbreviations are expanded
// on the raw text, the result is escaped, then the formatting commands are
// wrapped in a fixed order: bold outside italic.
func (g *generator) paragraph(para types.Paragraph) string {
	runs := para.Runs
	if g.rules.Polish && len(runs) > 0 {
		polished := make([]types.Run, len(runs))
		copy(polished, runs)
		polished[0].Text = capitalizeFirst(polished[0].Text)
		polished[len(polished)-1].Text = ensurePunctuation(polished[len(polished)-1].Text)
		runs = polished
	}

	var parts []string
	for _, run := range runs {
		text := g.n.Escape(g.n.Abbreviate(run.Text))
		if text == "" {
			continue
		}
		if run.Italic {
			text = fmt.Sprintf("\\textit{%s}", text)
		}
		if run.Bold {
			text = fmt.Sprintf("\\textbf{%s}", text)
		}
		parts = append(parts, text)
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " ") + "\n\n"
}

// writeTable emits a tabular environment sized to the widest row, with
// short rows padded by blank cells.
func (g *generator) writeTable(b *strings.Builder, blk types.TableBlock) {
	cols := 0
	for _, row := range blk.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return
	}

	colSpec := "|" + strings.Repeat(" c |", cols)
	fmt.Fprintf(b, "\\begin{table}[h]\n\\centering\n\\begin{tabular}{%s}\n\\hline\n", strings.TrimSpace(colSpec))
	for _, row := range blk.Rows {
		cells := make([]string, cols)
		for i := 0; i < cols; i++ {
			if i < len(row) {
				cells[i] = g.cell(row[i])
			}
		}
		fmt.Fprintf(b, "%s \\\\\n\\hline\n", strings.Join(cells, " & "))
	}
	b.WriteString("\\end{tabular}\n\\end{table}\n\n")
}

// cell renders one table cell with per-run formatting preserved.
func (g *generator) cell(c types.Cell) string {
	var parts []string
	for _, run := range c.Runs {
		text := g.n.Escape(run.Text)
		if text == "" {
			continue
		}
		if run.Italic {
			text = fmt.Sprintf("\\textit{%s}", text)
		}
		if run.Bold {
			text = fmt.Sprintf("\\textbf{%s}", text)
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}

// writeImage emits a centered figure for an extracted image.
func (g *generator) writeImage(b *strings.Builder, blk types.ImageBlock) {
	var opts []string
	if blk.WidthCM > 0 {
		opts = append(opts, fmt.Sprintf("width=%.2fcm", blk.WidthCM))
	}
	if blk.HeightCM > 0 {
		opts = append(opts, fmt.Sprintf("height=%.2fcm", blk.HeightCM))
	}
	optStr := ""
	if len(opts) > 0 {
		optStr = "[" + strings.Join(opts, ",") + "]"
	}
	fmt.Fprintf(b, "\\begin{figure}[h]\n\\centering\n\\includegraphics%s{%s}\n\\end{figure}\n\n", optStr, blk.Path)
}
