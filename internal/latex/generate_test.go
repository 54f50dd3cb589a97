// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import (
	"strings"
	"testing"

	"github.com/pdiddy/minutes-engine/internal/rules"
	"github.com/pdiddy/minutes-engine/pkg/types"
)

// para builds a single-run body paragraph.
func para(text string) types.Paragraph {
	return types.Paragraph{Runs: []types.Run{{Text: text}}}
}

func generate(t *testing.T, doc *types.StructuralDocument, r rules.Rules) string {
	t.Helper()
	out, err := Generate(doc, r)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return out
}

func TestGenerateStructuredMinutes(t *testing.T) {
	doc := &types.StructuralDocument{Blocks: []types.Block{
		types.TitleBlock{RawTitle: "PV RC 3 - Anno 2 - 2024-05-10"},
		types.AttendeeBlock{Names: []string{"Alice Dupont", "Benoît Martin"}},
		types.SectionBlock{Number: 1, Heading: "Ouverture", Body: []types.Paragraph{para("bonjour")}},
	}}

	out := generate(t, doc, rules.Default())

	wantFragments := []string{
		`\documentclass{article}`,
		`\fancyhead[L]{CBB - Anno 2 \hfill 2023 - 2024}`,
		`\fancyhead[R]{Réunion Comité n° 3 \hfill 10/05/2024}`,
		`\LARGE \textbf{PV RC 3 - Anno 2 - 2024-05-10}`,
		`\section*{Camarades présents :}`,
		`Alice Dupont\\`,
		"Benoît Martin\n",
		`\section*{\hspace{-1.5cm}Ordre du jour}`,
		`\textbf{- Ouverture}\\`,
		`\setcounter{section}{0}`,
		`\section{Ouverture}`,
		"bonjour\n\n",
		`\end{document}`,
	}
	for _, frag := range wantFragments {
		if !strings.Contains(out, frag) {
			t.Errorf("output missing %q", frag)
		}
	}

	// Correction is not generation's business: body text passes through
	// verbatim apart from escaping and abbreviations.
	if strings.Contains(out, "Bonjour") {
		t.Error("paragraph text was capitalized without polish enabled")
	}
}

func TestGenerateEscapesBodyText(t *testing.T) {
	doc := &types.StructuralDocument{Blocks: []types.Block{
		types.SectionBlock{Number: 1, Heading: "Budget", Body: []types.Paragraph{
			para("50% du budget & 20€"),
		}},
	}}

	out := generate(t, doc, rules.Default())

	if !strings.Contains(out, `50\% du budget \& 20\euro{}`) {
		t.Errorf("reserved characters not escaped:\n%s", out)
	}
}

func TestGenerateFallbackHeader(t *testing.T) {
	doc := &types.StructuralDocument{Blocks: []types.Block{
		types.TitleBlock{RawTitle: "Réunion extraordinaire 2024"},
	}}

	out := generate(t, doc, rules.Default())

	if !strings.Contains(out, `\fancyhead[C]{Réunion extraordinaire 2024}`) {
		t.Errorf("want centered fallback header, got:\n%s", out)
	}
	if strings.Contains(out, `\fancyhead[L]`) {
		t.Error("structured header emitted for unrecognized title")
	}
}

func TestGenerateBoldOutsideItalic(t *testing.T) {
	doc := &types.StructuralDocument{Blocks: []types.Block{
		types.SectionBlock{Number: 1, Heading: "Votes", Body: []types.Paragraph{
			{Runs: []types.Run{{Text: "adopté", Bold: true, Italic: true}}},
		}},
	}}

	out := generate(t, doc, rules.Default())

	if !strings.Contains(out, `\textbf{\textit{adopté}}`) {
		t.Errorf("want bold wrapping italic, got:\n%s", out)
	}
}

func TestGenerateSectionNumberGaps(t *testing.T) {
	doc := &types.StructuralDocument{Blocks: []types.Block{
		types.SectionBlock{Number: 2, Heading: "Trésorerie"},
		types.SectionBlock{Number: 5, Heading: "Divers"},
	}}

	out := generate(t, doc, rules.Default())

	if !strings.Contains(out, "\\setcounter{section}{1}\n\\section{Trésorerie}") {
		t.Error("section 2 not pinned to source ordinal")
	}
	if !strings.Contains(out, "\\setcounter{section}{4}\n\\section{Divers}") {
		t.Error("section 5 not pinned to source ordinal")
	}
}

func TestGenerateAgendaOnce(t *testing.T) {
	doc := &types.StructuralDocument{Blocks: []types.Block{
		types.TitleBlock{RawTitle: "PV RC 1 - Anno 2 - 2024-01-15"},
		types.SectionBlock{Number: 1, Heading: "Ouverture"},
		types.SubsectionBlock{Letter: "a", Heading: "Bilan"},
		types.SectionBlock{Number: 2, Heading: "Divers"},
	}}

	out := generate(t, doc, rules.Default())

	if got := strings.Count(out, "Ordre du jour"); got != 1 {
		t.Errorf("agenda emitted %d times, want 1", got)
	}
	if !strings.Contains(out, `\hspace*{0.8cm} - \textbf{Bilan}\\`) {
		t.Error("subsection missing from agenda")
	}

	agendaAt := strings.Index(out, "Ordre du jour")
	sectionAt := strings.Index(out, `\section{Ouverture}`)
	if sectionAt < agendaAt {
		t.Error("agenda must precede the first section")
	}
}

func TestGeneratePreambleSection(t *testing.T) {
	doc := &types.StructuralDocument{Blocks: []types.Block{
		types.TitleBlock{RawTitle: "PV RC 1 - Anno 2 - 2024-01-15"},
		types.SectionBlock{Body: []types.Paragraph{para("remarques liminaires")}},
	}}

	out := generate(t, doc, rules.Default())

	if !strings.Contains(out, "remarques liminaires") {
		t.Error("preamble body dropped")
	}
	if strings.Contains(out, `\section{}`) {
		t.Error("empty section heading emitted for preamble")
	}
}

func TestGenerateTablePadding(t *testing.T) {
	cell := func(text string) types.Cell {
		return types.Cell{Runs: []types.Run{{Text: text}}}
	}
	doc := &types.StructuralDocument{Blocks: []types.Block{
		types.TableBlock{Rows: [][]types.Cell{
			{cell("Poste"), cell("Montant"), cell("Note")},
			{cell("Fût"), cell("120")},
		}},
	}}

	out := generate(t, doc, rules.Default())

	if !strings.Contains(out, `\begin{tabular}{| c | c | c |}`) {
		t.Errorf("column spec not sized to widest row:\n%s", out)
	}
	if !strings.Contains(out, `Fût & 120 &  \\`) {
		t.Errorf("short row not padded with a blank cell:\n%s", out)
	}
}

func TestGenerateImageBlock(t *testing.T) {
	doc := &types.StructuralDocument{Blocks: []types.Block{
		types.ImageBlock{Path: "images/plan.png", WidthCM: 10.5, HeightCM: 7},
	}}

	out := generate(t, doc, rules.Default())

	if !strings.Contains(out, `\includegraphics[width=10.50cm,height=7.00cm]{images/plan.png}`) {
		t.Errorf("image figure missing or mis-sized:\n%s", out)
	}
}

func TestGeneratePolish(t *testing.T) {
	r := rules.Default()
	r.Polish = true

	doc := &types.StructuralDocument{Blocks: []types.Block{
		types.SectionBlock{Number: 1, Heading: "Ouverture", Body: []types.Paragraph{
			para("la séance commence à 19h"),
		}},
	}}

	out := generate(t, doc, r)

	if !strings.Contains(out, "La séance commence à 19h.") {
		t.Errorf("polish did not capitalize and punctuate:\n%s", out)
	}
}

func TestGenerateAbbreviationsBeforeEscaping(t *testing.T) {
	r := rules.Default()
	r.Abbreviations = append(r.Abbreviations, rules.Abbreviation{Pattern: "cotis", Replacement: "cotisation à 100%"})

	doc := &types.StructuralDocument{Blocks: []types.Block{
		types.SectionBlock{Number: 1, Heading: "Budget", Body: []types.Paragraph{
			para("rappel cotis"),
		}},
	}}

	out := generate(t, doc, r)

	if !strings.Contains(out, `rappel cotisation à 100\%`) {
		t.Errorf("replacement text not escaped:\n%s", out)
	}
}
