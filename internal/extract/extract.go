// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract builds the structural document model from a DOCX source:
// title, attendee list, numbered sections, body paragraphs with run-level
// formatting, tables, and embedded images.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/minutes-engine/internal/docx"
	"github.com/pdiddy/minutes-engine/pkg/types"
)

// titlePattern matches the expected minutes title, e.g.
// "PV RC 7 - Anno LIX - 2025-01-27". The anno is arabic or roman.
var titlePattern = regexp.MustCompile(`^PV RC (\d+) - Anno (\d+|[IVXLCDM]+) - (\d{4})-(\d{2})-(\d{2})$`)

// sectionPattern matches numbered section headers: "3) Trésorerie".
var sectionPattern = regexp.MustCompile(`^(\d+)\)\s*(.*)$`)

// subsectionPattern matches lettered subsection headers: "a) Bilan".
var subsectionPattern = regexp.MustCompile(`^([a-zA-Z])\)\s*(.*)$`)

// attendeePrefix starts the attendee block, case-insensitively.
const attendeePrefix = "présents"

// TitleParts holds the components of a recognized minutes title.
type TitleParts struct {
	Meeting int
	Anno    string
	Year    string
	Month   string
	Day     string
}

// Date returns the title date formatted as dd/mm/yyyy.
func (t TitleParts) Date() string {
	return fmt.Sprintf("%s/%s/%s", t.Day, t.Month, t.Year)
}

// ParseTitle matches a raw title against the expected pattern. ok is false
// on mismatch; the caller falls back to a simplified header, it is not an
// error.
func ParseTitle(raw string) (TitleParts, bool) {
	m := titlePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return TitleParts{}, false
	}
	meeting, err := strconv.Atoi(m[1])
	if err != nil {
		return TitleParts{}, false
	}
	return TitleParts{
		Meeting: meeting,
		Anno:    m[2],
		Year:    m[3],
		Month:   m[4],
		Day:     m[5],
	}, true
}

// AcademicYear computes the academic year spanning the title date: dates
// after June belong to the year that starts then.
func AcademicYear(year, month string) string {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	if m > 6 {
		return fmt.Sprintf("%d - %d", y, y+1)
	}
	return fmt.Sprintf("%d - %d", y-1, y)
}

// ExtractedImage is an image pulled out of the source document, to be
// written beside the generated LaTeX file.
type ExtractedImage struct {
	Name string
	Data []byte
}

// Document walks the ordered document body and produces the structural
// model. Unexpected structure degrades (fallback title, preamble section)
// rather than failing; only an unreadable source is fatal, and that is
// reported by docx.Open.
func Document(r *docx.Reader) (*types.StructuralDocument, []ExtractedImage) {
	doc := &types.StructuralDocument{}

	var (
		images     []ExtractedImage
		seenImages = make(map[string]bool)
		titleSeen  bool
		inAttendee bool
		attendees  []string
		current    *types.SectionBlock
		currentSub *types.SubsectionBlock
	)

	flushAttendees := func() {
		if !inAttendee {
			return
		}
		doc.Blocks = append(doc.Blocks, types.AttendeeBlock{Names: attendees})
		attendees = nil
		inAttendee = false
	}

	// flushSub closes the open subsection, if any.
	flushSub := func() {
		if currentSub != nil {
			doc.Blocks = append(doc.Blocks, *currentSub)
			currentSub = nil
		}
	}

	// flushSection closes the open subsection and section, if any.
	flushSection := func() {
		flushSub()
		if current != nil {
			doc.Blocks = append(doc.Blocks, *current)
			current = nil
		}
	}

	// appendParagraph attaches a body paragraph to the innermost open
	// block, opening an unnumbered preamble section when none is open.
	appendParagraph := func(p types.Paragraph) {
		if currentSub != nil {
			currentSub.Body = append(currentSub.Body, p)
			return
		}
		if current == nil {
			current = &types.SectionBlock{}
		}
		current.Body = append(current.Body, p)
	}

	for _, el := range r.Body() {
		if el.Table != nil {
			flushAttendees()
			flushSection()
			doc.Blocks = append(doc.Blocks, Table(el.Table))
			continue
		}
		if el.Paragraph == nil {
			continue
		}

		para, embedded := paragraphContent(*el.Paragraph)
		for _, em := range embedded {
			img, ok := r.ImageData(em.RelID)
			if !ok {
				continue
			}
			if !seenImages[img.Name] {
				seenImages[img.Name] = true
				images = append(images, ExtractedImage{Name: img.Name, Data: img.Data})
			}
			flushAttendees()
			flushSection()
			doc.Blocks = append(doc.Blocks, types.ImageBlock{
				Path:     "images/" + img.Name,
				WidthCM:  em.WidthCM,
				HeightCM: em.HeightCM,
			})
		}

		text := strings.TrimSpace(para.Text())
		if text == "" {
			flushAttendees()
			continue
		}

		if !titleSeen {
			titleSeen = true
			doc.Blocks = append(doc.Blocks, types.TitleBlock{RawTitle: text})
			continue
		}

		if m := sectionPattern.FindStringSubmatch(text); m != nil {
			flushAttendees()
			flushSection()
			number, _ := strconv.Atoi(m[1])
			current = &types.SectionBlock{Number: number, Heading: strings.TrimSpace(m[2])}
			continue
		}

		if inAttendee {
			if strings.HasPrefix(text, "__") {
				flushAttendees()
				continue
			}
			attendees = append(attendees, splitNames(text)...)
			continue
		}

		if strings.HasPrefix(strings.ToLower(text), attendeePrefix) {
			inAttendee = true
			rest := text[len(attendeePrefix):]
			rest = strings.TrimLeft(rest, " \t:")
			if rest != "" {
				attendees = append(attendees, splitNames(rest)...)
			}
			continue
		}

		if m := subsectionPattern.FindStringSubmatch(text); m != nil {
			flushSub()
			// The enclosing section is emitted before its first
			// subsection; later paragraphs belong to the subsection.
			if current != nil {
				doc.Blocks = append(doc.Blocks, *current)
				current = nil
			}
			currentSub = &types.SubsectionBlock{Letter: m[1], Heading: strings.TrimSpace(m[2])}
			continue
		}

		if strings.HasPrefix(text, "__") {
			// Horizontal-rule marker between the header area and the body.
			continue
		}

		appendParagraph(para)
	}

	flushAttendees()
	flushSection()

	return doc, images
}

// paragraphContent converts a source paragraph into the model paragraph,
// keeping only non-empty runs with their formatting flags exactly as
// declared, and collecting any embedded images.
func paragraphContent(p docx.ParagraphXML) (types.Paragraph, []docx.EmbeddedImage) {
	var para types.Paragraph
	var images []docx.EmbeddedImage
	for _, run := range p.Runs {
		images = append(images, docx.RunImages(run)...)
		text := strings.TrimSpace(docx.RunText(run))
		if text == "" {
			continue
		}
		para.Runs = append(para.Runs, types.Run{
			Text:   text,
			Bold:   docx.RunBold(run),
			Italic: docx.RunItalic(run),
		})
	}
	return para, images
}

// splitNames splits an attendee line into names: comma-separated, with the
// leading "#" marker some minute takers use stripped.
func splitNames(line string) []string {
	var names []string
	for _, part := range strings.Split(line, ",") {
		name := strings.TrimSpace(part)
		name = strings.TrimSpace(strings.TrimPrefix(name, "#"))
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}
