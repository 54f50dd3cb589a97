// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the minutes-engine
// pipeline: the structural document model produced by extraction, mutated
// (text only) by correction, and consumed read-only by LaTeX generation,
// plus the configuration values passed explicitly into each stage.
package types

// Run is a contiguous span of text sharing one formatting state within a
// paragraph or table cell. Correction replaces Text only; Bold and Italic
// are never touched after extraction.
type Run struct {
	Text   string
	Bold   bool
	Italic bool
}

// Paragraph is an ordered sequence of runs forming one body paragraph.
type Paragraph struct {
	Runs []Run
}

// Text returns the concatenated run text of the paragraph.
func (p Paragraph) Text() string {
	var s string
	for _, r := range p.Runs {
		s += r.Text
	}
	return s
}

// Cell holds the content of one table position, same shape as a paragraph.
type Cell struct {
	Runs []Run
}

// StructuralDocument is the ordered, format-independent representation of
// the source document between extraction and generation. When a TitleBlock
// is present it is the first block; the attendee block, if any, appears
// before the first section.
type StructuralDocument struct {
	Blocks []Block
}

// Block is a top-level structural unit of the document. The set of
// implementations is closed: the generator matches exhaustively over them,
// so adding a block type is a compile-time-checked change.
type Block interface {
	isBlock()
}

// TitleBlock carries the raw first-paragraph text of the document. Whether
// it matched the expected meeting-title pattern is decided again at
// generation time; an unrecognized title gets a simplified header, not an
// error.
type TitleBlock struct {
	RawTitle string
}

// AttendeeBlock lists the attendee names in source order.
type AttendeeBlock struct {
	Names []string
}

// SectionBlock is a numbered agenda section. Number is the ordinal parsed
// from the source header and is emitted as-is: gaps and repeats are
// preserved, not corrected.
type SectionBlock struct {
	Number  int
	Heading string
	Body    []Paragraph
}

// SubsectionBlock is a lettered sub-item under a section ("a) ...").
type SubsectionBlock struct {
	Letter  string
	Heading string
	Body    []Paragraph
}

// TableBlock is a row/column grid of cells. Rows may have uneven lengths
// after extraction; the generator pads every row to the widest.
type TableBlock struct {
	Rows [][]Cell
}

// ImageBlock references an image extracted from the source document.
// Dimensions are in centimeters; zero means unknown.
type ImageBlock struct {
	// Path is the image file name relative to the generated LaTeX file.
	Path     string
	WidthCM  float64
	HeightCM float64
}

func (TitleBlock) isBlock()      {}
func (AttendeeBlock) isBlock()   {}
func (SectionBlock) isBlock()    {}
func (SubsectionBlock) isBlock() {}
func (TableBlock) isBlock()      {}
func (ImageBlock) isBlock()      {}
