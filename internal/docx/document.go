// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import "encoding/xml"

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    *bodyXML `xml:"body"`
}

// bodyXML holds the document body as an ordered element sequence.
// Paragraph/table interleaving matters to the extractor, so the body is
// decoded with a custom UnmarshalXML rather than per-tag slices.
type bodyXML struct {
	Elements []BodyElement
}

// BodyElement is one top-level body element: exactly one of Paragraph or
// Table is non-nil.
type BodyElement struct {
	Paragraph *ParagraphXML
	Table     *TableXML
}

// UnmarshalXML decodes <w:body>, preserving the source order of paragraphs
// and tables. Other body children (sectPr, bookmarks) are skipped.
func (b *bodyXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				var p ParagraphXML
				if err := d.DecodeElement(&p, &t); err != nil {
					return err
				}
				b.Elements = append(b.Elements, BodyElement{Paragraph: &p})
			case "tbl":
				var tbl TableXML
				if err := d.DecodeElement(&tbl, &t); err != nil {
					return err
				}
				b.Elements = append(b.Elements, BodyElement{Table: &tbl})
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

// ParagraphXML represents a paragraph element (<w:p>).
type ParagraphXML struct {
	XMLName xml.Name `xml:"p"`
	Runs    []RunXML `xml:"r"`
}

// RunXML represents a text run (<w:r>).
type RunXML struct {
	XMLName    xml.Name     `xml:"r"`
	Properties runPropsXML  `xml:"rPr"`
	Text       []textXML    `xml:"t"`
	Drawings   []drawingXML `xml:"drawing"`
}

// runPropsXML represents run properties (<w:rPr>).
type runPropsXML struct {
	Bold   boolXML `xml:"b"`
	Italic boolXML `xml:"i"`
}

// boolXML represents an OOXML toggle property. The element being present
// means true unless val is explicitly "false" or "0".
type boolXML struct {
	XMLName xml.Name
	Val     string `xml:"val,attr"`
}

// set reports whether the toggle is present and enabled.
func (b boolXML) set() bool {
	if b.XMLName.Local == "" {
		return false
	}
	return b.Val != "false" && b.Val != "0"
}

// textXML represents text content (<w:t>).
type textXML struct {
	XMLName xml.Name `xml:"t"`
	Space   string   `xml:"space,attr"`
	Value   string   `xml:",chardata"`
}

// TableXML represents a table (<w:tbl>).
type TableXML struct {
	XMLName xml.Name      `xml:"tbl"`
	Rows    []TableRowXML `xml:"tr"`
}

// TableRowXML represents a table row (<w:tr>).
type TableRowXML struct {
	XMLName xml.Name       `xml:"tr"`
	Cells   []TableCellXML `xml:"tc"`
}

// TableCellXML represents a table cell (<w:tc>).
type TableCellXML struct {
	XMLName    xml.Name       `xml:"tc"`
	Paragraphs []ParagraphXML `xml:"p"`
}

// drawingXML represents an embedded drawing/image.
type drawingXML struct {
	XMLName xml.Name   `xml:"drawing"`
	Inline  *inlineXML `xml:"inline"`
	Anchor  *inlineXML `xml:"anchor"`
}

// inlineXML represents an inline or anchored image container.
type inlineXML struct {
	Extent extentXML `xml:"extent"`
	Blip   *blipXML  `xml:"graphic>graphicData>pic>blipFill>blip"`
}

// extentXML represents image dimensions in EMUs.
type extentXML struct {
	CX string `xml:"cx,attr"`
	CY string `xml:"cy,attr"`
}

// blipXML references the image part through a relationship ID.
type blipXML struct {
	Embed string `xml:"embed,attr"`
}

// relationshipsXML represents word/_rels/document.xml.rels.
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

// relationshipXML is a single part relationship.
type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}
