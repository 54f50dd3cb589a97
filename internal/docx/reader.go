// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docx reads the subset of the Office Open XML wordprocessing
// format the minutes pipeline needs: the ordered document body with
// per-run formatting, table grids, and embedded image parts.
package docx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

// ErrMalformed reports a source file that cannot be opened or has no
// readable document structure at all. Unexpected but readable structure is
// not malformed; it degrades downstream instead.
var ErrMalformed = errors.New("malformed document")

// Reader provides access to the content of one DOCX file.
type Reader struct {
	zipReader *zip.ReadCloser
	document  *documentXML
	relTarget map[string]string
}

// Open opens a DOCX file for reading. It fails with an error wrapping
// ErrMalformed when the file is not a readable OOXML package.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrMalformed, filename, err)
	}

	r := &Reader{
		zipReader: zr,
		relTarget: make(map[string]string),
	}

	if err := r.validate(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if err := r.parseDocument(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("%w: parsing document: %v", ErrMalformed, err)
	}

	// Relationships are only needed for images and are optional.
	r.parseRelationships()

	return r, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.zipReader != nil {
		err := r.zipReader.Close()
		r.zipReader = nil
		return err
	}
	return nil
}

// Body returns the ordered body elements of the document.
func (r *Reader) Body() []BodyElement {
	if r.document == nil || r.document.Body == nil {
		return nil
	}
	return r.document.Body.Elements
}

// validate checks that required package parts exist.
func (r *Reader) validate() error {
	required := []string{
		"[Content_Types].xml",
		"word/document.xml",
	}

	fileMap := make(map[string]bool)
	for _, f := range r.zipReader.File {
		fileMap[f.Name] = true
	}

	for _, name := range required {
		if !fileMap[name] {
			return fmt.Errorf("missing required file: %s", name)
		}
	}
	return nil
}

// getFileContent reads one file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	for _, f := range r.zipReader.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("file not found: %s", name)
}

// parseDocument parses word/document.xml.
func (r *Reader) parseDocument() error {
	data, err := r.getFileContent("word/document.xml")
	if err != nil {
		return err
	}

	r.document = &documentXML{}
	if err := xml.Unmarshal(data, r.document); err != nil {
		return fmt.Errorf("unmarshaling document.xml: %w", err)
	}
	return nil
}

// parseRelationships parses word/_rels/document.xml.rels into a map from
// relationship ID to part path within the archive.
func (r *Reader) parseRelationships() {
	data, err := r.getFileContent("word/_rels/document.xml.rels")
	if err != nil {
		return
	}

	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		return
	}

	for _, rel := range rels.Relationships {
		if !strings.Contains(strings.ToLower(rel.Type), "image") {
			continue
		}
		target := rel.Target
		if !strings.HasPrefix(target, "word/") {
			target = path.Join("word", target)
		}
		r.relTarget[rel.ID] = target
	}
}

// Image holds one embedded image resolved through a relationship ID.
type Image struct {
	// Name is the base file name of the image part.
	Name string
	// Data is the raw image bytes.
	Data []byte
}

// ImageData returns the image referenced by relID, or ok=false when the
// relationship is unknown or the part is unreadable.
func (r *Reader) ImageData(relID string) (Image, bool) {
	target, found := r.relTarget[relID]
	if !found {
		return Image{}, false
	}
	data, err := r.getFileContent(target)
	if err != nil {
		return Image{}, false
	}
	return Image{Name: path.Base(target), Data: data}, true
}

// RunText returns the concatenated text content of a run.
func RunText(run RunXML) string {
	var parts []string
	for _, t := range run.Text {
		parts = append(parts, t.Value)
	}
	return strings.Join(parts, "")
}

// RunBold reports whether the run's bold toggle is enabled.
func RunBold(run RunXML) bool { return run.Properties.Bold.set() }

// RunItalic reports whether the run's italic toggle is enabled.
func RunItalic(run RunXML) bool { return run.Properties.Italic.set() }

// RunImages returns the images embedded in a run together with their
// extents converted from EMUs to centimeters (zero when absent).
func RunImages(run RunXML) []EmbeddedImage {
	var images []EmbeddedImage
	for _, d := range run.Drawings {
		container := d.Inline
		if container == nil {
			container = d.Anchor
		}
		if container == nil || container.Blip == nil || container.Blip.Embed == "" {
			continue
		}
		images = append(images, EmbeddedImage{
			RelID:    container.Blip.Embed,
			WidthCM:  emuToCM(container.Extent.CX),
			HeightCM: emuToCM(container.Extent.CY),
		})
	}
	return images
}

// EmbeddedImage is an image reference found inside a run.
type EmbeddedImage struct {
	RelID    string
	WidthCM  float64
	HeightCM float64
}

// emuToCM converts an EMU attribute value to centimeters. 914400 EMUs per
// inch, 2.54 cm per inch.
func emuToCM(s string) float64 {
	emu, err := strconv.ParseInt(s, 10, 64)
	if err != nil || emu <= 0 {
		return 0
	}
	return float64(emu) / 914400.0 * 2.54
}
