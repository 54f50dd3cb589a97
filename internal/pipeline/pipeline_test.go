// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/minutes-engine/internal/docx"
	"github.com/pdiddy/minutes-engine/internal/rules"
	"github.com/pdiddy/minutes-engine/pkg/types"
)

// writeMinutes assembles a DOCX file with the given document body and
// optional extra archive entries.
func writeMinutes(t *testing.T, body string, extra map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "minutes.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)

	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`,
		"word/document.xml": fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>%s</w:body>
</w:document>`, body),
	}
	for name, content := range extra {
		files[name] = content
	}
	for name, content := range files {
		fw, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}

	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func p(text string) string {
	return fmt.Sprintf("<w:p><w:r><w:t>%s</w:t></w:r></w:p>", text)
}

func TestConvertWithoutCredential(t *testing.T) {
	input := writeMinutes(t, strings.Join([]string{
		p("PV RC 3 - Anno 2 - 2024-05-10"),
		p("Présents : Alice Dupont, Benoît Martin"),
		p("1) Ouverture"),
		p("bonjour"),
	}, ""), nil)
	output := filepath.Join(t.TempDir(), "minutes.tex")
	var log bytes.Buffer

	cfg := types.ConvertConfig{InputPath: input, OutputPath: output}
	if err := Convert(context.Background(), cfg, rules.Default(), &log); err != nil {
		t.Fatalf("Convert: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	got := string(data)

	for _, frag := range []string{
		`\documentclass{article}`,
		`\fancyhead[R]{Réunion Comité n° 3 \hfill 10/05/2024}`,
		`Alice Dupont`,
		`\section{Ouverture}`,
		"bonjour",
		`\end{document}`,
	} {
		if !strings.Contains(got, frag) {
			t.Errorf("output missing %q", frag)
		}
	}

	if !strings.Contains(log.String(), "skipping correction") {
		t.Errorf("log missing correction skip notice: %s", log.String())
	}

	// No images directory for a document without images.
	if _, err := os.Stat(filepath.Join(filepath.Dir(output), imagesDir)); !os.IsNotExist(err) {
		t.Error("images directory created for imageless document")
	}
}

func TestConvertMalformedInput(t *testing.T) {
	input := filepath.Join(t.TempDir(), "broken.docx")
	if err := os.WriteFile(input, []byte("not a docx"), 0o644); err != nil {
		t.Fatal(err)
	}
	outDir := t.TempDir()
	output := filepath.Join(outDir, "minutes.tex")

	cfg := types.ConvertConfig{InputPath: input, OutputPath: output}
	err := Convert(context.Background(), cfg, rules.Default(), &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error for malformed input")
	}
	if !errors.Is(err, docx.ErrMalformed) {
		t.Errorf("err = %v, does not wrap ErrMalformed", err)
	}
	if !strings.Contains(err.Error(), "extraction") {
		t.Errorf("err = %v, missing failing stage", err)
	}

	// Nothing may be left behind, not even a partial file.
	entries, readErr := os.ReadDir(outDir)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Errorf("output directory not empty after failure: %v", entries)
	}
}

func TestConvertWritesImages(t *testing.T) {
	imageBody := p("PV RC 1 - Anno 2 - 2024-01-15") + `<w:p><w:r>
<w:drawing>
<wp:inline xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing">
<wp:extent cx="914400" cy="914400"/>
<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">
<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">
<pic:blipFill><a:blip r:embed="rId4" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"/></pic:blipFill>
</pic:pic>
</a:graphicData>
</a:graphic>
</wp:inline>
</w:drawing>
</w:r></w:p>`

	rels := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId4" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/plan.png"/>
</Relationships>`

	input := writeMinutes(t, imageBody, map[string]string{
		"word/_rels/document.xml.rels": rels,
		"word/media/plan.png":          "pngbytes",
	})
	outDir := t.TempDir()
	output := filepath.Join(outDir, "minutes.tex")

	cfg := types.ConvertConfig{InputPath: input, OutputPath: output}
	if err := Convert(context.Background(), cfg, rules.Default(), &bytes.Buffer{}); err != nil {
		t.Fatalf("Convert: %v", err)
	}

	imgData, err := os.ReadFile(filepath.Join(outDir, imagesDir, "plan.png"))
	if err != nil {
		t.Fatalf("reading extracted image: %v", err)
	}
	if string(imgData) != "pngbytes" {
		t.Errorf("image data = %q", imgData)
	}

	texData, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(texData), `{images/plan.png}`) {
		t.Error("generated LaTeX does not reference the extracted image")
	}
}

func TestConvertCreatesOutputDirectory(t *testing.T) {
	input := writeMinutes(t, p("PV RC 1 - Anno 2 - 2024-01-15"), nil)
	output := filepath.Join(t.TempDir(), "nested", "out", "minutes.tex")

	cfg := types.ConvertConfig{InputPath: input, OutputPath: output}
	if err := Convert(context.Background(), cfg, rules.Default(), &bytes.Buffer{}); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestConvertInvalidPromptTemplate(t *testing.T) {
	input := writeMinutes(t, p("PV RC 1 - Anno 2 - 2024-01-15"), nil)
	output := filepath.Join(t.TempDir(), "minutes.tex")

	r := rules.Default()
	r.PromptTemplate = "{{.Unclosed"

	cfg := types.ConvertConfig{
		InputPath:  input,
		OutputPath: output,
		Correction: types.CorrectionConfig{APIKey: "test-key"},
	}
	err := Convert(context.Background(), cfg, r, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "correction setup") {
		t.Errorf("err = %v, want correction setup failure", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Error("output written despite setup failure")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.tex")

	if err := writeFileAtomic(path, []byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := writeFileAtomic(path, []byte("second")); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the output: %v", len(entries), entries)
	}
}
