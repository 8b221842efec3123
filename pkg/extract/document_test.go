package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func makeDocx(t *testing.T, paragraphs []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}

	var body strings.Builder
	body.WriteString(`<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	if _, err := w.Write([]byte(body.String())); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestReadDocumentTxt(t *testing.T) {
	doc, err := ReadDocument("notes.txt", []byte("line one\n\n\n\nline two\n"))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Name != "notes" || doc.Format != "txt" {
		t.Errorf("name = %q, format = %q", doc.Name, doc.Format)
	}
	if doc.Text != "line one\n\nline two" {
		t.Errorf("text = %q", doc.Text)
	}
}

func TestReadDocumentDocx(t *testing.T) {
	data := makeDocx(t, []string{"First paragraph.", "Second paragraph."})

	doc, err := ReadDocument("report.docx", data)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Format != "docx" {
		t.Errorf("format = %q", doc.Format)
	}
	want := "First paragraph.\nSecond paragraph."
	if doc.Text != want {
		t.Errorf("text = %q, want %q", doc.Text, want)
	}
	if !bytes.Equal(doc.Data, data) {
		t.Error("raw data must be preserved for the model request")
	}
}

func TestReadDocumentUppercaseExtension(t *testing.T) {
	doc, err := ReadDocument("NOTES.TXT", []byte("content here"))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Format != "txt" {
		t.Errorf("format = %q, want txt", doc.Format)
	}
}

func TestReadDocumentUnsupported(t *testing.T) {
	_, err := ReadDocument("slides.pptx", []byte("x"))
	var unsupported *ErrUnsupportedFormat
	if !errors.As(err, &unsupported) {
		t.Fatalf("got %v, want ErrUnsupportedFormat", err)
	}
	if unsupported.Ext != "pptx" {
		t.Errorf("ext = %q", unsupported.Ext)
	}
}

func TestReadDocumentCorruptPdf(t *testing.T) {
	if _, err := ReadDocument("broken.pdf", []byte("not a pdf")); err == nil {
		t.Fatal("expected error for corrupt pdf")
	}
}

func TestReadDocumentCorruptDocx(t *testing.T) {
	if _, err := ReadDocument("broken.docx", []byte("not a zip")); err == nil {
		t.Fatal("expected error for corrupt docx")
	}
}
