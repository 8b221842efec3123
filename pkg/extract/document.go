package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedFormat reports a document extension with no extractor.
type ErrUnsupportedFormat struct {
	Ext string
}

func (e *ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("extract: unsupported document format %q", e.Ext)
}

// ReadDocument extracts plain text from an uploaded document. The
// format is chosen by the filename extension; pdf, docx, and txt are
// supported.
func ReadDocument(filename string, data []byte) (*Document, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	var (
		text string
		err  error
	)
	switch ext {
	case "pdf":
		text, err = pdfText(data)
	case "docx":
		text, err = docxText(data)
	case "txt":
		text = string(data)
	default:
		return nil, &ErrUnsupportedFormat{Ext: ext}
	}
	if err != nil {
		return nil, fmt.Errorf("extract: %s: %w", filename, err)
	}

	return &Document{
		Name:   name,
		Format: ext,
		Text:   tidy(text),
		Data:   data,
	}, nil
}

// pdfText concatenates the plain text of every page.
func pdfText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

// docxText joins the text of every paragraph in word/document.xml.
//
// A docx file is a zip archive; the body XML nests runs of text (w:t)
// inside paragraphs (w:p), so a token walk that breaks lines on
// paragraph ends is enough for prompt input.
func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	var doc io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc, err = f.Open()
			if err != nil {
				return "", fmt.Errorf("open docx body: %w", err)
			}
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("docx has no word/document.xml")
	}
	defer doc.Close()

	var (
		b      strings.Builder
		dec    = xml.NewDecoder(doc)
		inText bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse docx body: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			inText = t.Name.Local == "t"
		case xml.EndElement:
			inText = false
			if t.Name.Local == "p" {
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
