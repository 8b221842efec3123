// Package extract pulls plain text out of podcast source material:
// uploaded documents (pdf, docx, txt) and web articles.
//
// The output feeds the script generation prompt, so formatting aims
// for readable prose with section headings rather than faithful
// markup.
package extract

import (
	"regexp"
	"strings"
)

// Document is extracted source material from an uploaded file.
type Document struct {
	// Name is the file's base name without extension.
	Name string

	// Format is the lowercase format: "pdf", "docx", or "txt".
	Format string

	// Text is the extracted plain text.
	Text string

	// Data is the raw file content.
	Data []byte
}

// Article is extracted source material from a web page.
type Article struct {
	// Title is the page title, empty when none was found.
	Title string

	// Text is the formatted article text, headings included.
	Text string
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// tidy trims each line and collapses runs of blank lines.
func tidy(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}

// heading renders a section heading in the prompt text.
func heading(text string) string {
	return "\n" + strings.ToUpper(text) + "\n" + strings.Repeat("=", len(text)) + "\n\n"
}
