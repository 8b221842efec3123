// Package script parses model-generated podcast scripts into ordered,
// speaker-attributed utterances.
//
// A script is a block of text where each dialogue line has the form
//
//	<Speaker Label>: <utterance text>
//
// possibly wrapped in markdown bold markers and stray whitespace. Lines
// that do not match are skipped with a warning; parsing never fails on
// malformed lines, only on scripts that yield no utterances at all.
package script

import (
	"errors"
	"log/slog"
	"strings"
)

// ErrNoUtterances is returned when a script contains no parseable
// dialogue lines.
var ErrNoUtterances = errors.New("script: no utterances parsed")

// Utterance is one speaker-attributed line of dialogue.
type Utterance struct {
	// Speaker is the trimmed speaker label, e.g. "Speaker 1".
	Speaker string

	// Text is the trimmed dialogue text. Never empty.
	Text string

	// Index is the 0-based position among retained utterances.
	// Skipped lines do not consume indices.
	Index int
}

// Parse splits a script into its ordered utterances.
//
// Each line is trimmed and stripped of "**" bold markers. Empty lines
// and lines without a ":" separator are skipped (logged, not fatal).
// A "Title: ..." line belongs to [ExtractTitle] and is excluded here
// so it never becomes speech.
//
// Returns ErrNoUtterances if no dialogue lines survive.
func Parse(text string) ([]Utterance, error) {
	var utterances []Utterance

	for _, raw := range strings.Split(text, "\n") {
		line := cleanLine(raw)
		if line == "" {
			continue
		}

		label, content, ok := strings.Cut(line, ":")
		if !ok {
			slog.Warn("script: skipping line without speaker separator", "line", line)
			continue
		}

		label = strings.TrimSpace(label)
		content = strings.TrimSpace(content)

		if strings.EqualFold(label, "Title") {
			continue
		}
		if content == "" {
			slog.Warn("script: skipping line with empty utterance text", "speaker", label)
			continue
		}

		utterances = append(utterances, Utterance{
			Speaker: label,
			Text:    content,
			Index:   len(utterances),
		})
	}

	if len(utterances) == 0 {
		return nil, ErrNoUtterances
	}
	return utterances, nil
}

// cleanLine trims whitespace and removes markdown bold markers.
func cleanLine(line string) string {
	line = strings.TrimSpace(line)
	line = strings.ReplaceAll(line, "**", "")
	return strings.TrimSpace(line)
}
