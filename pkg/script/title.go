package script

import (
	"regexp"
	"strings"
)

var titlePattern = regexp.MustCompile(`Title:\s*(.*)`)

// ExtractTitle finds the episode title in a generated script.
//
// The title line has the form "Title: <value>", possibly wrapped in
// markdown bold markers. Double quotes are removed from the value.
// Returns "" if the script contains no title line.
func ExtractTitle(text string) string {
	m := titlePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}

	title := strings.TrimSpace(m[1])
	title = strings.Trim(title, "*")
	title = strings.ReplaceAll(title, `"`, "")
	return strings.TrimSpace(title)
}
