package cite

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"citer/internal/model"
)

// FormatReference renders one numbered reference line
func FormatReference(number int, title, url string) string {
	return fmt.Sprintf("[%d] %s. %s", number, title, url)
}

// renderReferences renders the reference block, one line per citation in
// ascending number order. Citations arrive already numbered 1..k.
func renderReferences(citations []model.Citation) string {
	if len(citations) == 0 {
		return ""
	}
	lines := make([]string, 0, len(citations))
	for _, c := range citations {
		lines = append(lines, FormatReference(c.Number, c.Title, c.URL))
	}
	return strings.Join(lines, "\n")
}

// Reference is a parsed entry from a document's reference section
type Reference struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	URL    string `json:"url"`
}

// refEntryRe matches a full reference line: "[n] <title>. <url>".
// The URL is the trailing http(s) token.
var refEntryRe = regexp.MustCompile(`^\[(\d+)\]\s+(.*?)\s*(https?://\S+)\s*$`)

// ParseReferences extracts the numbered entries from a document's reference
// section. Lines that carry a leading [n] but do not parse as a full entry
// are returned with only the number set, so the link checker can still
// report them.
func ParseReferences(text string) []Reference {
	_, refSection := splitDocument(text)
	if refSection == "" {
		return nil
	}

	var out []Reference
	for _, line := range strings.Split(refSection, "\n") {
		line = strings.TrimRight(line, " \t")
		m := refLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}

		ref := Reference{Number: n}
		if full := refEntryRe.FindStringSubmatch(line); full != nil {
			ref.Title = strings.TrimSuffix(strings.TrimSpace(full[2]), ".")
			ref.URL = full[3]
		}
		out = append(out, ref)
	}
	return out
}
