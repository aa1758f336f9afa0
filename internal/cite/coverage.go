package cite

import (
	"regexp"
	"strings"

	"citer/internal/model"
)

// citedSentenceRe counts sentence terminators trailed by a citation marker.
// Markers are inserted after the quote, so a cited sentence reads "....  [n]".
var citedSentenceRe = regexp.MustCompile(`[.!?][^.!?]*\[\d+\]`)

// MeasureCoverage reports how many sentences of the narrative body carry a
// citation marker. Coverage is diagnostic only; low coverage is not an
// integrity error.
func MeasureCoverage(text string) model.Coverage {
	body, _ := splitDocument(text)
	sentences := splitSentences(body)

	cov := model.Coverage{Sentences: len(sentences)}
	cov.CitedSentences = len(citedSentenceRe.FindAllString(body, -1))
	if cov.CitedSentences > cov.Sentences {
		cov.CitedSentences = cov.Sentences
	}
	if cov.Sentences > 0 {
		cov.Percent = float64(cov.CitedSentences) / float64(cov.Sentences) * 100
	}
	return cov
}

// splitSentences splits text into sentences (simple heuristic)
func splitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	flush := func() {
		sentence := strings.TrimSpace(current.String())
		current.Reset()
		if sentence == "" {
			return
		}
		// Trailing marker fragments like "[3]" are not sentences
		if strings.TrimSpace(markerRe.ReplaceAllString(sentence, "")) == "" {
			return
		}
		sentences = append(sentences, sentence)
	}

	for i, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			// Look ahead to avoid splitting on abbreviations
			if i+1 < len(text) && (text[i+1] == ' ' || text[i+1] == '\t') {
				flush()
			}
		}
	}
	flush()

	return sentences
}
