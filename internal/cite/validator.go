package cite

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"citer/internal/model"
)

var (
	markerRe  = regexp.MustCompile(`\[(\d+)\]`)
	refLineRe = regexp.MustCompile(`^\[(\d+)\]`)
	headingRe = regexp.MustCompile(`(?m)^## References[ \t]*$`)
)

// Validate checks a cited document for citation integrity. It is read-only
// and makes no assumption that this engine produced the text: it works on
// hand-edited and externally authored documents alike.
//
// Body markers are all [n] tokens before the reference section; reference
// entries are the line-leading [n] tokens after the last "## References"
// heading. A document without the heading has an empty reference set.
//
// An empty result means the document is well formed.
func Validate(text string) []model.ValidationError {
	body, refSection := splitDocument(text)

	bodyNums := make(map[int]bool)
	for _, m := range markerRe.FindAllStringSubmatch(body, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			bodyNums[n] = true
		}
	}

	refCounts := make(map[int]int)
	if refSection != "" {
		for _, line := range strings.Split(refSection, "\n") {
			if m := refLineRe.FindStringSubmatch(line); m != nil {
				if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
					refCounts[n]++
				}
			}
		}
	}

	var errs []model.ValidationError

	for _, n := range sortedKeys(bodyNums) {
		if refCounts[n] == 0 {
			errs = append(errs, model.ValidationError{Kind: model.DanglingCitation, Number: n})
		}
	}

	refNums := make(map[int]bool, len(refCounts))
	for n := range refCounts {
		refNums[n] = true
	}
	for _, n := range sortedKeys(refNums) {
		if !bodyNums[n] {
			errs = append(errs, model.ValidationError{Kind: model.OrphanReference, Number: n})
		}
	}
	for _, n := range sortedKeys(refNums) {
		if refCounts[n] > 1 {
			errs = append(errs, model.ValidationError{Kind: model.DuplicateReference, Number: n})
		}
	}

	// A document produced by Apply always numbers 1..k; gaps surface
	// manual-editing mistakes.
	all := make(map[int]bool, len(bodyNums)+len(refNums))
	max := 0
	for n := range bodyNums {
		all[n] = true
		if n > max {
			max = n
		}
	}
	for n := range refNums {
		all[n] = true
		if n > max {
			max = n
		}
	}
	for n := 1; n <= max; n++ {
		if !all[n] {
			errs = append(errs, model.ValidationError{Kind: model.NonContiguousNumbering, Number: n})
		}
	}

	return errs
}

// splitDocument separates the narrative body from the reference section.
// The section starts at the last "## References" heading line; text without
// the heading is all body.
func splitDocument(text string) (body, refSection string) {
	locs := headingRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return text, ""
	}
	last := locs[len(locs)-1]
	return text[:last[0]], text[last[1]:]
}

func sortedKeys(set map[int]bool) []int {
	keys := make([]int, 0, len(set))
	for n := range set {
		keys = append(keys, n)
	}
	sort.Ints(keys)
	return keys
}
