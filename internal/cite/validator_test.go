package cite

import (
	"testing"

	"citer/internal/model"
)

func kindsByNumber(errs []model.ValidationError) map[model.ErrorKind][]int {
	out := make(map[model.ErrorKind][]int)
	for _, e := range errs {
		out[e.Kind] = append(out[e.Kind], e.Number)
	}
	return out
}

func TestValidate_CleanDocument(t *testing.T) {
	doc := "A claim. [1] Another claim. [2]\n\n## References\n\n" +
		"[1] First. https://a.example\n" +
		"[2] Second. https://b.example"

	if errs := Validate(doc); len(errs) != 0 {
		t.Errorf("expected clean document, got %v", errs)
	}
}

func TestValidate_DanglingCitation(t *testing.T) {
	doc := "A body claim. [1] Nothing else."

	errs := Validate(doc)
	kinds := kindsByNumber(errs)
	if got := kinds[model.DanglingCitation]; len(got) != 1 || got[0] != 1 {
		t.Errorf("expected dangling citation for 1, got %v", errs)
	}
}

func TestValidate_OrphanReference(t *testing.T) {
	doc := "Uncited body text.\n\n## References\n\n[1] Never cited. https://a.example"

	errs := Validate(doc)
	kinds := kindsByNumber(errs)
	if got := kinds[model.OrphanReference]; len(got) != 1 || got[0] != 1 {
		t.Errorf("expected orphan reference for 1, got %v", errs)
	}
}

func TestValidate_DuplicateReference(t *testing.T) {
	doc := "Cited. [1]\n\n## References\n\n" +
		"[1] First copy. https://a.example\n" +
		"[1] Second copy. https://b.example"

	errs := Validate(doc)
	kinds := kindsByNumber(errs)
	if got := kinds[model.DuplicateReference]; len(got) != 1 || got[0] != 1 {
		t.Errorf("expected duplicate reference for 1, got %v", errs)
	}
}

func TestValidate_NonContiguousNumbering(t *testing.T) {
	doc := "One. [1] Three. [3]\n\n## References\n\n" +
		"[1] First. https://a.example\n" +
		"[3] Third. https://c.example"

	errs := Validate(doc)
	kinds := kindsByNumber(errs)
	if got := kinds[model.NonContiguousNumbering]; len(got) != 1 || got[0] != 2 {
		t.Errorf("expected gap at 2, got %v", errs)
	}
	if len(kinds[model.DanglingCitation]) != 0 || len(kinds[model.OrphanReference]) != 0 {
		t.Errorf("numbers 1 and 3 are individually well formed, got %v", errs)
	}
}

func TestValidate_ReferenceMarkersNotCountedAsBody(t *testing.T) {
	// The [2] inside the reference line must not register as a body citation.
	doc := "Cited. [1]\n\n## References\n\n[1] Mentions [2] in its title. https://a.example"

	errs := Validate(doc)
	kinds := kindsByNumber(errs)
	if len(kinds[model.DanglingCitation]) != 0 {
		t.Errorf("marker inside reference section counted as body citation: %v", errs)
	}
}

func TestValidate_LastHeadingWins(t *testing.T) {
	// A narrative that quotes the literal heading: only the last heading
	// starts the reference section.
	doc := "## References\n\nThat heading above is part of the narrative. [1]\n\n" +
		"## References\n\n[1] Real entry. https://a.example"

	if errs := Validate(doc); len(errs) != 0 {
		t.Errorf("expected the last heading to delimit references, got %v", errs)
	}
}

func TestValidate_EmptyAndUnmarkedText(t *testing.T) {
	if errs := Validate(""); len(errs) != 0 {
		t.Errorf("empty text must be valid, got %v", errs)
	}
	if errs := Validate("plain prose with no markers at all"); len(errs) != 0 {
		t.Errorf("unmarked text must be valid, got %v", errs)
	}
}

func TestValidate_ZeroIsNotACitation(t *testing.T) {
	if errs := Validate("array indices look like [0] sometimes"); len(errs) != 0 {
		t.Errorf("[0] is not a positive citation number, got %v", errs)
	}
}

func TestValidate_IsReadOnly(t *testing.T) {
	doc := "Cited. [1]\n\n## References\n\n[1] Entry. https://a.example"
	before := doc
	_ = Validate(doc)
	if doc != before {
		t.Error("validate must not mutate its input")
	}
}
