package catalog

import (
	"testing"
	"time"

	"github.com/ryosukesatoh/letter-insight/internal/source"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNormalizeDedupByCanonicalURL(t *testing.T) {
	candidates := []source.Candidate{
		{Title: "First", URL: "https://example.org/letters/one/"},
		{Title: "Duplicate trailing slash", URL: "https://example.org/letters/one"},
		{Title: "Duplicate host case", URL: "https://EXAMPLE.org/letters/one"},
		{Title: "Second", URL: "https://example.org/letters/two"},
	}

	cat := Normalize(candidates)
	if len(cat.Letters) != 2 {
		t.Fatalf("Expected 2 letters after dedup, got %d", len(cat.Letters))
	}
	if cat.Letters[0].Title != "First" {
		t.Errorf("Expected first occurrence kept, got %q", cat.Letters[0].Title)
	}
}

func TestNormalizeStableIDs(t *testing.T) {
	candidates := []source.Candidate{
		{Title: "One", URL: "https://example.org/letters/2024/inflation-expectations"},
		{Title: "Two", URL: "https://example.org/letters/2024/labor-markets"},
	}

	first := Normalize(candidates)
	second := Normalize(candidates)

	if len(first.Letters) != 2 || len(second.Letters) != 2 {
		t.Fatalf("Expected 2 letters in both runs, got %d and %d", len(first.Letters), len(second.Letters))
	}
	for i := range first.Letters {
		if first.Letters[i].ID == "" {
			t.Errorf("Expected non-empty id for %q", first.Letters[i].Title)
		}
		if first.Letters[i].ID != second.Letters[i].ID {
			t.Errorf("Expected stable id across runs for %q: %q vs %q",
				first.Letters[i].Title, first.Letters[i].ID, second.Letters[i].ID)
		}
	}
	if first.Letters[0].ID == first.Letters[1].ID {
		t.Error("Expected distinct ids for distinct URLs")
	}
	if first.Letters[0].ID != "inflation-expectations" {
		t.Errorf("Expected id from trailing path segment, got %q", first.Letters[0].ID)
	}
}

func TestNormalizeIDCollisionFallsBackToDigest(t *testing.T) {
	candidates := []source.Candidate{
		{Title: "March", URL: "https://example.org/letters/2024/march/update"},
		{Title: "January", URL: "https://example.org/letters/2024/january/update"},
	}

	cat := Normalize(candidates)
	if len(cat.Letters) != 2 {
		t.Fatalf("Expected 2 letters, got %d", len(cat.Letters))
	}
	if cat.Letters[0].ID == cat.Letters[1].ID {
		t.Errorf("Expected collision fallback to produce distinct ids, got %q twice", cat.Letters[0].ID)
	}
}

func TestNormalizeSortOrder(t *testing.T) {
	candidates := []source.Candidate{
		{Title: "B", URL: "https://example.org/letters/b", Published: date("2024-01-10")},
		{Title: "Undated-1", URL: "https://example.org/letters/u1"},
		{Title: "A", URL: "https://example.org/letters/a", Published: date("2024-03-01")},
		{Title: "Undated-2", URL: "https://example.org/letters/u2"},
	}

	cat := Normalize(candidates)

	titles := make([]string, len(cat.Letters))
	for i, l := range cat.Letters {
		titles[i] = l.Title
	}
	want := []string{"A", "B", "Undated-1", "Undated-2"}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("Expected order %v, got %v", want, titles)
		}
	}

	for i := 0; i+1 < len(cat.Letters); i++ {
		a, b := cat.Letters[i].Published, cat.Letters[i+1].Published
		if !a.IsZero() && !b.IsZero() && a.Before(b) {
			t.Errorf("Sort invariant violated: %v before %v", a, b)
		}
		if a.IsZero() && !b.IsZero() {
			t.Error("Sort invariant violated: undated letter before dated letter")
		}
	}
}

func TestNormalizeThreeArticleScenario(t *testing.T) {
	candidates := []source.Candidate{
		{Title: "A", URL: "https://example.org/letters/a", Published: date("2024-03-01")},
		{Title: "B", URL: "https://example.org/letters/b", Published: date("2024-01-10")},
		{Title: "C", URL: "https://example.org/letters/c"},
	}

	cat := Normalize(candidates)
	if len(cat.Letters) != 3 {
		t.Fatalf("Expected 3 letters, got %d", len(cat.Letters))
	}

	want := []string{"A", "B", "C"}
	seen := make(map[string]bool)
	for i, l := range cat.Letters {
		if l.Title != want[i] {
			t.Errorf("Expected title %q at position %d, got %q", want[i], i, l.Title)
		}
		if l.ID == "" {
			t.Errorf("Expected non-empty id for %q", l.Title)
		}
		if seen[l.ID] {
			t.Errorf("Expected distinct ids, %q repeated", l.ID)
		}
		seen[l.ID] = true
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	cat := Normalize(nil)
	if cat == nil {
		t.Fatal("Expected valid empty catalog, got nil")
	}
	if len(cat.Letters) != 0 {
		t.Errorf("Expected 0 letters, got %d", len(cat.Letters))
	}
}
