package source

import (
	"testing"
)

const letterPathListing = `<!DOCTYPE html>
<html><body>
<div class="results">
  <li>
    <a href="/research-and-insights/publications/economic-letter/2024/march/inflation-expectations/">Inflation Expectations</a>
    <time datetime="2024-03-01">March 1, 2024</time>
    <p>How household expectations shape policy.</p>
  </li>
  <li>
    <a href="/research-and-insights/publications/economic-letter/2024/january/labor-markets/">Labor Markets</a>
    <time datetime="2024-01-10">January 10, 2024</time>
  </li>
  <li>
    <a href="/research-and-insights/publications/economic-letter/2024/march/inflation-expectations/">Inflation Expectations (repeat link)</a>
  </li>
</div>
</body></html>`

const articleBlockListing = `<!DOCTYPE html>
<html><body>
<article>
  <h2><a href="/letters/a">A</a></h2>
  <time datetime="2024-03-01">March 1, 2024</time>
  <p>First summary.</p>
</article>
<article>
  <h2><a href="/letters/b">B</a></h2>
  <time datetime="2024-01-10">January 10, 2024</time>
</article>
<article>
  <h2><a href="/letters/c">C</a></h2>
</article>
</body></html>`

func TestExtractListingLetterPathAnchors(t *testing.T) {
	base := mustParse(t, "https://www.frbsf.org")

	candidates, err := ExtractListing(letterPathListing, base)
	if err != nil {
		t.Fatalf("ExtractListing returned error: %v", err)
	}

	if len(candidates) != 3 {
		t.Fatalf("Expected 3 candidates (dedup happens later), got %d", len(candidates))
	}

	c := candidates[0]
	if c.Title != "Inflation Expectations" {
		t.Errorf("Expected title 'Inflation Expectations', got %q", c.Title)
	}
	want := "https://www.frbsf.org/research-and-insights/publications/economic-letter/2024/march/inflation-expectations"
	if c.URL != want {
		t.Errorf("Expected canonical absolute URL %q, got %q", want, c.URL)
	}
	if c.Published.Year() != 2024 || int(c.Published.Month()) != 3 || c.Published.Day() != 1 {
		t.Errorf("Unexpected published date: %v", c.Published)
	}
	if c.Summary != "How household expectations shape policy." {
		t.Errorf("Unexpected summary: %q", c.Summary)
	}

	if candidates[1].Published.IsZero() {
		t.Errorf("Expected second candidate to carry its date, got %v", candidates[1].Published)
	}
}

func TestExtractListingArticleBlocks(t *testing.T) {
	base := mustParse(t, "https://example.org")

	candidates, err := ExtractListing(articleBlockListing, base)
	if err != nil {
		t.Fatalf("ExtractListing returned error: %v", err)
	}

	if len(candidates) != 3 {
		t.Fatalf("Expected 3 candidates, got %d", len(candidates))
	}
	if candidates[0].Title != "A" || candidates[1].Title != "B" || candidates[2].Title != "C" {
		t.Errorf("Unexpected titles: %q %q %q", candidates[0].Title, candidates[1].Title, candidates[2].Title)
	}
	if !candidates[2].Published.IsZero() {
		t.Errorf("Expected no date for C, got %v", candidates[2].Published)
	}
}

func TestExtractListingMissingContainer(t *testing.T) {
	candidates, err := ExtractListing(`<html><body><h1>Maintenance</h1></body></html>`, mustParse(t, "https://example.org"))
	if err != nil {
		t.Fatalf("ExtractListing returned error: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("Expected 0 candidates for markup without listing structure, got %d", len(candidates))
	}
}

func TestExtractListingSkipsMalformedEntries(t *testing.T) {
	html := `<html><body>
<article><h2><a href="/letters/good">Good</a></h2></article>
<article><h2><a href="">   </a></h2></article>
<article><p>No link at all</p></article>
</body></html>`

	candidates, err := ExtractListing(html, mustParse(t, "https://example.org"))
	if err != nil {
		t.Fatalf("ExtractListing returned error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("Expected 1 candidate with malformed entries skipped, got %d", len(candidates))
	}
	if candidates[0].Title != "Good" {
		t.Errorf("Expected surviving candidate 'Good', got %q", candidates[0].Title)
	}
}

func TestExtractListingContentAreaFallback(t *testing.T) {
	html := `<html><body>
<main>
  <a href="/letters/one">Letter One</a>
  <a href="/letters/two">Letter Two</a>
</main>
</body></html>`

	candidates, err := ExtractListing(html, mustParse(t, "https://example.org"))
	if err != nil {
		t.Fatalf("ExtractListing returned error: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("Expected 2 candidates from content-area fallback, got %d", len(candidates))
	}
}
