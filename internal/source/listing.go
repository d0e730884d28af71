package source

import (
	"log"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
)

// letterPathPattern matches the year-scoped article paths the publication
// uses, e.g. /economic-letter/2024/some-title/.
var letterPathPattern = regexp.MustCompile(`/economic-letter/\d{4}/`)

// listingStrategy extracts candidates from a parsed listing page. Strategies
// are tried in priority order; the first one producing a non-empty result
// wins. The upstream markup is not contractually stable, so each strategy
// targets a different shape the site has been observed to use.
type listingStrategy func(doc *goquery.Document, base *url.URL) []Candidate

var listingStrategies = []listingStrategy{
	letterPathAnchors,
	articleBlocks,
	contentAreaAnchors,
}

// ExtractListing parses listing-page HTML into raw candidates. Missing or
// unrecognized structure yields an empty slice, not an error: an upstream
// redesign degrades to an empty catalog rather than a crash.
func ExtractListing(htmlContent string, base *url.URL) ([]Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	for _, strategy := range listingStrategies {
		if candidates := strategy(doc, base); len(candidates) > 0 {
			return candidates, nil
		}
	}
	return nil, nil
}

// letterPathAnchors harvests anchors whose href matches the year-scoped
// letter path, the shape the publication index has used historically.
func letterPathAnchors(doc *goquery.Document, base *url.URL) []Candidate {
	var candidates []Candidate
	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if !letterPathPattern.MatchString(href) {
			return
		}
		if c, ok := candidateFromLink(link, base); ok {
			candidates = append(candidates, c)
		}
	})
	return candidates
}

// articleBlocks harvests <article> elements with a heading link, a common
// listing shape across site redesigns.
func articleBlocks(doc *goquery.Document, base *url.URL) []Candidate {
	var candidates []Candidate
	doc.Find("article").Each(func(_ int, block *goquery.Selection) {
		link := block.Find("h1 a, h2 a, h3 a").First()
		if link.Length() == 0 {
			link = block.Find("a[href]").First()
		}
		if link.Length() == 0 {
			return
		}
		if c, ok := candidateFromLink(link, base); ok {
			candidates = append(candidates, c)
		}
	})
	return candidates
}

// contentAreaAnchors is the last-resort strategy: any titled anchor inside a
// recognizable content container.
func contentAreaAnchors(doc *goquery.Document, base *url.URL) []Candidate {
	var candidates []Candidate
	doc.Find("main a[href], #content a[href], .content a[href]").Each(func(_ int, link *goquery.Selection) {
		if strings.TrimSpace(link.Text()) == "" {
			return
		}
		if c, ok := candidateFromLink(link, base); ok {
			candidates = append(candidates, c)
		}
	})
	return candidates
}

// candidateFromLink builds a Candidate from an anchor, pulling the date and
// summary from the nearest enclosing listing entry when present. A malformed
// entry is skipped with a warning so one bad row never aborts the listing.
func candidateFromLink(link *goquery.Selection, base *url.URL) (Candidate, bool) {
	href, ok := link.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return Candidate{}, false
	}

	canonical, err := Canonicalize(href, base)
	if err != nil {
		log.Printf("WARNING: skipping listing entry: %v", err)
		return Candidate{}, false
	}

	title := strings.TrimSpace(link.Text())
	if title == "" {
		title, _ = link.Attr("title")
		title = strings.TrimSpace(title)
	}
	if title == "" {
		log.Printf("WARNING: skipping listing entry without title: %s", canonical)
		return Candidate{}, false
	}

	entry := link.Closest("article, li, .entry, .result")

	return Candidate{
		Title:     title,
		URL:       canonical,
		Published: entryDate(entry),
		Summary:   entrySummary(entry),
	}, true
}

// entryDate pulls a publication date from a <time> element within the entry.
// Formats vary across redesigns, hence dateparse instead of fixed layouts.
func entryDate(entry *goquery.Selection) time.Time {
	if entry == nil || entry.Length() == 0 {
		return time.Time{}
	}
	timeEl := entry.Find("time").First()
	if timeEl.Length() == 0 {
		return time.Time{}
	}

	raw, ok := timeEl.Attr("datetime")
	if !ok || strings.TrimSpace(raw) == "" {
		raw = timeEl.Text()
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	parsed, err := dateparse.ParseAny(raw)
	if err != nil {
		log.Printf("WARNING: unparseable listing date %q: %v", raw, err)
		return time.Time{}
	}
	return parsed
}

func entrySummary(entry *goquery.Selection) string {
	if entry == nil || entry.Length() == 0 {
		return ""
	}
	return collapseWhitespace(entry.Find("p").First().Text())
}
