package source

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/ryosukesatoh/letter-insight/internal/apperr"
)

// RSSSource reads the publication's syndication feed for the listing and
// falls back to page scraping for article text, which feeds rarely carry in
// full.
type RSSSource struct {
	feedURL    string
	parser     *gofeed.Parser
	articles   *HTMLSource
	maxLetters int
}

func NewRSSSource(baseURL, feedURL string, timeout time.Duration, maxLetters int) (*RSSSource, error) {
	articles, err := NewHTMLSource(baseURL, "", timeout, maxLetters)
	if err != nil {
		return nil, err
	}

	parser := gofeed.NewParser()
	parser.Client = articles.client

	return &RSSSource{
		feedURL:    feedURL,
		parser:     parser,
		articles:   articles,
		maxLetters: maxLetters,
	}, nil
}

func (s *RSSSource) FetchListing(ctx context.Context) ([]Candidate, error) {
	feed, err := s.parser.ParseURLWithContext(s.feedURL, ctx)
	if err != nil {
		return nil, apperr.NewUpstreamUnreachable(s.feedURL, err)
	}

	candidates := make([]Candidate, 0, len(feed.Items))
	for _, item := range feed.Items {
		canonical, err := Canonicalize(item.Link, s.articles.base)
		if err != nil {
			continue
		}

		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}

		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		}

		candidates = append(candidates, Candidate{
			Title:     title,
			URL:       canonical,
			Published: published,
			Summary:   stripTags(item.Description),
		})
	}

	if s.maxLetters > 0 && len(candidates) > s.maxLetters {
		candidates = candidates[:s.maxLetters]
	}
	return candidates, nil
}

func (s *RSSSource) FetchArticle(ctx context.Context, articleURL string) (string, error) {
	return s.articles.FetchArticle(ctx, articleURL)
}

// stripTags drops any HTML a feed description carries.
func stripTags(s string) string {
	if !strings.Contains(s, "<") {
		return collapseWhitespace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapseWhitespace(s)
	}
	return collapseWhitespace(doc.Text())
}
