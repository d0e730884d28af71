package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ryosukesatoh/letter-insight/internal/apperr"
)

// HTMLSource scrapes the publication's listing page and article pages.
type HTMLSource struct {
	client     *http.Client
	base       *url.URL
	listingURL string
	maxLetters int
}

func NewHTMLSource(baseURL, listingURL string, timeout time.Duration, maxLetters int) (*HTMLSource, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("source: invalid base url %q: %w", baseURL, err)
	}
	return &HTMLSource{
		client:     &http.Client{Timeout: timeout},
		base:       base,
		listingURL: listingURL,
		maxLetters: maxLetters,
	}, nil
}

func (s *HTMLSource) FetchListing(ctx context.Context) ([]Candidate, error) {
	body, err := s.get(ctx, s.listingURL)
	if err != nil {
		return nil, err
	}

	candidates, err := ExtractListing(body, s.base)
	if err != nil {
		return nil, fmt.Errorf("source: failed to parse listing: %w", err)
	}

	if s.maxLetters > 0 && len(candidates) > s.maxLetters {
		candidates = candidates[:s.maxLetters]
	}
	return candidates, nil
}

func (s *HTMLSource) FetchArticle(ctx context.Context, articleURL string) (string, error) {
	canonical, err := Canonicalize(articleURL, s.base)
	if err != nil {
		return "", err
	}

	body, err := s.get(ctx, canonical)
	if err != nil {
		return "", err
	}

	pageURL, _ := url.Parse(canonical)
	return ExtractArticle(body, pageURL)
}

func (s *HTMLSource) get(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("source: failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", apperr.NewUpstreamUnreachable(rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperr.NewUpstreamUnreachable(rawURL, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperr.NewUpstreamUnreachable(rawURL, err)
	}

	return string(body), nil
}
