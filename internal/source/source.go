package source

import (
	"context"
	"fmt"
	"time"

	"github.com/ryosukesatoh/letter-insight/internal/config"
)

// Candidate is a raw listing entry before normalization. URL is absolute and
// canonical; Published is zero when the listing carried no parseable date.
type Candidate struct {
	Title     string
	URL       string
	Published time.Time
	Summary   string
}

// Source fetches the upstream letter listing and individual article text.
type Source interface {
	FetchListing(ctx context.Context) ([]Candidate, error)
	FetchArticle(ctx context.Context, articleURL string) (string, error)
}

// New creates a new source based on the configuration
func New(cfg *config.Config) (Source, error) {
	timeout := time.Duration(cfg.Source.TimeoutSeconds) * time.Second
	switch cfg.Source.Type {
	case "html":
		return NewHTMLSource(cfg.Source.BaseURL, cfg.Source.ListingURL, timeout, cfg.Source.MaxLetters)
	case "rss":
		return NewRSSSource(cfg.Source.BaseURL, cfg.Source.FeedURL, timeout, cfg.Source.MaxLetters)
	default:
		return nil, ErrUnsupportedSourceType
	}
}

// ErrUnsupportedSourceType is returned when an unsupported source type is specified
var ErrUnsupportedSourceType = fmt.Errorf("unsupported source type")
