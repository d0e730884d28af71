package catalog

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ryosukesatoh/letter-insight/internal/apperr"
	"github.com/ryosukesatoh/letter-insight/internal/source"
)

// Cache holds the process-wide catalog snapshot. The snapshot is replaced
// by pointer swap so readers never lock and never observe a half-built
// catalog; concurrent refreshes collapse into one upstream fetch whose
// result all callers share.
type Cache struct {
	src      source.Source
	snapshot atomic.Pointer[Catalog]
	group    singleflight.Group
}

func NewCache(src source.Source) *Cache {
	return &Cache{src: src}
}

// Refresh fetches, extracts, and normalizes the listing, swaps in the new
// snapshot, and returns it. There is no automatic expiry: refresh happens
// only when asked.
func (c *Cache) Refresh(ctx context.Context) (*Catalog, error) {
	v, err, shared := c.group.Do("refresh", func() (interface{}, error) {
		candidates, err := c.src.FetchListing(ctx)
		if err != nil {
			return nil, fmt.Errorf("catalog: listing refresh failed: %w", err)
		}

		cat := Normalize(candidates)
		cat.FetchedAt = time.Now()
		c.snapshot.Store(cat)

		log.Printf("Catalog refreshed with %d letters", len(cat.Letters))
		return cat, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Printf("Catalog refresh shared with a concurrent caller")
	}
	return v.(*Catalog), nil
}

// Current returns the last snapshot, refreshing first if none exists yet.
func (c *Cache) Current(ctx context.Context) (*Catalog, error) {
	if snap := c.snapshot.Load(); snap != nil {
		return snap, nil
	}
	return c.Refresh(ctx)
}

// Detail resolves a letter id against the current snapshot and fetches the
// article text on demand. Detail is always fresh, never cached.
func (c *Cache) Detail(ctx context.Context, id string) (*Detail, error) {
	cat, err := c.Current(ctx)
	if err != nil {
		return nil, err
	}

	letter, ok := cat.Find(id)
	if !ok {
		return nil, apperr.NewNotFound(fmt.Sprintf("letter %q", id))
	}

	text, err := c.src.FetchArticle(ctx, letter.URL)
	if err != nil {
		return nil, err
	}

	return &Detail{
		ID:        letter.ID,
		Title:     letter.Title,
		Text:      text,
		SourceURL: letter.URL,
	}, nil
}
