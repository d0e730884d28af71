package catalog

import "time"

// Letter is a normalized listing entry. ID is derived from the canonical URL
// and is stable across re-scrapes: the same article always gets the same id.
type Letter struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Published time.Time `json:"published_date,omitzero"`
	Summary   string    `json:"summary,omitempty"`
}

// Detail is a letter's full text, fetched on demand and never cached.
type Detail struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Text      string `json:"full_text"`
	SourceURL string `json:"source_url"`
}

// Catalog is an immutable snapshot of the normalized listing, most recent
// first. It is replaced wholesale on refresh, never edited in place.
type Catalog struct {
	Letters   []Letter  `json:"letters"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Find returns the letter with the given id, if present.
func (c *Catalog) Find(id string) (Letter, bool) {
	for _, l := range c.Letters {
		if l.ID == id {
			return l, true
		}
	}
	return Letter{}, false
}
