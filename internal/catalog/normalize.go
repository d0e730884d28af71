package catalog

import (
	"fmt"
	"hash/fnv"
	"net/url"
	"sort"
	"strings"

	"github.com/ryosukesatoh/letter-insight/internal/source"
)

// Normalize turns raw listing candidates into a catalog snapshot:
// duplicates collapsed by canonical URL (first occurrence wins), stable ids
// assigned, dated letters sorted newest first with undated letters after
// them in their original relative order. Empty input is a valid empty
// catalog, not an error.
func Normalize(candidates []source.Candidate) *Catalog {
	seen := make(map[string]bool, len(candidates))
	ids := make(map[string]bool, len(candidates))
	letters := make([]Letter, 0, len(candidates))

	for _, c := range candidates {
		key, err := source.Canonicalize(c.URL, nil)
		if err != nil {
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		id := letterID(key)
		if ids[id] {
			// Path-segment collision within the snapshot.
			id = urlDigest(key)
		}
		ids[id] = true

		letters = append(letters, Letter{
			ID:        id,
			Title:     c.Title,
			URL:       key,
			Published: c.Published,
			Summary:   c.Summary,
		})
	}

	sort.SliceStable(letters, func(i, j int) bool {
		a, b := letters[i].Published, letters[j].Published
		switch {
		case a.IsZero():
			return false
		case b.IsZero():
			return true
		default:
			return a.After(b)
		}
	})

	return &Catalog{Letters: letters}
}

// letterID derives a short stable id from a canonical URL: the trailing
// path segment when one exists, else an FNV digest of the whole URL. The
// derivation is deterministic so ids survive re-scrapes and process
// restarts.
func letterID(canonical string) string {
	u, err := url.Parse(canonical)
	if err != nil {
		return urlDigest(canonical)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if last := segments[len(segments)-1]; last != "" {
		return strings.ToLower(last)
	}
	return urlDigest(canonical)
}

func urlDigest(canonical string) string {
	h := fnv.New64a()
	h.Write([]byte(canonical))
	return fmt.Sprintf("%016x", h.Sum64())
}
