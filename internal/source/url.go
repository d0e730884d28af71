package source

import (
	"fmt"
	"net/url"
	"strings"
)

// Canonicalize resolves href against base (when base is non-nil) and returns
// a canonical absolute URL: lowercased scheme and host, no fragment, no
// trailing slash. Two listing links pointing at the same article canonicalize
// to the same string, which is what dedup and id derivation key on.
func Canonicalize(href string, base *url.URL) (string, error) {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("source: invalid url %q: %w", href, err)
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("source: url %q is not absolute", href)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")

	return u.String(), nil
}
