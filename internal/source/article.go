package source

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/ryosukesatoh/letter-insight/internal/apperr"
)

// contentSelectors are tried in order when readability cannot isolate the
// article body. The list mirrors the containers the publication has used.
var contentSelectors = []string{
	".article-content",
	".content",
	".post-content",
	"article",
	".main-content",
}

var whitespaceRegex = regexp.MustCompile(`\s+`)

// ExtractArticle turns an article page into normalized plain text: markup
// stripped, whitespace runs collapsed to single spaces, trimmed. An empty
// result is an extraction failure, never an empty-but-valid string, so
// callers can tell "no content" apart from a blank article.
func ExtractArticle(htmlContent string, pageURL *url.URL) (string, error) {
	if text := readableText(htmlContent, pageURL); text != "" {
		return text, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", apperr.NewUpstreamParseFailure("article HTML could not be parsed")
	}

	for _, selector := range contentSelectors {
		container := doc.Find(selector).First()
		if container.Length() == 0 {
			continue
		}
		container.Find("script, style, nav, header, footer, aside").Remove()
		if text := collapseWhitespace(container.Text()); text != "" {
			return text, nil
		}
	}

	// Last resort: join all paragraph text.
	var parts []string
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		if t := collapseWhitespace(p.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	if text := strings.Join(parts, " "); text != "" {
		return text, nil
	}

	return "", apperr.NewUpstreamParseFailure("article yielded no text")
}

func readableText(htmlContent string, pageURL *url.URL) string {
	article, err := readability.FromReader(strings.NewReader(htmlContent), pageURL)
	if err != nil {
		return ""
	}
	return collapseWhitespace(article.TextContent)
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}
