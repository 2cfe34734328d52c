// Package extract pulls structured article fields out of raw scraped page
// content. Every field has a defined default, so malformed input degrades to
// defaults rather than errors.
package extract

import (
	"log"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Details holds the fields extracted from one scraped page.
type Details struct {
	Summary       string
	Content       string
	ImageURL      string
	PublishedDate time.Time
	Author        string
}

var (
	ogImagePattern       = regexp.MustCompile(`(?i)<meta\s+property=(?:"og:image"|'og:image')\s+content=(?:"([^"]*)"|'([^']*)')\s*/?>`)
	markdownImagePattern = regexp.MustCompile(`!\[.*?\]\((https?://[^)]+)\)`)
	imgTagPattern        = regexp.MustCompile(`(?i)<img[^>]+src="([^"]+)"[^>]*>`)

	// Labeled patterns first, then bare formats. The first pattern that
	// yields a parseable date wins.
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)published(?:\s+on)?:\s*(\w+\s+\d{1,2},?\s+\d{4})`),
		regexp.MustCompile(`(?i)date:\s*(\w+\s+\d{1,2},?\s+\d{4})`),
		regexp.MustCompile(`(?i)posted(?:\s+on)?:\s*(\w+\s+\d{1,2},?\s+\d{4})`),
		regexp.MustCompile(`(?i)(\d{1,2}\s+\w+\s+\d{4})`),
		regexp.MustCompile(`(?i)(\w+\s+\d{1,2},?\s+\d{4})`),
		regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`),
	}

	authorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bby\s+([A-Za-z .]+?)(?:\s*,|\s+on\b|\s*\||\n|$)`),
		regexp.MustCompile(`(?i)author:?\s+([A-Za-z .]+?)(?:\s*,|\s+on\b|\s*\||\n|$)`),
		regexp.MustCompile(`(?i)written\s+by\s+([A-Za-z .]+?)(?:\s*,|\s+on\b|\s*\||\n|$)`),
		regexp.MustCompile(`(?i)contributor:\s+([A-Za-z .]+?)(?:\s*,|\s+on\b|\s*\||\n|$)`),
	}
)

// ExtractDetails parses scraped markdown (and optional raw HTML) into
// article fields. It never fails: fields that cannot be extracted fall back
// to their defaults.
func ExtractDetails(content, sourceURL, html string) Details {
	details := Details{
		Content:       content,
		ImageURL:      extractImage(content, sourceURL, html),
		Summary:       extractSummary(content),
		PublishedDate: extractDate(content),
		Author:        extractAuthor(content),
	}
	return details
}

// extractImage prefers an Open Graph image from the HTML, then the first
// markdown image link, then the first <img src>.
func extractImage(content, sourceURL, html string) string {
	if html != "" {
		if m := ogImagePattern.FindStringSubmatch(html); m != nil {
			img := m[1]
			if img == "" {
				img = m[2]
			}
			if img != "" {
				return absoluteURL(img, sourceURL)
			}
		}
	}

	if m := markdownImagePattern.FindStringSubmatch(content); m != nil {
		return m[1]
	}

	if html != "" {
		if m := imgTagPattern.FindStringSubmatch(html); m != nil {
			return absoluteURL(m[1], sourceURL)
		}
	}

	return ""
}

// absoluteURL resolves a /-prefixed image path against the scheme and host
// of the page it came from. An unparseable page URL leaves the relative path
// as is.
func absoluteURL(img, sourceURL string) string {
	if !strings.HasPrefix(img, "/") {
		return img
	}
	u, err := url.Parse(sourceURL)
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		log.Printf("Cannot resolve relative image URL against %q", sourceURL)
		return img
	}
	return u.Scheme + "://" + u.Hostname() + img
}

// extractSummary picks the first paragraph between 100 and 500 characters
// that isn't a heading; failing that, the first 200 characters with newlines
// collapsed, plus an ellipsis.
func extractSummary(content string) string {
	if content == "" {
		return ""
	}

	for _, paragraph := range strings.Split(content, "\n\n") {
		if len(paragraph) > 100 && len(paragraph) < 500 && !strings.HasPrefix(paragraph, "#") {
			return paragraph
		}
	}

	summary := content
	if runes := []rune(summary); len(runes) > 200 {
		summary = string(runes[:200])
	}
	return strings.ReplaceAll(summary, "\n", " ") + "..."
}

// extractDate tries each date pattern in order; the first match that parses
// wins. Defaults to the current time.
func extractDate(content string) time.Time {
	for _, pattern := range datePatterns {
		m := pattern.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		t, err := dateparse.ParseAny(m[1])
		if err != nil {
			log.Printf("Failed to parse date candidate %q", m[1])
			continue
		}
		return t
	}
	return time.Now()
}

// extractAuthor tries each author pattern in order. Defaults to empty.
func extractAuthor(content string) string {
	for _, pattern := range authorPatterns {
		if m := pattern.FindStringSubmatch(content); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// ResolveSource derives a display name from a URL's domain: the
// second-to-last label with its first letter capitalized. Falls back to the
// raw hostname when the domain has fewer than two labels, and to "Unknown
// Source" when the URL cannot be parsed.
func ResolveSource(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "Unknown Source"
	}

	hostname := strings.TrimPrefix(u.Hostname(), "www.")
	parts := strings.Split(hostname, ".")
	if len(parts) < 2 {
		return hostname
	}

	name := parts[len(parts)-2]
	return strings.ToUpper(name[:1]) + name[1:]
}
