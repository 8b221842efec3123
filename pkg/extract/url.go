package extract

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// defaultUserAgent is a desktop browser user agent; several news sites
// refuse requests without one.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// minParagraphLen filters boilerplate fragments out of article text.
const minParagraphLen = 20

// wikipediaSkipSections are Wikipedia page sections that add nothing
// to a podcast script.
var wikipediaSkipSections = []string{
	"Navigation menu",
	"References",
	"External links",
	"Contents",
	"See also",
	"Notes",
	"Citations",
	"Bibliography",
}

// chromeClassWords mark elements whose class names identify them as
// page chrome rather than article content.
var chromeClassWords = []string{
	"header", "footer", "nav", "aside", "script", "style",
	"noscript", "iframe", "ad", "advertisement", "comments",
	"sidebar", "menu", "social-links", "related-posts",
}

// Fetcher downloads web pages and extracts their article content.
type Fetcher struct {
	hc        *http.Client
	userAgent string
}

// FetcherOption is an option for configuring the Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.hc = hc
	}
}

// WithUserAgent overrides the request user agent.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		hc:        http.DefaultClient,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads rawURL and extracts its article title and text.
// Wikipedia pages get dedicated handling; other sites go through a
// generic content heuristic.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Article, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("extract: parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("extract: build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extract: fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extract: fetch %s: unexpected status %s", rawURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("extract: parse %s: %w", rawURL, err)
	}

	var art *Article
	if isWikipedia(u.Host) {
		art = parseWikipedia(doc)
	} else {
		art = parseGeneric(doc)
	}

	slog.Debug("extract: fetched article", "url", rawURL, "title", art.Title, "text_len", len(art.Text))
	return art, nil
}

func isWikipedia(host string) bool {
	return strings.Contains(host, "wikipedia.org")
}

// parseWikipedia extracts the article from a Wikipedia page: the
// firstHeading title and the mw-content-text body, with reference
// markers, edit links, and housekeeping sections stripped.
func parseWikipedia(doc *goquery.Document) *Article {
	title := strings.TrimSpace(doc.Find("#firstHeading").First().Text())

	doc.Find("sup.reference, a.reference, span.mw-editsection").Remove()

	var b strings.Builder
	if title != "" {
		b.WriteString(heading(title))
	}

	doc.Find("#mw-content-text").Find("h2, h3, p, ul, ol").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if skipSection(text) {
			return
		}
		switch goquery.NodeName(s) {
		case "h2", "h3":
			b.WriteString(heading(text))
		case "p":
			if len(text) > minParagraphLen {
				b.WriteString(text + "\n\n")
			}
		case "ul", "ol":
			writeList(&b, s)
		}
	})

	return &Article{Title: title, Text: tidy(b.String())}
}

// parseGeneric extracts the article from an arbitrary page: strip page
// chrome, find the most article-like container, then collect headings,
// paragraphs, and lists.
func parseGeneric(doc *goquery.Document) *Article {
	title := genericTitle(doc)

	doc.Find("script, style, nav, header, footer, aside, noscript, iframe").Remove()
	doc.Find("[class]").Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		class = strings.ToLower(class)
		for _, word := range chromeClassWords {
			if strings.Contains(class, word) {
				s.Remove()
				return
			}
		}
	})

	main := mainContent(doc)

	var b strings.Builder
	if title != "" {
		b.WriteString(heading(title))
	}

	main.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" && text != title {
			b.WriteString(heading(text))
		}
	})
	main.Find("p, ul, ol").Each(func(_ int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "p":
			text := strings.TrimSpace(s.Text())
			if len(text) > minParagraphLen {
				b.WriteString(text + "\n\n")
			}
		case "ul", "ol":
			writeList(&b, s)
		}
	})

	return &Article{Title: title, Text: tidy(b.String())}
}

// genericTitle tries og:title, twitter:title, a headline h1, then the
// document title, in that order.
func genericTitle(doc *goquery.Document) string {
	if t, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	if t, ok := doc.Find(`meta[name="twitter:title"]`).First().Attr("content"); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}

	var headline string
	doc.Find("h1[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		class = strings.ToLower(class)
		for _, word := range []string{"title", "headline", "post-title"} {
			if strings.Contains(class, word) {
				headline = strings.TrimSpace(s.Text())
				return false
			}
		}
		return true
	})
	if headline != "" {
		return headline
	}

	return strings.TrimSpace(doc.Find("title").First().Text())
}

// mainContent picks the most article-like container, falling back to
// the whole body.
func mainContent(doc *goquery.Document) *goquery.Selection {
	for _, sel := range []string{"article", "main", "#content", ".content"} {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}
	return doc.Find("body")
}

func skipSection(text string) bool {
	for _, section := range wikipediaSkipSections {
		if strings.Contains(text, section) {
			return true
		}
	}
	return false
}

func writeList(b *strings.Builder, s *goquery.Selection) {
	s.Find("li").Each(func(_ int, li *goquery.Selection) {
		if text := strings.TrimSpace(li.Text()); text != "" {
			b.WriteString("  • " + text + "\n")
		}
	})
	b.WriteString("\n")
}
