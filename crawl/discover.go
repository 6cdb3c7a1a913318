// Package crawl provides same-site page discovery for convert --all.
// It discovers internal pages via sitemap.xml and link extraction,
// keeping crawling logic separate from the ingest pipeline.
package crawl

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/mdpipe/core"
)

// DefaultMaxPages bounds a discovery run when no limit is configured.
const DefaultMaxPages = 100

// sitemapURL holds a URL from a sitemap.xml.
type sitemapURL struct {
	Loc string `xml:"loc"`
}

// sitemapIndex is the root element of a sitemap.xml.
type sitemapIndex struct {
	URLs []sitemapURL `xml:"url"`
}

// Discoverer finds the pages of a site.
type Discoverer struct {
	fetcher  core.Fetcher
	maxPages int
	log      *zap.Logger
}

// NewDiscoverer creates a Discoverer. maxPages <= 0 uses DefaultMaxPages.
func NewDiscoverer(fetcher core.Fetcher, maxPages int, log *zap.Logger) *Discoverer {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Discoverer{fetcher: fetcher, maxPages: maxPages, log: log.Named("crawl")}
}

// Discover finds internal URLs to process starting from baseURL.
// It first tries sitemap.xml, then falls back to link crawling.
// At most maxPages URLs are returned.
func (d *Discoverer) Discover(ctx context.Context, baseURL string) ([]string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}
	domain := parsed.Host

	sitemap := fmt.Sprintf("%s://%s/sitemap.xml", parsed.Scheme, domain)
	urls, err := d.fromSitemap(ctx, sitemap, domain)
	if err == nil && len(urls) > 0 {
		d.log.Info("discovered pages from sitemap", zap.String("sitemap", sitemap), zap.Int("pages", len(urls)))
		return urls, nil
	}
	if err != nil {
		d.log.Debug("sitemap unavailable, crawling links", zap.String("sitemap", sitemap), zap.Error(err))
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	urls = d.fromLinks(ctx, baseURL, domain)
	d.log.Info("discovered pages by crawling", zap.String("start", baseURL), zap.Int("pages", len(urls)))
	return urls, ctx.Err()
}

// fromSitemap fetches and parses sitemap.xml for internal URLs.
func (d *Discoverer) fromSitemap(ctx context.Context, sitemapURL, domain string) ([]string, error) {
	result, err := d.fetcher.Fetch(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}

	var sitemap sitemapIndex
	if err := xml.Unmarshal([]byte(result.HTML), &sitemap); err != nil {
		return nil, fmt.Errorf("parsing sitemap: %w", err)
	}

	queue := NewQueue()
	for _, u := range sitemap.URLs {
		loc := strings.TrimSpace(u.Loc)
		if IsSameDomain(loc, domain) && !IsStaticAsset(loc) {
			queue.Add(NormalizeURL(loc))
		}
		if queue.Visited() >= d.maxPages {
			break
		}
	}
	return queue.All(), nil
}

// fromLinks performs BFS crawling to find internal links. Pages that fail
// to fetch or parse are skipped.
func (d *Discoverer) fromLinks(ctx context.Context, startURL, domain string) []string {
	queue := NewQueue()
	queue.Add(NormalizeURL(startURL))

	for queue.HasNext() && ctx.Err() == nil {
		currentURL := queue.Next()

		result, err := d.fetcher.Fetch(ctx, currentURL)
		if err != nil {
			d.log.Debug("skipping page", zap.String("url", currentURL), zap.Error(err))
			continue
		}

		links, err := extractLinks(result.HTML, currentURL)
		if err != nil {
			continue
		}

		for _, link := range links {
			if queue.Visited() >= d.maxPages {
				break
			}
			if IsSameDomain(link, domain) && !IsStaticAsset(link) {
				queue.Add(NormalizeURL(link))
			}
		}
	}

	return queue.All()
}

// extractLinks extracts all href values from <a> tags, resolving relative URLs.
func extractLinks(html string, baseURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	var links []string

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists || href == "" {
			return
		}

		if resolved := resolveURL(href, base); resolved != "" {
			links = append(links, resolved)
		}
	})

	return links, nil
}

// resolveURL resolves a potentially relative URL against a base.
func resolveURL(href string, base *url.URL) string {
	for _, skip := range []string{"mailto:", "javascript:", "tel:", "#"} {
		if strings.HasPrefix(href, skip) {
			return ""
		}
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(parsed)
	resolved.Fragment = ""
	return resolved.String()
}
