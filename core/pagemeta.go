package core

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"pickle/logger"
	"pickle/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// PageMetaFetcher extracts page metadata server-side for bookmarks created
// from the dashboard, where no content script is available to do it.
type PageMetaFetcher struct {
	client *resty.Client
}

func NewPageMetaFetcher(timeout time.Duration) *PageMetaFetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", "pickle/1.0 (+bookmark metadata fetcher)").
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))
	return &PageMetaFetcher{client: client}
}

// Fetch downloads the page and extracts title, description, image, site
// name and favicon. Fetch or parse failure returns the same fallback
// record the capture orchestrator uses.
func (f *PageMetaFetcher) Fetch(ctx context.Context, pageURL string) (models.PageMeta, error) {
	resp, err := f.client.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return FallbackMeta("", pageURL), fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	if resp.IsError() {
		return FallbackMeta("", pageURL), fmt.Errorf("fetching %s: status %d", pageURL, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return FallbackMeta("", pageURL), fmt.Errorf("parsing %s: %w", pageURL, err)
	}

	meta := models.PageMeta{URL: pageURL}
	meta.Title = firstNonEmpty(
		metaContent(doc, `meta[property="og:title"]`),
		strings.TrimSpace(doc.Find("title").First().Text()),
	)
	if meta.Title == "" {
		meta.Title = FallbackTitle
	}
	meta.Description = firstNonEmpty(
		metaContent(doc, `meta[property="og:description"]`),
		metaContent(doc, `meta[name="description"]`),
	)
	meta.Image = metaContent(doc, `meta[property="og:image"]`)
	meta.SiteName = metaContent(doc, `meta[property="og:site_name"]`)
	meta.Favicon = f.faviconURL(doc, pageURL)

	logger.Debug("PageMetaFetcher: extracted metadata for %s (title: %q)", pageURL, meta.Title)
	return meta, nil
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// faviconURL resolves the page's icon link against the page URL, falling
// back to /favicon.ico.
func (f *PageMetaFetcher) faviconURL(doc *goquery.Document, pageURL string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	href, ok := doc.Find(`link[rel="icon"], link[rel="shortcut icon"]`).First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		href = "/favicon.ico"
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
