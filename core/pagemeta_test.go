package core

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const metaTestPage = `<!DOCTYPE html>
<html>
<head>
<title>Plain Title</title>
<meta property="og:title" content="OG Title">
<meta property="og:description" content="OG description">
<meta name="description" content="Plain description">
<meta property="og:image" content="https://cdn.example.com/hero.png">
<meta property="og:site_name" content="Example">
<link rel="icon" href="/static/icon.png">
</head>
<body>hello</body>
</html>`

func TestPageMetaFetcherExtractsOpenGraph(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, metaTestPage)
	}))
	defer srv.Close()

	fetcher := NewPageMetaFetcher(5 * time.Second)
	meta, err := fetcher.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "OG Title", meta.Title)
	assert.Equal(t, "OG description", meta.Description)
	assert.Equal(t, "https://cdn.example.com/hero.png", meta.Image)
	assert.Equal(t, "Example", meta.SiteName)
	assert.Equal(t, srv.URL+"/static/icon.png", meta.Favicon)
	assert.Equal(t, srv.URL, meta.URL)
}

func TestPageMetaFetcherFallsBackToTitleTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><head><title> Plain Title </title></head><body></body></html>`)
	}))
	defer srv.Close()

	fetcher := NewPageMetaFetcher(5 * time.Second)
	meta, err := fetcher.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "Plain Title", meta.Title)
	assert.Empty(t, meta.Description)
	assert.Equal(t, srv.URL+"/favicon.ico", meta.Favicon)
}

func TestPageMetaFetcherFallbackOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	fetcher := NewPageMetaFetcher(5 * time.Second)
	meta, err := fetcher.Fetch(context.Background(), srv.URL)
	require.Error(t, err)

	assert.Equal(t, FallbackTitle, meta.Title)
	assert.Equal(t, FallbackMetaDescription, meta.Description)
	assert.Equal(t, srv.URL, meta.URL)
}

func TestPageMetaFetcherTitleFallbackWhenPageHasNone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><head></head><body>no metadata at all</body></html>`)
	}))
	defer srv.Close()

	fetcher := NewPageMetaFetcher(5 * time.Second)
	meta, err := fetcher.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, FallbackTitle, meta.Title)
}
