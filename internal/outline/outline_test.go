// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/keyword-engine/internal/httputil"
	"github.com/pdiddy/keyword-engine/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

// summaryServer serves /page/summary/{title} from a map of title to JSON body.
// Unknown titles get 404.
func summaryServer(t *testing.T, pages map[string]string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		title := strings.TrimPrefix(r.URL.Path, "/page/summary/")
		body, ok := pages[title]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"type":"not_found"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts, &calls
}

func newTestFetcher(ts *httptest.Server, logger *zap.Logger) *Fetcher {
	f := NewFetcher(types.OutlineConfig{BaseURL: ts.URL + "/"}, "", logger)
	f.Client = ts.Client()
	return f
}

func TestFetchRemoteSummary(t *testing.T) {
	ts, _ := summaryServer(t, map[string]string{
		"seo": `{"title":"Search engine optimization","extract":"SEO is the process of improving a site."}`,
	})
	f := newTestFetcher(ts, nil)

	o := f.Fetch(context.Background(), "seo")
	assert.Equal(t, "seo", o.Keyword)
	assert.Equal(t, "SEO is the process of improving a site.", o.Intro)
	assert.Equal(t, types.SourceRemote, o.Source)
	assert.True(t, o.Fetched())
	assert.Equal(t, []string{
		"What is seo?",
		"Key Insights about seo",
		"Applications of seo",
		"Future of seo",
	}, o.Sections)
	assert.Equal(t, "Summary for seo", o.Conclusion)
}

func TestFetchFallbacks(t *testing.T) {
	ts, _ := summaryServer(t, map[string]string{
		"no extract":    `{"title":"No extract"}`,
		"empty extract": `{"title":"Empty","extract":""}`,
		"blank extract": `{"title":"Blank","extract":"  \n"}`,
		"bad json":      `{"title":`,
	})

	tests := []struct {
		kw        string
		wantIntro string
	}{
		{"no extract", "Brief intro about no extract."},
		{"empty extract", "Brief intro about empty extract."},
		{"blank extract", "Brief intro about blank extract."},
		{"bad json", "Introduction about bad json."},
		{"missing page", "Introduction about missing page."},
	}
	for _, tt := range tests {
		t.Run(tt.kw, func(t *testing.T) {
			o := newTestFetcher(ts, nil).Fetch(context.Background(), tt.kw)
			assert.Equal(t, tt.wantIntro, o.Intro)
			assert.Equal(t, types.SourceFallback, o.Source)
			assert.Len(t, o.Sections, 4)
			assert.Equal(t, Conclusion(tt.kw), o.Conclusion)
		})
	}
}

func TestFetchNetworkFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	ts.Close()

	core, logs := observer.New(zapcore.WarnLevel)
	f := NewFetcher(types.OutlineConfig{BaseURL: ts.URL}, "", zap.New(core))

	o := f.Fetch(context.Background(), "marketing")
	assert.Equal(t, FailedIntro("marketing"), o.Intro)
	assert.Equal(t, "Introduction about marketing.", o.Intro)
	assert.False(t, o.Fetched())

	entries := logs.FilterMessage("summary lookup failed, using fallback").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "marketing", entries[0].ContextMap()["keyword"])
}

func TestFetchSingleAttemptByDefault(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	f := newTestFetcher(ts, nil)
	o := f.Fetch(context.Background(), "seo")
	assert.Equal(t, FailedIntro("seo"), o.Intro)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchRetriesWhenConfigured(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"extract":"ok"}`)
	}))
	defer ts.Close()

	f := newTestFetcher(ts, nil)
	f.MaxRetries = 2
	o := f.Fetch(context.Background(), "seo")
	assert.Equal(t, "ok", o.Intro)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchEscapesKeywordAndSetsUserAgent(t *testing.T) {
	var gotPath, gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, `{"extract":"x"}`)
	}))
	defer ts.Close()

	f := NewFetcher(types.OutlineConfig{BaseURL: ts.URL}, "ops@example.com", nil)
	f.Client = ts.Client()
	f.Fetch(context.Background(), "content marketing")

	assert.Equal(t, "/page/summary/content%20marketing", gotPath)
	assert.Equal(t, types.DefaultUserAgent+" (ops@example.com)", gotUA)
}

func TestFetchGroups(t *testing.T) {
	ts, calls := summaryServer(t, map[string]string{
		"seo": `{"extract":"Search engine optimization."}`,
		"ads": `{"extract":"Advertising."}`,
	})
	f := newTestFetcher(ts, nil)

	groups := []types.Group{
		{Index: 0, Keywords: []string{"seo", "unknown"}},
		{Index: 1, Keywords: []string{"ads"}},
	}
	fallbacks := f.FetchGroups(context.Background(), groups)

	assert.Equal(t, 1, fallbacks)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
	require.Len(t, groups[0].Outlines, 2)
	require.Len(t, groups[1].Outlines, 1)
	assert.Equal(t, "seo", groups[0].Outlines[0].Keyword)
	assert.Equal(t, FailedIntro("unknown"), groups[0].Outlines[1].Intro)
	assert.Equal(t, "Advertising.", groups[1].Outlines[0].Intro)
}

func TestNewFetcherDefaults(t *testing.T) {
	f := NewFetcher(types.OutlineConfig{}, "", nil)
	assert.Equal(t, types.DefaultOutlineBase, f.BaseURL)
	assert.Equal(t, types.DefaultUserAgent, f.UserAgent)
	assert.Zero(t, f.MaxRetries)
}
