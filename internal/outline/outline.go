// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package outline builds a writing outline per keyword. The intro is a
// one-paragraph summary fetched from the Wikipedia REST API; any lookup
// failure is absorbed into a deterministic fallback sentence and recorded
// on the outline's Source field.
package outline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/keyword-engine/internal/httputil"
	"github.com/pdiddy/keyword-engine/pkg/types"
)

// Fetcher looks up summaries one keyword at a time.
type Fetcher struct {
	Client     *http.Client
	BaseURL    string
	UserAgent  string
	MaxRetries int
	Logger     *zap.Logger
}

// NewFetcher builds a Fetcher from the outline config section. contact, when
// non-empty, is appended to the User-Agent as Wikimedia asks API clients to do.
func NewFetcher(cfg types.OutlineConfig, contact string, logger *zap.Logger) *Fetcher {
	base := cfg.BaseURL
	if base == "" {
		base = types.DefaultOutlineBase
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = types.DefaultUserAgent
	}
	if contact != "" {
		ua = fmt.Sprintf("%s (%s)", ua, contact)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		Client:     &http.Client{Timeout: cfg.Timeout},
		BaseURL:    strings.TrimRight(base, "/"),
		UserAgent:  ua,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger.Named("outline"),
	}
}

// summaryResponse is the subset of the page/summary payload we read.
type summaryResponse struct {
	Title   string  `json:"title"`
	Extract *string `json:"extract"`
}

// Fetch returns the outline for kw. It never fails: lookup errors become a
// fallback intro with Source set to SourceFallback.
func (f *Fetcher) Fetch(ctx context.Context, kw string) types.Outline {
	out := Scaffold(kw)

	summary, err := f.summary(ctx, kw)
	switch {
	case err != nil:
		f.logger().Warn("summary lookup failed, using fallback",
			zap.String("keyword", kw), zap.Error(err))
		out.Intro = FailedIntro(kw)
		out.Source = types.SourceFallback
	case summary == "":
		f.logger().Debug("summary missing, using fallback", zap.String("keyword", kw))
		out.Intro = MissingIntro(kw)
		out.Source = types.SourceFallback
	default:
		out.Intro = summary
		out.Source = types.SourceRemote
	}
	return out
}

// FetchGroups fills Outlines for every member of every group, sequentially,
// and returns the number of fallback intros used.
func (f *Fetcher) FetchGroups(ctx context.Context, groups []types.Group) int {
	fallbacks := 0
	for gi := range groups {
		outlines := make([]types.Outline, 0, len(groups[gi].Keywords))
		for _, kw := range groups[gi].Keywords {
			o := f.Fetch(ctx, kw)
			if !o.Fetched() {
				fallbacks++
			}
			outlines = append(outlines, o)
		}
		groups[gi].Outlines = outlines
	}
	return fallbacks
}

// summary performs the single GET. An empty string with a nil error means
// the page exists but its extract is absent, empty, or blank; all three get
// the missing-extract intro.
func (f *Fetcher) summary(ctx context.Context, kw string) (string, error) {
	reqURL := f.BaseURL + "/page/summary/" + url.PathEscape(kw)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := httputil.DoWithRetry(ctx, client, req, f.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("summary request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("summary API returned HTTP %d", resp.StatusCode)
	}

	var sr summaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("parsing summary response: %w", err)
	}
	if sr.Extract == nil {
		return "", nil
	}
	return strings.TrimSpace(*sr.Extract), nil
}

func (f *Fetcher) logger() *zap.Logger {
	if f.Logger == nil {
		return zap.NewNop()
	}
	return f.Logger
}
