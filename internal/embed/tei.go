// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/pdiddy/keyword-engine/internal/httputil"
	"github.com/pdiddy/keyword-engine/pkg/types"
)

// teiMaxRetries bounds retries when the TEI server answers 429.
const teiMaxRetries = 3

// TEI calls a HuggingFace text-embeddings-inference server.
type TEI struct {
	client    *http.Client
	baseURL   string
	model     string
	apiKey    string
	userAgent string
	logger    *zap.Logger
	dimension atomic.Int64
}

type teiRequest struct {
	Inputs   []string `json:"inputs"`
	Truncate bool     `json:"truncate"`
}

// NewTEI returns a TEI provider. cfg.BaseURL is required.
func NewTEI(cfg types.EmbeddingConfig, client *http.Client, logger *zap.Logger) (*TEI, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: tei provider requires base_url", ErrInvalidConfig)
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TEI{
		client:    client,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		model:     cfg.Model,
		apiKey:    cfg.APIKey,
		userAgent: cfg.UserAgent,
		logger:    logger.Named("tei"),
	}, nil
}

// Name returns the configured model name.
func (t *TEI) Name() string { return "tei:" + t.model }

// Dimension returns the width of the last response, or 0 before any call.
func (t *TEI) Dimension() int { return int(t.dimension.Load()) }

// Close is a no-op.
func (t *TEI) Close() error { return nil }

// Embed posts all texts in one request to {base}/embed.
func (t *TEI) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}

	body, err := json.Marshal(teiRequest{Inputs: texts, Truncate: true})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	resp, err := httputil.DoWithRetry(ctx, t.client, req, teiMaxRetries)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrEmbeddingFailed, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var raw [][]float32
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	vecs := toFloat64(raw)
	if err := checkCount(texts, vecs); err != nil {
		return nil, err
	}
	if len(vecs) > 0 {
		t.dimension.Store(int64(len(vecs[0])))
	}
	t.logger.Debug("embedded keywords", zap.Int("count", len(vecs)), zap.Int("dimension", t.Dimension()))
	return vecs, nil
}
