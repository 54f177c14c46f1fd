// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embed maps cleaned keywords to fixed-length vectors. The default
// provider runs a local sentence-transformer through ONNX; a remote
// text-embeddings-inference server and an offline TF-IDF vectorizer are
// also available.
package embed

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/keyword-engine/pkg/types"
)

var (
	// ErrEmptyInput indicates empty or nil input texts.
	ErrEmptyInput = errors.New("empty or nil input texts")

	// ErrInvalidConfig indicates invalid provider configuration.
	ErrInvalidConfig = errors.New("invalid embedding configuration")

	// ErrEmbeddingFailed indicates embedding generation failure.
	ErrEmbeddingFailed = errors.New("embedding generation failed")
)

// Embedder converts texts into vectors. Implementations return exactly one
// vector per input text, in input order.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, texts []string) ([][]float64, error)
	Close() error
}

// New builds the provider selected by cfg.Provider.
func New(cfg types.EmbeddingConfig, logger *zap.Logger) (Embedder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Provider {
	case types.ProviderFastEmbed, "":
		fe, err := NewFastEmbed(cfg)
		if err != nil {
			return nil, err
		}
		return fe, nil
	case types.ProviderTEI:
		tei, err := NewTEI(cfg, &http.Client{Timeout: cfg.Timeout}, logger)
		if err != nil {
			return nil, err
		}
		return tei, nil
	case types.ProviderTFIDF:
		return NewTFIDF(), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, cfg.Provider)
	}
}

// checkCount verifies a provider returned one vector per text.
func checkCount(texts []string, vecs [][]float64) error {
	if len(vecs) != len(texts) {
		return fmt.Errorf("%w: got %d vectors for %d texts", ErrEmbeddingFailed, len(vecs), len(texts))
	}
	return nil
}

func toFloat64(in [][]float32) [][]float64 {
	out := make([][]float64, len(in))
	for i, v := range in {
		row := make([]float64, len(v))
		for j, x := range v {
			row[j] = float64(x)
		}
		out[i] = row
	}
	return out
}
