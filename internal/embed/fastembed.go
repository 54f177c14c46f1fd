// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build cgo

package embed

import (
	"context"
	"fmt"
	"sync"

	fastembed "github.com/anush008/fastembed-go"

	"github.com/pdiddy/keyword-engine/pkg/types"
)

// modelMapping maps friendly model names to fastembed model constants.
var modelMapping = map[string]fastembed.EmbeddingModel{
	"sentence-transformers/all-MiniLM-L6-v2": fastembed.AllMiniLML6V2,
	"all-MiniLM-L6-v2":                       fastembed.AllMiniLML6V2,
	"BAAI/bge-small-en-v1.5":                 fastembed.BGESmallENV15,
	"BAAI/bge-base-en-v1.5":                  fastembed.BGEBaseENV15,
}

var modelDimensions = map[fastembed.EmbeddingModel]int{
	fastembed.AllMiniLML6V2: 384,
	fastembed.BGESmallENV15: 384,
	fastembed.BGEBaseENV15:  768,
}

const batchSize = 256

// FastEmbed runs a local ONNX sentence-embedding model.
type FastEmbed struct {
	mu        sync.Mutex
	model     *fastembed.FlagEmbedding
	name      string
	dimension int
}

// NewFastEmbed loads the configured model, downloading it into
// cfg.CacheDir on first use.
func NewFastEmbed(cfg types.EmbeddingConfig) (*FastEmbed, error) {
	name := cfg.Model
	if name == "" {
		name = types.DefaultModel
	}
	model, ok := modelMapping[name]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported model %q", ErrInvalidConfig, name)
	}

	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = "local_cache"
	}
	maxLength := cfg.MaxLength
	if maxLength == 0 {
		maxLength = 512
	}
	showProgress := false

	fe, err := fastembed.NewFlagEmbedding(&fastembed.InitOptions{
		Model:                model,
		CacheDir:             cacheDir,
		MaxLength:            maxLength,
		ShowDownloadProgress: &showProgress,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing fastembed: %w", err)
	}
	return &FastEmbed{model: fe, name: name, dimension: modelDimensions[model]}, nil
}

// Name returns the model name.
func (f *FastEmbed) Name() string { return f.name }

// Dimension returns the embedding width of the model.
func (f *FastEmbed) Dimension() int { return f.dimension }

// Embed encodes texts without any query/passage prefix.
func (f *FastEmbed) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := f.model.Embed(texts, batchSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	vecs := toFloat64(raw)
	if err := checkCount(texts, vecs); err != nil {
		return nil, err
	}
	return vecs, nil
}

// Close releases the ONNX session.
func (f *FastEmbed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.model == nil {
		return nil
	}
	err := f.model.Destroy()
	f.model = nil
	return err
}
