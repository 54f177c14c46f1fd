// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build !cgo

package embed

import (
	"context"
	"errors"

	"github.com/pdiddy/keyword-engine/pkg/types"
)

// ErrFastEmbedNotAvailable is returned when the binary was built without cgo.
var ErrFastEmbedNotAvailable = errors.New("fastembed: not available (built without cgo; use the tei or tfidf provider)")

// FastEmbed is unavailable without cgo.
type FastEmbed struct{}

// NewFastEmbed always fails without cgo.
func NewFastEmbed(types.EmbeddingConfig) (*FastEmbed, error) {
	return nil, ErrFastEmbedNotAvailable
}

func (*FastEmbed) Name() string   { return "fastembed" }
func (*FastEmbed) Dimension() int { return 0 }
func (*FastEmbed) Close() error   { return nil }

func (*FastEmbed) Embed(context.Context, []string) ([][]float64, error) {
	return nil, ErrFastEmbedNotAvailable
}
