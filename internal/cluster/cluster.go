// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cluster partitions keyword embeddings into a small number of
// groups with seeded k-means.
package cluster

import (
	"errors"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/pdiddy/keyword-engine/pkg/types"
)

const defaultMaxIterations = 300

// ErrShapeMismatch is returned when keywords and vectors disagree in count
// or vectors disagree in width.
var ErrShapeMismatch = errors.New("keywords and vectors do not line up")

// Options controls grouping.
type Options struct {
	MaxGroups     int
	Seed          int64
	MaxIterations int
}

// OptionsFromConfig converts the cluster config section.
func OptionsFromConfig(cfg types.ClusterConfig) Options {
	return Options{MaxGroups: cfg.MaxGroups, Seed: cfg.Seed, MaxIterations: cfg.MaxIterations}
}

// GroupCount returns the target number of groups for n cleaned keywords:
// min(maxGroups, n/2) when n > 2, otherwise 1.
func GroupCount(n, maxGroups int) int {
	if maxGroups <= 0 {
		maxGroups = types.DefaultMaxGroups
	}
	if n <= 2 {
		return 1
	}
	return min(maxGroups, n/2)
}

// Group assigns every keyword to exactly one group. With a target count of
// one or less all keywords land in group 0 and k-means is not run.
// Members keep their input order inside each group.
func Group(keywords []string, vectors [][]float64, opts Options) ([]types.Group, error) {
	if len(keywords) != len(vectors) {
		return nil, fmt.Errorf("%w: %d keywords, %d vectors", ErrShapeMismatch, len(keywords), len(vectors))
	}
	if len(keywords) == 0 {
		return nil, nil
	}

	k := GroupCount(len(keywords), opts.MaxGroups)
	if k <= 1 {
		return []types.Group{{Index: 0, Keywords: append([]string(nil), keywords...)}}, nil
	}

	data, err := toDense(vectors)
	if err != nil {
		return nil, err
	}
	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}
	labels := KMeans(data, k, rand.New(rand.NewSource(opts.Seed)), maxIter)

	groups := make([]types.Group, k)
	for i := range groups {
		groups[i].Index = i
	}
	for i, label := range labels {
		groups[label].Keywords = append(groups[label].Keywords, keywords[i])
	}
	return groups, nil
}

// toDense packs vectors into a row-major matrix. Zero-width vectors are
// widened to one zero column so every point sits at the origin.
func toDense(vectors [][]float64) (*mat.Dense, error) {
	d := len(vectors[0])
	for i, v := range vectors {
		if len(v) != d {
			return nil, fmt.Errorf("%w: vector %d has width %d, want %d", ErrShapeMismatch, i, len(v), d)
		}
	}
	if d == 0 {
		return mat.NewDense(len(vectors), 1, nil), nil
	}
	data := mat.NewDense(len(vectors), d, nil)
	for i, v := range vectors {
		data.SetRow(i, v)
	}
	return data, nil
}
