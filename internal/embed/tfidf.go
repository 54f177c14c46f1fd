// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync/atomic"
)

// TFIDF is an offline vectorizer fitted on the texts passed to each Embed
// call. The vocabulary is every distinct token across the batch, so the
// dimension varies per call.
type TFIDF struct {
	tokenPattern *regexp.Regexp
	dimension    atomic.Int64
}

// NewTFIDF returns an unfitted TF-IDF vectorizer.
func NewTFIDF() *TFIDF {
	return &TFIDF{tokenPattern: regexp.MustCompile(`[\p{L}\p{N}_]+`)}
}

// Name returns the provider identifier.
func (e *TFIDF) Name() string { return "tfidf" }

// Dimension returns the vocabulary size of the last Embed call.
func (e *TFIDF) Dimension() int { return int(e.dimension.Load()) }

// Close is a no-op.
func (e *TFIDF) Close() error { return nil }

// Embed fits the vocabulary on texts and returns L2-normalized TF-IDF
// vectors with smoothed IDF. Texts without tokens map to the zero vector.
func (e *TFIDF) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	docs := make([][]string, len(texts))
	df := make(map[string]int)
	for i, text := range texts {
		docs[i] = e.tokenPattern.FindAllString(strings.ToLower(text), -1)
		seen := make(map[string]struct{}, len(docs[i]))
		for _, tok := range docs[i] {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(texts))
	for i, term := range terms {
		vocab[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	e.dimension.Store(int64(len(terms)))

	vecs := make([][]float64, len(texts))
	for i, toks := range docs {
		vec := make([]float64, len(terms))
		for _, tok := range toks {
			vec[vocab[tok]]++
		}
		var norm float64
		for j := range vec {
			if vec[j] == 0 {
				continue
			}
			vec[j] = vec[j] / float64(len(toks)) * idf[j]
			norm += vec[j] * vec[j]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range vec {
				vec[j] /= norm
			}
		}
		vecs[i] = vec
	}
	return vecs, nil
}
