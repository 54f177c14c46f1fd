// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/keyword-engine/pkg/types"
)

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(types.EmbeddingConfig{Provider: "word2vec"}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewTFIDF(t *testing.T) {
	e, err := New(types.EmbeddingConfig{Provider: types.ProviderTFIDF}, nil)
	require.NoError(t, err)
	assert.Equal(t, "tfidf", e.Name())
}

func TestNewTEIRequiresBaseURL(t *testing.T) {
	_, err := New(types.EmbeddingConfig{Provider: types.ProviderTEI}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

// --- TF-IDF ---

func TestTFIDFOneVectorPerText(t *testing.T) {
	e := NewTFIDF()
	texts := []string{"seo", "content marketing", "email marketing", "ads"}
	vecs, err := e.Embed(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vecs, len(texts))

	// Vocabulary: ads, content, email, marketing, seo.
	assert.Equal(t, 5, e.Dimension())
	for i, v := range vecs {
		assert.Len(t, v, 5)
		assert.InDelta(t, 1.0, l2(v), 1e-9, "vector %d should be unit length", i)
	}
}

func TestTFIDFSharedTermsAreCloser(t *testing.T) {
	e := NewTFIDF()
	vecs, err := e.Embed(context.Background(), []string{"content marketing", "email marketing", "seo"})
	require.NoError(t, err)

	near := dot(vecs[0], vecs[1])
	far := dot(vecs[0], vecs[2])
	assert.Greater(t, near, far)
	assert.Zero(t, far)
}

func TestTFIDFNoTokens(t *testing.T) {
	e := NewTFIDF()
	vecs, err := e.Embed(context.Background(), []string{"seo", "   "})
	require.NoError(t, err)
	assert.Zero(t, l2(vecs[1]))
}

func TestTFIDFEmptyInput(t *testing.T) {
	_, err := NewTFIDF().Embed(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestTFIDFCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewTFIDF().Embed(ctx, []string{"seo"})
	assert.ErrorIs(t, err, context.Canceled)
}

// --- TEI ---

func teiServer(t *testing.T, handler func(req teiRequest) (int, any)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/embed", r.URL.Path)
		var req teiRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		status, body := handler(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
}

func TestTEIEmbed(t *testing.T) {
	var gotAuth, gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		var req teiRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Truncate)
		out := make([][]float32, len(req.Inputs))
		for i := range req.Inputs {
			out[i] = []float32{float32(i), 1, 0}
		}
		json.NewEncoder(w).Encode(out)
	}))
	defer ts.Close()

	e, err := NewTEI(types.EmbeddingConfig{
		BaseURL:    ts.URL + "/",
		Model:      "bge",
		APIKey:     "secret",
		HTTPConfig: types.HTTPConfig{UserAgent: "keyword-engine/test"},
	}, ts.Client(), nil)
	require.NoError(t, err)

	vecs, err := e.Embed(context.Background(), []string{"seo", "ads"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 1, 0}, {1, 1, 0}}, vecs)
	assert.Equal(t, 3, e.Dimension())
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "keyword-engine/test", gotUA)
	assert.Equal(t, "tei:bge", e.Name())
}

func TestTEIErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, map[string]string{"error": "boom"}, ErrEmbeddingFailed},
		{"count mismatch", http.StatusOK, [][]float32{{1, 2}}, ErrEmbeddingFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := teiServer(t, func(teiRequest) (int, any) { return tt.status, tt.body })
			defer ts.Close()

			e, err := NewTEI(types.EmbeddingConfig{BaseURL: ts.URL}, ts.Client(), nil)
			require.NoError(t, err)
			_, err = e.Embed(context.Background(), []string{"a", "b"})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTEIBadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not json")
	}))
	defer ts.Close()

	e, err := NewTEI(types.EmbeddingConfig{BaseURL: ts.URL}, ts.Client(), nil)
	require.NoError(t, err)
	_, err = e.Embed(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
}

func TestTEIEmptyInput(t *testing.T) {
	e, err := NewTEI(types.EmbeddingConfig{BaseURL: "http://unused"}, nil, nil)
	require.NoError(t, err)
	_, err = e.Embed(context.Background(), []string{})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func l2(v []float64) float64 {
	return math.Sqrt(dot(v, v))
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
