// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"sync"
)

// Lazy defers building an Embedder until the first Embed call, so commands
// that end early never load a model. It is safe for concurrent use; build
// runs at most once.
type Lazy struct {
	build func() (Embedder, error)

	mu    sync.Mutex
	built bool
	e     Embedder
	err   error
}

// NewLazy wraps build.
func NewLazy(build func() (Embedder, error)) *Lazy {
	return &Lazy{build: build}
}

func (l *Lazy) get() (Embedder, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.built {
		l.e, l.err = l.build()
		l.built = true
	}
	return l.e, l.err
}

// current returns the built provider, or nil before the first Embed.
func (l *Lazy) current() Embedder {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.e
}

// Name returns the wrapped provider's name, or "lazy" before it is built.
func (l *Lazy) Name() string {
	if e := l.current(); e != nil {
		return e.Name()
	}
	return "lazy"
}

// Dimension returns 0 until the provider is built.
func (l *Lazy) Dimension() int {
	if e := l.current(); e != nil {
		return e.Dimension()
	}
	return 0
}

// Embed builds the provider if needed and delegates.
func (l *Lazy) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	e, err := l.get()
	if err != nil {
		return nil, err
	}
	return e.Embed(ctx, texts)
}

// Close closes the provider if it was built.
func (l *Lazy) Close() error {
	e := l.current()
	if e == nil {
		return nil
	}
	return e.Close()
}
