// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/pdiddy/keyword-engine/internal/archive"
	"github.com/pdiddy/keyword-engine/internal/cluster"
	"github.com/pdiddy/keyword-engine/internal/embed"
	"github.com/pdiddy/keyword-engine/internal/outline"
	"github.com/pdiddy/keyword-engine/internal/report"
	"github.com/pdiddy/keyword-engine/internal/secrets"
	"github.com/pdiddy/keyword-engine/internal/session"
)

// newEngine wires the session engine from cfg. The embedding model is
// loaded on first use so runs without keywords never touch it. The returned
// cleanup closes the embedder and the archive.
func newEngine() (*session.Engine, func(), error) {
	embCfg := cfg.Embedding
	embCfg.APIKey = loadedSecrets.Or(secrets.TEIAPIKey, embCfg.APIKey)
	emb := embed.NewLazy(func() (embed.Embedder, error) {
		return embed.New(embCfg, logger)
	})

	e := &session.Engine{
		Embedder: emb,
		Fetcher:  outline.NewFetcher(cfg.Outline, loadedSecrets.Get(secrets.WikipediaContact), logger),
		Cluster:  cluster.OptionsFromConfig(cfg.Cluster),
		Title:    cfg.Report.Title,
		Logger:   logger.Named("session"),
	}

	if cfg.Report.Font != "" {
		ttf, err := report.LoadFont(cfg.Report.Font)
		if err != nil {
			emb.Close()
			return nil, nil, err
		}
		e.PDFFont = ttf
	}

	var store *archive.Store
	if cfg.Archive.Enabled {
		s, err := archive.Open(cfg.Archive)
		if err != nil {
			emb.Close()
			return nil, nil, err
		}
		store = s
		e.Recorder = s
	}

	cleanup := func() {
		emb.Close()
		if store != nil {
			store.Close()
		}
	}
	return e, cleanup, nil
}
