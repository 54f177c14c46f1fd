// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ProviderFastEmbed, cfg.Embedding.Provider)
	assert.Equal(t, DefaultModel, cfg.Embedding.Model)
	assert.Equal(t, DefaultMaxGroups, cfg.Cluster.MaxGroups)
	assert.Equal(t, DefaultOutlineBase, cfg.Outline.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Outline.Timeout)
	assert.Zero(t, cfg.Outline.MaxRetries)
	assert.Equal(t, DefaultReportPath, cfg.Report.Path)
	assert.Empty(t, cfg.Report.Format, "format is inferred from the path by default")
	assert.False(t, cfg.Archive.Enabled)
}

func TestInputModeLabel(t *testing.T) {
	assert.Equal(t, "Manual Entry", ModeManual.Label())
	assert.Equal(t, "Upload CSV", ModeCSV.Label())
	assert.Equal(t, "Paste Keywords", ModePaste.Label())
	assert.Equal(t, "voice", InputMode("voice").Label())
}
