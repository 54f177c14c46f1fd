// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file is one secret: the filename is the key and the trimmed contents
// are the value.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Known key files.
const (
	// TEIAPIKey is the bearer token for a text-embeddings-inference server.
	TEIAPIKey = "tei-api-key"

	// WikipediaContact is an email or URL appended to the User-Agent of
	// summary lookups.
	WikipediaContact = "wikipedia-contact"
)

// DefaultDir is where the CLI looks for secrets.
const DefaultDir = ".secrets/"

// Store holds loaded secrets.
type Store map[string]string

// Get returns the secret for key, or "" when absent.
func (s Store) Get(key string) string { return s[key] }

// Or returns override when it is non-empty, otherwise the stored secret.
func (s Store) Or(key, override string) string {
	if override != "" {
		return override
	}
	return s[key]
}

// Load reads all regular, non-hidden files in dir. A missing directory is
// not an error. Unreadable files are logged and skipped.
func Load(dir string, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Store{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Store)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}
	return s, nil
}
