// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "keyword-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// EmbeddingProvider selects the embedding backend.
type EmbeddingProvider string

const (
	ProviderFastEmbed EmbeddingProvider = "fastembed"
	ProviderTEI       EmbeddingProvider = "tei"
	ProviderTFIDF     EmbeddingProvider = "tfidf"
)

// EmbeddingConfig holds settings for the embedding stage.
type EmbeddingConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Provider is fastembed, tei, or tfidf.
	Provider EmbeddingProvider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the sentence-embedding model name.
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// CacheDir is where fastembed keeps downloaded ONNX models.
	CacheDir string `json:"cache_dir" yaml:"cache_dir" mapstructure:"cache_dir"`

	// MaxLength is the maximum token length fed to the model (fastembed only).
	MaxLength int `json:"max_length" yaml:"max_length" mapstructure:"max_length"`

	// BaseURL is the text-embeddings-inference server (tei only).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// APIKey is an optional bearer token for the TEI server.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// ClusterConfig holds settings for the grouping stage.
type ClusterConfig struct {
	// MaxGroups caps the number of groups (default 5).
	MaxGroups int `json:"max_groups" yaml:"max_groups" mapstructure:"max_groups"`

	// Seed fixes k-means++ seeding so runs are reproducible (default 0).
	Seed int64 `json:"seed" yaml:"seed" mapstructure:"seed"`

	// MaxIterations bounds Lloyd iterations (default 300).
	MaxIterations int `json:"max_iterations" yaml:"max_iterations" mapstructure:"max_iterations"`
}

// OutlineConfig holds settings for the outline fetch stage.
type OutlineConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the REST API root; the summary path is appended to it.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// MaxRetries is the number of retries on HTTP 429. Zero means a single attempt.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// ReportFormat selects the report output format.
type ReportFormat string

const (
	FormatPDF      ReportFormat = "pdf"
	FormatMarkdown ReportFormat = "markdown"
	FormatJSON     ReportFormat = "json"
	FormatYAML     ReportFormat = "yaml"
)

// ReportConfig holds settings for the report stage.
type ReportConfig struct {
	// Path is the output file. It is overwritten on every write.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// Format is pdf, markdown, json, or yaml. Empty infers it from the
	// Path extension.
	Format ReportFormat `json:"format" yaml:"format" mapstructure:"format"`

	// Title is the heading written at the top of the report.
	Title string `json:"title" yaml:"title" mapstructure:"title"`

	// Font is an optional TrueType font for PDF output. The bundled DejaVu
	// Sans covers Latin, Greek, and Cyrillic; scripts such as CJK need a
	// font that covers them (e.g. Noto Sans CJK).
	Font string `json:"font,omitempty" yaml:"font,omitempty" mapstructure:"font"`
}

// ArchiveConfig holds settings for the optional SQLite run archive.
type ArchiveConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" yaml:"path" mapstructure:"path"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	// Level is debug, info, warn, or error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is console or json.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all stage configurations.
type Config struct {
	Embedding EmbeddingConfig `json:"embedding" yaml:"embedding" mapstructure:"embedding"`
	Cluster   ClusterConfig   `json:"cluster" yaml:"cluster" mapstructure:"cluster"`
	Outline   OutlineConfig   `json:"outline" yaml:"outline" mapstructure:"outline"`
	Report    ReportConfig    `json:"report" yaml:"report" mapstructure:"report"`
	Archive   ArchiveConfig   `json:"archive" yaml:"archive" mapstructure:"archive"`
	Log       LogConfig       `json:"log" yaml:"log" mapstructure:"log"`
}

const (
	DefaultUserAgent   = "keyword-engine/0.1"
	DefaultModel       = "sentence-transformers/all-MiniLM-L6-v2"
	DefaultOutlineBase = "https://en.wikipedia.org/api/rest_v1"
	DefaultReportPath  = "keyword_report.pdf"
	DefaultReportTitle = "Keyword Research Report"
	DefaultMaxGroups   = 5
)

// DefaultConfig returns the configuration used when no file, env var, or
// flag overrides a value.
func DefaultConfig() Config {
	return Config{
		Embedding: EmbeddingConfig{
			HTTPConfig: HTTPConfig{Timeout: 30 * time.Second, UserAgent: DefaultUserAgent},
			Provider:   ProviderFastEmbed,
			Model:      DefaultModel,
			CacheDir:   "local_cache",
			MaxLength:  512,
		},
		Cluster: ClusterConfig{
			MaxGroups:     DefaultMaxGroups,
			Seed:          0,
			MaxIterations: 300,
		},
		Outline: OutlineConfig{
			HTTPConfig: HTTPConfig{Timeout: 10 * time.Second, UserAgent: DefaultUserAgent},
			BaseURL:    DefaultOutlineBase,
		},
		Report: ReportConfig{
			Path:  DefaultReportPath,
			Title: DefaultReportTitle,
		},
		Archive: ArchiveConfig{
			Path: "keyword-engine.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
