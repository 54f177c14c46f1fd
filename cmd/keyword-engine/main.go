// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the keyword-engine CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/keyword-engine/internal/logging"
	"github.com/pdiddy/keyword-engine/internal/secrets"
	"github.com/pdiddy/keyword-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the effective configuration after file, env, and flag overrides.
	cfg = types.DefaultConfig()

	// logger is built from cfg.Log before any command runs.
	logger = zap.NewNop()

	// loadedSecrets holds API keys loaded from .secrets/ at startup.
	loadedSecrets = secrets.Store{}
)

// flagBinding ties a command flag to a config key.
type flagBinding struct {
	key  string
	flag string
}

var flagBindings = map[*cobra.Command][]flagBinding{}

// bindFlag registers flag as the override for key. The binding is applied
// only when cmd is the command being executed, so several commands can
// expose the same key.
func bindFlag(cmd *cobra.Command, key, flag string) {
	flagBindings[cmd] = append(flagBindings[cmd], flagBinding{key: key, flag: flag})
}

// rootCmd is the base command for the keyword-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "keyword-engine",
	Short: "Group keywords by meaning and draft content ideas",
	Long: `keyword-engine turns a list of SEO keywords into content ideas. Keywords
are normalized, embedded with a sentence model, grouped with k-means, and each
group gets a comparison post idea plus a per-keyword outline seeded from a
Wikipedia summary. The result is written as a PDF (or Markdown, JSON, YAML)
report.

Use analyze for one-shot runs, ui for the interactive screen, and history to
inspect archived runs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		for _, b := range flagBindings[cmd] {
			if err := viper.BindPFlag(b.key, cmd.Flags().Lookup(b.flag)); err != nil {
				return fmt.Errorf("binding --%s: %w", b.flag, err)
			}
		}
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("decoding config: %w", err)
		}

		l, err := logging.New(cfg.Log)
		if err != nil {
			return err
		}
		logger = l
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", zap.String("path", used))
		}

		s, err := secrets.Load(secrets.DefaultDir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./keyword-engine.yaml or ~/.config/keyword-engine/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: console or json")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("keyword-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "keyword-engine"))
		}
	}

	setDefaults(types.DefaultConfig())

	viper.SetEnvPrefix("KEYWORD_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintln(os.Stderr, "Error reading config file:", err)
		}
	}
}

// setDefaults registers every config key so environment variables apply
// even when no config file sets them.
func setDefaults(d types.Config) {
	viper.SetDefault("embedding.provider", string(d.Embedding.Provider))
	viper.SetDefault("embedding.model", d.Embedding.Model)
	viper.SetDefault("embedding.cache_dir", d.Embedding.CacheDir)
	viper.SetDefault("embedding.max_length", d.Embedding.MaxLength)
	viper.SetDefault("embedding.base_url", d.Embedding.BaseURL)
	viper.SetDefault("embedding.api_key", d.Embedding.APIKey)
	viper.SetDefault("embedding.timeout", d.Embedding.Timeout)
	viper.SetDefault("embedding.user_agent", d.Embedding.UserAgent)

	viper.SetDefault("cluster.max_groups", d.Cluster.MaxGroups)
	viper.SetDefault("cluster.seed", d.Cluster.Seed)
	viper.SetDefault("cluster.max_iterations", d.Cluster.MaxIterations)

	viper.SetDefault("outline.base_url", d.Outline.BaseURL)
	viper.SetDefault("outline.max_retries", d.Outline.MaxRetries)
	viper.SetDefault("outline.timeout", d.Outline.Timeout)
	viper.SetDefault("outline.user_agent", d.Outline.UserAgent)

	viper.SetDefault("report.path", d.Report.Path)
	viper.SetDefault("report.format", string(d.Report.Format))
	viper.SetDefault("report.title", d.Report.Title)
	viper.SetDefault("report.font", d.Report.Font)

	viper.SetDefault("archive.enabled", d.Archive.Enabled)
	viper.SetDefault("archive.path", d.Archive.Path)

	viper.SetDefault("log.level", d.Log.Level)
	viper.SetDefault("log.format", d.Log.Format)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
