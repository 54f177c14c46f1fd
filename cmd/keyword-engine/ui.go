// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/keyword-engine/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive keyword research screen",
	Long: `UI opens a terminal screen with three input modes (Manual Entry, Upload CSV,
Paste Keywords). Press tab to switch modes, ctrl+r to analyze, ctrl+s to
save the report, and esc to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, cleanup, err := newEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		return tui.Run(cmd.Context(), engine, tui.Options{
			ReportPath: cfg.Report.Path,
			Format:     cfg.Report.Format,
		})
	},
}

func init() {
	uiCmd.Flags().StringP("output", "o", "", "report path (default keyword_report.pdf)")
	uiCmd.Flags().String("font", "", "TrueType font for PDF reports (for scripts outside Latin, Greek, Cyrillic)")
	uiCmd.Flags().String("format", "", "report format: pdf, markdown, json, yaml")
	uiCmd.Flags().String("provider", "", "embedding provider: fastembed, tei, tfidf")
	uiCmd.Flags().Bool("archive", false, "record saved reports in the SQLite archive")

	bindFlag(uiCmd, "report.path", "output")
	bindFlag(uiCmd, "report.format", "format")
	bindFlag(uiCmd, "report.font", "font")
	bindFlag(uiCmd, "embedding.provider", "provider")
	bindFlag(uiCmd, "archive.enabled", "archive")

	rootCmd.AddCommand(uiCmd)
}
