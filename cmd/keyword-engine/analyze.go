// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/keyword-engine/internal/input"
	"github.com/pdiddy/keyword-engine/internal/session"
	"github.com/pdiddy/keyword-engine/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Group keywords and write a content report",
	Long: `Analyze reads keywords from exactly one source, groups them by meaning,
and writes the report.

Sources:
  --keyword/-k   up to four keywords typed on the command line
  --csv          a CSV file; keywords come from the first column
  --paste-file   a file with one keyword per line ("-" reads stdin)

With no usable keyword the command prints a reminder and exits cleanly.`,
	RunE: runAnalyze,
}

// addSourceFlags registers the input source flags read by sourceFromFlags.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("keyword", "k", nil, "keyword to analyze (repeatable, up to 4)")
	cmd.Flags().String("csv", "", "CSV file whose first column holds keywords")
	cmd.Flags().Bool("no-header", false, "treat the first CSV row as data")
	cmd.Flags().String("delimiter", "", "CSV field delimiter (default ',')")
	cmd.Flags().String("paste-file", "", `file with one keyword per line ("-" for stdin)`)
}

func init() {
	addSourceFlags(analyzeCmd)
	analyzeCmd.Flags().StringP("output", "o", "", "report path (default keyword_report.pdf)")
	analyzeCmd.Flags().String("font", "", "TrueType font for PDF reports (for scripts outside Latin, Greek, Cyrillic)")
	analyzeCmd.Flags().String("format", "", "report format: pdf, markdown, json, yaml (default from extension)")
	analyzeCmd.Flags().String("title", "", "report title")
	analyzeCmd.Flags().String("provider", "", "embedding provider: fastembed, tei, tfidf")
	analyzeCmd.Flags().Int("max-groups", 0, "upper bound on the number of groups")
	analyzeCmd.Flags().Int64("seed", 0, "k-means seed")
	analyzeCmd.Flags().Bool("archive", false, "record the run in the SQLite archive")
	analyzeCmd.Flags().Bool("no-report", false, "print results without writing a report file")
	analyzeCmd.Flags().Bool("json", false, "print results as JSON")

	bindFlag(analyzeCmd, "report.path", "output")
	bindFlag(analyzeCmd, "report.format", "format")
	bindFlag(analyzeCmd, "report.font", "font")
	bindFlag(analyzeCmd, "report.title", "title")
	bindFlag(analyzeCmd, "embedding.provider", "provider")
	bindFlag(analyzeCmd, "cluster.max_groups", "max-groups")
	bindFlag(analyzeCmd, "cluster.seed", "seed")
	bindFlag(analyzeCmd, "archive.enabled", "archive")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	src, closeSrc, err := sourceFromFlags(cmd)
	if err != nil {
		return err
	}
	defer closeSrc()

	engine, cleanup, err := newEngine()
	if err != nil {
		return err
	}
	defer cleanup()

	out := cmd.OutOrStdout()
	st, err := engine.AnalyzeSource(cmd.Context(), src)
	if errors.Is(err, session.ErrNoKeywords) {
		fmt.Fprintln(out, session.NoKeywordsMessage)
		return nil
	}
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(st.Report); err != nil {
			return err
		}
	} else {
		printState(out, st)
	}

	if noReport, _ := cmd.Flags().GetBool("no-report"); noReport {
		return nil
	}
	if err := engine.WriteReport(cmd.Context(), st, cfg.Report.Path, cfg.Report.Format); err != nil {
		return err
	}
	status := out
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		status = cmd.ErrOrStderr()
	}
	fmt.Fprintf(status, "Report saved successfully as %s\n", cfg.Report.Path)
	return nil
}

// sourceFromFlags builds the input source from whichever flag is set. It is
// an error to set more than one.
func sourceFromFlags(cmd *cobra.Command) (input.Source, func(), error) {
	keywords, _ := cmd.Flags().GetStringArray("keyword")
	csvPath, _ := cmd.Flags().GetString("csv")
	pastePath, _ := cmd.Flags().GetString("paste-file")
	noop := func() {}

	set := 0
	for _, on := range []bool{len(keywords) > 0, csvPath != "", pastePath != ""} {
		if on {
			set++
		}
	}
	if set > 1 {
		return input.Source{}, noop, fmt.Errorf("use only one of --keyword, --csv, or --paste-file")
	}

	switch {
	case csvPath != "":
		f, err := os.Open(csvPath)
		if err != nil {
			return input.Source{}, noop, fmt.Errorf("opening csv: %w", err)
		}
		noHeader, _ := cmd.Flags().GetBool("no-header")
		delim, _ := cmd.Flags().GetString("delimiter")
		opts := input.CSVOptions{NoHeader: noHeader}
		if delim != "" {
			r := []rune(delim)
			if len(r) != 1 {
				f.Close()
				return input.Source{}, noop, fmt.Errorf("--delimiter must be a single character, got %q", delim)
			}
			opts.Comma = r[0]
		}
		return input.Source{Mode: types.ModeCSV, CSV: f, CSVOpt: opts}, func() { f.Close() }, nil

	case pastePath != "":
		var r io.Reader = cmd.InOrStdin()
		if pastePath != "-" {
			f, err := os.Open(pastePath)
			if err != nil {
				return input.Source{}, noop, fmt.Errorf("opening paste file: %w", err)
			}
			defer f.Close()
			r = f
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return input.Source{}, noop, fmt.Errorf("reading pasted keywords: %w", err)
		}
		return input.Source{Mode: types.ModePaste, Text: string(data)}, noop, nil

	default:
		return input.Source{Mode: types.ModeManual, Fields: keywords}, noop, nil
	}
}

func printState(w io.Writer, st *session.State) {
	fmt.Fprintf(w, "Cleaned Keywords: %s\n", strings.Join(st.Cleaned, ", "))
	for _, g := range st.Groups {
		fmt.Fprintf(w, "\nGroup %d: %s\n", g.Index+1, strings.Join(g.Keywords, ", "))
		fmt.Fprintf(w, "  Post Idea: %s\n", g.PostIdea)
		for _, o := range g.Outlines {
			fmt.Fprintf(w, "  Outline for %s:\n", o.Keyword)
			fmt.Fprintf(w, "    Intro: %s\n", o.Intro)
			fmt.Fprintf(w, "    Sections: %s\n", strings.Join(o.Sections, "; "))
			fmt.Fprintf(w, "    Conclusion: %s\n", o.Conclusion)
		}
	}
	if st.Fallbacks > 0 {
		fmt.Fprintf(w, "\n%d outline(s) used a fallback intro\n", st.Fallbacks)
	}
}
