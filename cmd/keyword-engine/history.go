// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/keyword-engine/internal/archive"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List reports recorded in the run archive",
	Long: `History lists the most recent runs recorded in the SQLite archive
(archive.path, default keyword-engine.db). Runs are recorded when analyze or
ui is started with --archive or archive.enabled is set.`,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one archived run with its groups",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.PersistentFlags().String("db", "", "archive database path")
	historyCmd.PersistentFlags().Bool("json", false, "output as JSON")
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")

	bindFlag(historyCmd, "archive.path", "db")
	bindFlag(historyShowCmd, "archive.path", "db")

	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := archive.Open(cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(out, runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No archived runs.")
		return nil
	}

	fmt.Fprintf(out, "%-5s  %-20s  %-8s  %-30s  %s\n", "ID", "Created", "Format", "Path", "Keywords")
	fmt.Fprintln(out, strings.Repeat("-", 100))
	for _, r := range runs {
		fmt.Fprintf(out, "%-5d  %-20s  %-8s  %-30s  %s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Format,
			truncate(r.Path, 30), truncate(strings.Join(r.Cleaned, ", "), 40))
	}
	fmt.Fprintf(out, "\n%d runs\n", len(runs))
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q", args[0])
	}

	store, err := archive.Open(cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(cmd.Context(), id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(out, run)
	}
	fmt.Fprintf(out, "Run %d: %s\n", run.ID, run.Title)
	fmt.Fprintf(out, "Created: %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Report: %s (%s)\n", run.Path, run.Format)
	fmt.Fprintf(out, "Input Keywords: %s\n", strings.Join(run.Keywords, "; "))
	fmt.Fprintf(out, "Cleaned Keywords: %s\n", strings.Join(run.Cleaned, "; "))
	for _, g := range run.Groups {
		fmt.Fprintf(out, "\nGroup %d: %s\n", g.Index+1, strings.Join(g.Keywords, ", "))
		fmt.Fprintf(out, "  Post Idea: %s\n", g.PostIdea)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
