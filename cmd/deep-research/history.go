// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/deep-research/internal/archive"
	"github.com/pdiddy/deep-research/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse archived research sessions",
	Long: `History lists, shows, and searches sessions saved with research --save.
The archive is a local SQLite database; a running session never reads it.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived sessions, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	sessions, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSessions(sessions, jsonOutput)
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Print an archived session report",
	Long: `Show prints the full report of one archived session, along with the
session metadata. Any unambiguous prefix of the session ID is accepted.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	sess, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	status := "budget exhausted"
	if sess.Converged {
		status = "converged"
	}
	fmt.Printf("Session:  %s\nTopic:    %s\nDate:     %s\nOutcome:  %s after %d cycle(s), %d citation(s)\n\n%s\n",
		sess.ID, sess.Topic, sess.CreatedAt.Local().Format("2006-01-02 15:04"),
		status, sess.Cycles, sess.Citations, sess.Report)
	return nil
}

// --- search subcommand ---

var historySearchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Full-text search over archived topics and reports",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHistorySearch,
}

func runHistorySearch(cmd *cobra.Command, args []string) error {
	store, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	sessions, err := store.Search(context.Background(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSessions(sessions, jsonOutput)
}

// --- shared helpers ---

func openArchive(cmd *cobra.Command) (*archive.Store, error) {
	path, _ := cmd.Flags().GetString("archive")
	if path == "" {
		path = viper.GetString("archive.path")
	}
	return archive.NewStore(types.ArchiveConfig{Path: path})
}

func formatSessions(sessions []archive.Session, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-10s  %-16s  %-6s  %-9s  %s\n",
		"ID", "Date", "Cycles", "Citations", "Topic")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 92))

	for _, sess := range sessions {
		id := sess.ID
		if len(id) > 8 {
			id = id[:8]
		}
		topic := sess.Topic
		if len(topic) > 44 {
			topic = topic[:41] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-10s  %-16s  %-6d  %-9d  %s\n",
			id, sess.CreatedAt.Local().Format("2006-01-02 15:04"), sess.Cycles, sess.Citations, topic)
	}

	fmt.Fprintf(os.Stdout, "\n%d session(s)\n", len(sessions))
	return nil
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	historyCmd.PersistentFlags().String("archive", "", "archive database path (default from config)")
	historyCmd.PersistentFlags().Int("limit", 0, "maximum sessions to return (0 = default)")

	historyListCmd.Flags().Bool("json", false, "output sessions as JSON")
	historySearchCmd.Flags().Bool("json", false, "output sessions as JSON")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historySearchCmd)

	rootCmd.AddCommand(historyCmd)
}
