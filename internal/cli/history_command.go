package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"basso.audio/internal/tracking"
)

func newHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show playback history",
		Long:  "List recent playbacks recorded in the history database, most recent first.",
		Args:  cobra.NoArgs,
		RunE:  runHistoryE,
	}
	cmd.Flags().Int("days", 0, "Only show playbacks from the last N days")
	cmd.Flags().String("since", "", "Only show playbacks since a natural language date, e.g. 'yesterday'")
	cmd.Flags().String("source", "", "Filter by exact source")
	cmd.Flags().String("kind", "", "Filter by kind (file/url)")
	cmd.Flags().String("outcome", "", "Filter by outcome (completed/stopped/failed)")
	cmd.Flags().Int("limit", tracking.DefaultHistoryLimit, "Maximum number of results")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func runHistoryE(cmd *cobra.Command, args []string) error {
	cli := cliFromContext(cmd.Context())
	if cli == nil {
		return fmt.Errorf("CLI instance not found in context")
	}

	cfg, err := loadAndValidateConfig(cmd, cli)
	if err != nil {
		return err
	}
	setupLogging(cfg, cmd.ErrOrStderr())
	cli.initializeTracking(cfg)

	if cli.trackingDB == nil {
		return fmt.Errorf("playback tracking is disabled or unavailable")
	}

	filter := tracking.HistoryFilter{}
	filter.Days, _ = cmd.Flags().GetInt("days")
	filter.Since, _ = cmd.Flags().GetString("since")
	filter.Source, _ = cmd.Flags().GetString("source")
	filter.Kind, _ = cmd.Flags().GetString("kind")
	filter.Outcome, _ = cmd.Flags().GetString("outcome")
	filter.Limit, _ = cmd.Flags().GetInt("limit")

	results, err := tracking.QueryHistory(cli.trackingDB, filter)
	if err != nil {
		return fmt.Errorf("failed to query history: %w", err)
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal history: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No playbacks recorded.")
		return nil
	}

	for _, p := range results {
		started := time.Unix(p.StartedAt, 0).Format("2006-01-02 15:04:05")
		fmt.Fprintf(out, "%s  %-9s  %-7s  %6.1fs  %s\n",
			started, p.Outcome, p.Engine, p.DurationSeconds, p.Source)
	}
	fmt.Fprintf(out, "%d playback(s)\n", len(results))

	return nil
}
