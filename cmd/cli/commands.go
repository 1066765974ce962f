package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yourusername/downtube-go/internal/app"
	"github.com/yourusername/downtube-go/internal/domain"
	"github.com/yourusername/downtube-go/internal/infrastructure"
	"github.com/yourusername/downtube-go/pkg/logger"
)

var errHistoryDisabled = errors.New("download history is disabled or unavailable")

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded download attempts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		mode, _ := cmd.Flags().GetString("mode")
		limit, _ := cmd.Flags().GetInt("limit")
		url, _ := cmd.Flags().GetString("url")

		return withHistory(func(history *app.HistoryService) error {
			if url != "" {
				return printLastAttempt(cmd.OutOrStdout(), history, url)
			}
			downloads, err := history.ListDownloads(domain.DownloadFilter{
				Status: domain.DownloadStatus(status),
				Mode:   domain.DownloadMode(mode),
			}, limit)
			if err != nil {
				return err
			}
			printDownloads(cmd.OutOrStdout(), downloads)
			return nil
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show download statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(func(history *app.HistoryService) error {
			stats, err := history.GetStats()
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), stats)
			return nil
		})
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show entries from the download log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		search, _ := cmd.Flags().GetString("search")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		config, err := app.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		reader := logger.NewLogReader(config.Logging.OutputPath)
		var entries []logger.LogEntry
		if search != "" {
			entries, err = reader.SearchLogs(search, limit)
		} else {
			entries, err = reader.ReadLogs(limit)
		}
		if err != nil {
			return err
		}

		return printLogEntries(cmd.OutOrStdout(), entries, jsonOutput)
	},
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Install yt-dlp and ffmpeg",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		writeConfig, _ := cmd.Flags().GetString("write-config")

		rt, err := loadRuntime(configPath, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := infrastructure.InstallTools(ctx, rt.log); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "yt-dlp and ffmpeg are ready")

		if writeConfig != "" {
			if err := app.SaveConfig(domain.DefaultConfig(), writeConfig); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", writeConfig)
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the status server in the background",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := app.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		server := newServerControl(config.Server, configPath)
		if err := server.ensureRunning(cmd.OutOrStdout()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Status page: %s/\n", server.baseURL)
		return nil
	},
}

func init() {
	historyCmd.Flags().StringP("status", "s", "", "Filter by status (processing, completed, failed, cancelled)")
	historyCmd.Flags().StringP("mode", "m", "", "Filter by mode (video, audio)")
	historyCmd.Flags().IntP("limit", "l", 20, "Maximum number of attempts to show (0 for all)")
	historyCmd.Flags().String("url", "", "Show only the most recent attempt for this URL")
	logsCmd.Flags().IntP("limit", "l", 50, "Number of entries to show (0 for all)")
	logsCmd.Flags().StringP("search", "s", "", "Only show entries containing this text")
	logsCmd.Flags().BoolP("json", "j", false, "Output in JSON format")
	setupCmd.Flags().String("write-config", "", "Also write the default configuration to this path")
}

// withHistory opens the history store for the duration of fn
func withHistory(fn func(history *app.HistoryService) error) error {
	rt, err := loadRuntime(configPath, verbose)
	if err != nil {
		return err
	}
	defer rt.Close()

	if rt.repo == nil {
		return errHistoryDisabled
	}
	return fn(app.NewHistoryService(rt.repo, rt.log))
}

func printDownloads(w io.Writer, downloads []*domain.Download) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSTATUS\tMODE\tQUALITY\tURL\tRESULT")
	for _, d := range downloads {
		result := d.Title
		if d.Status == domain.StatusFailed || d.Status == domain.StatusCancelled {
			result = d.ErrorMessage
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			d.ID,
			d.CreatedAt.Format("2006-01-02 15:04"),
			d.Status,
			d.Mode,
			d.Quality,
			truncate(d.URL, 50),
			truncate(result, 50))
	}
	tw.Flush()
}

func printLastAttempt(w io.Writer, history *app.HistoryService, url string) error {
	last, err := history.LastAttempt(url)
	if err != nil {
		return err
	}
	if last == nil {
		fmt.Fprintf(w, "No attempts recorded for %s\n", url)
		return nil
	}
	printDownloads(w, []*domain.Download{last})
	return nil
}

func printStats(w io.Writer, stats *domain.DownloadStats) {
	fmt.Fprintln(w, "Download Statistics:")
	fmt.Fprintf(w, "  Total:      %d\n", stats.Total)
	fmt.Fprintf(w, "  Processing: %d\n", stats.Processing)
	fmt.Fprintf(w, "  Completed:  %d\n", stats.Completed)
	fmt.Fprintf(w, "  Failed:     %d\n", stats.Failed)
	fmt.Fprintf(w, "  Cancelled:  %d\n", stats.Cancelled)
}

func printLogEntries(w io.Writer, entries []logger.LogEntry, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	for _, e := range entries {
		line := fmt.Sprintf("%-5s %s", e.Level, e.Message)
		if e.Timestamp != "" {
			line = e.Timestamp + " " + line
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

// truncate shortens s to maxLen characters, counting runes so titles stay valid UTF-8
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
