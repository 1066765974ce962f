package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/yourusername/downtube-go/internal/app"
	"github.com/yourusername/downtube-go/internal/domain"
)

const programName = "downtube"

const usageText = `%s [Options]

[Options]:
  -h, --help        show this help message and exit.
  -a, --audio-only  Flag to download only the audio source (True/False).
  -p, --playlist    Playlist flag if the provided link is a playlist not a single video.
  -u, --url         Parameter used to add YouTube link.
  -f, --file        Parameter used to add file that contains some YouTube links.
  -o, --output-dir  Directory to save the downloaded files.
  -q, --quality     Desired video quality (e.g., 720, 1080).
      --config      Configuration file to use.
  -v, --verbose     Mirror log entries to the terminal.

Commands:
  history           List recorded download attempts.
  stats             Show download statistics.
  logs              Show entries from the download log.
  setup             Install yt-dlp and ffmpeg.
  serve             Start the status server in the background.

Notes:
1) You can't pass both -f and -u at the same time.
2) If a file that exists has the same name as a file to be downloaded, the current file WILL NOT be overwritten.
`

var (
	configPath string
	verbose    bool
	opts       domain.Options

	rootCmd = &cobra.Command{
		Use:           programName,
		Short:         "Download YouTube videos, audio tracks and playlists",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runDownload,
	}
)

func init() {
	flags := rootCmd.Flags()
	flags.BoolVarP(&opts.AudioOnly, "audio-only", "a", false, "Download only the audio source")
	flags.BoolVarP(&opts.Playlist, "playlist", "p", false, "The provided link is a playlist")
	flags.StringVarP(&opts.URL, "url", "u", "", "YouTube link to download")
	flags.StringVarP(&opts.FilePath, "file", "f", "", "File that contains YouTube links")
	flags.StringVarP(&opts.OutputDir, "output-dir", "o", "Downloads", "Directory to save the downloaded files")
	flags.StringVarP(&opts.Quality, "quality", "q", "720", "Desired video quality (e.g., 720, 1080)")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Mirror log entries to the terminal")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(serveCmd)

	// Subcommands keep cobra's generated help; only the root prints the classic usage text.
	defaultUsage, defaultHelp := rootCmd.UsageTemplate(), rootCmd.HelpTemplate()
	for _, sub := range rootCmd.Commands() {
		sub.SetUsageTemplate(defaultUsage)
		sub.SetHelpTemplate(defaultHelp)
	}
	rootCmd.SetUsageTemplate(fmt.Sprintf(usageText, programName))
	rootCmd.SetHelpTemplate("{{.UsageString}}")
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, programName)
}

// resolveOptions fills -o and -q from configuration unless they were given on the command line
func resolveOptions(flags *pflag.FlagSet, base domain.Options, config *domain.Config) domain.Options {
	resolved := base
	if !flags.Changed("output-dir") && config.Download.OutputDir != "" {
		resolved.OutputDir = config.Download.OutputDir
	}
	if !flags.Changed("quality") && config.Download.Quality != "" {
		resolved.Quality = config.Download.Quality
	}
	return resolved
}

func runDownload(cmd *cobra.Command, _ []string) error {
	if err := opts.Validate(); err != nil {
		printUsage(cmd.OutOrStdout())
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Listen before anything is set up and until the run has fully finished.
	handler := app.NewInterruptHandler(cancel, cmd.OutOrStdout(), nil, nil)
	handler.Listen()
	defer handler.Release()

	rt, err := loadRuntime(configPath, verbose)
	if err != nil {
		return err
	}
	defer rt.Close()
	handler.SetLogger(rt.log)

	runner := rt.newRunner(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts.AudioOnly)
	_, err = runner.Run(ctx, resolveOptions(cmd.Flags(), opts, rt.config))

	switch {
	case err == nil:
		return nil
	case app.IsInterrupted(err):
		handler.Stop()
		return nil
	case errors.Is(err, domain.ErrOutputDirPermission):
		return err
	case errors.Is(err, domain.ErrInputNotFound), errors.Is(err, domain.ErrInputPermission):
		// already logged and reported
		return nil
	default:
		rt.log.Error("Run failed", zap.Error(err))
		return nil
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
