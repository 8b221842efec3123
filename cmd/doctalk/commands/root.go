package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "doctalk",
	Short: "Turn documents and articles into DocTalk podcast episodes",
	Long: `doctalk — curate two-host podcast episodes from written material.

Commands:
  generate  Curate an episode from a document, article URL, or script
  extract   Preview the text extracted from a document or URL
  version   Version information

Examples:
  doctalk generate paper.pdf
  doctalk generate https://en.wikipedia.org/wiki/Quicksort --media video
  doctalk generate show.txt --source script --prompt "keep it under ten minutes"
  doctalk extract article.docx`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
