package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/praven80/doctalk/pkg/cli"
	"github.com/praven80/doctalk/pkg/extract"
)

var (
	extractFormat string
	extractOut    string
)

var extractCmd = &cobra.Command{
	Use:   "extract <file-or-url>",
	Short: "Preview the text extracted from a document or URL",
	Long: `extract runs the source material through the same extraction the
generate command uses and prints the result, so the episode input can
be inspected before spending model calls on it.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractFormat, "format", "raw", "output format: raw, yaml, json")
	extractCmd.Flags().StringVarP(&extractOut, "o", "o", "", "output file path")
	rootCmd.AddCommand(extractCmd)
}

// extractResult is the structured form for yaml/json output.
type extractResult struct {
	Source string `json:"source" yaml:"source"`
	Title  string `json:"title,omitempty" yaml:"title,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
	Text   string `json:"text" yaml:"text"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	arg := args[0]

	var result extractResult
	if isURL(arg) {
		art, err := extract.NewFetcher().Fetch(cmd.Context(), arg)
		if err != nil {
			return err
		}
		result = extractResult{Source: arg, Title: art.Title, Text: art.Text}
	} else {
		data, err := os.ReadFile(arg)
		if err != nil {
			return err
		}
		doc, err := extract.ReadDocument(filepath.Base(arg), data)
		if err != nil {
			return err
		}
		result = extractResult{Source: arg, Title: doc.Name, Format: doc.Format, Text: doc.Text}
	}

	if extractFormat == "raw" {
		return cli.Output(result.Text+"\n", cli.OutputOptions{
			Format: cli.FormatRaw,
			File:   extractOut,
		})
	}
	return cli.Output(result, cli.OutputOptions{
		Format: cli.OutputFormat(extractFormat),
		File:   extractOut,
	})
}
