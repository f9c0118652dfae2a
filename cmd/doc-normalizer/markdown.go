package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doc-normalizer/internal/report"
	"github.com/pdiddy/doc-normalizer/pkg/types"
)

var convertToMarkdownCmd = &cobra.Command{
	Use:   "convert-to-markdown INPUT",
	Short: "Extract a document's content as Markdown",
	Long: `Convert-to-markdown extracts the textual content of a document into
<stem>.md, where the stem is taken from the original input filename.
Legacy Office formats (doc, ppt, xls, odt, odp, ods) are upgraded to
docx first so the extractor can parse them.

On success, stdout carries {"markdown_file": <path>}.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvertToMarkdown,
}

func runConvertToMarkdown(cmd *cobra.Command, args []string) error {
	req, err := newRequest(cmd, args, types.ModeExtractMarkdown)
	if err != nil {
		return err
	}

	outcome, err := newPipeline(pipelineConfig()).Run(cmd.Context(), req)
	if err != nil {
		return err
	}
	return report.WriteExtract(os.Stdout, outcome)
}

func init() {
	convertToMarkdownCmd.Flags().StringP("output-dir", "o", "", "directory to save the output markdown")
	convertToMarkdownCmd.MarkFlagRequired("output-dir")
	convertToMarkdownCmd.Flags().Bool("overwrite", false, "replace a pre-existing markdown file")

	rootCmd.AddCommand(convertToMarkdownCmd)
}
