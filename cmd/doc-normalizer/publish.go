package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doc-normalizer/internal/report"
	"github.com/pdiddy/doc-normalizer/pkg/types"
)

var convertMarkdownCmd = &cobra.Command{
	Use:   "convert-markdown INPUT",
	Short: "Render a Markdown source into publish-ready deliverables",
	Long: `Convert-markdown renders a Markdown file into one output per requested
format (default: docx and pdf), each named <stem>.<format>. Formats are
rendered independently: a failing format never aborts its siblings, and
partial success exits 0 with the failure recorded in the JSON payload.

stdout carries {"files": [{"format": ..., "path": ...} | {"format": ...,
"error": ...}]}, one entry per requested format.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvertMarkdown,
}

func runConvertMarkdown(cmd *cobra.Command, args []string) error {
	req, err := newRequest(cmd, args, types.ModePublishMarkdown)
	if err != nil {
		return err
	}
	req.Formats, _ = cmd.Flags().GetStringArray("format")
	req.ReferenceDoc, _ = cmd.Flags().GetString("reference-doc")
	req.PDFEngine, _ = cmd.Flags().GetString("pdf-engine")

	outcome, runErr := newPipeline(pipelineConfig()).Run(cmd.Context(), req)
	if runErr != nil {
		// Total failure: still print the per-format detail when any was
		// gathered, then exit non-zero.
		if len(outcome.Formats) > 0 {
			report.WritePublish(os.Stdout, outcome)
		}
		return runErr
	}
	return report.WritePublish(os.Stdout, outcome)
}

func init() {
	convertMarkdownCmd.Flags().StringP("output-dir", "o", "", "directory for generated files")
	convertMarkdownCmd.MarkFlagRequired("output-dir")
	convertMarkdownCmd.Flags().StringArrayP("format", "f", nil, "output format; repeat to request multiple (default: docx, pdf)")
	convertMarkdownCmd.Flags().String("reference-doc", "", "styling template for Office outputs (docx, pptx, odt)")
	convertMarkdownCmd.Flags().String("pdf-engine", "", "PDF engine for pdf output (e.g. xelatex)")
	convertMarkdownCmd.Flags().Bool("overwrite", false, "replace pre-existing files at computed output paths")

	rootCmd.AddCommand(convertMarkdownCmd)
}
