package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doc-normalizer/internal/report"
	"github.com/pdiddy/doc-normalizer/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert INPUT",
	Short: "Convert a document into numbered PNG page images",
	Long: `Convert rasterizes a PDF, Office document, or single image into PNG
page images named page_001.png, page_002.png, and so on. Office inputs
are upgraded to PDF first via the configured Office converter.

On success, stdout carries a JSON list of the produced page paths in
page order.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	req, err := newRequest(cmd, args, types.ModeRasterize)
	if err != nil {
		return err
	}

	cfg := pipelineConfig()
	if dpi, _ := cmd.Flags().GetInt("dpi"); dpi > 0 {
		cfg.Raster.DPI = dpi
	}

	outcome, err := newPipeline(cfg).Run(cmd.Context(), req)
	if err != nil {
		return err
	}
	return report.WriteRasterize(os.Stdout, outcome)
}

func init() {
	convertCmd.Flags().StringP("output-dir", "o", "", "directory to save output images")
	convertCmd.MarkFlagRequired("output-dir")
	convertCmd.Flags().Int("dpi", 0, "render resolution for page images (default from config)")
	convertCmd.Flags().Bool("overwrite", false, "replace pre-existing files at computed output paths")

	rootCmd.AddCommand(convertCmd)
}
