// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the doc-normalizer CLI.
// Each subcommand runs one stateless conversion pipeline over one input
// and prints a machine-readable JSON result on stdout; all diagnostics
// go to stderr.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doc-normalizer/internal/pipeline"
	"github.com/pdiddy/doc-normalizer/internal/toolrun"
	"github.com/pdiddy/doc-normalizer/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// log is the process-wide logger; it writes to stderr so stdout stays
// reserved for the JSON result contract.
var log = logrus.New()

// rootCmd is the base command for the doc-normalizer CLI.
var rootCmd = &cobra.Command{
	Use:   "doc-normalizer",
	Short: "Normalize documents into standard output shapes",
	Long: `doc-normalizer converts heterogeneous document inputs (PDF, Office
formats, raster images, Markdown) into a small set of standard output
shapes: numbered PNG page images, extracted Markdown, or publish-ready
DOCX/PDF deliverables.

Conversion is delegated to external tools (an Office converter, a PDF
rasterizer, a Markdown extractor, and a Markdown publisher); this CLI
supervises them and reports what files landed where as JSON on stdout.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.SetOutput(os.Stderr)
		level, err := logrus.ParseLevel(viper.GetString("log.level"))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", viper.GetString("log.level"), err)
		}
		log.SetLevel(level)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./doc-normalizer.yaml or ~/.config/doc-normalizer/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warning", "log verbosity: debug, info, warning, or error")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("doc-normalizer")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "doc-normalizer"))
		}
	}

	defaults := types.DefaultPipelineConfig()
	viper.SetDefault("tools.office", defaults.Tools.Office)
	viper.SetDefault("tools.rasterizer", defaults.Tools.Rasterizer)
	viper.SetDefault("tools.extractor", defaults.Tools.Extractor)
	viper.SetDefault("tools.publisher", defaults.Tools.Publisher)
	viper.SetDefault("tools.timeout", defaults.Tools.Timeout)
	viper.SetDefault("raster.dpi", defaults.Raster.DPI)
	viper.SetDefault("publish.default_formats", defaults.Publish.DefaultFormats)
	viper.SetDefault("publish.workers", defaults.Publish.Workers)

	viper.SetEnvPrefix("DOC_NORMALIZER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles the effective configuration from viper.
func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Tools: types.ToolsConfig{
			Office:     viper.GetString("tools.office"),
			Rasterizer: viper.GetString("tools.rasterizer"),
			Extractor:  viper.GetString("tools.extractor"),
			Publisher:  viper.GetString("tools.publisher"),
			Timeout:    viper.GetDuration("tools.timeout"),
		},
		Raster: types.RasterConfig{
			DPI: viper.GetInt("raster.dpi"),
		},
		Publish: types.PublishConfig{
			DefaultFormats: viper.GetStringSlice("publish.default_formats"),
			Workers:        viper.GetInt("publish.workers"),
		},
	}
}

// newPipeline wires a pipeline against the real tool runner.
func newPipeline(cfg types.PipelineConfig) *pipeline.Pipeline {
	runner := toolrun.New(cfg.Tools.Timeout, log)
	return pipeline.New(runner, cfg, log)
}

// newRequest builds the conversion request shared by all subcommands.
func newRequest(cmd *cobra.Command, args []string, mode types.Mode) (types.ConversionRequest, error) {
	outputDir, err := cmd.Flags().GetString("output-dir")
	if err != nil {
		return types.ConversionRequest{}, err
	}
	overwrite, _ := cmd.Flags().GetBool("overwrite")

	return types.ConversionRequest{
		InputPath: args[0],
		OutputDir: outputDir,
		Mode:      mode,
		Overwrite: overwrite,
	}, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
