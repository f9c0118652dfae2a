// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ToolsConfig names the external converter binaries and bounds their runtime.
type ToolsConfig struct {
	// Office is the Office-document converter binary (default "libreoffice").
	// Used for office→pdf upgrades and legacy→docx upgrades.
	Office string `json:"office" yaml:"office"`

	// Rasterizer is the PDF page rasterizer binary (default "pdftoppm").
	Rasterizer string `json:"rasterizer" yaml:"rasterizer"`

	// Extractor is the document-to-Markdown extractor binary
	// (default "markitdown").
	Extractor string `json:"extractor" yaml:"extractor"`

	// Publisher is the Markdown publisher binary (default "pandoc").
	Publisher string `json:"publisher" yaml:"publisher"`

	// Timeout bounds each tool invocation (default 120s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// RasterConfig holds settings for the rasterize pipeline.
type RasterConfig struct {
	// DPI is the render resolution for page images (default 150).
	DPI int `json:"dpi" yaml:"dpi"`
}

// PublishConfig holds settings for the publish_markdown pipeline.
type PublishConfig struct {
	// DefaultFormats are the targets rendered when none are requested
	// explicitly (default docx, pdf).
	DefaultFormats []string `json:"default_formats" yaml:"default_formats"`

	// Workers bounds concurrent per-format renders (default 3).
	Workers int `json:"workers" yaml:"workers"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Tools   ToolsConfig   `json:"tools" yaml:"tools"`
	Raster  RasterConfig  `json:"raster" yaml:"raster"`
	Publish PublishConfig `json:"publish" yaml:"publish"`
}

// DefaultPipelineConfig returns the built-in defaults, before any config
// file or environment overrides are applied.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Tools: ToolsConfig{
			Office:     "libreoffice",
			Rasterizer: "pdftoppm",
			Extractor:  "markitdown",
			Publisher:  "pandoc",
			Timeout:    120 * time.Second,
		},
		Raster: RasterConfig{
			DPI: 150,
		},
		Publish: PublishConfig{
			DefaultFormats: []string{"docx", "pdf"},
			Workers:        3,
		},
	}
}
