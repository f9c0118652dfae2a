// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared value types for the conversion pipeline:
// requests, stage results, terminal outcomes, and per-stage configuration.
package types

import "time"

// Mode selects which conversion pipeline a request runs through.
type Mode string

const (
	// ModeRasterize turns a document into numbered PNG page images.
	ModeRasterize Mode = "rasterize"
	// ModeExtractMarkdown extracts Markdown text from a document.
	ModeExtractMarkdown Mode = "extract_markdown"
	// ModePublishMarkdown renders a Markdown source into publish-ready formats.
	ModePublishMarkdown Mode = "publish_markdown"
)

// ConversionRequest describes one pipeline run. It is created once per
// invocation and never mutated afterwards; the input file is read-only.
type ConversionRequest struct {
	// InputPath is the document to convert.
	InputPath string `json:"input_path" yaml:"input_path"`

	// OutputDir is the directory all outputs are staged into. It is created
	// if absent and checked for writability once at pipeline entry.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Mode selects the pipeline: rasterize, extract_markdown, or publish_markdown.
	Mode Mode `json:"mode" yaml:"mode"`

	// Formats lists the requested publish targets (publish_markdown only).
	// Empty means the default set (docx, pdf).
	Formats []string `json:"formats,omitempty" yaml:"formats,omitempty"`

	// ReferenceDoc is an optional styling template applied to Office-family
	// publish targets (docx, pptx, odt). Ignored elsewhere.
	ReferenceDoc string `json:"reference_doc,omitempty" yaml:"reference_doc,omitempty"`

	// PDFEngine is an optional engine name for PDF publish targets
	// (e.g. "xelatex"). Ignored for non-PDF targets.
	PDFEngine string `json:"pdf_engine,omitempty" yaml:"pdf_engine,omitempty"`

	// Overwrite permits replacing pre-existing files at computed output
	// paths. The default is to fail with a staging conflict.
	Overwrite bool `json:"overwrite,omitempty" yaml:"overwrite,omitempty"`
}

// ToolInvocation describes one subprocess call to an external converter.
// Constructed fresh per call; never reused.
type ToolInvocation struct {
	// Executable is the converter binary name or path (e.g. "pandoc").
	Executable string `json:"executable" yaml:"executable"`

	// Args are the command-line arguments, in order.
	Args []string `json:"args" yaml:"args"`

	// WorkDir is the working directory for the subprocess. Empty means
	// the caller's working directory.
	WorkDir string `json:"work_dir,omitempty" yaml:"work_dir,omitempty"`

	// Timeout bounds the subprocess wall-clock time. Zero means the
	// invoker's configured default.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// StageResult holds the outcome of a single pipeline stage. Ownership
// transfers stage to stage; a stage never mutates its predecessor's result.
type StageResult struct {
	// ProducedPaths lists the files this stage wrote, in order.
	ProducedPaths []string `json:"produced_paths" yaml:"produced_paths"`

	// ExitStatus is the subprocess exit code, or 0 for in-process stages.
	ExitStatus int `json:"exit_status" yaml:"exit_status"`

	// DiagnosticText carries captured stderr or other diagnostics.
	DiagnosticText string `json:"diagnostic_text,omitempty" yaml:"diagnostic_text,omitempty"`
}

// FormatResult records the outcome of one publish target. Exactly one of
// Path and Reason is set.
type FormatResult struct {
	// Format is the normalized target format name (e.g. "docx").
	Format string `json:"format" yaml:"format"`

	// Path is the produced file, when the render succeeded.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Reason describes why the render failed, when it did.
	Reason string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether this target's render failed.
func (r FormatResult) Failed() bool {
	return r.Reason != ""
}

// ErrorInfo is a serializable description of a terminal pipeline error.
type ErrorInfo struct {
	// Kind is the taxonomy label (e.g. "UnsupportedFormat", "ToolTimeout").
	Kind string `json:"kind" yaml:"kind"`

	// Detail is the human-readable message, including any captured stderr.
	Detail string `json:"detail" yaml:"detail"`
}

// PipelineOutcome is the terminal value of a pipeline run.
type PipelineOutcome struct {
	// Succeeded reports whether the run produced at least the outputs the
	// caller can use. Partial publish success still counts as succeeded.
	Succeeded bool `json:"succeeded" yaml:"succeeded"`

	// Outputs lists every produced output path, in deterministic order
	// (page order for rasterize, format order for publish).
	Outputs []string `json:"outputs" yaml:"outputs"`

	// Formats holds per-target detail for publish_markdown runs, including
	// entries for targets that were requested but failed.
	Formats []FormatResult `json:"formats,omitempty" yaml:"formats,omitempty"`

	// Error describes the terminal failure, if any. A partial publish
	// failure sets Error while leaving Succeeded true.
	Error *ErrorInfo `json:"error,omitempty" yaml:"error,omitempty"`
}

// PartialFailure reports whether the run succeeded overall but left at
// least one requested output unproduced.
func (o PipelineOutcome) PartialFailure() bool {
	if !o.Succeeded {
		return false
	}
	for _, f := range o.Formats {
		if f.Failed() {
			return true
		}
	}
	return false
}
