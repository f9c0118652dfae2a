// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report serializes pipeline outcomes into the stable JSON stdout
// contract. Each mode has its own payload shape; stderr diagnostics never
// leak into the payload.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pdiddy/doc-normalizer/pkg/types"
)

// markdownPayload is the convert-to-markdown stdout shape.
type markdownPayload struct {
	MarkdownFile string `json:"markdown_file"`
}

// publishPayload is the convert-markdown stdout shape. Files holds one
// entry per requested format, failed ones included, so callers can tell
// "requested but failed" apart from "not requested".
type publishPayload struct {
	Files []types.FormatResult `json:"files"`
}

// WriteRasterize emits the rasterize payload: a JSON list of page-image
// paths in page order.
func WriteRasterize(w io.Writer, outcome types.PipelineOutcome) error {
	outputs := outcome.Outputs
	if outputs == nil {
		outputs = []string{}
	}
	return write(w, outputs)
}

// WriteExtract emits the extract_markdown payload: a single-field object
// holding the Markdown path.
func WriteExtract(w io.Writer, outcome types.PipelineOutcome) error {
	if len(outcome.Outputs) != 1 {
		return fmt.Errorf("extract outcome should hold exactly one output, got %d", len(outcome.Outputs))
	}
	return write(w, markdownPayload{MarkdownFile: outcome.Outputs[0]})
}

// WritePublish emits the publish_markdown payload: per-format entries with
// either the produced path or the failure reason.
func WritePublish(w io.Writer, outcome types.PipelineOutcome) error {
	files := outcome.Formats
	if files == nil {
		files = []types.FormatResult{}
	}
	return write(w, publishPayload{Files: files})
}

func write(w io.Writer, payload any) error {
	enc := json.NewEncoder(w)
	return enc.Encode(payload)
}
