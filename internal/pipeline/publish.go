// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pdiddy/doc-normalizer/internal/classify"
	"github.com/pdiddy/doc-normalizer/internal/staging"
	"github.com/pdiddy/doc-normalizer/pkg/types"
)

// referenceDocFormats lists the publish targets a reference template
// applies to. For every other target the option is silently ignored.
var referenceDocFormats = map[string]bool{
	"docx": true,
	"pptx": true,
	"odt":  true,
}

// publishMarkdown renders the Markdown input into every requested target
// format. Targets are independent: failures are collected per format and
// never abort sibling renders. Partial success is a valid terminal outcome.
func (p *Pipeline) publishMarkdown(ctx context.Context, req types.ConversionRequest, area *staging.Area) (types.PipelineOutcome, error) {
	if c := classify.Classify(req.InputPath); c.Family != classify.FamilyMarkdown {
		return types.PipelineOutcome{}, fmt.Errorf("only Markdown sources can be published, got %s: %w",
			req.InputPath, types.ErrUnsupportedFormat)
	}

	if req.ReferenceDoc != "" {
		if _, err := os.Stat(req.ReferenceDoc); err != nil {
			return types.PipelineOutcome{}, fmt.Errorf("reference document: %w", err)
		}
	}

	formats := normalizeFormats(req.Formats, p.cfg.Publish.DefaultFormats)

	// Allocate every target path up front: a staging conflict aborts the
	// whole run before any render starts.
	paths := make([]string, len(formats))
	for i, format := range formats {
		path, err := area.DerivedDocument(format)
		if err != nil {
			return types.PipelineOutcome{}, err
		}
		paths[i] = path
	}

	results := make([]types.FormatResult, len(formats))
	errs := make([]error, len(formats))

	workers := p.cfg.Publish.Workers
	if workers <= 0 {
		workers = types.DefaultPipelineConfig().Publish.Workers
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := range formats {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i], errs[i] = p.renderFormat(ctx, req, formats[i], paths[i])
		}(i)
	}
	wg.Wait()

	outcome := types.PipelineOutcome{Formats: results}
	var failed []error
	for i, err := range errs {
		if err != nil {
			failed = append(failed, err)
			continue
		}
		outcome.Outputs = append(outcome.Outputs, paths[i])
	}

	if len(failed) == len(formats) {
		return outcome, fmt.Errorf("all %d requested formats failed: %w", len(formats), errors.Join(failed...))
	}

	outcome.Succeeded = true
	if len(failed) > 0 {
		detail := fmt.Errorf("%d of %d formats failed: %w", len(failed), len(formats), types.ErrPartialFailure)
		outcome.Error = &types.ErrorInfo{
			Kind:   types.ErrorKind(detail),
			Detail: detail.Error(),
		}
	}
	return outcome, nil
}

// renderFormat runs one publisher invocation producing outPath.
func (p *Pipeline) renderFormat(ctx context.Context, req types.ConversionRequest, format, outPath string) (types.FormatResult, error) {
	args := []string{
		req.InputPath,
		"--from=markdown",
		"--to", format,
		"--output", outPath,
		"--standalone",
	}
	if req.ReferenceDoc != "" && referenceDocFormats[format] {
		args = append(args, "--reference-doc", req.ReferenceDoc)
	}
	if format == "pdf" && req.PDFEngine != "" {
		args = append(args, "--pdf-engine", req.PDFEngine)
	}

	inv := types.ToolInvocation{
		Executable: p.cfg.Tools.Publisher,
		Args:       args,
		Timeout:    p.cfg.Tools.Timeout,
	}
	result, err := p.invokeWithRetry(ctx, inv)
	if err == nil {
		if _, statErr := os.Stat(outPath); statErr != nil {
			err = fmt.Errorf("publisher reported success but %s is missing: %s: %w",
				outPath, result.DiagnosticText, types.ErrToolFailed)
		}
	}
	if err != nil {
		p.log.WithField("format", format).Warn("format render failed")
		return types.FormatResult{
			Format: format,
			Reason: fmt.Sprintf("%s: %s", types.ErrorKind(err), err.Error()),
		}, err
	}
	return types.FormatResult{Format: format, Path: outPath}, nil
}

// normalizeFormats lower-cases, strips leading dots, and deduplicates the
// requested formats, preserving first-occurrence order. Empty input falls
// back to the configured defaults.
func normalizeFormats(requested, defaults []string) []string {
	if len(requested) == 0 {
		requested = defaults
	}
	if len(requested) == 0 {
		requested = types.DefaultPipelineConfig().Publish.DefaultFormats
	}
	seen := map[string]bool{}
	var out []string
	for _, f := range requested {
		f = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(f)), ".")
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
