// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline composes classification, staging, and external tool
// invocation into per-mode conversion sequences. Stages run strictly in
// order; each consumes the previous stage's output paths.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/doc-normalizer/internal/staging"
	"github.com/pdiddy/doc-normalizer/internal/toolrun"
	"github.com/pdiddy/doc-normalizer/pkg/types"
)

// Pipeline runs conversion requests. It owns no state between runs;
// everything a run touches lives in the request's output directory.
type Pipeline struct {
	invoker toolrun.Invoker
	cfg     types.PipelineConfig
	log     *logrus.Logger

	// pageCount counts pages in a PDF. Overridden in tests so fake PDFs
	// do not have to be parseable.
	pageCount func(path string) (int, error)
}

// New creates a Pipeline using the given invoker for all external tools.
func New(invoker toolrun.Invoker, cfg types.PipelineConfig, log *logrus.Logger) *Pipeline {
	if log == nil {
		log = logrus.New()
	}
	return &Pipeline{
		invoker:   invoker,
		cfg:       cfg,
		log:       log,
		pageCount: pdfPageCount,
	}
}

// Run executes one conversion request to completion. The returned outcome
// is always populated; when err is non-nil the outcome's Error field
// carries the serializable failure description. The input file is never
// modified or deleted.
func (p *Pipeline) Run(ctx context.Context, req types.ConversionRequest) (types.PipelineOutcome, error) {
	if _, err := os.Stat(req.InputPath); err != nil {
		return failure(fmt.Errorf("input %s: %w", req.InputPath, err))
	}

	area := staging.New(req.OutputDir, req.InputPath, req.Overwrite)
	if err := area.Prepare(); err != nil {
		return failure(err)
	}

	p.log.WithFields(logrus.Fields{
		"input":      req.InputPath,
		"output_dir": req.OutputDir,
		"mode":       req.Mode,
	}).Info("starting conversion run")

	var outcome types.PipelineOutcome
	var err error
	switch req.Mode {
	case types.ModeRasterize:
		outcome, err = p.rasterize(ctx, req, area)
	case types.ModeExtractMarkdown:
		outcome, err = p.extractMarkdown(ctx, req, area)
	case types.ModePublishMarkdown:
		outcome, err = p.publishMarkdown(ctx, req, area)
	default:
		return failure(fmt.Errorf("unknown mode %q", req.Mode))
	}
	if err != nil {
		failed, _ := failure(err)
		// Keep any per-format detail gathered before the run went down.
		failed.Formats = outcome.Formats
		return failed, err
	}

	if err := verifyOutputs(outcome.Outputs); err != nil {
		return failure(err)
	}
	return outcome, nil
}

// invokeWithRetry runs one tool invocation, retrying exactly once when the
// failure looks transient (e.g. a lock file held by another process).
// Missing binaries and timeouts are never retried.
func (p *Pipeline) invokeWithRetry(ctx context.Context, inv types.ToolInvocation) (types.StageResult, error) {
	result, err := p.invoker.Invoke(ctx, inv)
	if err == nil || !toolrun.Transient(err, result) {
		return result, err
	}
	p.log.WithField("tool", inv.Executable).Warn("transient tool failure, retrying once")
	return p.invoker.Invoke(ctx, inv)
}

// checkpoint is the cooperative cancellation point between stages.
func checkpoint(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// verifyOutputs confirms every reported output actually exists.
func verifyOutputs(paths []string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("reported output missing: %w", err)
		}
	}
	return nil
}

// failure wraps err into a terminal outcome.
func failure(err error) (types.PipelineOutcome, error) {
	return types.PipelineOutcome{
		Error: &types.ErrorInfo{
			Kind:   types.ErrorKind(err),
			Detail: err.Error(),
		},
	}, err
}

func pdfPageCount(path string) (int, error) {
	return api.PageCountFile(path)
}
