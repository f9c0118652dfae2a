// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/pdiddy/doc-normalizer/internal/classify"
	"github.com/pdiddy/doc-normalizer/internal/staging"
	"github.com/pdiddy/doc-normalizer/pkg/types"
)

// extractMarkdown produces <stem>.md from the input document. Legacy
// Office formats are upgraded to docx first so the extractor can parse
// them; the output stem always comes from the original input.
func (p *Pipeline) extractMarkdown(ctx context.Context, req types.ConversionRequest, area *staging.Area) (types.PipelineOutcome, error) {
	c := classify.Classify(req.InputPath)
	if c.Family == classify.FamilyUnsupported {
		return types.PipelineOutcome{}, fmt.Errorf("cannot extract markdown from %s: %w", req.InputPath, types.ErrUnsupportedFormat)
	}

	source := req.InputPath
	if c.NeedsUpgrade {
		upgraded, err := p.upgradeTo(ctx, req.InputPath, area, "docx")
		if err != nil {
			return types.PipelineOutcome{}, err
		}
		source = upgraded
		if err := checkpoint(ctx); err != nil {
			return types.PipelineOutcome{}, err
		}
	}

	mdPath, err := area.DerivedDocument("md")
	if err != nil {
		return types.PipelineOutcome{}, err
	}

	inv := types.ToolInvocation{
		Executable: p.cfg.Tools.Extractor,
		Args:       []string{source, "-o", mdPath},
		Timeout:    p.cfg.Tools.Timeout,
	}
	result, err := p.invokeWithRetry(ctx, inv)
	if err != nil {
		return types.PipelineOutcome{}, fmt.Errorf("extracting markdown from %s: %w", source, err)
	}

	if _, err := os.Stat(mdPath); err != nil {
		return types.PipelineOutcome{}, fmt.Errorf("extractor reported success but %s is missing: %s: %w",
			mdPath, result.DiagnosticText, types.ErrToolFailed)
	}

	return types.PipelineOutcome{Succeeded: true, Outputs: []string{mdPath}}, nil
}
