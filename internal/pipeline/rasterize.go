// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"

	// Image normalization accepts every extension the classifier admits.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/pdiddy/doc-normalizer/internal/classify"
	"github.com/pdiddy/doc-normalizer/internal/staging"
	"github.com/pdiddy/doc-normalizer/pkg/types"
)

// rasterize turns the input into numbered PNG page images: Office inputs
// are upgraded to PDF first, PDFs go straight to the rasterizer, and
// single images are re-encoded to page_001.png.
func (p *Pipeline) rasterize(ctx context.Context, req types.ConversionRequest, area *staging.Area) (types.PipelineOutcome, error) {
	c := classify.Classify(req.InputPath)
	switch c.Family {
	case classify.FamilyImage:
		return p.normalizeImage(req, area)
	case classify.FamilyPDF:
		return p.rasterizePDF(ctx, req.InputPath, area)
	case classify.FamilyOffice:
		pdfPath, err := p.upgradeTo(ctx, req.InputPath, area, "pdf")
		if err != nil {
			return types.PipelineOutcome{}, err
		}
		if err := checkpoint(ctx); err != nil {
			return types.PipelineOutcome{}, err
		}
		return p.rasterizePDF(ctx, pdfPath, area)
	default:
		return types.PipelineOutcome{}, fmt.Errorf("cannot rasterize %s: %w", req.InputPath, types.ErrUnsupportedFormat)
	}
}

// upgradeTo converts an Office document to the target format (pdf or docx)
// in the output directory. The converter writes <stem>.<target> on its own;
// the path is claimed through staging first so pre-existing foreign files
// still trigger a conflict. The artifact is kept but not reported as output.
func (p *Pipeline) upgradeTo(ctx context.Context, inputPath string, area *staging.Area, target string) (string, error) {
	outPath, err := area.DerivedDocument(target)
	if err != nil {
		return "", err
	}

	inv := types.ToolInvocation{
		Executable: p.cfg.Tools.Office,
		Args: []string{
			"--headless",
			"--convert-to", target,
			"--outdir", area.OutputDir(),
			inputPath,
		},
		Timeout: p.cfg.Tools.Timeout,
	}
	result, err := p.invokeWithRetry(ctx, inv)
	if err != nil {
		return "", fmt.Errorf("upgrading %s to %s: %w", inputPath, target, err)
	}

	if _, err := os.Stat(outPath); err != nil {
		return "", fmt.Errorf("converter reported success but %s is missing: %s: %w",
			outPath, result.DiagnosticText, types.ErrToolFailed)
	}
	return outPath, nil
}

// rasterizePDF renders every page of pdfPath into page_NNN.png files. The
// page count is established up front so staged names can be allocated and
// contiguity verified; the rasterizer renders into a scratch directory and
// pages are renamed onto their staged paths in page order.
func (p *Pipeline) rasterizePDF(ctx context.Context, pdfPath string, area *staging.Area) (types.PipelineOutcome, error) {
	total, err := p.pageCount(pdfPath)
	if err != nil {
		return types.PipelineOutcome{}, fmt.Errorf("counting pages of %s: %w", pdfPath, err)
	}
	if total < 1 {
		return types.PipelineOutcome{}, fmt.Errorf("%s has no pages", pdfPath)
	}

	// Allocate all page names before spawning anything, so a staging
	// conflict aborts the run with zero subprocesses.
	staged := make([]string, total)
	for i := range staged {
		path, err := area.PageImage(i + 1)
		if err != nil {
			return types.PipelineOutcome{}, err
		}
		staged[i] = path
	}

	scratch, err := os.MkdirTemp(area.OutputDir(), ".raster-")
	if err != nil {
		return types.PipelineOutcome{}, fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	prefix := filepath.Join(scratch, "page")
	inv := types.ToolInvocation{
		Executable: p.cfg.Tools.Rasterizer,
		Args: []string{
			"-png",
			"-r", strconv.Itoa(p.dpi()),
			pdfPath,
			prefix,
		},
		Timeout: p.cfg.Tools.Timeout,
	}
	if _, err := p.invokeWithRetry(ctx, inv); err != nil {
		return types.PipelineOutcome{}, fmt.Errorf("rasterizing %s: %w", pdfPath, err)
	}

	for i, dest := range staged {
		rendered, err := findRenderedPage(prefix, i+1)
		if err != nil {
			return types.PipelineOutcome{}, fmt.Errorf("page %d of %s: %w", i+1, pdfPath, err)
		}
		if err := os.Rename(rendered, dest); err != nil {
			return types.PipelineOutcome{}, fmt.Errorf("staging page %d: %w", i+1, err)
		}
	}

	p.log.WithField("pages", total).Info("rasterized document")
	return types.PipelineOutcome{Succeeded: true, Outputs: staged}, nil
}

// findRenderedPage locates the rasterizer's output for a 1-based page
// number. The rasterizer pads page numbers to the width of the page total,
// so every plausible padding is probed.
func findRenderedPage(prefix string, page int) (string, error) {
	for width := 1; width <= 6; width++ {
		candidate := fmt.Sprintf("%s-%0*d.png", prefix, width, page)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("rendered image not found for page %d", page)
}

// normalizeImage re-encodes a raster input as page_001.png so single-image
// inputs share the multi-page output shape. Runs fully in process.
func (p *Pipeline) normalizeImage(req types.ConversionRequest, area *staging.Area) (types.PipelineOutcome, error) {
	dest, err := area.PageImage(1)
	if err != nil {
		return types.PipelineOutcome{}, err
	}

	f, err := os.Open(req.InputPath)
	if err != nil {
		return types.PipelineOutcome{}, fmt.Errorf("opening image %s: %w", req.InputPath, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return types.PipelineOutcome{}, fmt.Errorf("decoding image %s: %w", req.InputPath, err)
	}

	out, err := os.Create(dest)
	if err != nil {
		return types.PipelineOutcome{}, fmt.Errorf("creating %s: %w", dest, err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return types.PipelineOutcome{}, fmt.Errorf("encoding %s: %w", dest, err)
	}

	return types.PipelineOutcome{Succeeded: true, Outputs: []string{dest}}, nil
}

func (p *Pipeline) dpi() int {
	if p.cfg.Raster.DPI > 0 {
		return p.cfg.Raster.DPI
	}
	return types.DefaultPipelineConfig().Raster.DPI
}
