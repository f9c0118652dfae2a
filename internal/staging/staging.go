// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package staging allocates deterministic output paths inside the target
// output directory. Allocation is pure bookkeeping: it reserves a name and
// checks for collisions, but never creates the file itself.
package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/doc-normalizer/pkg/types"
)

// Area tracks the output paths allocated during a single pipeline run.
// Page images follow the page_NNN.png numbering rule; derived documents
// take the original input's stem regardless of intermediate upgrades.
type Area struct {
	outputDir string
	stem      string
	overwrite bool

	pages     map[int]bool
	allocated map[string]bool
}

// New creates an Area rooted at outputDir for the given original input.
// The stem of every derived document comes from inputPath, never from an
// intermediate upgraded copy. With overwrite false, allocating a path that
// already holds a file this run did not produce fails with ErrStagingConflict.
func New(outputDir, inputPath string, overwrite bool) *Area {
	base := filepath.Base(inputPath)
	return &Area{
		outputDir: outputDir,
		stem:      strings.TrimSuffix(base, filepath.Ext(base)),
		overwrite: overwrite,
		pages:     map[int]bool{},
		allocated: map[string]bool{},
	}
}

// Prepare creates the output directory if needed and verifies it is
// writable. Called once at pipeline entry so later stages can assume a
// usable directory.
func (a *Area) Prepare() error {
	if err := os.MkdirAll(a.outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", a.outputDir, err)
	}
	probe, err := os.CreateTemp(a.outputDir, ".writable-*")
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", a.outputDir, err)
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}

// OutputDir returns the directory this run stages into.
func (a *Area) OutputDir() string { return a.outputDir }

// Stem returns the original input's filename stem.
func (a *Area) Stem() string { return a.stem }

// PageImage allocates the path for page number page (1-based), following
// the page_NNN.png rule. Allocating the same page number twice in one run
// fails with ErrStagingConflict.
func (a *Area) PageImage(page int) (string, error) {
	if page < 1 {
		return "", fmt.Errorf("page number %d out of range", page)
	}
	if a.pages[page] {
		return "", fmt.Errorf("page %d already allocated: %w", page, types.ErrStagingConflict)
	}
	path := filepath.Join(a.outputDir, fmt.Sprintf("page_%03d.png", page))
	if err := a.claim(path); err != nil {
		return "", err
	}
	a.pages[page] = true
	return path, nil
}

// DerivedDocument allocates <stem>.<ext> for a derived output, where stem
// is the original input's stem and ext is the target format extension
// without a leading dot.
func (a *Area) DerivedDocument(ext string) (string, error) {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		return "", fmt.Errorf("empty target extension")
	}
	path := filepath.Join(a.outputDir, a.stem+"."+ext)
	if err := a.claim(path); err != nil {
		return "", err
	}
	return path, nil
}

// Owns reports whether path was allocated by this run.
func (a *Area) Owns(path string) bool {
	return a.allocated[path]
}

// claim records path as owned by this run, failing when a foreign file
// already sits there and overwriting is disabled.
func (a *Area) claim(path string) error {
	if a.allocated[path] {
		return fmt.Errorf("%s allocated twice: %w", path, types.ErrStagingConflict)
	}
	if !a.overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s exists and was not produced by this run: %w", path, types.ErrStagingConflict)
		}
	}
	a.allocated[path] = true
	return nil
}
