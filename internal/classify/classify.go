// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify assigns input files to a format family by extension.
// Classification picks the stage sequence a file runs through; it is
// extension-based and case-insensitive, with no content sniffing.
package classify

import (
	"path/filepath"
	"strings"
)

// FormatFamily identifies the broad format group of an input file.
type FormatFamily string

const (
	FamilyOffice      FormatFamily = "office"
	FamilyPDF         FormatFamily = "pdf"
	FamilyImage       FormatFamily = "image"
	FamilyMarkdown    FormatFamily = "markdown"
	FamilyUnsupported FormatFamily = "unsupported"
)

// Classification is the resolved format decision for one input. The
// upgrade flag is decided here, once, so later stages never re-inspect
// the extension.
type Classification struct {
	Family FormatFamily

	// NeedsUpgrade marks Office documents that the Markdown extractor
	// cannot parse directly; they are converted to docx first.
	NeedsUpgrade bool
}

// modernOffice lists XML-based Office extensions the extractor parses natively.
var modernOffice = map[string]bool{
	".docx": true,
	".pptx": true,
	".xlsx": true,
}

// legacyOffice lists pre-XML and OpenDocument extensions that require a
// docx upgrade before Markdown extraction.
var legacyOffice = map[string]bool{
	".doc": true,
	".ppt": true,
	".xls": true,
	".odt": true,
	".odp": true,
	".ods": true,
}

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
	".gif":  true,
}

var markdownExts = map[string]bool{
	".md":       true,
	".markdown": true,
}

// Classify inspects path's extension and returns its format decision.
// Unknown extensions yield FamilyUnsupported.
func Classify(path string) Classification {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case modernOffice[ext]:
		return Classification{Family: FamilyOffice}
	case legacyOffice[ext]:
		return Classification{Family: FamilyOffice, NeedsUpgrade: true}
	case ext == ".pdf":
		return Classification{Family: FamilyPDF}
	case imageExts[ext]:
		return Classification{Family: FamilyImage}
	case markdownExts[ext]:
		return Classification{Family: FamilyMarkdown}
	default:
		return Classification{Family: FamilyUnsupported}
	}
}
