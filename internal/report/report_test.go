// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pdiddy/doc-normalizer/pkg/types"
)

func TestWriteRasterize(t *testing.T) {
	var buf bytes.Buffer
	outcome := types.PipelineOutcome{
		Succeeded: true,
		Outputs:   []string{"out/page_001.png", "out/page_002.png", "out/page_003.png"},
	}
	if err := WriteRasterize(&buf, outcome); err != nil {
		t.Fatal(err)
	}

	var got []string
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("payload is not a JSON list: %v", err)
	}
	if len(got) != 3 || got[0] != "out/page_001.png" || got[2] != "out/page_003.png" {
		t.Errorf("payload = %v", got)
	}
}

func TestWriteRasterize_EmptyIsAList(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRasterize(&buf, types.PipelineOutcome{Succeeded: true}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "[]\n" {
		t.Errorf("payload = %q, want empty JSON list", got)
	}
}

func TestWriteExtract(t *testing.T) {
	var buf bytes.Buffer
	outcome := types.PipelineOutcome{
		Succeeded: true,
		Outputs:   []string{"out/notes.md"},
	}
	if err := WriteExtract(&buf, outcome); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "{\"markdown_file\":\"out/notes.md\"}\n"; got != want {
		t.Errorf("payload = %q, want %q", got, want)
	}
}

func TestWriteExtract_RejectsWrongShape(t *testing.T) {
	var buf bytes.Buffer
	err := WriteExtract(&buf, types.PipelineOutcome{Outputs: []string{"a.md", "b.md"}})
	if err == nil {
		t.Fatal("expected error for multi-output extract outcome")
	}
}

func TestWritePublish_DistinguishesFailedFromMissing(t *testing.T) {
	var buf bytes.Buffer
	outcome := types.PipelineOutcome{
		Succeeded: true,
		Formats: []types.FormatResult{
			{Format: "docx", Path: "out/spec.docx"},
			{Format: "pptx", Reason: "DependencyMissing: locating pandoc-pptx: required external tool not found"},
		},
	}
	if err := WritePublish(&buf, outcome); err != nil {
		t.Fatal(err)
	}

	var got struct {
		Files []map[string]string `json:"files"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Files) != 2 {
		t.Fatalf("files = %v", got.Files)
	}
	if got.Files[0]["path"] != "out/spec.docx" {
		t.Errorf("docx entry = %v", got.Files[0])
	}
	if _, hasErr := got.Files[0]["error"]; hasErr {
		t.Errorf("successful entry must not carry an error field: %v", got.Files[0])
	}
	if got.Files[1]["error"] == "" {
		t.Errorf("failed entry must carry the failure reason: %v", got.Files[1])
	}
	if _, hasPath := got.Files[1]["path"]; hasPath {
		t.Errorf("failed entry must not carry a path: %v", got.Files[1])
	}
}

func TestWritePublish_EmptyIsAList(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePublish(&buf, types.PipelineOutcome{}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "{\"files\":[]}\n" {
		t.Errorf("payload = %q", got)
	}
}
