// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

// toolStatus reports whether one external converter is usable.
type toolStatus struct {
	Name      string `json:"name" yaml:"name"`
	Binary    string `json:"binary" yaml:"binary"`
	Available bool   `json:"available" yaml:"available"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check availability of the external conversion toolchain",
	Long: `Doctor probes the configured external converters (Office converter,
PDF rasterizer, Markdown extractor, Markdown publisher) on PATH and
reports which are usable. A tool reported unavailable here will surface
as a DependencyMissing failure when a conversion needs it.`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	tools := []struct {
		name, binary string
	}{
		{"office-converter", cfg.Tools.Office},
		{"pdf-rasterizer", cfg.Tools.Rasterizer},
		{"markdown-extractor", cfg.Tools.Extractor},
		{"markdown-publisher", cfg.Tools.Publisher},
	}

	statuses := make([]toolStatus, 0, len(tools))
	for _, tool := range tools {
		status := toolStatus{Name: tool.name, Binary: tool.binary}
		if path, err := exec.LookPath(tool.binary); err == nil {
			status.Available = true
			status.Path = path
		}
		statuses = append(statuses, status)
	}

	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		out, err := yaml.Marshal(statuses)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(statuses)
}

func init() {
	doctorCmd.Flags().Bool("yaml", false, "output as YAML instead of JSON")

	rootCmd.AddCommand(doctorCmd)
}
