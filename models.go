package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Andrewp2/andrew-chat/internal/catalog"
	"github.com/Andrewp2/andrew-chat/internal/domain"
)

func newModelsCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Print the model catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				file = cfg.ModelsFile
			}
			models, err := catalog.Load(file)
			if err != nil {
				return err
			}
			renderModels(os.Stdout, models.Models())
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "catalog file (json, yaml or toml); defaults to MODELS_FILE or the built-in catalog")
	return cmd
}

func renderModels(w io.Writer, models []domain.ModelConfig) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Provider", "Company", "Max Tokens", "Capabilities"})
	for _, m := range models {
		table.Append([]string{
			m.Name,
			string(m.Provider),
			m.Company,
			fmt.Sprintf("%d", m.MaxTokens),
			strings.Join(capabilityNames(m.Capabilities), ", "),
		})
	}
	table.Render()
}

func capabilityNames(c domain.Capabilities) []string {
	var names []string
	for _, entry := range []struct {
		name string
		on   bool
	}{
		{"text", c.Text},
		{"image_generation", c.ImageGeneration},
		{"image_understanding", c.ImageUnderstanding},
		{"web_search", c.WebSearch},
		{"file_upload", c.FileUpload},
		{"function_calling", c.FunctionCalling},
	} {
		if entry.on {
			names = append(names, entry.name)
		}
	}
	return names
}
