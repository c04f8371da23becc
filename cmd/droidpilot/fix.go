package main

import (
	"strings"

	"github.com/droidpilot-ai/droidpilot/pkg/agent"
	"github.com/droidpilot-ai/droidpilot/pkg/models"
	"github.com/spf13/cobra"
)

func newFixCmd() *cobra.Command {
	var (
		configPath  string
		language    string
		providerPre string
		model       string
		file        string
		temperature float64
		maxTokens   int
	)

	cmd := &cobra.Command{
		Use:   "fix --file <path> [description]",
		Short: "Fix problems in an existing code file",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath)
			if err != nil {
				return err
			}
			defer a.close()

			artifact, err := readArtifact(file)
			if err != nil {
				return err
			}

			instruction := strings.Join(args, " ")
			if instruction == "" {
				instruction = "Fix the issues in this code."
			}

			fixer := agent.NewFixer(a.deps)
			resp := fixer.Process(cmd.Context(), models.AgentRequest{
				Task:        models.TaskFix,
				Instruction: instruction,
				Artifact:    artifact,
				Language:    language,
				Provider:    providerPre,
				Model:       model,
				Sampling: models.SamplingParams{
					Temperature: temperature,
					MaxTokens:   maxTokens,
				},
			})
			return renderResponse(resp)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file path")
	cmd.Flags().StringVarP(&file, "file", "f", "", "code file to fix (use - for stdin)")
	cmd.Flags().StringVarP(&language, "lang", "l", "", "language hint (auto-detected when empty)")
	cmd.Flags().StringVarP(&providerPre, "provider", "p", "", "pin a specific provider")
	cmd.Flags().StringVarP(&model, "model", "m", "", "model override")
	cmd.Flags().Float64VarP(&temperature, "temperature", "t", 0.2, "sampling temperature")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 2000, "max tokens to generate")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
