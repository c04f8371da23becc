package main

import (
	"strings"

	"github.com/droidpilot-ai/droidpilot/pkg/agent"
	"github.com/droidpilot-ai/droidpilot/pkg/models"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var (
		configPath  string
		language    string
		providerPre string
		model       string
		contextFile string
		temperature float64
		maxTokens   int
	)

	cmd := &cobra.Command{
		Use:   "generate <instruction>",
		Short: "Generate code from a natural-language instruction",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath)
			if err != nil {
				return err
			}
			defer a.close()

			var artifact string
			if contextFile != "" {
				artifact, err = readArtifact(contextFile)
				if err != nil {
					return err
				}
			}

			gen := agent.NewGenerator(a.deps)
			resp := gen.Process(cmd.Context(), models.AgentRequest{
				Task:        models.TaskGenerate,
				Instruction: strings.Join(args, " "),
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
	cmd.Flags().StringVarP(&language, "lang", "l", "kotlin", "target language")
	cmd.Flags().StringVarP(&providerPre, "provider", "p", "", "pin a specific provider")
	cmd.Flags().StringVarP(&model, "model", "m", "", "model override")
	cmd.Flags().StringVarP(&contextFile, "context", "f", "", "existing code file to include as context")
	cmd.Flags().Float64VarP(&temperature, "temperature", "t", 0.2, "sampling temperature")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 2000, "max tokens to generate")
	return cmd
}
