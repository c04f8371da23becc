package main

import (
	"fmt"
	"strings"

	"github.com/droidpilot-ai/droidpilot/pkg/agent"
	"github.com/droidpilot-ai/droidpilot/pkg/logcat"
	"github.com/droidpilot-ai/droidpilot/pkg/models"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		configPath  string
		providerPre string
		model       string
		file        string
		digestOnly  bool
		temperature float64
		maxTokens   int
	)

	cmd := &cobra.Command{
		Use:   "analyze --file <path> [question]",
		Short: "Analyze an Android log for crashes and anomalies",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath)
			if err != nil {
				return err
			}
			defer a.close()

			raw, err := readArtifact(file)
			if err != nil {
				return err
			}

			// Local digest without spending tokens.
			if digestOnly {
				fmt.Print(logcat.Render(a.pipeline.Run(raw)))
				return nil
			}

			instruction := strings.Join(args, " ")
			if instruction == "" {
				instruction = "Identify the root cause of any crashes or anomalies in this log."
			}

			analyzer := agent.NewLogAnalyzer(a.deps, a.pipeline)
			resp := analyzer.Process(cmd.Context(), models.AgentRequest{
				Task:        models.TaskAnalyzeLog,
				Instruction: instruction,
				Artifact:    raw,
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
	cmd.Flags().StringVarP(&file, "file", "f", "-", "log file to analyze (use - for stdin)")
	cmd.Flags().BoolVar(&digestOnly, "digest-only", false, "print the evidence digest without calling a provider")
	cmd.Flags().StringVarP(&providerPre, "provider", "p", "", "pin a specific provider")
	cmd.Flags().StringVarP(&model, "model", "m", "", "model override")
	cmd.Flags().Float64VarP(&temperature, "temperature", "t", 0.3, "sampling temperature")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 3000, "max tokens to generate")
	return cmd
}
