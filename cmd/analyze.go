package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/carenav/directory-cli/pkg/classify"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <description...>",
	Short: "Classify a provider description into a directory category",
	Long: `Analyze assigns a free-text provider description to one of the directory
categories (dental, primary_care, urgent_care, optometrist, mental_health).
Keyword rules are tried first; ambiguous text goes to the language model
unless offline mode is set or no API key is configured.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")

		var classifier classify.Classifier
		if cfg.Classify.Offline || cfg.Classify.AnthropicKey == "" {
			classifier = classify.NewRuleClassifier()
			zap.L().Debug("using rule classifier",
				zap.Bool("offline", cfg.Classify.Offline))
		} else {
			classifier = classify.NewLLMClassifier(cfg.Classify.AnthropicKey, cfg.Classify.Model)
		}

		category, err := classifier.Classify(cmd.Context(), text)
		if err != nil {
			return err
		}

		out, err := json.Marshal(map[string]string{"provider_type": string(category)})
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
