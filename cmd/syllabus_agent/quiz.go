package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var quizConfig string

var quizCmd = &cobra.Command{
	Use:   "quiz [skill]",
	Short: "Generate a verification quiz for one skill",
	Long:  "Generate the 3-question multiple-choice quiz used to verify practical knowledge of a skill.",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuiz,
}

func init() {
	quizCmd.Flags().StringVar(&quizConfig, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(quizCmd)
}

func runQuiz(_ *cobra.Command, args []string) error {
	cfg, err := resolveConfig(quizConfig)
	if err != nil {
		return err
	}

	ctx := context.Background()
	o, closeOracle, err := newOracle(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeOracle()

	questions, err := o.SkillQuiz(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to generate quiz: %w", err)
	}
	return printJSON(questions)
}
