package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/syllabus-auditor/internal/domains"
)

var (
	compassStream string
	compassDomain string
	compassRole   string
	compassConfig string
)

var compassCmd = &cobra.Command{
	Use:   "compass",
	Short: "Generate a career roadmap for an aspirational role",
	Long:  "Generate a personalized career roadmap, practice tasks, and readiness test for a stream/domain/role selection.",
	RunE:  runCompass,
}

func init() {
	compassCmd.Flags().StringVarP(&compassStream, "stream", "s", "", "Career stream (required)")
	compassCmd.Flags().StringVarP(&compassDomain, "domain", "d", "", "Professional domain (required)")
	compassCmd.Flags().StringVarP(&compassRole, "role", "r", "", "Target role within the domain (required)")
	compassCmd.Flags().StringVar(&compassConfig, "config", "", "Path to JSON config file")

	_ = compassCmd.MarkFlagRequired("stream")
	_ = compassCmd.MarkFlagRequired("domain")
	_ = compassCmd.MarkFlagRequired("role")

	rootCmd.AddCommand(compassCmd)
}

func runCompass(_ *cobra.Command, _ []string) error {
	if !domains.ValidStream(compassStream) {
		return fmt.Errorf("unknown stream %q", compassStream)
	}
	if !domains.ValidDomain(compassDomain) {
		return fmt.Errorf("unknown domain %q", compassDomain)
	}
	if !domains.ValidRole(compassDomain, compassRole) {
		return fmt.Errorf("unknown role %q for domain %q", compassRole, compassDomain)
	}

	cfg, err := resolveConfig(compassConfig)
	if err != nil {
		return err
	}

	ctx := context.Background()
	o, closeOracle, err := newOracle(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeOracle()

	compass, err := o.CareerCompass(ctx, fmt.Sprintf("%s (%s)", compassStream, compassDomain), compassRole)
	if err != nil {
		return fmt.Errorf("failed to generate compass: %w", err)
	}
	return printJSON(compass)
}
