package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/syllabus-auditor/internal/resources"
)

var (
	resourcesEnrich bool
	resourcesConfig string
)

var resourcesCmd = &cobra.Command{
	Use:   "resources [skill]...",
	Short: "Suggest learning resources for missing skills",
	Long:  "Suggest learning resources for the given missing skills, optionally probing each URL to fill in page titles.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runResources,
}

func init() {
	resourcesCmd.Flags().BoolVar(&resourcesEnrich, "enrich", false, "Probe resource URLs to fill in missing titles")
	resourcesCmd.Flags().StringVar(&resourcesConfig, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(resourcesCmd)
}

func runResources(_ *cobra.Command, args []string) error {
	cfg, err := resolveConfig(resourcesConfig)
	if err != nil {
		return err
	}

	ctx := context.Background()
	o, closeOracle, err := newOracle(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeOracle()

	found, err := o.LearningResources(ctx, args)
	if err != nil {
		return fmt.Errorf("failed to fetch resources: %w", err)
	}
	if resourcesEnrich {
		found = resources.NewEnricher().Enrich(ctx, found)
	}
	return printJSON(found)
}
