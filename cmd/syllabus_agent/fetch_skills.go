package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/syllabus-auditor/internal/domains"
)

var (
	skillsDomain string
	skillsRole   string
	skillsConfig string
)

var fetchSkillsCmd = &cobra.Command{
	Use:   "fetch-skills",
	Short: "Fetch the industry skill list for a domain/role pair",
	Long:  "Fetch the 12 current industry skills the auditor grades a syllabus against, as JSON.",
	RunE:  runFetchSkills,
}

func init() {
	fetchSkillsCmd.Flags().StringVarP(&skillsDomain, "domain", "d", "", "Professional domain (required)")
	fetchSkillsCmd.Flags().StringVarP(&skillsRole, "role", "r", "", "Target role within the domain (required)")
	fetchSkillsCmd.Flags().StringVar(&skillsConfig, "config", "", "Path to JSON config file")

	_ = fetchSkillsCmd.MarkFlagRequired("domain")
	_ = fetchSkillsCmd.MarkFlagRequired("role")

	rootCmd.AddCommand(fetchSkillsCmd)
}

func runFetchSkills(_ *cobra.Command, _ []string) error {
	if !domains.ValidDomain(skillsDomain) {
		return fmt.Errorf("unknown domain %q", skillsDomain)
	}
	if !domains.ValidRole(skillsDomain, skillsRole) {
		return fmt.Errorf("unknown role %q for domain %q", skillsRole, skillsDomain)
	}

	cfg, err := resolveConfig(skillsConfig)
	if err != nil {
		return err
	}

	ctx := context.Background()
	o, closeOracle, err := newOracle(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeOracle()

	skills, err := o.IndustrySkills(ctx, skillsDomain, skillsRole)
	if err != nil {
		return fmt.Errorf("failed to fetch skills: %w", err)
	}
	return printJSON(skills)
}
