package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/syllabus-auditor/internal/domains"
	"github.com/jonathan/syllabus-auditor/internal/ingestion"
	"github.com/jonathan/syllabus-auditor/internal/types"
)

var (
	gradeDomain   string
	gradeRole     string
	gradeTextFile string
	gradePDF      string
	gradeConfig   string
)

var gradeCmd = &cobra.Command{
	Use:   "grade",
	Short: "Grade a syllabus against current industry skills",
	Long:  "Fetch the industry skill list for the domain/role pair, grade the given syllabus against it, and print the full analysis as JSON.",
	RunE:  runGrade,
}

func init() {
	gradeCmd.Flags().StringVarP(&gradeDomain, "domain", "d", "", "Professional domain (required)")
	gradeCmd.Flags().StringVarP(&gradeRole, "role", "r", "", "Target role within the domain (required)")
	gradeCmd.Flags().StringVarP(&gradeTextFile, "text-file", "t", "", "Path to a plain-text syllabus")
	gradeCmd.Flags().StringVarP(&gradePDF, "pdf", "p", "", "Path to a PDF syllabus")
	gradeCmd.Flags().StringVar(&gradeConfig, "config", "", "Path to JSON config file")

	_ = gradeCmd.MarkFlagRequired("domain")
	_ = gradeCmd.MarkFlagRequired("role")

	rootCmd.AddCommand(gradeCmd)
}

func runGrade(_ *cobra.Command, _ []string) error {
	if gradeTextFile == "" && gradePDF == "" {
		return fmt.Errorf("either --text-file or --pdf must be provided")
	}
	if gradeTextFile != "" && gradePDF != "" {
		return fmt.Errorf("--text-file and --pdf are mutually exclusive; provide only one")
	}
	if !domains.ValidDomain(gradeDomain) {
		return fmt.Errorf("unknown domain %q", gradeDomain)
	}
	if !domains.ValidRole(gradeDomain, gradeRole) {
		return fmt.Errorf("unknown role %q for domain %q", gradeRole, gradeDomain)
	}

	var content types.SyllabusContent
	if gradeTextFile != "" {
		data, err := os.ReadFile(gradeTextFile)
		if err != nil {
			return fmt.Errorf("failed to read syllabus text: %w", err)
		}
		content.Text = string(data)
	} else {
		data, err := os.ReadFile(gradePDF)
		if err != nil {
			return fmt.Errorf("failed to read syllabus PDF: %w", err)
		}
		payload, err := ingestion.LoadSyllabusFile(gradePDF, "application/pdf", data)
		if err != nil {
			return err
		}
		content.File = payload
	}

	cfg, err := resolveConfig(gradeConfig)
	if err != nil {
		return err
	}

	ctx := context.Background()
	o, closeOracle, err := newOracle(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeOracle()

	skills, err := o.IndustrySkills(ctx, gradeDomain, gradeRole)
	if err != nil {
		return fmt.Errorf("failed to fetch skills: %w", err)
	}

	analysis, err := o.GradeSyllabus(ctx, gradeDomain, gradeRole, skills, content)
	if err != nil {
		return fmt.Errorf("failed to grade syllabus: %w", err)
	}
	return printJSON(analysis)
}
