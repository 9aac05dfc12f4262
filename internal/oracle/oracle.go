// Package oracle is the boundary to the language model. Every operation
// sends a structured prompt, validates the response against a JSON schema,
// and returns typed results. Nothing outside this package talks to the
// model directly.
package oracle

import (
	"context"

	"github.com/jonathan/syllabus-auditor/internal/types"
)

// Oracle produces skill lists, syllabus grades, and guidance content.
type Oracle interface {
	// IndustrySkills returns exactly 12 current industry skills for the
	// given role in the given domain.
	IndustrySkills(ctx context.Context, domain, role string) ([]types.Skill, error)

	// GradeSyllabus audits syllabus content against the skill list and
	// returns the full analysis, including the 4x4 coverage heatmap.
	GradeSyllabus(ctx context.Context, domain, role string, skills []types.Skill, content types.SyllabusContent) (*types.AnalysisResult, error)

	// LearningResources suggests resources for the given missing skills.
	LearningResources(ctx context.Context, missingSkills []string) ([]types.Resource, error)

	// SkillQuiz returns exactly 3 multiple-choice questions for one skill.
	SkillQuiz(ctx context.Context, skill string) ([]types.QuizQuestion, error)

	// CareerCompass returns a roadmap, practice tasks, and a readiness
	// test for the given role.
	CareerCompass(ctx context.Context, domain, role string) (*types.CareerCompass, error)
}
