package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/syllabus-auditor/internal/llm"
	"github.com/jonathan/syllabus-auditor/internal/prompts"
	"github.com/jonathan/syllabus-auditor/internal/schemas"
	"github.com/jonathan/syllabus-auditor/internal/types"
)

const promptFile = "syllabus"

// GeminiOracle implements Oracle on top of an llm.Client.
type GeminiOracle struct {
	client llm.Client
}

// NewGeminiOracle creates an oracle backed by the given LLM client.
func NewGeminiOracle(client llm.Client) *GeminiOracle {
	return &GeminiOracle{client: client}
}

// IndustrySkills returns exactly 12 skills for the role/domain pair.
func (o *GeminiOracle) IndustrySkills(ctx context.Context, domain, role string) ([]types.Skill, error) {
	prompt := prompts.Format(prompts.MustGet(promptFile, prompts.IndustrySkills), map[string]string{
		"Role":   role,
		"Domain": domain,
	})

	raw, err := o.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, &APICallError{Operation: "industry skills", Cause: err}
	}
	if err := schemas.Validate(schemas.IndustrySkills, raw); err != nil {
		return nil, err
	}

	var skills []types.Skill
	if err := json.Unmarshal([]byte(raw), &skills); err != nil {
		return nil, &ParseError{Operation: "industry skills", Message: "decoding skill list", Cause: err}
	}

	// Ensure ids are usable as stable references even when the model
	// returns duplicates.
	seen := make(map[string]bool, len(skills))
	for i := range skills {
		if skills[i].ID == "" || seen[skills[i].ID] {
			skills[i].ID = uuid.NewString()
		}
		seen[skills[i].ID] = true
	}
	return skills, nil
}

// GradeSyllabus audits the syllabus content against the skill list. Text
// content travels inside the prompt; an uploaded file travels as provider
// inline data alongside it.
func (o *GeminiOracle) GradeSyllabus(ctx context.Context, domain, role string, skills []types.Skill, content types.SyllabusContent) (*types.AnalysisResult, error) {
	if content.IsEmpty() {
		return nil, &ParseError{Operation: "grade syllabus", Message: "no syllabus content provided"}
	}

	skillNames, err := json.Marshal(types.SkillNames(skills))
	if err != nil {
		return nil, &ParseError{Operation: "grade syllabus", Message: "encoding skill list", Cause: err}
	}
	prompt := prompts.Format(prompts.MustGet(promptFile, prompts.GradeSyllabus), map[string]string{
		"Role":   role,
		"Domain": domain,
		"Skills": string(skillNames),
	})

	var raw string
	if content.File != nil {
		raw, err = o.client.GenerateJSONWithFile(ctx, prompt, content.File.MimeType, content.File.Data, llm.TierStandard)
	} else {
		raw, err = o.client.GenerateJSON(ctx, prompt+"\n\nSyllabus:\n"+content.Text, llm.TierStandard)
	}
	if err != nil {
		return nil, &APICallError{Operation: "grade syllabus", Cause: err}
	}
	if err := schemas.Validate(schemas.Analysis, raw); err != nil {
		return nil, err
	}

	var result types.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, &ParseError{Operation: "grade syllabus", Message: "decoding analysis", Cause: err}
	}
	return &result, nil
}

// LearningResources suggests resources for the given missing skills.
func (o *GeminiOracle) LearningResources(ctx context.Context, missingSkills []string) ([]types.Resource, error) {
	if len(missingSkills) == 0 {
		return []types.Resource{}, nil
	}

	prompt := prompts.Format(prompts.MustGet(promptFile, prompts.LearningResources), map[string]string{
		"Skills": strings.Join(missingSkills, ", "),
	})

	raw, err := o.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, &APICallError{Operation: "learning resources", Cause: err}
	}
	if err := schemas.Validate(schemas.Resources, raw); err != nil {
		return nil, err
	}

	var resources []types.Resource
	if err := json.Unmarshal([]byte(raw), &resources); err != nil {
		return nil, &ParseError{Operation: "learning resources", Message: "decoding resource list", Cause: err}
	}
	return resources, nil
}

// SkillQuiz returns exactly 3 questions for the given skill.
func (o *GeminiOracle) SkillQuiz(ctx context.Context, skill string) ([]types.QuizQuestion, error) {
	prompt := prompts.Format(prompts.MustGet(promptFile, prompts.SkillQuiz), map[string]string{
		"Skill": skill,
	})

	raw, err := o.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, &APICallError{Operation: "skill quiz", Cause: err}
	}
	if err := schemas.Validate(schemas.Quiz, raw); err != nil {
		return nil, err
	}

	var questions []types.QuizQuestion
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, &ParseError{Operation: "skill quiz", Message: "decoding questions", Cause: err}
	}
	if err := checkAnswerBounds("skill quiz", questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// CareerCompass returns a roadmap, practice tasks, and a readiness test.
func (o *GeminiOracle) CareerCompass(ctx context.Context, domain, role string) (*types.CareerCompass, error) {
	prompt := prompts.Format(prompts.MustGet(promptFile, prompts.CareerCompass), map[string]string{
		"Role":   role,
		"Domain": domain,
	})

	raw, err := o.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &APICallError{Operation: "career compass", Cause: err}
	}
	if err := schemas.Validate(schemas.CareerCompass, raw); err != nil {
		return nil, err
	}

	var compass types.CareerCompass
	if err := json.Unmarshal([]byte(raw), &compass); err != nil {
		return nil, &ParseError{Operation: "career compass", Message: "decoding compass", Cause: err}
	}
	if err := checkAnswerBounds("career compass", compass.Test); err != nil {
		return nil, err
	}
	return &compass, nil
}

// checkAnswerBounds rejects questions whose correct answer index falls
// outside the options slice. The schema can only enforce a lower bound.
func checkAnswerBounds(operation string, questions []types.QuizQuestion) error {
	for i, q := range questions {
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return &ParseError{
				Operation: operation,
				Message:   fmt.Sprintf("question %d: correct answer index %d out of range for %d options", i+1, q.CorrectAnswer, len(q.Options)),
			}
		}
	}
	return nil
}
