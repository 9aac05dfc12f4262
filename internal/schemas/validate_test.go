package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIndustrySkills(t *testing.T) {
	valid := `[
		{"id": "s1", "name": "Kubernetes", "description": "Container orchestration", "importance": "high", "category": "Infrastructure"},
		{"id": "s2", "name": "Terraform", "description": "IaC", "importance": "high", "category": "Infrastructure"},
		{"id": "s3", "name": "Go", "description": "", "importance": "medium", "category": "Languages"},
		{"id": "s4", "name": "gRPC", "description": "", "importance": "medium", "category": "APIs"},
		{"id": "s5", "name": "Kafka", "description": "", "importance": "medium", "category": "Messaging"},
		{"id": "s6", "name": "Observability", "description": "", "importance": "high", "category": "Operations"},
		{"id": "s7", "name": "CI/CD", "description": "", "importance": "high", "category": "Delivery"},
		{"id": "s8", "name": "SQL", "description": "", "importance": "medium", "category": "Data"},
		{"id": "s9", "name": "Redis", "description": "", "importance": "low", "category": "Data"},
		{"id": "s10", "name": "Security", "description": "", "importance": "high", "category": "Security"},
		{"id": "s11", "name": "Testing", "description": "", "importance": "medium", "category": "Quality"},
		{"id": "s12", "name": "System Design", "description": "", "importance": "high", "category": "Architecture"}
	]`
	assert.NoError(t, Validate(IndustrySkills, valid))
}

func TestValidateIndustrySkillsRejectsWrongCount(t *testing.T) {
	short := `[{"id": "s1", "name": "Go", "description": "", "importance": "high", "category": "Languages"}]`
	err := Validate(IndustrySkills, short)
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, IndustrySkills, ve.Schema)
	assert.NotEmpty(t, ve.Errors)
}

func TestValidateIndustrySkillsRejectsUnknownImportance(t *testing.T) {
	bad := `[
		{"id": "s1", "name": "Go", "description": "", "importance": "critical", "category": "Languages"},
		{"id": "s2", "name": "b", "description": "", "importance": "high", "category": "c"},
		{"id": "s3", "name": "b", "description": "", "importance": "high", "category": "c"},
		{"id": "s4", "name": "b", "description": "", "importance": "high", "category": "c"},
		{"id": "s5", "name": "b", "description": "", "importance": "high", "category": "c"},
		{"id": "s6", "name": "b", "description": "", "importance": "high", "category": "c"},
		{"id": "s7", "name": "b", "description": "", "importance": "high", "category": "c"},
		{"id": "s8", "name": "b", "description": "", "importance": "high", "category": "c"},
		{"id": "s9", "name": "b", "description": "", "importance": "high", "category": "c"},
		{"id": "s10", "name": "b", "description": "", "importance": "high", "category": "c"},
		{"id": "s11", "name": "b", "description": "", "importance": "high", "category": "c"},
		{"id": "s12", "name": "b", "description": "", "importance": "high", "category": "c"}
	]`
	var ve *ValidationError
	require.True(t, errors.As(Validate(IndustrySkills, bad), &ve))
}

func TestValidateAnalysisRejectsExtraField(t *testing.T) {
	doc := `{
		"score": 80,
		"matchedSkills": ["SQL"],
		"missingSkills": ["Airflow"],
		"outdatedTopics": [],
		"breakdown": {"relevance": 80, "depth": 75, "modernity": 60},
		"explanation": "ok",
		"heatmapData": [],
		"confidence": 0.9
	}`
	var ve *ValidationError
	require.True(t, errors.As(Validate(Analysis, doc), &ve))
}

func TestValidateQuizRequiresThreeQuestions(t *testing.T) {
	two := `[
		{"question": "q1", "options": ["a", "b"], "correctAnswer": 0, "explanation": ""},
		{"question": "q2", "options": ["a", "b"], "correctAnswer": 1, "explanation": ""}
	]`
	var ve *ValidationError
	require.True(t, errors.As(Validate(Quiz, two), &ve))

	three := `[
		{"question": "q1", "options": ["a", "b", "c", "d"], "correctAnswer": 0, "explanation": "because"},
		{"question": "q2", "options": ["a", "b"], "correctAnswer": 1, "explanation": ""},
		{"question": "q3", "options": ["a", "b", "c"], "correctAnswer": 2, "explanation": ""}
	]`
	assert.NoError(t, Validate(Quiz, three))
}

func TestValidateResources(t *testing.T) {
	doc := `[
		{"title": "Learning dbt", "url": "https://example.com/dbt", "level": "beginner", "type": "course"},
		{"title": "Advanced dbt", "url": "https://example.com/dbt2", "level": "advanced", "type": "article"}
	]`
	assert.NoError(t, Validate(Resources, doc))

	badLevel := `[{"title": "t", "url": "u", "level": "expert", "type": "course"}]`
	var ve *ValidationError
	require.True(t, errors.As(Validate(Resources, badLevel), &ve))
}

func TestValidateCareerCompass(t *testing.T) {
	doc := `{
		"roadmap": [{"title": "Foundations", "description": "Core concepts", "duration": "4 weeks"}],
		"tasks": [{"title": "Build a pipeline", "description": "End to end", "difficulty": "medium"}],
		"test": [{"question": "q", "options": ["a", "b"], "correctAnswer": 0, "explanation": ""}]
	}`
	assert.NoError(t, Validate(CareerCompass, doc))
}

func TestValidateUnknownSchema(t *testing.T) {
	err := Validate("nonexistent", `{}`)
	var le *SchemaLoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "nonexistent", le.Schema)
}

func TestValidateMalformedDocument(t *testing.T) {
	err := Validate(Analysis, `{not json`)
	require.Error(t, err)
}
