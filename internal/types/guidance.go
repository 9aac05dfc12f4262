package types

// Resource levels reported by the oracle.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Resource is a learning resource recommended for a missing skill.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Level string `json:"level"`
	Type  string `json:"type"`
}

// QuizQuestion is a single multiple-choice verification question.
// CorrectAnswer is an index into Options.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// RoadmapStage is one stage of a career roadmap.
type RoadmapStage struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
}

// PracticeTask is one hands-on task suggested for an aspirational role.
type PracticeTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
}

// CareerCompass bundles the roadmap, practice tasks, and readiness test
// generated for an aspirational role. It is held in memory only and never
// persisted to the session repository.
type CareerCompass struct {
	Roadmap []RoadmapStage `json:"roadmap"`
	Tasks   []PracticeTask `json:"tasks"`
	Test    []QuizQuestion `json:"test"`
}
