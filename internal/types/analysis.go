package types

// HeatmapPoint is one cell of the skill density heatmap: a skill group (x)
// crossed with a complexity level (y) and a 0-100 coverage value.
type HeatmapPoint struct {
	X     string `json:"x"`
	Y     string `json:"y"`
	Value int    `json:"value"`
}

// Breakdown splits the aging index into its scoring dimensions (0-100 each).
type Breakdown struct {
	Relevance int `json:"relevance"`
	Depth     int `json:"depth"`
	Modernity int `json:"modernity"`
}

// AnalysisResult is the oracle's grading of one syllabus against an industry
// skill list. It is immutable after it is produced; MissingSkills is the
// universe of skills eligible for quiz-based verification.
type AnalysisResult struct {
	Score          int            `json:"score"`
	MatchedSkills  []string       `json:"matchedSkills"`
	MissingSkills  []string       `json:"missingSkills"`
	OutdatedTopics []string       `json:"outdatedTopics"`
	Breakdown      Breakdown      `json:"breakdown"`
	Explanation    string         `json:"explanation"`
	HeatmapData    []HeatmapPoint `json:"heatmapData"`
}
