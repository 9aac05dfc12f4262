package types

// SavedSession is one persisted snapshot of a syllabus audit.
//
// Invariants: ID is unique within the repository, UserID resolves to a known
// user, and ValidatedSkills is a subset of Analysis.MissingSkills at the time
// of save.
type SavedSession struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Name            string          `json:"name"`
	Date            string          `json:"date"`
	Timestamp       int64           `json:"timestamp"`
	Domain          string          `json:"domain"`
	Role            string          `json:"role"`
	IndustrySkills  []Skill         `json:"industrySkills"`
	Analysis        *AnalysisResult `json:"analysis"`
	SyllabusText    string          `json:"syllabusText"`
	ValidatedSkills []string        `json:"validatedSkills"`
}
