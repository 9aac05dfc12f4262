package types

// Importance levels reported by the oracle for industry skills.
const (
	ImportanceHigh   = "high"
	ImportanceMedium = "medium"
	ImportanceLow    = "low"
)

// Skill is one industry-standard skill for a domain/role pair.
// Skills are produced only by the oracle and are immutable once fetched;
// a saved session embeds them verbatim.
type Skill struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Importance  string `json:"importance"`
	Category    string `json:"category"`
}

// SkillNames returns the names of the given skills in order.
func SkillNames(skills []Skill) []string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	return names
}
