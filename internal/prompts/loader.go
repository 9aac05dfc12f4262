// Package prompts loads the instruction templates sent to the language
// model. Templates live in embedded JSON files and use {{.Name}}
// placeholders filled in at call time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// Template names available in syllabus.json.
const (
	IndustrySkills    = "industry_skills"
	GradeSyllabus     = "grade_syllabus"
	LearningResources = "learning_resources"
	SkillQuiz         = "skill_quiz"
	CareerCompass     = "career_compass"
)

var (
	cache   = make(map[string]map[string]string)
	cacheMu sync.RWMutex
)

// Get returns the named template from the given prompt file (without the
// .json extension).
func Get(file, name string) (string, error) {
	templates, err := loadFile(file)
	if err != nil {
		return "", err
	}
	tmpl, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("prompt %q not found in %s.json", name, file)
	}
	return tmpl, nil
}

// MustGet is like Get but panics on failure. Intended for templates the
// binary embeds, where absence is a programming error.
func MustGet(file, name string) string {
	tmpl, err := Get(file, name)
	if err != nil {
		panic(err)
	}
	return tmpl
}

// Format substitutes {{.Key}} placeholders in tmpl with the given values.
func Format(tmpl string, values map[string]string) string {
	out := tmpl
	for key, value := range values {
		out = strings.ReplaceAll(out, "{{."+key+"}}", value)
	}
	return out
}

func loadFile(file string) (map[string]string, error) {
	cacheMu.RLock()
	templates, ok := cache[file]
	cacheMu.RUnlock()
	if ok {
		return templates, nil
	}

	data, err := promptFiles.ReadFile(file + ".json")
	if err != nil {
		return nil, fmt.Errorf("prompt file %s.json not found: %w", file, err)
	}
	templates = make(map[string]string)
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("parsing %s.json: %w", file, err)
	}

	cacheMu.Lock()
	cache[file] = templates
	cacheMu.Unlock()
	return templates, nil
}
