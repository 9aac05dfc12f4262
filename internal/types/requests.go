package types

import (
	"github.com/go-playground/validator/v10"
)

// LoginRequest represents the login request. Login requires no password:
// identity is derived from the email itself.
type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,min=1"`
}

// LoginResponse represents the login response with user data and an API token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// SkillsRequest selects the domain/role pair to fetch industry skills for.
type SkillsRequest struct {
	Domain string `json:"domain" validate:"required"`
	Role   string `json:"role" validate:"required"`
}

// GradeRequest submits a syllabus for grading. Either Text (min 50 chars)
// or File must be present; the handler enforces the either/or. When
// SkillNames is empty the server fetches the industry skill list for the
// domain/role pair first.
type GradeRequest struct {
	Domain     string       `json:"domain" validate:"required"`
	Role       string       `json:"role" validate:"required"`
	Text       string       `json:"text,omitempty"`
	File       *FilePayload `json:"file,omitempty"`
	SkillNames []string     `json:"skillNames,omitempty"`
}

// Validate validates the GradeRequest using the validator.
func (r *GradeRequest) Validate() error {
	return validator.New().Struct(r)
}

// ResourcesRequest asks for learning resources covering the given gaps.
type ResourcesRequest struct {
	MissingSkills []string `json:"missingSkills" validate:"required,min=1"`
}

// SaveSessionRequest persists the caller's current analysis under an
// optional display name.
type SaveSessionRequest struct {
	Name string `json:"name,omitempty"`
}

// ValidateSkillRequest records a quiz result for one missing skill.
// Score is the quiz percentage; only 100 marks the skill verified.
type ValidateSkillRequest struct {
	Skill string `json:"skill" validate:"required"`
	Score int    `json:"score" validate:"min=0,max=100"`
}

// CompassRequest selects the stream/domain/role triple for roadmap generation.
type CompassRequest struct {
	Stream string `json:"stream" validate:"required"`
	Domain string `json:"domain" validate:"required"`
	Role   string `json:"role" validate:"required"`
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the SkillsRequest using the validator.
func (r *SkillsRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the ResourcesRequest using the validator.
func (r *ResourcesRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the ValidateSkillRequest using the validator.
func (r *ValidateSkillRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the CompassRequest using the validator.
func (r *CompassRequest) Validate() error {
	return validator.New().Struct(r)
}
