// Package types provides type definitions for structured data used throughout the syllabus-auditor system.
package types

// User represents an academic user identified by their email address.
// The ID is a reversible encoding of the normalized email, not a hash,
// so the same email always maps to the same user record.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Bio    string `json:"bio"`
	Avatar string `json:"avatar"`
}
