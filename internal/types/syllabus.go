package types

// FilePayload is a base64-encoded uploaded document plus its MIME type.
// The payload is handed to the oracle inline and is never persisted into a
// saved session.
type FilePayload struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
	Name     string `json:"name"`
}

// SyllabusContent is the syllabus input for grading. At least one of Text or
// File must be present.
type SyllabusContent struct {
	Text string       `json:"text,omitempty"`
	File *FilePayload `json:"file,omitempty"`
}

// IsEmpty reports whether the content carries neither text nor a file.
func (c SyllabusContent) IsEmpty() bool {
	return c.Text == "" && c.File == nil
}
