// Package ingestion handles uploaded syllabus documents. Only PDF files are
// accepted; type detection goes by magic bytes, not by the name or declared
// MIME type of the upload.
package ingestion

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/jonathan/syllabus-auditor/internal/types"
)

// MimePDF is the only upload MIME type the auditor accepts.
const MimePDF = "application/pdf"

// UnsupportedFileError reports an upload that is not a PDF.
type UnsupportedFileError struct {
	Name     string
	MimeType string
}

func (e *UnsupportedFileError) Error() string {
	return fmt.Sprintf("unsupported file %q (%s): only PDF uploads are accepted", e.Name, e.MimeType)
}

// LoadSyllabusFile validates raw upload bytes and packages them for the
// oracle. The declared MIME type is informational only; the bytes decide.
func LoadSyllabusFile(name, declaredMime string, data []byte) (*types.FilePayload, error) {
	if !isPDF(data) {
		return nil, &UnsupportedFileError{Name: name, MimeType: declaredMime}
	}
	return &types.FilePayload{
		Data:     base64.StdEncoding.EncodeToString(data),
		MimeType: MimePDF,
		Name:     name,
	}, nil
}

// DecodePayload restores the raw bytes of a previously loaded payload.
func DecodePayload(payload *types.FilePayload) ([]byte, error) {
	if payload == nil {
		return nil, fmt.Errorf("no file payload")
	}
	data, err := base64.StdEncoding.DecodeString(payload.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding file payload %q: %w", payload.Name, err)
	}
	return data, nil
}

// ExtractText pulls plain text out of a PDF, for local inspection and for
// text-only grading paths. Whitespace is collapsed.
func ExtractText(data []byte) (string, error) {
	if !isPDF(data) {
		return "", &UnsupportedFileError{Name: "(bytes)", MimeType: "unknown"}
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting pdf text: %w", err)
	}
	text, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	return collapseWhitespace(string(text)), nil
}

// PDF files start with "%PDF-".
func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
