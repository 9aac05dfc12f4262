package ingestion

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSyllabusFile(t *testing.T) {
	data := []byte("%PDF-1.7\nfake body")
	payload, err := LoadSyllabusFile("syllabus.pdf", "application/pdf", data)
	require.NoError(t, err)

	assert.Equal(t, "syllabus.pdf", payload.Name)
	assert.Equal(t, MimePDF, payload.MimeType)

	decoded, err := base64.StdEncoding.DecodeString(payload.Data)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestLoadSyllabusFileRejectsNonPDF(t *testing.T) {
	cases := []struct {
		name         string
		fileName     string
		declaredMime string
		data         []byte
	}{
		{"word document", "syllabus.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", []byte("PK\x03\x04docx bytes")},
		{"plain text", "syllabus.txt", "text/plain", []byte("Week 1: intro")},
		{"renamed text file", "syllabus.pdf", "application/pdf", []byte("not actually a pdf")},
		{"empty upload", "syllabus.pdf", "application/pdf", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadSyllabusFile(tc.fileName, tc.declaredMime, tc.data)
			var ue *UnsupportedFileError
			require.True(t, errors.As(err, &ue))
			assert.Equal(t, tc.fileName, ue.Name)
		})
	}
}

func TestDecodePayloadRoundTrip(t *testing.T) {
	data := []byte("%PDF-1.4 contents")
	payload, err := LoadSyllabusFile("a.pdf", MimePDF, data)
	require.NoError(t, err)

	decoded, err := DecodePayload(payload)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestDecodePayloadNil(t *testing.T) {
	_, err := DecodePayload(nil)
	assert.Error(t, err)
}

func TestExtractTextRejectsGarbage(t *testing.T) {
	_, err := ExtractText([]byte("hello world"))
	var ue *UnsupportedFileError
	assert.True(t, errors.As(err, &ue))

	// Header alone is not a readable document.
	_, err = ExtractText([]byte("%PDF-1.7 truncated"))
	assert.Error(t, err)
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "Week 1: intro to SQL", collapseWhitespace("  Week 1:\n\n intro\tto   SQL \n"))
}
