// Package payload turns raw provider responses into typed values based on
// the declared content type.
package payload

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Kind tags which variant of the decoded payload is populated.
type Kind int

const (
	// KindJSON is a plain JSON body.
	KindJSON Kind = iota
	// KindArchivedJSON is a JSON body extracted from a single-file archive.
	KindArchivedJSON
	// KindBinary is an opaque blob, e.g. a replay file.
	KindBinary
)

// Payload is the decoded value. JSON is set for the JSON kinds, Binary for
// the binary kind.
type Payload struct {
	Kind   Kind
	JSON   json.RawMessage
	Binary []byte
}

// ErrEmptyArchive is returned when an archive payload has no entries.
var ErrEmptyArchive = errors.New("empty archive")

// UnsupportedContentTypeError is returned for content types the decoder
// doesn't know how to handle.
type UnsupportedContentTypeError struct {
	ContentType string
}

func (e *UnsupportedContentTypeError) Error() string {
	return fmt.Sprintf("unsupported content type: %s", e.ContentType)
}

// Decode parses the body according to the declared content type.
// Matching is substring based since providers append charset parameters.
func Decode(contentType string, body []byte) (*Payload, error) {
	switch {
	case strings.Contains(contentType, "application/zip"):
		inner, err := readArchive(body)
		if err != nil {
			return nil, err
		}
		if !json.Valid(inner) {
			return nil, errors.New("archived file is not valid JSON")
		}
		return &Payload{Kind: KindArchivedJSON, JSON: inner}, nil

	case strings.Contains(contentType, "application/json"):
		if !json.Valid(body) {
			return nil, errors.New("body is not valid JSON")
		}
		return &Payload{Kind: KindJSON, JSON: body}, nil

	case strings.Contains(contentType, "application/octet-stream"):
		return &Payload{Kind: KindBinary, Binary: body}, nil

	default:
		return nil, &UnsupportedContentTypeError{ContentType: contentType}
	}
}

// readArchive opens the zip and reads its first file.
// The provider stores the data files as a single JSON inside the zip.
func readArchive(body []byte) ([]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("couldn't open the archive: %w", err)
	}

	if len(reader.File) == 0 {
		return nil, ErrEmptyArchive
	}

	file, err := reader.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("couldn't open the archived file: %w", err)
	}
	defer file.Close()

	inner, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("couldn't read the archived file: %w", err)
	}

	return inner, nil
}
