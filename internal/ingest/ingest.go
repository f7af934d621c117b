package ingest

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxFileSize is the upload ceiling (10 MiB), matching the web client.
const MaxFileSize = 10 * 1024 * 1024

// Validation errors surfaced to the user. Terminal, never retried.
var (
	ErrInvalidFormat = errors.New("unsupported image format (JPEG, PNG, or WebP required)")
	ErrFileTooLarge  = errors.New("file size must be less than 10MB")
	ErrProcessing    = errors.New("failed to process the image")
)

// acceptedTypes matches the web client's accept list exactly.
var acceptedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// UploadedPhoto is a validated, fully read photo ready for analysis.
type UploadedPhoto struct {
	Name    string
	MIME    string
	Size    int64
	Data    []byte
	DataURI string // data:<mime>;base64,<payload>
}

// Ingest reads a user-supplied image, validates its type and size, and
// produces the base64 data-URI payload the relay expects. The MIME type is
// detected from content, not trusted from the file name.
func Ingest(name string, r io.Reader) (*UploadedPhoto, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessing, err)
	}
	// Type before size, matching the web client: an oversize file of an
	// unsupported type reports the format error.
	mime := sniffMIME(data)
	if !acceptedTypes[mime] {
		return nil, ErrInvalidFormat
	}
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	return &UploadedPhoto{
		Name:    filepath.Base(name),
		MIME:    mime,
		Size:    int64(len(data)),
		Data:    data,
		DataURI: MakeDataURI(mime, base64.StdEncoding.EncodeToString(data)),
	}, nil
}

// IngestFile opens and ingests a photo from disk.
func IngestFile(path string) (*UploadedPhoto, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessing, err)
	}
	defer f.Close()
	return Ingest(path, f)
}

// sniffMIME detects the image type by magic bytes, falling back to the
// stdlib sniffer for WebP and anything exotic.
func sniffMIME(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFF && b[1] == 0xD8 {
		return "image/jpeg"
	}
	if len(b) >= 8 &&
		b[0] == 0x89 && b[1] == 0x50 && b[2] == 0x4E && b[3] == 0x47 &&
		b[4] == 0x0D && b[5] == 0x0A && b[6] == 0x1A && b[7] == 0x0A {
		return "image/png"
	}
	return http.DetectContentType(b)
}

// MakeDataURI builds a data URI from a MIME type and base64 payload.
func MakeDataURI(mime, b64 string) string {
	return "data:" + mime + ";base64," + b64
}

// DecodeDataURI decodes a base64 string that may carry a data:URI prefix.
// Returns the raw bytes and the MIME hint from the prefix, if any.
func DecodeDataURI(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	var mime string
	if strings.HasPrefix(s, "data:") {
		idx := strings.IndexByte(s, ',')
		if idx < 0 {
			return nil, "", fmt.Errorf("malformed data URI")
		}
		meta := s[len("data:"):idx] // "<mime>;base64"
		if semi := strings.IndexByte(meta, ';'); semi >= 0 {
			mime = meta[:semi]
		} else {
			mime = meta
		}
		s = s[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		// URL-safe variant seen from some encoders
		if data2, err2 := base64.URLEncoding.DecodeString(s); err2 == nil {
			return data2, mime, nil
		}
		return nil, "", err
	}
	return data, mime, nil
}
