package ocr

import (
	"context"
	"fmt"
	"os"
)

// FileSource reads documents that are already plain text, the common
// case when OCR ran in a separate preprocessing step.
type FileSource struct{}

// NewFileSource creates a FileSource.
func NewFileSource() *FileSource {
	return &FileSource{}
}

// Text reads the file at path.
func (s *FileSource) Text(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
