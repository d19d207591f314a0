// Package ocr obtains raw document text from source files.
//
// The image-to-text work itself happens outside this module. FileSource
// reads pre-extracted text files; CommandSource shells out to a
// configured OCR tool such as tesseract. Both satisfy the same Source
// contract so the pipeline does not care which one feeds it.
package ocr

import "context"

// Source yields the raw text of the document at path.
type Source interface {
	Text(ctx context.Context, path string) (string, error)
}
