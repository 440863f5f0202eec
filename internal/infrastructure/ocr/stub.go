package ocr

import (
	"context"

	appaccounting "github.com/azalscore/backend/internal/application/accounting"
)

// StubEngine treats the document content as plain text. Used in development
// and tests where no tesseract binary is installed.
type StubEngine struct{}

// NewStubEngine creates a stub engine
func NewStubEngine() *StubEngine {
	return &StubEngine{}
}

// ExtractText returns the raw content as text
func (e *StubEngine) ExtractText(_ context.Context, content []byte, _ string) (appaccounting.OCRText, error) {
	return appaccounting.OCRText{Engine: "stub", Text: string(content)}, nil
}
