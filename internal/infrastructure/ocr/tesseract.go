// Package ocr provides text-extraction engines behind the application's
// OCREngine port.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	appaccounting "github.com/azalscore/backend/internal/application/accounting"
)

// TesseractEngine shells out to a local tesseract binary. The document is
// written to a temp file because tesseract reads from disk.
type TesseractEngine struct {
	binary  string
	lang    string
	timeout time.Duration
}

// NewTesseractEngine creates a tesseract-backed engine
func NewTesseractEngine(binary, lang string, timeout time.Duration) *TesseractEngine {
	if binary == "" {
		binary = "tesseract"
	}
	if lang == "" {
		lang = "fra+eng"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &TesseractEngine{binary: binary, lang: lang, timeout: timeout}
}

// ExtractText runs tesseract over the document content
func (e *TesseractEngine) ExtractText(ctx context.Context, content []byte, fileName string) (appaccounting.OCRText, error) {
	tmp, err := os.CreateTemp("", "ocr-*"+filepath.Ext(fileName))
	if err != nil {
		return appaccounting.OCRText{}, fmt.Errorf("failed to stage document for OCR: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return appaccounting.OCRText{}, fmt.Errorf("failed to stage document for OCR: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return appaccounting.OCRText{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.binary, tmp.Name(), "stdout", "-l", e.lang)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return appaccounting.OCRText{}, fmt.Errorf("tesseract failed: %w: %s", err, stderr.String())
	}

	return appaccounting.OCRText{Engine: "tesseract", Text: stdout.String()}, nil
}
