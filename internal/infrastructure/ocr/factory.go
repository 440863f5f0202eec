package ocr

import (
	"fmt"

	appaccounting "github.com/azalscore/backend/internal/application/accounting"
	"github.com/azalscore/backend/internal/infrastructure/config"
)

// NewEngine creates an OCR engine from configuration
func NewEngine(cfg config.OCRConfig) (appaccounting.OCREngine, error) {
	switch cfg.Engine {
	case "tesseract":
		return NewTesseractEngine(cfg.Binary, cfg.Lang, cfg.Timeout), nil
	case "stub", "":
		return NewStubEngine(), nil
	default:
		return nil, fmt.Errorf("unknown OCR engine: %s", cfg.Engine)
	}
}
