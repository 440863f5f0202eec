package accounting

import (
	"context"

	"github.com/google/uuid"
)

// OCRText is the raw output of an OCR pass
type OCRText struct {
	Engine string
	Text   string
}

// OCREngine extracts text from a stored document image or PDF
type OCREngine interface {
	ExtractText(ctx context.Context, content []byte, fileName string) (OCRText, error)
}

// ObjectStorage stores raw document files
type ObjectStorage interface {
	Put(ctx context.Context, key string, content []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// EntryPoster posts an entry proposal to the ledger. The pipeline uses it to
// post auto-validated proposals without waiting for a human.
type EntryPoster interface {
	ValidateEntry(ctx context.Context, tenantID, entryID uuid.UUID, userID *uuid.UUID) (*AutoEntryResponse, error)
}
