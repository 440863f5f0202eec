package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/azalscore/backend/internal/domain/accounting"
	"github.com/azalscore/backend/internal/domain/shared"
	"github.com/azalscore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormJournalEntryRepository implements JournalEntryRepository using GORM
type GormJournalEntryRepository struct {
	db *gorm.DB
}

// NewGormJournalEntryRepository creates a new GormJournalEntryRepository
func NewGormJournalEntryRepository(db *gorm.DB) *GormJournalEntryRepository {
	return &GormJournalEntryRepository{db: db}
}

// FindByIDForTenant finds a posted entry by ID for a specific tenant
func (r *GormJournalEntryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*accounting.JournalEntry, error) {
	var model models.JournalEntryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// GenerateEntryNumber generates a new entry number for the tenant, scoped
// to the journal so each journal keeps its own sequence
func (r *GormJournalEntryRepository) GenerateEntryNumber(ctx context.Context, tenantID uuid.UUID, journalCode string) (string, error) {
	var count int64
	yearMonth := time.Now().Format("200601")

	if err := r.db.WithContext(ctx).Model(&models.JournalEntryModel{}).
		Where("tenant_id = ? AND entry_number LIKE ?", tenantID, fmt.Sprintf("%s-%s-%%", journalCode, yearMonth)).
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s-%05d", journalCode, yearMonth, count+1), nil
}

// Save creates or updates a posted entry
func (r *GormJournalEntryRepository) Save(ctx context.Context, entry *accounting.JournalEntry) error {
	model := models.JournalEntryModelFromDomain(entry)
	if err := saveVersioned(r.db.WithContext(ctx), model, entry.ID); err != nil {
		return err
	}
	entry.Version = model.Version
	return nil
}
