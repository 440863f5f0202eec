package accounting

import (
	"time"

	"github.com/azalscore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AlertType categorizes pipeline alerts
type AlertType string

const (
	AlertDuplicateSuspected AlertType = "DUPLICATE_SUSPECTED"
	AlertMissingInfo        AlertType = "MISSING_INFO"
	AlertLowConfidence      AlertType = "LOW_CONFIDENCE"
	AlertDocumentUnreadable AlertType = "DOCUMENT_UNREADABLE"
	AlertBankSyncFailed     AlertType = "BANK_SYNC_FAILED"
)

// IsValid checks if the type is a valid AlertType
func (t AlertType) IsValid() bool {
	switch t {
	case AlertDuplicateSuspected, AlertMissingInfo, AlertLowConfidence,
		AlertDocumentUnreadable, AlertBankSyncFailed:
		return true
	}
	return false
}

// AlertSeverity grades how urgent an alert is
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "INFO"
	SeverityWarning  AlertSeverity = "WARNING"
	SeverityCritical AlertSeverity = "CRITICAL"
)

// AlertStatus is the resolution state of an alert
type AlertStatus string

const (
	AlertStatusActive    AlertStatus = "ACTIVE"
	AlertStatusResolved  AlertStatus = "RESOLVED"
	AlertStatusDismissed AlertStatus = "DISMISSED"
)

// Role names used for alert targeting, mirroring the product's three views
const (
	RoleDirigeant       = "dirigeant"
	RoleAssistante      = "assistante"
	RoleExpertComptable = "expert"
)

// AccountingAlert is a notification raised by the pipeline when data is
// missing, confidence is low, or something looks suspicious. Alerts are
// advisory; they never block the operation that raised them.
type AccountingAlert struct {
	shared.TenantAggregateRoot
	AlertType   AlertType
	Severity    AlertSeverity
	Title       string
	Message     string
	Details     map[string]any
	TargetRoles []string
	EntityType  string
	EntityID    *uuid.UUID
	Status      AlertStatus
	ResolvedAt  *time.Time
	ResolvedBy  *uuid.UUID
}

// NewAccountingAlert raises an alert
func NewAccountingAlert(
	tenantID uuid.UUID,
	alertType AlertType,
	severity AlertSeverity,
	title, message string,
) (*AccountingAlert, error) {
	if !alertType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid alert type: "+string(alertType))
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Alert title is required")
	}
	return &AccountingAlert{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		AlertType:           alertType,
		Severity:            severity,
		Title:               title,
		Message:             message,
		Details:             make(map[string]any),
		TargetRoles:         []string{RoleAssistante, RoleExpertComptable},
		Status:              AlertStatusActive,
	}, nil
}

// WithDetail attaches a structured detail to the alert
func (a *AccountingAlert) WithDetail(key string, value any) *AccountingAlert {
	a.Details[key] = value
	return a
}

// ForEntity links the alert to the entity that triggered it
func (a *AccountingAlert) ForEntity(entityType string, entityID uuid.UUID) *AccountingAlert {
	a.EntityType = entityType
	a.EntityID = &entityID
	return a
}

// TargetedAt overrides the default target roles
func (a *AccountingAlert) TargetedAt(roles ...string) *AccountingAlert {
	a.TargetRoles = roles
	return a
}

// Resolve marks the alert handled
func (a *AccountingAlert) Resolve(userID uuid.UUID) error {
	if a.Status != AlertStatusActive {
		return shared.ErrInvalidState.WithDetail("status", string(a.Status))
	}
	now := time.Now()
	a.Status = AlertStatusResolved
	a.ResolvedAt = &now
	a.ResolvedBy = &userID
	return nil
}

// Dismiss marks the alert ignored without action
func (a *AccountingAlert) Dismiss(userID uuid.UUID) error {
	if a.Status != AlertStatusActive {
		return shared.ErrInvalidState.WithDetail("status", string(a.Status))
	}
	now := time.Now()
	a.Status = AlertStatusDismissed
	a.ResolvedAt = &now
	a.ResolvedBy = &userID
	return nil
}
