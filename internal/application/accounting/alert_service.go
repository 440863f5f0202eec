package accounting

import (
	"context"
	"time"

	"github.com/azalscore/backend/internal/domain/accounting"
	"github.com/azalscore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AlertService exposes pipeline alerts to the API.
type AlertService struct {
	alertRepo accounting.AlertRepository
}

// NewAlertService creates a new AlertService
func NewAlertService(alertRepo accounting.AlertRepository) *AlertService {
	return &AlertService{alertRepo: alertRepo}
}

// AlertResponse represents an alert in API responses
type AlertResponse struct {
	ID          uuid.UUID      `json:"id"`
	AlertType   string         `json:"alert_type"`
	Severity    string         `json:"severity"`
	Title       string         `json:"title"`
	Message     string         `json:"message"`
	Details     map[string]any `json:"details,omitempty"`
	TargetRoles []string       `json:"target_roles"`
	EntityType  string         `json:"entity_type,omitempty"`
	EntityID    *uuid.UUID     `json:"entity_id,omitempty"`
	Status      string         `json:"status"`
	ResolvedAt  *time.Time     `json:"resolved_at,omitempty"`
	ResolvedBy  *uuid.UUID     `json:"resolved_by,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ListAlerts lists alerts with pagination
func (s *AlertService) ListAlerts(ctx context.Context, tenantID uuid.UUID, filter accounting.AlertFilter) (*shared.Paginated[AlertResponse], error) {
	alerts, total, err := s.alertRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]AlertResponse, len(alerts))
	for i := range alerts {
		responses[i] = *toAlertResponse(&alerts[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ResolveAlert marks an alert as handled
func (s *AlertService) ResolveAlert(ctx context.Context, tenantID, id, userID uuid.UUID) (*AlertResponse, error) {
	alert, err := s.alertRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := alert.Resolve(userID); err != nil {
		return nil, err
	}
	if err := s.alertRepo.Save(ctx, alert); err != nil {
		return nil, err
	}
	return toAlertResponse(alert), nil
}

// DismissAlert dismisses an alert without action
func (s *AlertService) DismissAlert(ctx context.Context, tenantID, id, userID uuid.UUID) (*AlertResponse, error) {
	alert, err := s.alertRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := alert.Dismiss(userID); err != nil {
		return nil, err
	}
	if err := s.alertRepo.Save(ctx, alert); err != nil {
		return nil, err
	}
	return toAlertResponse(alert), nil
}

func toAlertResponse(a *accounting.AccountingAlert) *AlertResponse {
	return &AlertResponse{
		ID:          a.ID,
		AlertType:   string(a.AlertType),
		Severity:    string(a.Severity),
		Title:       a.Title,
		Message:     a.Message,
		Details:     a.Details,
		TargetRoles: a.TargetRoles,
		EntityType:  a.EntityType,
		EntityID:    a.EntityID,
		Status:      string(a.Status),
		ResolvedAt:  a.ResolvedAt,
		ResolvedBy:  a.ResolvedBy,
		CreatedAt:   a.CreatedAt,
	}
}
