package banking

import (
	"context"
	"time"

	"github.com/azalscore/backend/internal/domain/accounting"
	"github.com/azalscore/backend/internal/domain/banking"
	"github.com/azalscore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReconciliationService matches synced transactions to accounting documents.
// User-defined rules run first in priority order; the heuristic matcher
// handles whatever the rules leave unmatched.
type ReconciliationService struct {
	txRepo      banking.TransactionRepository
	ruleRepo    banking.RuleRepository
	historyRepo banking.HistoryRepository
	docRepo     accounting.DocumentRepository
	matcher     *banking.TransactionMatcher
	logger      *zap.Logger
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	txRepo banking.TransactionRepository,
	ruleRepo banking.RuleRepository,
	historyRepo banking.HistoryRepository,
	docRepo accounting.DocumentRepository,
	logger *zap.Logger,
) *ReconciliationService {
	return &ReconciliationService{
		txRepo:      txRepo,
		ruleRepo:    ruleRepo,
		historyRepo: historyRepo,
		docRepo:     docRepo,
		matcher:     banking.NewTransactionMatcher(),
		logger:      logger,
	}
}

// TransactionResponse represents a synced transaction in API responses
type TransactionResponse struct {
	ID                uuid.UUID       `json:"id"`
	AccountID         uuid.UUID       `json:"account_id"`
	TransactionDate   time.Time       `json:"transaction_date"`
	Amount            decimal.Decimal `json:"amount"`
	Direction         string          `json:"direction"`
	Label             string          `json:"label"`
	Reference         string          `json:"reference,omitempty"`
	Counterparty      string          `json:"counterparty,omitempty"`
	Status            string          `json:"status"`
	MatchedDocumentID *uuid.UUID      `json:"matched_document_id,omitempty"`
	MatchConfidence   float64         `json:"match_confidence"`
	MatchedBy         string          `json:"matched_by,omitempty"`
}

// SuggestionResponse represents one match suggestion for a transaction
type SuggestionResponse struct {
	DocumentID     uuid.UUID       `json:"document_id"`
	DocumentNumber string          `json:"document_number"`
	PartnerName    string          `json:"partner_name,omitempty"`
	AmountTotal    decimal.Decimal `json:"amount_total"`
	Confidence     float64         `json:"confidence"`
	ExactAmount    bool            `json:"exact_amount"`
	PartialPayment bool            `json:"partial_payment"`
	ReferenceHit   bool            `json:"reference_hit"`
}

// AutoReconcileResult summarizes one auto-reconciliation run
type AutoReconcileResult struct {
	Processed int `json:"processed"`
	Matched   int `json:"matched"`
	Pending   int `json:"pending"`
	ByRule    int `json:"by_rule"`
}

// ListTransactions lists synced transactions with pagination
func (s *ReconciliationService) ListTransactions(ctx context.Context, tenantID uuid.UUID, filter banking.TransactionFilter) (*shared.Paginated[TransactionResponse], error) {
	txs, total, err := s.txRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]TransactionResponse, len(txs))
	for i := range txs {
		responses[i] = *toTransactionResponse(&txs[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// AutoReconcile runs rules then the matcher over all unmatched transactions
func (s *ReconciliationService) AutoReconcile(ctx context.Context, tenantID uuid.UUID) (*AutoReconcileResult, error) {
	txs, err := s.txRepo.FindUnmatched(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	rules, err := s.ruleRepo.FindActiveForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	openDocs, err := s.openDocuments(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	result := &AutoReconcileResult{}
	for i := range txs {
		tx := &txs[i]
		result.Processed++

		// a rule hit means the transaction is a known recurring item
		// (fees, subscriptions) that needs no document behind it
		if rule := firstMatchingRule(rules, tx); rule != nil {
			if err := tx.Ignore(); err != nil {
				continue
			}
			tx.MatchedBy = banking.MatchModeRule
			if err := s.txRepo.Save(ctx, tx); err != nil {
				return nil, err
			}
			result.ByRule++
			continue
		}

		suggestion, ok := s.matcher.BestMatch(tx, openDocs)
		if !ok {
			continue
		}
		switch suggestion.Decision {
		case banking.DecisionAutoMatch:
			if err := s.applyMatch(ctx, tx, suggestion.Document.ID, suggestion.Confidence, banking.MatchModeAuto); err != nil {
				return nil, err
			}
			result.Matched++
		case banking.DecisionPending:
			if err := tx.MarkPending(suggestion.Document.ID, suggestion.Confidence); err != nil {
				continue
			}
			if err := s.txRepo.Save(ctx, tx); err != nil {
				return nil, err
			}
			result.Pending++
		}
	}
	s.logger.Info("auto reconciliation completed",
		zap.Int("processed", result.Processed),
		zap.Int("matched", result.Matched),
		zap.Int("pending", result.Pending),
		zap.Int("by_rule", result.ByRule))
	return result, nil
}

// Suggestions scores a transaction against all open documents
func (s *ReconciliationService) Suggestions(ctx context.Context, tenantID, transactionID uuid.UUID) ([]SuggestionResponse, error) {
	tx, err := s.txRepo.FindByIDForTenant(ctx, tenantID, transactionID)
	if err != nil {
		return nil, err
	}
	openDocs, err := s.openDocuments(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	suggestions := s.matcher.Suggestions(tx, openDocs)
	responses := make([]SuggestionResponse, len(suggestions))
	for i, sug := range suggestions {
		responses[i] = SuggestionResponse{
			DocumentID:     sug.Document.ID,
			DocumentNumber: sug.Document.Reference,
			PartnerName:    sug.Document.PartnerName,
			AmountTotal:    sug.Document.AmountTotal,
			Confidence:     sug.Confidence,
			ExactAmount:    sug.ExactAmount,
			PartialPayment: sug.PartialPay,
			ReferenceHit:   sug.ReferenceHit,
		}
	}
	return responses, nil
}

// ManualMatch links a transaction to a document on user decision
func (s *ReconciliationService) ManualMatch(ctx context.Context, tenantID, transactionID, documentID uuid.UUID, userID *uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.txRepo.FindByIDForTenant(ctx, tenantID, transactionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.docRepo.FindByIDForTenant(ctx, tenantID, documentID); err != nil {
		return nil, err
	}
	if err := tx.Match(documentID, 1.0, banking.MatchModeManual); err != nil {
		return nil, err
	}
	if err := s.txRepo.Save(ctx, tx); err != nil {
		return nil, err
	}
	s.recordHistory(ctx, tx, documentID, banking.MatchModeManual, 1.0, "MATCHED", userID)
	return toTransactionResponse(tx), nil
}

// Unmatch reverts a matched or pending transaction
func (s *ReconciliationService) Unmatch(ctx context.Context, tenantID, transactionID uuid.UUID, userID *uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.txRepo.FindByIDForTenant(ctx, tenantID, transactionID)
	if err != nil {
		return nil, err
	}
	previousDoc := tx.MatchedDocumentID
	if err := tx.Unmatch(); err != nil {
		return nil, err
	}
	if err := s.txRepo.Save(ctx, tx); err != nil {
		return nil, err
	}
	if previousDoc != nil {
		s.recordHistory(ctx, tx, *previousDoc, banking.MatchModeManual, 0, "UNMATCHED", userID)
	}
	return toTransactionResponse(tx), nil
}

func (s *ReconciliationService) applyMatch(ctx context.Context, tx *banking.SyncedTransaction, documentID uuid.UUID, confidence float64, mode banking.MatchMode) error {
	if err := tx.Match(documentID, confidence, mode); err != nil {
		return err
	}
	if err := s.txRepo.Save(ctx, tx); err != nil {
		return err
	}
	s.recordHistory(ctx, tx, documentID, mode, confidence, "MATCHED", nil)
	return nil
}

func (s *ReconciliationService) recordHistory(ctx context.Context, tx *banking.SyncedTransaction, documentID uuid.UUID, mode banking.MatchMode, confidence float64, action string, userID *uuid.UUID) {
	record := banking.NewReconciliationHistory(tx.TenantID, tx.ID, documentID, mode, confidence, action, userID)
	if err := s.historyRepo.Save(ctx, record); err != nil {
		s.logger.Warn("reconciliation history could not be saved",
			zap.String("transaction_id", tx.ID.String()), zap.Error(err))
	}
}

// openDocuments projects reconcilable documents into the matcher's shape
func (s *ReconciliationService) openDocuments(ctx context.Context, tenantID uuid.UUID) ([]banking.OpenDocument, error) {
	docs, err := s.docRepo.FindOpenForReconciliation(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	open := make([]banking.OpenDocument, len(docs))
	for i, d := range docs {
		open[i] = banking.OpenDocument{
			ID:            d.ID,
			Reference:     d.DocumentNumber,
			InvoiceNumber: d.InvoiceNumber,
			PartnerName:   d.PartnerName,
			AmountTotal:   d.AmountTotal,
		}
	}
	return open, nil
}

func firstMatchingRule(rules []banking.ReconciliationRule, tx *banking.SyncedTransaction) *banking.ReconciliationRule {
	for i := range rules {
		if rules[i].Matches(tx) {
			return &rules[i]
		}
	}
	return nil
}

func toTransactionResponse(t *banking.SyncedTransaction) *TransactionResponse {
	return &TransactionResponse{
		ID:                t.ID,
		AccountID:         t.AccountID,
		TransactionDate:   t.TransactionDate,
		Amount:            t.Amount,
		Direction:         string(t.Direction),
		Label:             t.Label,
		Reference:         t.Reference,
		Counterparty:      t.Counterparty,
		Status:            string(t.Status),
		MatchedDocumentID: t.MatchedDocumentID,
		MatchConfidence:   t.MatchConfidence,
		MatchedBy:         string(t.MatchedBy),
	}
}
