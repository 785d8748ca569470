package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/MEDSABRY98/BHS-sub001/internal/ledger"
	"github.com/MEDSABRY98/BHS-sub001/internal/models"
	"github.com/MEDSABRY98/BHS-sub001/internal/repositories"
)

type IngestionService struct {
	db      *sql.DB
	txRepo  repositories.TransactionRepository
	refRepo repositories.ReferenceRepository
	log     zerolog.Logger
}

func NewIngestionService(
	db *sql.DB,
	txRepo repositories.TransactionRepository,
	refRepo repositories.ReferenceRepository,
	log zerolog.Logger,
) *IngestionService {
	return &IngestionService{
		db:      db,
		txRepo:  txRepo,
		refRepo: refRepo,
		log:     log,
	}
}

// TransactionInput is one raw ledger row as posted by the uploader.
type TransactionInput struct {
	CustomerName string  `json:"customer_name"`
	Date         string  `json:"date"`
	DueDate      string  `json:"due_date,omitempty"`
	Number       string  `json:"number"`
	Debit        float64 `json:"debit"`
	Credit       float64 `json:"credit"`
	Matching     string  `json:"matching,omitempty"`
	SalesRep     string  `json:"sales_rep,omitempty"`
}

type IngestionResult struct {
	Success      bool     `json:"success"`
	BatchID      string   `json:"batch_id"`
	RecordsCount int      `json:"records_count"`
	Errors       []string `json:"errors,omitempty"`
}

// IngestTransactions stores one upload batch. Rows that fail validation are
// reported individually; the batch commits only when every row is accepted.
func (s *IngestionService) IngestTransactions(inputs []TransactionInput) (*IngestionResult, error) {
	result := &IngestionResult{
		Success: true,
		BatchID: uuid.NewString(),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, input := range inputs {
		if err := validateTransaction(input); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d (%s): %v", i, input.Number, err))
			continue
		}

		row := &models.Transaction{
			BatchID:      result.BatchID,
			CustomerName: input.CustomerName,
			Date:         input.Date,
			DueDate:      input.DueDate,
			Number:       input.Number,
			Debit:        input.Debit,
			Credit:       input.Credit,
			Matching:     input.Matching,
			SalesRep:     input.SalesRep,
		}
		if err := s.txRepo.InsertTransaction(tx, row); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d (%s): insert failed: %v", i, input.Number, err))
			continue
		}
		result.RecordsCount++
	}

	result.Success = len(result.Errors) == 0
	if result.Success {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit batch: %w", err)
		}
	}

	s.log.Info().
		Str("batch_id", result.BatchID).
		Int("accepted", result.RecordsCount).
		Int("rejected", len(result.Errors)).
		Msg("transaction batch ingested")

	return result, nil
}

// DeleteBatch removes every row of one upload batch, undoing a bad upload.
func (s *IngestionService) DeleteBatch(batchID string) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	removed, err := s.txRepo.DeleteBatch(tx, batchID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete batch %s: %w", batchID, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit batch delete: %w", err)
	}

	s.log.Info().Str("batch_id", batchID).Int64("removed", removed).Msg("upload batch deleted")
	return removed, nil
}

// ReplaceCustomerRefs swaps out one of the customer reference lists. Names
// are stored normalized so membership checks are exact matches.
func (s *IngestionService) ReplaceCustomerRefs(kind string, names []string) error {
	switch kind {
	case models.RefClosedCustomers, models.RefSemiClosedCustomers, models.RefCustomerEmails:
	default:
		return fmt.Errorf("unknown reference list kind: %s", kind)
	}

	normalized := make([]string, 0, len(names))
	for _, name := range names {
		if n := ledger.NormalizeName(name); n != "" {
			normalized = append(normalized, n)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.refRepo.ReplaceCustomerRefs(tx, kind, normalized); err != nil {
		return fmt.Errorf("failed to replace %s: %w", kind, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", kind, err)
	}

	s.log.Info().Str("kind", kind).Int("count", len(normalized)).Msg("reference list replaced")
	return nil
}

// ReplaceOverridePairs swaps out the residual-holder override list.
func (s *IngestionService) ReplaceOverridePairs(pairs []models.OverridePair) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.refRepo.ReplaceOverridePairs(tx, pairs); err != nil {
		return fmt.Errorf("failed to replace override pairs: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit override pairs: %w", err)
	}

	s.log.Info().Int("count", len(pairs)).Msg("override pairs replaced")
	return nil
}

func validateTransaction(input TransactionInput) error {
	if input.CustomerName == "" {
		return fmt.Errorf("customer_name is required")
	}
	if input.Date == "" {
		return fmt.Errorf("date is required")
	}
	if input.Number == "" {
		return fmt.Errorf("number is required")
	}
	if input.Debit < 0 || input.Credit < 0 {
		return fmt.Errorf("debit and credit must be non-negative")
	}
	return nil
}
