package services

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/MEDSABRY98/BHS-sub001/internal/ledger"
	"github.com/MEDSABRY98/BHS-sub001/internal/models"
	"github.com/MEDSABRY98/BHS-sub001/internal/repositories"
)

// DashboardService answers dashboard queries. Nothing computed here is ever
// stored: each call reloads the customer's raw rows and the reference lists
// and re-runs the pure engine against the supplied as-of clock.
type DashboardService struct {
	txRepo  repositories.TransactionRepository
	refRepo repositories.ReferenceRepository
	log     zerolog.Logger
}

func NewDashboardService(
	txRepo repositories.TransactionRepository,
	refRepo repositories.ReferenceRepository,
	log zerolog.Logger,
) *DashboardService {
	return &DashboardService{
		txRepo:  txRepo,
		refRepo: refRepo,
		log:     log,
	}
}

// CustomerRatingResult pairs the aggregate with its rating so one query can
// render the whole customer card.
type CustomerRatingResult struct {
	Aggregate ledger.CustomerAggregate `json:"aggregate"`
	Rating    ledger.DebtRating        `json:"rating"`
}

// Customer list filters.
const (
	FilterAll       = "all"
	FilterOpen      = "open"       // drop closed and semi-closed customers
	FilterWithEmail = "with-email" // keep only customers with an email on file
)

// ListCustomers returns the distinct customer names, optionally filtered
// against the stored reference lists. Filters compare normalized names.
func (s *DashboardService) ListCustomers(filter string) ([]string, error) {
	names, err := s.txRepo.ListCustomers()
	if err != nil {
		return nil, err
	}

	switch filter {
	case "", FilterAll:
		return names, nil
	case FilterOpen:
		closed, err := s.refRepo.GetCustomerRefs(models.RefClosedCustomers)
		if err != nil {
			return nil, fmt.Errorf("failed to load closed customers: %w", err)
		}
		semiClosed, err := s.refRepo.GetCustomerRefs(models.RefSemiClosedCustomers)
		if err != nil {
			return nil, fmt.Errorf("failed to load semi-closed customers: %w", err)
		}
		var out []string
		for _, name := range names {
			n := ledger.NormalizeName(name)
			if _, ok := closed[n]; ok {
				continue
			}
			if _, ok := semiClosed[n]; ok {
				continue
			}
			out = append(out, name)
		}
		return out, nil
	case FilterWithEmail:
		emails, err := s.refRepo.GetCustomerRefs(models.RefCustomerEmails)
		if err != nil {
			return nil, fmt.Errorf("failed to load customer emails: %w", err)
		}
		var out []string
		for _, name := range names {
			if _, ok := emails[ledger.NormalizeName(name)]; ok {
				out = append(out, name)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown customer filter: %s", filter)
	}
}

// CustomerSummary recomputes the aggregate for one customer as of the given
// clock.
func (s *DashboardService) CustomerSummary(customerName string, asOf time.Time) (*ledger.CustomerAggregate, error) {
	rows, overrides, err := s.loadCustomer(customerName)
	if err != nil {
		return nil, err
	}
	agg := ledger.Aggregate(customerName, rows, overrides, asOf)
	s.log.Debug().
		Str("customer", customerName).
		Time("as_of", asOf).
		Int("rows", len(rows)).
		Msg("aggregate recomputed")
	return &agg, nil
}

// CustomerRating recomputes the aggregate and scores it against the stored
// closed-customer list.
func (s *DashboardService) CustomerRating(customerName string, asOf time.Time) (*CustomerRatingResult, error) {
	agg, err := s.CustomerSummary(customerName, asOf)
	if err != nil {
		return nil, err
	}
	closed, err := s.refRepo.GetCustomerRefs(models.RefClosedCustomers)
	if err != nil {
		return nil, fmt.Errorf("failed to load closed customers: %w", err)
	}
	return &CustomerRatingResult{
		Aggregate: *agg,
		Rating:    ledger.Rate(*agg, closed, asOf),
	}, nil
}

// OpenItems resolves the customer's matching groups and returns the open
// items used by aging and the monthly breakdown.
func (s *DashboardService) OpenItems(customerName string) ([]ledger.OpenItem, error) {
	rows, overrides, err := s.loadCustomer(customerName)
	if err != nil {
		return nil, err
	}
	return ledger.Resolve(rows, overrides).OpenItems(), nil
}

// NetOnlyRows returns the customer's rows in the export form, with each
// residual holder's credit rewritten to debit minus residual. It runs through
// the same resolver as OpenItems so both views always agree.
func (s *DashboardService) NetOnlyRows(customerName string) ([]models.Transaction, error) {
	rows, overrides, err := s.loadCustomer(customerName)
	if err != nil {
		return nil, err
	}
	return ledger.Resolve(rows, overrides).NetView(), nil
}

// MonthlyBreakdown returns the customer's open items summed per document
// month.
func (s *DashboardService) MonthlyBreakdown(customerName string, asOf time.Time) (*ledger.MonthlyBreakdown, error) {
	agg, err := s.CustomerSummary(customerName, asOf)
	if err != nil {
		return nil, err
	}
	return &agg.Monthly, nil
}

func (s *DashboardService) loadCustomer(customerName string) ([]models.Transaction, []models.OverridePair, error) {
	rows, err := s.txRepo.GetTransactionsByCustomer(customerName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load transactions for %q: %w", customerName, err)
	}
	overrides, err := s.refRepo.GetOverridePairs()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load override pairs: %w", err)
	}
	return rows, overrides, nil
}
