package repositories

import (
	"database/sql"

	"github.com/MEDSABRY98/BHS-sub001/internal/models"
)

// ReferenceRepository stores the externally maintained lists the dashboard
// consumes read-only: closed/semi-closed customers, customer emails, and the
// residual-holder override pairs. Each upload replaces the whole list.
type ReferenceRepository interface {
	ReplaceCustomerRefs(tx *sql.Tx, kind string, names []string) error
	GetCustomerRefs(kind string) (map[string]struct{}, error)
	ReplaceOverridePairs(tx *sql.Tx, pairs []models.OverridePair) error
	GetOverridePairs() ([]models.OverridePair, error)
}

type referenceRepository struct {
	db *sql.DB
}

func NewReferenceRepository(db *sql.DB) ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) ReplaceCustomerRefs(tx *sql.Tx, kind string, names []string) error {
	if _, err := tx.Exec(`DELETE FROM customer_refs WHERE kind = ?`, kind); err != nil {
		return err
	}
	for _, name := range names {
		if _, err := tx.Exec(`INSERT INTO customer_refs (kind, customer_name) VALUES (?, ?)`, kind, name); err != nil {
			return err
		}
	}
	return nil
}

func (r *referenceRepository) GetCustomerRefs(kind string) (map[string]struct{}, error) {
	rows, err := r.db.Query(`SELECT customer_name FROM customer_refs WHERE kind = ?`, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		set[name] = struct{}{}
	}
	return set, rows.Err()
}

func (r *referenceRepository) ReplaceOverridePairs(tx *sql.Tx, pairs []models.OverridePair) error {
	if _, err := tx.Exec(`DELETE FROM override_pairs`); err != nil {
		return err
	}
	for _, p := range pairs {
		if _, err := tx.Exec(`INSERT INTO override_pairs (number, matching) VALUES (?, ?)`, p.Number, p.Matching); err != nil {
			return err
		}
	}
	return nil
}

func (r *referenceRepository) GetOverridePairs() ([]models.OverridePair, error) {
	rows, err := r.db.Query(`SELECT number, matching FROM override_pairs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []models.OverridePair
	for rows.Next() {
		var p models.OverridePair
		if err := rows.Scan(&p.Number, &p.Matching); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}
