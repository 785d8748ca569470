package repositories

import (
	"database/sql"

	"github.com/MEDSABRY98/BHS-sub001/internal/models"
)

type TransactionRepository interface {
	InsertTransaction(tx *sql.Tx, t *models.Transaction) error
	GetTransactionsByCustomer(customerName string) ([]models.Transaction, error)
	ListCustomers() ([]string, error)
	DeleteBatch(tx *sql.Tx, batchID string) (int64, error)
}

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) InsertTransaction(tx *sql.Tx, t *models.Transaction) error {
	query := `
		INSERT INTO ledger_transactions (
			batch_id, customer_name, txn_date, due_date,
			number, debit, credit, matching, sales_rep
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := tx.Exec(query,
		t.BatchID,
		t.CustomerName,
		t.Date,
		t.DueDate,
		t.Number,
		t.Debit,
		t.Credit,
		t.Matching,
		t.SalesRep,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

const selectTransactionColumns = `
	SELECT id, batch_id, customer_name, txn_date, due_date,
	       number, debit, credit, matching, sales_rep, created_at
	FROM ledger_transactions
`

func (r *transactionRepository) GetTransactionsByCustomer(customerName string) ([]models.Transaction, error) {
	rows, err := r.db.Query(selectTransactionColumns+` WHERE customer_name = ? ORDER BY id`, customerName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (r *transactionRepository) ListCustomers() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT customer_name FROM ledger_transactions ORDER BY customer_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *transactionRepository) DeleteBatch(tx *sql.Tx, batchID string) (int64, error) {
	result, err := tx.Exec(`DELETE FROM ledger_transactions WHERE batch_id = ?`, batchID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	var out []models.Transaction
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(
			&t.ID,
			&t.BatchID,
			&t.CustomerName,
			&t.Date,
			&t.DueDate,
			&t.Number,
			&t.Debit,
			&t.Credit,
			&t.Matching,
			&t.SalesRep,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
