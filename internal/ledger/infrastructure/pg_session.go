package infrastructure

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sebuszqo/BudgetKeeper/internal/ledger/domain"
)

type PgSessionFactory struct {
	db *sql.DB
}

func NewPgSessionFactory(db *sql.DB) *PgSessionFactory {
	return &PgSessionFactory{db: db}
}

func (f *PgSessionFactory) NewSession(ctx context.Context) (domain.Session, error) {
	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &pgSession{tx: tx}, nil
}

// pgSession backs one unit of work with a single database transaction.
// Staged entities are written and committed together in SaveChanges.
type pgSession struct {
	tx        *sql.Tx
	pending   []*domain.Transaction
	committed bool
}

func (s *pgSession) Transactions(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := s.tx.QueryContext(ctx,
		`SELECT id, description, amount, date, category_id FROM transactions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var transaction domain.Transaction
		if err := rows.Scan(&transaction.ID, &transaction.Description, &transaction.Amount,
			&transaction.Date, &transaction.CategoryID); err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}

func (s *pgSession) Categories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.tx.QueryContext(ctx, `SELECT id, name FROM categories`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (s *pgSession) AddTransaction(transaction *domain.Transaction) {
	s.pending = append(s.pending, transaction)
}

func (s *pgSession) SaveChanges(ctx context.Context) (int, error) {
	count := 0
	for _, transaction := range s.pending {
		err := s.tx.QueryRowContext(ctx,
			`INSERT INTO transactions (description, amount, date, category_id)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			transaction.Description, transaction.Amount, transaction.Date, transaction.CategoryID,
		).Scan(&transaction.ID)
		if err != nil {
			return 0, err
		}
		count++
	}
	s.pending = nil

	if err := s.tx.Commit(); err != nil {
		return 0, err
	}
	s.committed = true
	return count, nil
}

func (s *pgSession) Close() error {
	if s.committed {
		return nil
	}
	if err := s.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}
