package infrastructure

import (
	"context"

	"github.com/sebuszqo/BudgetKeeper/internal/ledger/domain"
)

// MockSessionFactory is an in-memory SessionFactory for tests. Committed
// transactions land in TransactionRows in insertion order, so tests can
// assert both on persistence and on store order.
type MockSessionFactory struct {
	TransactionRows []domain.Transaction
	CategoryRows    []domain.Category

	NewSessionErr error
	SaveErr       error

	SaveCalls int
	nextID    int
}

func (f *MockSessionFactory) NewSession(_ context.Context) (domain.Session, error) {
	if f.NewSessionErr != nil {
		return nil, f.NewSessionErr
	}
	return &mockSession{factory: f}, nil
}

type mockSession struct {
	factory *MockSessionFactory
	pending []*domain.Transaction
}

func (s *mockSession) Transactions(_ context.Context) ([]domain.Transaction, error) {
	transactions := make([]domain.Transaction, len(s.factory.TransactionRows))
	copy(transactions, s.factory.TransactionRows)
	return transactions, nil
}

func (s *mockSession) Categories(_ context.Context) ([]domain.Category, error) {
	categories := make([]domain.Category, len(s.factory.CategoryRows))
	copy(categories, s.factory.CategoryRows)
	return categories, nil
}

func (s *mockSession) AddTransaction(transaction *domain.Transaction) {
	s.pending = append(s.pending, transaction)
}

func (s *mockSession) SaveChanges(_ context.Context) (int, error) {
	if s.factory.SaveErr != nil {
		return 0, s.factory.SaveErr
	}
	count := 0
	for _, transaction := range s.pending {
		s.factory.nextID++
		transaction.ID = s.factory.nextID
		s.factory.TransactionRows = append(s.factory.TransactionRows, *transaction)
		count++
	}
	s.pending = nil
	s.factory.SaveCalls++
	return count, nil
}

func (s *mockSession) Close() error {
	return nil
}
