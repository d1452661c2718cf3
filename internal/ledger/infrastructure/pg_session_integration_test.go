package infrastructure

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/sebuszqo/BudgetKeeper/internal/auth"
	database "github.com/sebuszqo/BudgetKeeper/internal/db"
	"github.com/sebuszqo/BudgetKeeper/internal/ledger/domain"
)

func startPostgres(t *testing.T) *database.DBService {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx, "docker.io/postgres:16-alpine",
		postgres.WithDatabase("budgetkeeper"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("could not terminate postgres container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dbService, err := database.NewDBService(connStr)
	require.NoError(t, err)
	t.Cleanup(func() { dbService.Close() })

	require.NoError(t, dbService.Migrate())
	return dbService
}

func TestPgSession_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dbService := startPostgres(t)
	ctx := context.Background()
	factory := NewPgSessionFactory(dbService.DB)

	session, err := factory.NewSession(ctx)
	require.NoError(t, err)

	categories, err := session.Categories(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.Category{{ID: 1, Name: "Food"}, {ID: 2, Name: "Rent"}}, categories)

	transaction := domain.NewTransaction("Coffee", 4.50, 1)
	session.AddTransaction(&transaction)

	count, err := session.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NotZero(t, transaction.ID)
	require.NoError(t, session.Close())

	// A fresh session sees the committed row.
	readSession, err := factory.NewSession(ctx)
	require.NoError(t, err)
	defer readSession.Close()

	transactions, err := readSession.Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, transaction.ID, transactions[0].ID)
	assert.Equal(t, "Coffee", transactions[0].Description)
	assert.Equal(t, 4.50, transactions[0].Amount)
	assert.Equal(t, 1, transactions[0].CategoryID)
}

func TestPgSession_CloseWithoutCommitRollsBack(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dbService := startPostgres(t)
	ctx := context.Background()
	factory := NewPgSessionFactory(dbService.DB)

	session, err := factory.NewSession(ctx)
	require.NoError(t, err)

	transaction := domain.NewTransaction("Abandoned", 10, 1)
	session.AddTransaction(&transaction)
	require.NoError(t, session.Close())

	readSession, err := factory.NewSession(ctx)
	require.NoError(t, err)
	defer readSession.Close()

	transactions, err := readSession.Transactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestUserRepository_RefreshTokenRotation_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dbService := startPostgres(t)
	ctx := context.Background()
	repo := auth.NewUserRepository(dbService.DB)

	seeded, err := repo.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", seeded.Role)
	assert.False(t, seeded.RefreshToken.Valid)

	expiresAt := time.Now().UTC().Add(7 * 24 * time.Hour)
	require.NoError(t, repo.SetRefreshToken(ctx, seeded.ID, "first-token", expiresAt))

	found, err := repo.GetUserByRefreshToken(ctx, "first-token")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)

	require.NoError(t, repo.RotateRefreshToken(ctx, seeded.ID, "first-token", "second-token", expiresAt))

	// The consumed value no longer matches anything.
	_, err = repo.GetUserByRefreshToken(ctx, "first-token")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)

	// Replaying the consumed value in a rotation loses the compare-and-swap.
	err = repo.RotateRefreshToken(ctx, seeded.ID, "first-token", "third-token", expiresAt)
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRotated)
}
