package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-dashboard/internal/domain"
	"github.com/jhoicas/pos-dashboard/internal/domain/entity"
	"github.com/jhoicas/pos-dashboard/pkg/config"
)

// ──────────────────────────────────────────────────────────────────────────────
// Filtros (sin base de datos)
// ──────────────────────────────────────────────────────────────────────────────

func TestShiftWhere_SinFiltros(t *testing.T) {
	where, args := shiftWhere(entity.ShiftFilter{Page: 1, Limit: 10})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestShiftWhere_TodosLosFiltros(t *testing.T) {
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	where, args := shiftWhere(entity.ShiftFilter{
		DateFrom: &from, DateTo: &to, Cashier: "Budi",
		Status: entity.ShiftPendingClose, Difference: entity.DifferenceNegative,
	})

	assert.Equal(t,
		" WHERE opened_at >= $1 AND opened_at < $2 AND (user_id = $3 OR user_name ILIKE '%' || $3 || '%') AND status = $4 AND difference < 0",
		where)
	require.Len(t, args, 4)
	assert.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), args[1], "date_to incluye todo el día")
	assert.Equal(t, "pending_close", args[3])
}

// ──────────────────────────────────────────────────────────────────────────────
// Integración (requiere POSTGRES_TEST_URL)
// ──────────────────────────────────────────────────────────────────────────────

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_URL")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_URL no definido")
	}
	ctx := context.Background()
	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE cash_movements, shifts`)
	require.NoError(t, err)
	return pool
}

func TestShiftRepo_CicloCompleto(t *testing.T) {
	repo := NewShiftRepository(testPool(t))
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	s, err := entity.OpenShift("", "7", decimal.NewFromInt(100000), now)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, s))

	dup, _ := entity.OpenShift("", "7", decimal.NewFromInt(1), now)
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrShiftAlreadyOpen)

	require.NoError(t, repo.AddMovement(ctx, &entity.CashMovement{
		ID: "m1", ShiftID: s.ID, Type: entity.MovementSale, Amount: decimal.NewFromInt(20000), CreatedAt: now,
	}))
	require.NoError(t, repo.AddMovement(ctx, &entity.CashMovement{
		ID: "m2", ShiftID: s.ID, Type: entity.MovementVoid, Amount: decimal.NewFromInt(5000), CreatedAt: now,
	}))

	closed, err := repo.Close(ctx, s.ID, decimal.NewFromInt(110000), now)
	require.NoError(t, err)
	assert.Equal(t, entity.ShiftPendingClose, closed.Status)
	assert.True(t, closed.SystemBalance.Equal(decimal.NewFromInt(115000)))
	assert.True(t, closed.Difference.Equal(decimal.NewFromInt(-5000)))

	err = repo.AddMovement(ctx, &entity.CashMovement{
		ID: "m3", ShiftID: s.ID, Type: entity.MovementSale, Amount: decimal.NewFromInt(1), CreatedAt: now,
	})
	assert.ErrorIs(t, err, domain.ErrShiftNotOpen)

	fixed, err := repo.Rebalance(ctx, s.ID, decimal.NewFromInt(115000), now)
	require.NoError(t, err)
	assert.Equal(t, entity.ShiftClosed, fixed.Status)

	list, total, err := repo.List(ctx, entity.ShiftFilter{Difference: entity.DifferenceZero, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, list, 1)

	n, err := repo.CountOpenSince(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)
}
