package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-dashboard/internal/domain"
	"github.com/jhoicas/pos-dashboard/internal/domain/entity"
	"github.com/jhoicas/pos-dashboard/internal/domain/repository"
)

var (
	_ repository.ShiftRepository = (*ShiftRepo)(nil)
	_ repository.CashLedger      = (*ShiftRepo)(nil)
)

const shiftColumns = `id, user_id, user_name, opened_at, closed_at, opening_balance,
	closing_balance, system_balance, difference, status, updated_at`

// ShiftRepo turnos y libro de caja sobre PostgreSQL.
// El saldo del sistema es el saldo inicial más la suma con signo de cash_movements.
type ShiftRepo struct {
	q  Querier
	tx *TxRunner
}

// NewShiftRepository construye el adaptador. db debe poder abrir transacciones (pool).
func NewShiftRepository(db interface {
	Querier
	TxBeginner
}) *ShiftRepo {
	return &ShiftRepo{q: db, tx: NewTxRunner(db)}
}

func scanShift(row pgx.Row) (*entity.Shift, error) {
	var s entity.Shift
	var status string
	err := row.Scan(
		&s.ID, &s.UserID, &s.UserName, &s.OpenedAt, &s.ClosedAt, &s.OpeningBalance,
		&s.ClosingBalance, &s.SystemBalance, &s.Difference, &status, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Status = entity.ShiftStatus(status)
	return &s, nil
}

func (r *ShiftRepo) one(ctx context.Context, q Querier, query string, args ...any) (*entity.Shift, error) {
	s, err := scanShift(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// FindOpenByUser turno abierto del usuario o nil.
func (r *ShiftRepo) FindOpenByUser(ctx context.Context, userID string) (*entity.Shift, error) {
	s, err := r.one(ctx, r.q, `SELECT `+shiftColumns+` FROM shifts WHERE user_id = $1 AND status = 'open'`, userID)
	if err != nil {
		return nil, fmt.Errorf("find open shift: %w", err)
	}
	return s, nil
}

// FindCurrent último turno del usuario abierto en el día de day (en su zona horaria).
func (r *ShiftRepo) FindCurrent(ctx context.Context, userID string, day time.Time) (*entity.Shift, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	s, err := r.one(ctx, r.q, `
		SELECT `+shiftColumns+` FROM shifts
		WHERE user_id = $1 AND opened_at >= $2 AND opened_at < $3
		ORDER BY opened_at DESC LIMIT 1`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("find current shift: %w", err)
	}
	return s, nil
}

// GetByID turno por id o nil.
func (r *ShiftRepo) GetByID(ctx context.Context, id string) (*entity.Shift, error) {
	s, err := r.one(ctx, r.q, `SELECT `+shiftColumns+` FROM shifts WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get shift: %w", err)
	}
	return s, nil
}

// Create inserta un turno abierto. El índice parcial rechaza un segundo turno abierto.
func (r *ShiftRepo) Create(ctx context.Context, s *entity.Shift) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO shifts (id, user_id, user_name, opened_at, opening_balance, status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.UserID, s.UserName, s.OpenedAt, s.OpeningBalance, string(s.Status), s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrShiftAlreadyOpen
		}
		return fmt.Errorf("create shift: %w", err)
	}
	return nil
}

// Close bloquea el turno, calcula el saldo del sistema desde el libro y persiste el cierre
// en la misma transacción.
func (r *ShiftRepo) Close(ctx context.Context, id string, counted decimal.Decimal, now time.Time) (*entity.Shift, error) {
	var out *entity.Shift
	err := r.tx.Run(ctx, func(tx pgx.Tx) error {
		s, err := r.one(ctx, tx, `SELECT `+shiftColumns+` FROM shifts WHERE id = $1 FOR UPDATE`, id)
		if err != nil {
			return fmt.Errorf("lock shift: %w", err)
		}
		if s == nil {
			return domain.ErrNotFound
		}
		movements, err := listMovements(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.Close(counted, entity.SystemBalance(s.OpeningBalance, movements), now); err != nil {
			return err
		}
		if err := updateReconciliation(ctx, tx, s); err != nil {
			return err
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Rebalance corrige el saldo contado de un turno pending_close.
func (r *ShiftRepo) Rebalance(ctx context.Context, id string, counted decimal.Decimal, now time.Time) (*entity.Shift, error) {
	var out *entity.Shift
	err := r.tx.Run(ctx, func(tx pgx.Tx) error {
		s, err := r.one(ctx, tx, `SELECT `+shiftColumns+` FROM shifts WHERE id = $1 FOR UPDATE`, id)
		if err != nil {
			return fmt.Errorf("lock shift: %w", err)
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if err := s.Rebalance(counted, now); err != nil {
			return err
		}
		if err := updateReconciliation(ctx, tx, s); err != nil {
			return err
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func updateReconciliation(ctx context.Context, q Querier, s *entity.Shift) error {
	_, err := q.Exec(ctx, `
		UPDATE shifts
		SET closed_at = $2, closing_balance = $3, system_balance = $4, difference = $5, status = $6, updated_at = $7
		WHERE id = $1`,
		s.ID, s.ClosedAt, s.ClosingBalance, s.SystemBalance, s.Difference, string(s.Status), s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update shift: %w", err)
	}
	return nil
}

// List listado filtrado y paginado, más reciente primero.
func (r *ShiftRepo) List(ctx context.Context, f entity.ShiftFilter) ([]*entity.Shift, int, error) {
	where, args := shiftWhere(f)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM shifts`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count shifts: %w", err)
	}

	args = append(args, f.Limit, f.Offset())
	query := fmt.Sprintf(`SELECT %s FROM shifts%s ORDER BY opened_at DESC LIMIT $%d OFFSET $%d`,
		shiftColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list shifts: %w", err)
	}
	defer rows.Close()

	var list []*entity.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan shift: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

// shiftWhere traduce el filtro a una cláusula WHERE con parámetros posicionales.
// date_to es inclusivo (todo el día).
func shiftWhere(f entity.ShiftFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.DateFrom != nil {
		add("opened_at >= $%d", *f.DateFrom)
	}
	if f.DateTo != nil {
		add("opened_at < $%d", f.DateTo.AddDate(0, 0, 1))
	}
	if f.Cashier != "" {
		args = append(args, f.Cashier)
		n := len(args)
		conds = append(conds, fmt.Sprintf("(user_id = $%d OR user_name ILIKE '%%' || $%d || '%%')", n, n))
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	switch f.Difference {
	case entity.DifferenceZero:
		conds = append(conds, "difference = 0")
	case entity.DifferenceNegative:
		conds = append(conds, "difference < 0")
	case entity.DifferencePositive:
		conds = append(conds, "difference > 0")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// AddMovement registra un movimiento; el turno debe seguir abierto al insertar.
func (r *ShiftRepo) AddMovement(ctx context.Context, m *entity.CashMovement) error {
	tag, err := r.q.Exec(ctx, `
		INSERT INTO cash_movements (id, shift_id, type, amount, description, reference, created_at)
		SELECT $1, $2, $3, $4, $5, $6, $7
		WHERE EXISTS (SELECT 1 FROM shifts WHERE id = $2 AND status = 'open' FOR SHARE)`,
		m.ID, m.ShiftID, string(m.Type), m.Amount, m.Description, m.Reference, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("add movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrShiftNotOpen
	}
	return nil
}

// ListMovements libro del turno en orden cronológico.
func (r *ShiftRepo) ListMovements(ctx context.Context, shiftID string) ([]entity.CashMovement, error) {
	return listMovements(ctx, r.q, shiftID)
}

func listMovements(ctx context.Context, q Querier, shiftID string) ([]entity.CashMovement, error) {
	rows, err := q.Query(ctx, `
		SELECT id, shift_id, type, amount, description, reference, created_at
		FROM cash_movements WHERE shift_id = $1 ORDER BY created_at, id`, shiftID)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []entity.CashMovement
	for rows.Next() {
		var m entity.CashMovement
		var t string
		if err := rows.Scan(&m.ID, &m.ShiftID, &t, &m.Amount, &m.Description, &m.Reference, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Type = entity.MovementType(t)
		list = append(list, m)
	}
	return list, rows.Err()
}

// CountOpenSince turnos que siguen abiertos y se abrieron antes de openedBefore.
func (r *ShiftRepo) CountOpenSince(ctx context.Context, openedBefore time.Time) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM shifts WHERE status = 'open' AND opened_at < $1`, openedBefore).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count open shifts: %w", err)
	}
	return n, nil
}
