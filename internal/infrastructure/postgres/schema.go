package postgres

import (
	"context"
	"fmt"
)

// schema tablas del almacén local de turnos. Idempotente.
// El índice parcial garantiza un solo turno abierto por usuario.
const schema = `
CREATE TABLE IF NOT EXISTS shifts (
	id              TEXT PRIMARY KEY,
	user_id         TEXT NOT NULL,
	user_name       TEXT NOT NULL DEFAULT '',
	opened_at       TIMESTAMPTZ NOT NULL,
	closed_at       TIMESTAMPTZ,
	opening_balance NUMERIC(18,2) NOT NULL CHECK (opening_balance >= 0),
	closing_balance NUMERIC(18,2),
	system_balance  NUMERIC(18,2),
	difference      NUMERIC(18,2),
	status          TEXT NOT NULL CHECK (status IN ('open', 'pending_close', 'closed')),
	updated_at      TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS shifts_one_open_per_user ON shifts (user_id) WHERE status = 'open';
CREATE INDEX IF NOT EXISTS shifts_user_opened ON shifts (user_id, opened_at DESC);

CREATE TABLE IF NOT EXISTS cash_movements (
	id          TEXT PRIMARY KEY,
	shift_id    TEXT NOT NULL REFERENCES shifts (id),
	type        TEXT NOT NULL CHECK (type IN ('sale', 'cash_in', 'cash_out', 'void')),
	amount      NUMERIC(18,2) NOT NULL CHECK (amount > 0),
	description TEXT NOT NULL DEFAULT '',
	reference   TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS cash_movements_shift ON cash_movements (shift_id, created_at);
`

// Migrate crea las tablas si no existen.
func Migrate(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
