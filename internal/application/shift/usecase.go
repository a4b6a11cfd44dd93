// Package shift contiene los casos de uso del turno de caja: apertura, estado actual,
// cierre con conciliación, corrección de saldo, listado, movimientos y comprobante PDF.
package shift

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-dashboard/internal/application/dto"
	"github.com/jhoicas/pos-dashboard/internal/domain"
	"github.com/jhoicas/pos-dashboard/internal/domain/entity"
	"github.com/jhoicas/pos-dashboard/internal/domain/repository"
	"github.com/jhoicas/pos-dashboard/pkg/logger"
)

// ReportRenderer genera el comprobante de cierre de un turno.
type ReportRenderer interface {
	RenderShiftSlip(shift *entity.Shift, movements []entity.CashMovement) ([]byte, error)
}

// UseCase controlador del ciclo de vida del turno.
// ledger es nil cuando los turnos viven en el backend remoto.
type UseCase struct {
	repo     repository.ShiftRepository
	ledger   repository.CashLedger
	report   ReportRenderer
	loc      *time.Location
	now      func() time.Time
	log      *logger.Logger
	onClosed func(entity.ShiftStatus)
}

// NewUseCase construye el caso de uso. loc define qué es "hoy" para el estado actual.
func NewUseCase(repo repository.ShiftRepository, ledger repository.CashLedger, report ReportRenderer, loc *time.Location, log *logger.Logger) *UseCase {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		repo:   repo,
		ledger: ledger,
		report: report,
		loc:    loc,
		now:    time.Now,
		log:    log.Component("shift"),
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// OnClosed registra un observador del resultado de cada cierre.
func (uc *UseCase) OnClosed(fn func(entity.ShiftStatus)) {
	uc.onClosed = fn
}

// Actor quién opera sobre un turno. Un Admin (menú /shifts concedido) puede operar
// turnos ajenos; un cajero solo los propios.
type Actor struct {
	UserID string
	Admin  bool
}

func (a Actor) owns(s *entity.Shift) error {
	if a.Admin || (a.UserID != "" && s.UserID == a.UserID) {
		return nil
	}
	return fmt.Errorf("%w: el turno %s pertenece a otro cajero", domain.ErrForbidden, s.ID)
}

// SupportsMovements indica si el almacén configurado lleva libro de caja.
func (uc *UseCase) SupportsMovements() bool {
	return uc.ledger != nil
}

// Open abre un turno para el cajero autenticado. Falla si ya tiene uno abierto.
func (uc *UseCase) Open(ctx context.Context, userID, userName string, in dto.OpenShiftRequest) (*dto.ShiftResponse, error) {
	return uc.open(ctx, userID, userName, in.OpeningBalance)
}

// Create abre un turno en nombre de otro cajero.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateShiftRequest) (*dto.ShiftResponse, error) {
	return uc.open(ctx, in.UserID, in.UserName, in.OpeningBalance)
}

func (uc *UseCase) open(ctx context.Context, userID, userName string, opening decimal.Decimal) (*dto.ShiftResponse, error) {
	existing, err := uc.repo.FindOpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrShiftAlreadyOpen
	}
	s, err := entity.OpenShift("", userID, opening, uc.now())
	if err != nil {
		return nil, err
	}
	s.UserName = userName
	if uc.ledger != nil {
		s.ID = uuid.New().String()
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	uc.log.Info().Str("shift_id", s.ID).Str("user_id", userID).Str("opening", s.OpeningBalance.String()).Msg("turno abierto")
	return ToShiftResponse(s), nil
}

// CurrentStatus estado del turno del usuario para la fecha actual.
func (uc *UseCase) CurrentStatus(ctx context.Context, userID string) (*dto.ShiftStatusResponse, error) {
	s, err := uc.repo.FindCurrent(ctx, userID, uc.now().In(uc.loc))
	if err != nil {
		return nil, err
	}
	if s == nil {
		return &dto.ShiftStatusResponse{Status: string(entity.ShiftNone), Balance: decimal.Zero}, nil
	}
	balance, err := uc.balance(ctx, s)
	if err != nil {
		return nil, err
	}
	return &dto.ShiftStatusResponse{Status: string(s.Status), Balance: balance, Shift: ToShiftResponse(s)}, nil
}

func (uc *UseCase) balance(ctx context.Context, s *entity.Shift) (decimal.Decimal, error) {
	if s.SystemBalance != nil {
		return *s.SystemBalance, nil
	}
	if uc.ledger == nil {
		return s.OpeningBalance, nil
	}
	movements, err := uc.ledger.ListMovements(ctx, s.ID)
	if err != nil {
		return decimal.Zero, err
	}
	return entity.SystemBalance(s.OpeningBalance, movements), nil
}

// Close cierra el turno con el saldo contado. Sin shift_id se cierra el turno abierto del actor;
// con shift_id un cajero solo puede cerrar un turno propio.
// Si el almacén falla el turno sigue abierto y no se reintenta.
func (uc *UseCase) Close(ctx context.Context, actor Actor, in dto.CloseShiftRequest) (*dto.ShiftResponse, error) {
	if in.ClosingBalance.IsNegative() {
		return nil, fmt.Errorf("%w: closing_balance no puede ser negativo", domain.ErrInvalidInput)
	}
	id := in.ShiftID
	if id == "" {
		open, err := uc.repo.FindOpenByUser(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		if open == nil {
			return nil, domain.ErrShiftNotOpen
		}
		id = open.ID
	} else if !actor.Admin {
		s, err := uc.get(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := actor.owns(s); err != nil {
			uc.log.Warn().Str("shift_id", id).Str("user_id", actor.UserID).Msg("cierre de turno ajeno rechazado")
			return nil, err
		}
	}
	s, err := uc.repo.Close(ctx, id, in.ClosingBalance, uc.now())
	if err != nil {
		uc.log.Warn().Err(err).Str("shift_id", id).Msg("cierre de turno fallido")
		return nil, err
	}
	ev := uc.log.Info().Str("shift_id", s.ID).Str("status", string(s.Status))
	if s.Difference != nil {
		ev = ev.Str("difference", s.Difference.String())
	}
	ev.Msg("turno cerrado")
	if uc.onClosed != nil {
		uc.onClosed(s.Status)
	}
	return ToShiftResponse(s), nil
}

// GetByID detalle de un turno.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.ShiftResponse, error) {
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToShiftResponse(s), nil
}

func (uc *UseCase) get(ctx context.Context, id string) (*entity.Shift, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// UpdateBalance corrige el saldo contado de un turno pending_close.
func (uc *UseCase) UpdateBalance(ctx context.Context, id string, in dto.UpdateShiftBalanceRequest) (*dto.ShiftResponse, error) {
	s, err := uc.repo.Rebalance(ctx, id, in.ClosingBalance, uc.now())
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("shift_id", id).Str("status", string(s.Status)).Msg("saldo de turno corregido")
	return ToShiftResponse(s), nil
}

// List listado paginado y filtrado de turnos.
func (uc *UseCase) List(ctx context.Context, f entity.ShiftFilter) (*dto.ListResponse[dto.ShiftResponse], error) {
	if err := f.Normalize(); err != nil {
		return nil, err
	}
	items, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ShiftResponse, 0, len(items))
	for _, s := range items {
		out = append(out, *ToShiftResponse(s))
	}
	return &dto.ListResponse[dto.ShiftResponse]{
		Items: out,
		Page:  dto.PageResponse{Page: f.Page, Limit: f.Limit, Total: total},
	}, nil
}

// RecordMovement registra un movimiento en el libro de caja de un turno abierto.
// Un cajero solo registra movimientos en su propio turno.
func (uc *UseCase) RecordMovement(ctx context.Context, actor Actor, shiftID string, in dto.RecordMovementRequest) (*dto.CashMovementResponse, error) {
	if uc.ledger == nil {
		return nil, domain.ErrNotSupported
	}
	t := entity.MovementType(in.Type)
	if !t.Valid() {
		return nil, fmt.Errorf("%w: type %q", domain.ErrInvalidInput, in.Type)
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount debe ser mayor que cero", domain.ErrInvalidInput)
	}
	s, err := uc.get(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if err := actor.owns(s); err != nil {
		return nil, err
	}
	if !s.IsOpen() {
		return nil, domain.ErrShiftNotOpen
	}
	m := &entity.CashMovement{
		ID:          uuid.New().String(),
		ShiftID:     s.ID,
		Type:        t,
		Amount:      in.Amount,
		Description: in.Description,
		Reference:   in.Reference,
		CreatedAt:   uc.now(),
	}
	if err := uc.ledger.AddMovement(ctx, m); err != nil {
		return nil, err
	}
	return toMovementResponse(*m), nil
}

// Movements libro de caja del turno.
func (uc *UseCase) Movements(ctx context.Context, shiftID string) ([]dto.CashMovementResponse, error) {
	if uc.ledger == nil {
		return nil, domain.ErrNotSupported
	}
	if _, err := uc.get(ctx, shiftID); err != nil {
		return nil, err
	}
	list, err := uc.ledger.ListMovements(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CashMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toMovementResponse(m))
	}
	return out, nil
}

// Report comprobante PDF del turno (incluye movimientos si el almacén los lleva).
func (uc *UseCase) Report(ctx context.Context, id string) ([]byte, error) {
	if uc.report == nil {
		return nil, domain.ErrNotSupported
	}
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	var movements []entity.CashMovement
	if uc.ledger != nil {
		if movements, err = uc.ledger.ListMovements(ctx, id); err != nil {
			return nil, err
		}
	}
	return uc.report.RenderShiftSlip(s, movements)
}

// ToShiftResponse mapea la entidad a la salida HTTP.
func ToShiftResponse(s *entity.Shift) *dto.ShiftResponse {
	return &dto.ShiftResponse{
		ID:             s.ID,
		UserID:         s.UserID,
		UserName:       s.UserName,
		OpenedAt:       s.OpenedAt,
		ClosedAt:       s.ClosedAt,
		OpeningBalance: s.OpeningBalance,
		ClosingBalance: s.ClosingBalance,
		SystemBalance:  s.SystemBalance,
		Difference:     s.Difference,
		Status:         string(s.Status),
	}
}

func toMovementResponse(m entity.CashMovement) *dto.CashMovementResponse {
	return &dto.CashMovementResponse{
		ID:          m.ID,
		ShiftID:     m.ShiftID,
		Type:        string(m.Type),
		Amount:      m.Amount,
		Description: m.Description,
		Reference:   m.Reference,
		CreatedAt:   m.CreatedAt,
	}
}
