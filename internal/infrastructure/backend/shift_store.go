package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-dashboard/internal/domain"
	"github.com/jhoicas/pos-dashboard/internal/domain/entity"
	"github.com/jhoicas/pos-dashboard/internal/domain/repository"
	"github.com/jhoicas/pos-dashboard/pkg/logger"
)

var _ repository.ShiftRepository = (*ShiftStore)(nil)

// ShiftStore implementa ShiftRepository sobre los endpoints de turnos del backend.
// El backend calcula system_balance; la clasificación del cierre se recalcula aquí.
type ShiftStore struct {
	c   *Client
	log *logger.Logger
}

// NewShiftStore construye el adaptador remoto.
func NewShiftStore(c *Client, log *logger.Logger) *ShiftStore {
	if log == nil {
		log = logger.Nop()
	}
	return &ShiftStore{c: c, log: log.Component("shift_store")}
}

type remoteShift struct {
	ID             flexID           `json:"id"`
	UserID         flexID           `json:"user_id"`
	UserName       string           `json:"user_name"`
	Kasir          string           `json:"kasir"`
	OpenedAt       flexTime         `json:"opened_at"`
	ClosedAt       *flexTime        `json:"closed_at"`
	OpeningBalance decimal.Decimal  `json:"opening_balance"`
	ClosingBalance *decimal.Decimal `json:"closing_balance"`
	SystemBalance  *decimal.Decimal `json:"system_balance"`
	Difference     *decimal.Decimal `json:"difference"`
	Selisih        *decimal.Decimal `json:"selisih"`
	Status         string           `json:"status"`
	UpdatedAt      *flexTime        `json:"updated_at"`
}

func parseStatus(s string) entity.ShiftStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open", "opened", "buka":
		return entity.ShiftOpen
	case "pending_close", "pending":
		return entity.ShiftPendingClose
	case "closed", "close", "tutup":
		return entity.ShiftClosed
	}
	return entity.ShiftNone
}

func (r *remoteShift) toEntity() *entity.Shift {
	name := r.UserName
	if name == "" {
		name = r.Kasir
	}
	diff := r.Difference
	if diff == nil {
		diff = r.Selisih
	}
	s := &entity.Shift{
		ID:             string(r.ID),
		UserID:         string(r.UserID),
		UserName:       name,
		OpenedAt:       r.OpenedAt.Time(),
		ClosedAt:       r.ClosedAt.Ptr(),
		OpeningBalance: r.OpeningBalance,
		ClosingBalance: r.ClosingBalance,
		SystemBalance:  r.SystemBalance,
		Difference:     diff,
		Status:         parseStatus(r.Status),
		UpdatedAt:      r.OpenedAt.Time(),
	}
	if r.UpdatedAt != nil {
		s.UpdatedAt = r.UpdatedAt.Time()
	}
	return s
}

// FindCurrent consulta /shif_status por fecha y usuario.
func (s *ShiftStore) FindCurrent(ctx context.Context, userID string, day time.Time) (*entity.Shift, error) {
	q := url.Values{}
	q.Set("date", day.Format("2006-01-02"))
	q.Set("user_id", userID)
	resp, err := s.c.Get(ctx, "/shif_status", q)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var out struct {
		Status  string          `json:"status"`
		Balance decimal.Decimal `json:"balance"`
		Shift   *remoteShift    `json:"shift"`
	}
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	if out.Shift == nil || out.Shift.ID == "" {
		return nil, nil
	}
	shift := out.Shift.toEntity()
	if shift.Status == entity.ShiftNone {
		shift.Status = parseStatus(out.Status)
	}
	return shift, nil
}

// FindOpenByUser busca el turno abierto del usuario (cualquier fecha).
func (s *ShiftStore) FindOpenByUser(ctx context.Context, userID string) (*entity.Shift, error) {
	q := url.Values{}
	q.Set("user_id", userID)
	q.Set("status", string(entity.ShiftOpen))
	q.Set("limit", "1")
	resp, err := s.c.Get(ctx, "/shifts", q)
	if err != nil {
		return nil, err
	}
	items, _, err := decodeShiftPage(resp)
	if err != nil {
		return nil, err
	}
	for _, sh := range items {
		if sh.UserID == userID && sh.IsOpen() {
			return sh, nil
		}
	}
	return nil, nil
}

// GetByID GET /shifts/{id}; nil si no existe.
func (s *ShiftStore) GetByID(ctx context.Context, id string) (*entity.Shift, error) {
	resp, err := s.c.Get(ctx, "/shifts/"+url.PathEscape(id), nil)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var r remoteShift
	if err := resp.Decode(&r); err != nil {
		return nil, err
	}
	return r.toEntity(), nil
}

// Create POST /shifts; el backend asigna el id.
func (s *ShiftStore) Create(ctx context.Context, shift *entity.Shift) error {
	resp, err := s.c.Send(ctx, http.MethodPost, "/shifts", map[string]interface{}{
		"user_id":         shift.UserID,
		"opening_balance": shift.OpeningBalance,
		"opened_at":       shift.OpenedAt,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.ErrShiftAlreadyOpen
		}
		return err
	}
	var r remoteShift
	if err := resp.Decode(&r); err != nil {
		return err
	}
	if r.ID != "" {
		shift.ID = string(r.ID)
	}
	if !r.OpenedAt.Time().IsZero() {
		shift.OpenedAt = r.OpenedAt.Time()
	}
	return nil
}

// Close POST /close_shift. Solo se invoca si el turno sigue abierto; si el backend falla
// el turno permanece abierto en el backend. Si la respuesta no trae system_balance
// se relee el turno antes de clasificar.
func (s *ShiftStore) Close(ctx context.Context, id string, counted decimal.Decimal, now time.Time) (*entity.Shift, error) {
	shift, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, domain.ErrNotFound
	}
	if !shift.IsOpen() {
		return nil, domain.ErrShiftNotOpen
	}
	check := *shift
	if err := check.Close(counted, decimal.Zero, now); err != nil {
		return nil, err
	}

	resp, err := s.c.Send(ctx, http.MethodPost, "/close_shift", map[string]interface{}{
		"shift_id":        id,
		"closing_balance": counted,
	})
	if err != nil {
		return nil, err
	}
	var r remoteShift
	if err := resp.Decode(&r); err != nil {
		s.log.Warn().Err(err).Str("shift_id", id).Msg("respuesta de close_shift ilegible")
		r = remoteShift{}
	}
	closed := r.toEntity()
	if closed.SystemBalance == nil {
		s.log.Warn().Str("shift_id", id).Msg("close_shift sin system_balance; se relee el turno")
		closed, err = s.GetByID(ctx, id)
		if err != nil || closed == nil || closed.SystemBalance == nil || closed.IsOpen() {
			return nil, fmt.Errorf("%w: cierre del turno %s sin confirmar system_balance", domain.ErrConflict, id)
		}
	}
	if err := shift.Close(counted, *closed.SystemBalance, now); err != nil {
		return nil, err
	}
	if closed.Status != entity.ShiftNone && closed.Status != shift.Status {
		s.log.Warn().
			Str("shift_id", id).
			Str("remote_status", string(closed.Status)).
			Str("status", string(shift.Status)).
			Msg("el backend clasificó el cierre distinto; se usa la clasificación local")
	}
	if closed.ClosedAt != nil {
		shift.ClosedAt = closed.ClosedAt
	}
	return shift, nil
}

// Rebalance actualiza closing_balance de un turno pendiente (PUT vía override).
func (s *ShiftStore) Rebalance(ctx context.Context, id string, counted decimal.Decimal, now time.Time) (*entity.Shift, error) {
	shift, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, domain.ErrNotFound
	}
	if err := shift.Rebalance(counted, now); err != nil {
		return nil, err
	}
	_, err = s.c.Send(ctx, http.MethodPut, "/shifts/"+url.PathEscape(id), map[string]interface{}{
		"closing_balance": shift.ClosingBalance,
		"difference":      shift.Difference,
		"status":          shift.Status,
	})
	if err != nil {
		return nil, err
	}
	return shift, nil
}

// List GET /shifts con filtros.
func (s *ShiftStore) List(ctx context.Context, f entity.ShiftFilter) ([]*entity.Shift, int, error) {
	q := url.Values{}
	if f.DateFrom != nil {
		q.Set("date_from", f.DateFrom.Format("2006-01-02"))
	}
	if f.DateTo != nil {
		q.Set("date_to", f.DateTo.Format("2006-01-02"))
	}
	if f.Cashier != "" {
		q.Set("kasir", f.Cashier)
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Difference != "" {
		q.Set("selisih", f.Difference)
	}
	q.Set("page", strconv.Itoa(f.Page))
	q.Set("limit", strconv.Itoa(f.Limit))

	resp, err := s.c.Get(ctx, "/shifts", q)
	if err != nil {
		return nil, 0, err
	}
	return decodeShiftPage(resp)
}

func decodeShiftPage(resp *Response) ([]*entity.Shift, int, error) {
	var rows []remoteShift
	total, err := decodePage(resp, &rows)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*entity.Shift, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toEntity())
	}
	if total < len(out) {
		total = len(out)
	}
	return out, total, nil
}
