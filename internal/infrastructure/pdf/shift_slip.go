// Package pdf genera el comprobante de cierre de turno de caja.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda + "Laporan Tutup Shift" │ N° turno + estado  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CAJERO: nombre / apertura / cierre                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Hora | Tipo | Descripción | Monto                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONCILIACIÓN: Inicial / Sistema / Contado / Selisih         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el id del turno + firmas                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appshift "github.com/jhoicas/pos-dashboard/internal/application/shift"
	"github.com/jhoicas/pos-dashboard/internal/domain/entity"
	"github.com/jhoicas/pos-dashboard/pkg/money"
)

var _ appshift.ReportRenderer = (*ShiftSlipGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 30, Green: 64, Blue: 175}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorRed     = &props.Color{Red: 185, Green: 28, Blue: 28}
)

var movementLabels = map[entity.MovementType]string{
	entity.MovementSale:    "Penjualan",
	entity.MovementCashIn:  "Kas Masuk",
	entity.MovementCashOut: "Kas Keluar",
	entity.MovementVoid:    "Void",
}

var statusLabels = map[entity.ShiftStatus]string{
	entity.ShiftOpen:         "BUKA",
	entity.ShiftPendingClose: "MENUNGGU VERIFIKASI",
	entity.ShiftClosed:       "TUTUP",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// ShiftSlipGenerator implementa shift.ReportRenderer usando Maroto v2.
type ShiftSlipGenerator struct {
	storeName string
	loc       *time.Location
}

// NewShiftSlipGenerator construye el generador. Las horas se imprimen en loc.
func NewShiftSlipGenerator(storeName string, loc *time.Location) *ShiftSlipGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &ShiftSlipGenerator{storeName: storeName, loc: loc}
}

// RenderShiftSlip genera el PDF y devuelve sus bytes.
func (g *ShiftSlipGenerator) RenderShiftSlip(s *entity.Shift, movements []entity.CashMovement) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Laporan Tutup Shift "+s.ID, true).
		WithAuthor(g.storeName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.cashierRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	if len(movements) > 0 {
		m.AddRows(tableHeaderRow())
		m.AddRows(g.movementRows(movements)...)
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	}

	m.AddRows(reconciliationRow(s))
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(s))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *ShiftSlipGenerator) headerRow(s *entity.Shift) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(g.storeName, "POS"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Laporan Tutup Shift Kasir", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("SHIFT", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(s.ID, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 7,
			}),
			text.New(nonEmpty(statusLabels[s.Status], string(s.Status)), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func (g *ShiftSlipGenerator) cashierRow(s *entity.Shift) core.Row {
	closed := "—"
	if s.ClosedAt != nil {
		closed = g.stamp(*s.ClosedAt)
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("KASIR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(s.UserName, s.UserID), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Buka: %s   |   Tutup: %s", g.stamp(s.OpenedAt), closed), props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Jam", 2, align.Center),
		h("Jenis", 2, align.Left),
		h("Keterangan", 5, align.Left),
		h("Jumlah", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func (g *ShiftSlipGenerator) movementRows(movements []entity.CashMovement) []core.Row {
	rows := make([]core.Row, 0, len(movements))
	for _, mv := range movements {
		amountColor := &props.Color{}
		if mv.Signed().IsNegative() {
			amountColor = colorRed
		}
		rows = append(rows, row.New(7).Add(
			col.New(2).Add(text.New(mv.CreatedAt.In(g.loc).Format("15:04"),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(nonEmpty(movementLabels[mv.Type], string(mv.Type)),
				props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(5).Add(text.New(nonEmpty(mv.Description, mv.Reference),
				props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(money.FormatIDR(mv.Signed()),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: amountColor})),
		))
	}
	return rows
}

func reconciliationRow(s *entity.Shift) core.Row {
	label := func(v string) core.Component {
		return text.New(v, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(v string) core.Component {
		return text.New(v, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grand := func(v string, c *props.Color) core.Component {
		return text.New(v, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: c, Right: 1})
	}

	diffColor := colorPrimary
	if s.Difference != nil && !s.Difference.IsZero() {
		diffColor = colorRed
	}
	return row.New(26).Add(
		col.New(3),
		col.New(3).Add(
			label("Saldo awal:"),
			label("Saldo sistem:"),
			label("Saldo fisik:"),
			label("SELISIH:"),
		),
		col.New(3).Add(
			value(money.FormatIDR(s.OpeningBalance)),
			value(optionalIDR(s.SystemBalance)),
			value(optionalIDR(s.ClosingBalance)),
			grand(optionalSigned(s.Difference), diffColor),
		),
		col.New(3),
	)
}

func footerRow(s *entity.Shift) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr("shift:"+s.ID, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Kasir", props.Text{Size: 8, Top: 4, Left: 10, Color: colorGray}),
			text.New("Supervisor", props.Text{Size: 8, Top: 4, Left: 70, Color: colorGray}),
			text.New("(______________________)", props.Text{Size: 8, Top: 28, Left: 4}),
			text.New("(______________________)", props.Text{Size: 8, Top: 28, Left: 62}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (g *ShiftSlipGenerator) stamp(t time.Time) string {
	return t.In(g.loc).Format("02/01/2006 15:04")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func optionalIDR(d *decimal.Decimal) string {
	if d == nil {
		return "—"
	}
	return money.FormatIDR(*d)
}

func optionalSigned(d *decimal.Decimal) string {
	if d == nil {
		return "—"
	}
	return money.FormatSigned(*d)
}
