package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mydeeptech/admin-dashboard/internal/domain"
	"github.com/mydeeptech/admin-dashboard/internal/domain/entity"
	"github.com/mydeeptech/admin-dashboard/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, number, client_name, client_email, issue_date, due_date, status, currency,
       items, notes, tax_rate, discount, subtotal, tax_total, total, created_at, updated_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// itemRow forma JSONB de una línea.
type itemRow struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

func marshalItems(items []entity.InvoiceItem) ([]byte, error) {
	rows := make([]itemRow, len(items))
	for i, it := range items {
		rows[i] = itemRow{Description: it.Description, Quantity: it.Quantity, UnitPrice: it.UnitPrice, Amount: it.Amount}
	}
	return json.Marshal(rows)
}

func unmarshalItems(raw []byte) ([]entity.InvoiceItem, error) {
	var rows []itemRow
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, err
		}
	}
	items := make([]entity.InvoiceItem, len(rows))
	for i, r := range rows {
		items[i] = entity.InvoiceItem{Description: r.Description, Quantity: r.Quantity, UnitPrice: r.UnitPrice, Amount: r.Amount}
	}
	return items, nil
}

// Create persiste la factura con sus líneas.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	items, err := marshalItems(inv.Items)
	if err != nil {
		return fmt.Errorf("serializar líneas: %w", err)
	}
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err = r.q.Exec(ctx, query,
		inv.ID, inv.Number, inv.ClientName, inv.ClientEmail, inv.IssueDate, inv.DueDate, inv.Status, inv.Currency,
		items, inv.Notes, inv.TaxRate, inv.Discount, inv.Subtotal, inv.TaxTotal, inv.Total,
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number %s: %w", inv.Number, domain.ErrConflict)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura completa por ID; (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// List devuelve la página pedida ordenada por emisión descendente y el total filtrado.
func (r *InvoiceRepo) List(ctx context.Context, f entity.InvoiceFilter) ([]*entity.Invoice, int, error) {
	where, args := invoiceWhere(f)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM invoices`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices` + where + ` ORDER BY issue_date DESC, number DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	return out, total, nil
}

// Update reemplaza cabecera y líneas.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	items, err := marshalItems(inv.Items)
	if err != nil {
		return fmt.Errorf("serializar líneas: %w", err)
	}
	query := `
		UPDATE invoices
		SET client_name  = $2,
		    client_email = $3,
		    issue_date   = $4,
		    due_date     = $5,
		    status       = $6,
		    currency     = $7,
		    items        = $8,
		    notes        = $9,
		    tax_rate     = $10,
		    discount     = $11,
		    subtotal     = $12,
		    tax_total    = $13,
		    total        = $14,
		    updated_at   = $15
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		inv.ID, inv.ClientName, inv.ClientEmail, inv.IssueDate, inv.DueDate, inv.Status, inv.Currency,
		items, inv.Notes, inv.TaxRate, inv.Discount, inv.Subtotal, inv.TaxTotal, inv.Total, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invoice %s: %w", inv.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete elimina la factura.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invoice %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// NextNumber consecutivo desde la secuencia invoice_number_seq.
func (r *InvoiceRepo) NextNumber(ctx context.Context) (string, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('invoice_number_seq')`).Scan(&n); err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}
	return fmt.Sprintf("INV-%06d", n), nil
}

func invoiceWhere(f entity.InvoiceFilter) (string, []any) {
	var conds []string
	var args []any
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		conds = append(conds, fmt.Sprintf("(number ILIKE $%d OR client_name ILIKE $%d)", len(args), len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var items []byte
	err := row.Scan(
		&inv.ID, &inv.Number, &inv.ClientName, &inv.ClientEmail, &inv.IssueDate, &inv.DueDate, &inv.Status, &inv.Currency,
		&items, &inv.Notes, &inv.TaxRate, &inv.Discount, &inv.Subtotal, &inv.TaxTotal, &inv.Total,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if inv.Items, err = unmarshalItems(items); err != nil {
		return nil, fmt.Errorf("líneas de la factura %s: %w", inv.ID, err)
	}
	return &inv, nil
}
