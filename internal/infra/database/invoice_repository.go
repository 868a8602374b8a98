package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

var invoiceColumns = columns("status", "due_date", "paid_at")

const invoiceSelect = `
	SELECT i.id, i.number, i.lead_id, i.proposal_id, i.items, i.total, i.status, i.token,
	       i.due_date, i.paid_at, i.viewed_at, i.opened_at, i.open_count, i.created_by,
	       i.created_at, i.updated_at, l.name, COALESCE(l.email, '')
	FROM invoices i
	JOIN leads l ON l.id = i.lead_id`

type InvoiceRepository struct {
	DB *sql.DB
}

func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{DB: db}
}

// Create asigna el número con la secuencia (FAC-AAAA-00001) y registra la actividad.
// Una propuesta sólo puede tener una factura.
func (r *InvoiceRepository) Create(ctx context.Context, inv *entity.Invoice, activity *entity.Activity) error {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return fmt.Errorf("error al serializar ítems: %w", err)
	}

	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO invoices (id, number, lead_id, proposal_id, items, total, status, token, due_date, created_by, created_at, updated_at)
			VALUES ($1, 'FAC-' || to_char(NOW(), 'YYYY') || '-' || lpad(nextval('invoice_number_seq')::text, 5, '0'),
			        $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING number
		`, inv.ID, inv.LeadID, inv.ProposalID, items, inv.Total, inv.Status, inv.Token, inv.DueDate,
			inv.CreatedBy, inv.CreatedAt, inv.UpdatedAt).Scan(&inv.Number)
		if err != nil {
			if isUniqueViolation(err) {
				return entity.ErrInvoiceAlreadyExists
			}
			return fmt.Errorf("error al crear factura: %w", err)
		}
		return insertActivity(ctx, tx, activity)
	})
}

func scanInvoice(row interface{ Scan(...any) error }) (*entity.Invoice, error) {
	inv := &entity.Invoice{}
	var items []byte
	var proposalID, createdBy sql.NullString
	var paidAt, viewedAt, openedAt sql.NullTime
	err := row.Scan(&inv.ID, &inv.Number, &inv.LeadID, &proposalID, &items, &inv.Total, &inv.Status,
		&inv.Token, &inv.DueDate, &paidAt, &viewedAt, &openedAt, &inv.OpenCount, &createdBy,
		&inv.CreatedAt, &inv.UpdatedAt, &inv.LeadName, &inv.LeadEmail)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(items, &inv.Items); err != nil {
		return nil, fmt.Errorf("ítems de factura corruptos: %w", err)
	}
	inv.ProposalID = stringPtr(proposalID)
	inv.CreatedBy = stringPtr(createdBy)
	inv.PaidAt = timePtr(paidAt)
	inv.ViewedAt = timePtr(viewedAt)
	inv.OpenedAt = timePtr(openedAt)
	return inv, nil
}

func (r *InvoiceRepository) FindByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return scanInvoice(r.DB.QueryRowContext(ctx, invoiceSelect+` WHERE i.id = $1`, id))
}

func (r *InvoiceRepository) FindByToken(ctx context.Context, token string) (*entity.Invoice, error) {
	return scanInvoice(r.DB.QueryRowContext(ctx, invoiceSelect+` WHERE i.token = $1`, token))
}

func (r *InvoiceRepository) FindByProposalID(ctx context.Context, proposalID string) (*entity.Invoice, error) {
	return scanInvoice(r.DB.QueryRowContext(ctx, invoiceSelect+` WHERE i.proposal_id = $1`, proposalID))
}

func (r *InvoiceRepository) List(ctx context.Context, status string) ([]*entity.Invoice, error) {
	query := invoiceSelect
	var args []any
	if status != "" {
		query += ` WHERE i.status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY i.created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error al listar facturas: %w", err)
	}
	defer rows.Close()

	out := []*entity.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *InvoiceRepository) Update(ctx context.Context, id string, patch entity.Patch) error {
	query, args, err := buildUpdate("invoices", patch, invoiceColumns, cond{"id", id})
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error al actualizar factura: %w", err)
	}
	return expectRow(res)
}

func (r *InvoiceRepository) MarkViewed(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE invoices SET viewed_at = NOW(), updated_at = NOW() WHERE token = $1 AND viewed_at IS NULL`, token)
	return err
}

// TrackOpen suma una apertura del email; opened_at guarda sólo la primera.
func (r *InvoiceRepository) TrackOpen(ctx context.Context, token string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE invoices
		SET open_count = open_count + 1, opened_at = COALESCE(opened_at, NOW())
		WHERE token = $1
	`, token)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error al eliminar factura: %w", err)
	}
	return expectRow(res)
}

// MarkOverdue pasa a overdue las facturas pendientes con vencimiento anterior a hoy.
// Devuelve los números afectados.
func (r *InvoiceRepository) MarkOverdue(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		UPDATE invoices
		SET status = 'overdue', updated_at = NOW()
		WHERE status = 'pending' AND due_date < CURRENT_DATE
		RETURNING number
	`)
	if err != nil {
		return nil, fmt.Errorf("error al vencer facturas: %w", err)
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		numbers = append(numbers, n)
	}
	return numbers, rows.Err()
}
