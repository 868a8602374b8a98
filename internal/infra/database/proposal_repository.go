package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const proposalSelect = `
	SELECT p.id, p.lead_id, p.title, COALESCE(p.description, ''), p.items, p.total_price, p.token,
	       p.status, p.viewed_at, p.accepted_at, p.signature_data, p.signer_name, p.created_by,
	       p.created_at, p.updated_at, l.name, COALESCE(l.email, '')
	FROM proposals p
	JOIN leads l ON l.id = p.lead_id`

type ProposalRepository struct {
	DB *sql.DB
}

func NewProposalRepository(db *sql.DB) *ProposalRepository {
	return &ProposalRepository{DB: db}
}

// Create guarda la propuesta, pasa el lead a proposal_sent y registra la actividad.
func (r *ProposalRepository) Create(ctx context.Context, p *entity.Proposal, activity *entity.Activity) error {
	items, err := json.Marshal(p.Items)
	if err != nil {
		return fmt.Errorf("error al serializar ítems: %w", err)
	}

	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO proposals (id, lead_id, title, description, items, total_price, token, status, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, p.ID, p.LeadID, p.Title, nullString(p.Description), items, p.TotalPrice, p.Token, p.Status,
			p.CreatedBy, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("error al crear propuesta: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE leads SET status = $2, updated_at = NOW() WHERE id = $1`,
			p.LeadID, entity.LeadStatusProposalSent); err != nil {
			return fmt.Errorf("error al actualizar lead: %w", err)
		}
		return insertActivity(ctx, tx, activity)
	})
}

func scanProposal(row interface{ Scan(...any) error }) (*entity.Proposal, error) {
	p := &entity.Proposal{}
	var items []byte
	var viewedAt, acceptedAt sql.NullTime
	var signature, signer, createdBy sql.NullString
	err := row.Scan(&p.ID, &p.LeadID, &p.Title, &p.Description, &items, &p.TotalPrice, &p.Token,
		&p.Status, &viewedAt, &acceptedAt, &signature, &signer, &createdBy,
		&p.CreatedAt, &p.UpdatedAt, &p.LeadName, &p.LeadEmail)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(items, &p.Items); err != nil {
		return nil, fmt.Errorf("ítems de propuesta corruptos: %w", err)
	}
	p.ViewedAt = timePtr(viewedAt)
	p.AcceptedAt = timePtr(acceptedAt)
	p.SignatureData = stringPtr(signature)
	p.SignerName = stringPtr(signer)
	p.CreatedBy = stringPtr(createdBy)
	return p, nil
}

func (r *ProposalRepository) FindByID(ctx context.Context, id string) (*entity.Proposal, error) {
	return scanProposal(r.DB.QueryRowContext(ctx, proposalSelect+` WHERE p.id = $1`, id))
}

func (r *ProposalRepository) FindByToken(ctx context.Context, token string) (*entity.Proposal, error) {
	return scanProposal(r.DB.QueryRowContext(ctx, proposalSelect+` WHERE p.token = $1`, token))
}

func (r *ProposalRepository) List(ctx context.Context, leadID string) ([]*entity.Proposal, error) {
	query := proposalSelect
	var args []any
	if leadID != "" {
		query += ` WHERE p.lead_id = $1`
		args = append(args, leadID)
	}
	query += ` ORDER BY p.created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error al listar propuestas: %w", err)
	}
	defer rows.Close()

	out := []*entity.Proposal{}
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkViewed es la transición única de primera vista: viewed_at sólo se escribe si es
// NULL y el estado sólo pasa a viewed desde sent. Devuelve true en la primera vista.
func (r *ProposalRepository) MarkViewed(ctx context.Context, token string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE proposals
		SET viewed_at = NOW(),
		    status = CASE WHEN status = 'sent' THEN 'viewed' ELSE status END,
		    updated_at = NOW()
		WHERE token = $1 AND viewed_at IS NULL
	`, token)
	if err != nil {
		return false, fmt.Errorf("error al marcar propuesta vista: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ProposalRepository) AddComment(ctx context.Context, c *entity.ProposalComment) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO proposal_comments (id, proposal_id, author, comment, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, c.ID, c.ProposalID, c.Author, c.Comment, c.CreatedAt); err != nil {
			return fmt.Errorf("error al guardar comentario: %w", err)
		}
		_, err := tx.ExecContext(ctx, `
			UPDATE proposals SET status = 'commented', updated_at = NOW()
			WHERE id = $1 AND status IN ('sent', 'viewed')
		`, c.ProposalID)
		return err
	})
}

func (r *ProposalRepository) ListComments(ctx context.Context, proposalID string) ([]*entity.ProposalComment, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, proposal_id, author, comment, created_at
		FROM proposal_comments WHERE proposal_id = $1 ORDER BY created_at ASC
	`, proposalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*entity.ProposalComment{}
	for rows.Next() {
		c := &entity.ProposalComment{}
		if err := rows.Scan(&c.ID, &c.ProposalID, &c.Author, &c.Comment, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Accept hace en una transacción: propuesta -> accepted, lead -> won y la actividad.
func (r *ProposalRepository) Accept(ctx context.Context, id, signature, signer string, activity *entity.Activity) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		var leadID string
		err := tx.QueryRowContext(ctx, `
			UPDATE proposals
			SET status = 'accepted', accepted_at = NOW(), signature_data = $2, signer_name = $3, updated_at = NOW()
			WHERE id = $1 AND status <> 'accepted'
			RETURNING lead_id
		`, id, nullString(signature), nullString(signer)).Scan(&leadID)
		if errors.Is(err, sql.ErrNoRows) {
			var exists bool
			if err := tx.QueryRowContext(ctx,
				`SELECT EXISTS (SELECT 1 FROM proposals WHERE id = $1)`, id).Scan(&exists); err != nil {
				return err
			}
			if exists {
				return entity.ErrProposalAlreadyAccepted
			}
			return entity.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("error al aceptar propuesta: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE leads SET status = $2, updated_at = NOW() WHERE id = $1`,
			leadID, entity.LeadStatusWon); err != nil {
			return fmt.Errorf("error al marcar lead ganado: %w", err)
		}

		activity.LeadID = leadID
		return insertActivity(ctx, tx, activity)
	})
}

func (r *ProposalRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM proposals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error al eliminar propuesta: %w", err)
	}
	return expectRow(res)
}
