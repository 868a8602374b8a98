package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

var commercialColumns = columns("phone", "commission_rate", "active", "qr_code")

const commercialSelect = `
	SELECT c.id, c.user_id, c.referral_code, COALESCE(c.qr_code, ''), COALESCE(c.phone, ''),
	       c.commission_rate, c.active, c.created_at, u.name, u.email
	FROM commercials c JOIN users u ON u.id = c.user_id`

type CommercialRepository struct {
	DB *sql.DB
}

func NewCommercialRepository(db *sql.DB) *CommercialRepository {
	return &CommercialRepository{DB: db}
}

// CreateWithUser crea el usuario con rol commercial y su perfil en una sola transacción.
func (r *CommercialRepository) CreateWithUser(ctx context.Context, u *entity.User, c *entity.Commercial) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if err := insertUser(ctx, tx, u); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO commercials (id, user_id, referral_code, qr_code, phone, commission_rate, active, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, c.ID, c.UserID, c.ReferralCode, nullString(c.QRCode), nullString(c.Phone),
			c.CommissionRate, c.Active, c.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return entity.ErrReferralCodeAlreadyExists
			}
			return fmt.Errorf("error al crear comercial: %w", err)
		}
		return nil
	})
}

func scanCommercial(row interface{ Scan(...any) error }) (*entity.Commercial, error) {
	c := &entity.Commercial{}
	err := row.Scan(&c.ID, &c.UserID, &c.ReferralCode, &c.QRCode, &c.Phone,
		&c.CommissionRate, &c.Active, &c.CreatedAt, &c.Name, &c.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	return c, err
}

func (r *CommercialRepository) FindByID(ctx context.Context, id string) (*entity.Commercial, error) {
	return scanCommercial(r.DB.QueryRowContext(ctx, commercialSelect+` WHERE c.id = $1`, id))
}

func (r *CommercialRepository) FindByUserID(ctx context.Context, userID string) (*entity.Commercial, error) {
	return scanCommercial(r.DB.QueryRowContext(ctx, commercialSelect+` WHERE c.user_id = $1`, userID))
}

// FindByReferralCode ignora comerciales inactivos.
func (r *CommercialRepository) FindByReferralCode(ctx context.Context, code string) (*entity.Commercial, error) {
	return scanCommercial(r.DB.QueryRowContext(ctx,
		commercialSelect+` WHERE upper(c.referral_code) = upper($1) AND c.active`, code))
}

func (r *CommercialRepository) List(ctx context.Context) ([]*entity.Commercial, error) {
	rows, err := r.DB.QueryContext(ctx, commercialSelect+` ORDER BY c.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("error al listar comerciales: %w", err)
	}
	defer rows.Close()

	out := []*entity.Commercial{}
	for rows.Next() {
		c, err := scanCommercial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CommercialRepository) Update(ctx context.Context, id string, patch entity.Patch) error {
	query, args, err := buildUpdate("commercials", patch, commercialColumns, cond{"id", id})
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error al actualizar comercial: %w", err)
	}
	return expectRow(res)
}

// DeleteWithUser desasigna los leads, borra el perfil y el usuario asociado.
func (r *CommercialRepository) DeleteWithUser(ctx context.Context, id string) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		var userID string
		err := tx.QueryRowContext(ctx, `SELECT user_id FROM commercials WHERE id = $1 FOR UPDATE`, id).Scan(&userID)
		if errors.Is(err, sql.ErrNoRows) {
			return entity.ErrNotFound
		}
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE leads SET commercial_id = NULL, updated_at = NOW() WHERE commercial_id = $1`, id); err != nil {
			return fmt.Errorf("error al desasignar leads: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM commercials WHERE id = $1`, id); err != nil {
			return fmt.Errorf("error al eliminar comercial: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
			return fmt.Errorf("error al eliminar usuario del comercial: %w", err)
		}
		return nil
	})
}

func (r *CommercialRepository) Stats(ctx context.Context, id string) (*entity.CommercialStats, error) {
	s := &entity.CommercialStats{CommercialID: id}
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'won')
		FROM leads WHERE commercial_id = $1
	`, id).Scan(&s.TotalLeads, &s.WonLeads)
	if err != nil {
		return nil, err
	}
	if s.TotalLeads > 0 {
		s.Conversion = float64(s.WonLeads) / float64(s.TotalLeads) * 100
	}
	return s, nil
}
