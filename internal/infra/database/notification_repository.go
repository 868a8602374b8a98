package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type NotificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, type, title, message, link, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, n.ID, n.UserID, n.Type, n.Title, n.Message, nullString(n.Link), n.Read, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("error al crear notificación: %w", err)
	}
	return nil
}

func (r *NotificationRepository) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, COALESCE(link, ''), read, created_at
		FROM notifications WHERE user_id = $1`
	if unreadOnly {
		query += ` AND read = FALSE`
	}
	query += ` ORDER BY created_at DESC LIMIT $2`

	rows, err := r.DB.QueryContext(ctx, query, userID, limitOrDefault(limit))
	if err != nil {
		return nil, fmt.Errorf("error al listar notificaciones: %w", err)
	}
	defer rows.Close()

	out := []*entity.Notification{}
	for rows.Next() {
		n := &entity.Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Link, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`, userID).Scan(&n)
	return n, err
}

// MarkRead sólo toca notificaciones del propio usuario.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *NotificationRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return expectRow(res)
}
