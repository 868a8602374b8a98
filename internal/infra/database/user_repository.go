package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

var userColumns = columns("name", "email", "role", "password_hash", "hunter_access", "hunter_daily_limit")

const userSelect = `SELECT id, name, email, password_hash, role, hunter_access, created_at, updated_at FROM users`

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	return insertUser(ctx, r.DB, u)
}

func insertUser(ctx context.Context, q querier, u *entity.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, hunter_access, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := q.ExecContext(ctx, query,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.HunterAccess, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error al crear usuario: %w", err)
	}
	return nil
}

func scanUser(row interface{ Scan(...any) error }) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.HunterAccess, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx, userSelect+` WHERE id = $1`, id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx, userSelect+` WHERE lower(email) = lower($1)`, email))
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.DB.QueryContext(ctx, userSelect+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("error al listar usuarios: %w", err)
	}
	defer rows.Close()

	users := []*entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, id string, patch entity.Patch) error {
	query, args, err := buildUpdate("users", patch, userColumns, cond{"id", id})
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error al actualizar usuario: %w", err)
	}
	return expectRow(res)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error al eliminar usuario: %w", err)
	}
	return expectRow(res)
}

func (r *UserRepository) CountByRole(ctx context.Context, role string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&n)
	return n, err
}

// FirstAdminID se usa como destinatario de notificaciones sin dueño claro.
func (r *UserRepository) FirstAdminID(ctx context.Context) (string, error) {
	var id string
	err := r.DB.QueryRowContext(ctx,
		`SELECT id FROM users WHERE role = 'admin' ORDER BY created_at ASC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", entity.ErrNotFound
	}
	return id, err
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}
