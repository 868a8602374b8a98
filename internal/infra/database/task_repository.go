package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

var taskColumns = columns("title", "description", "due_date", "completed", "lead_id")

var eventColumns = columns("title", "description", "start_at", "end_at", "location", "lead_id")

type TaskRepository struct {
	DB *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO tasks (id, user_id, lead_id, title, description, due_date, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, t.ID, t.UserID, t.LeadID, t.Title, nullString(t.Description), t.DueDate, t.Completed, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error al crear tarea: %w", err)
	}
	return nil
}

const taskSelect = `
	SELECT id, user_id, lead_id, title, COALESCE(description, ''), due_date, completed, created_at, updated_at
	FROM tasks`

func scanTask(row interface{ Scan(...any) error }) (*entity.Task, error) {
	t := &entity.Task{}
	var leadID sql.NullString
	var due sql.NullTime
	err := row.Scan(&t.ID, &t.UserID, &leadID, &t.Title, &t.Description, &due, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.LeadID = stringPtr(leadID)
	t.DueDate = timePtr(due)
	return t, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, id string) (*entity.Task, error) {
	return scanTask(r.DB.QueryRowContext(ctx, taskSelect+` WHERE id = $1 AND user_id = $2`, id, userID))
}

// List devuelve primero las pendientes, ordenadas por vencimiento.
func (r *TaskRepository) List(ctx context.Context, userID string, includeCompleted bool) ([]*entity.Task, error) {
	query := taskSelect + ` WHERE user_id = $1`
	if !includeCompleted {
		query += ` AND completed = FALSE`
	}
	query += ` ORDER BY completed ASC, due_date ASC NULLS LAST, created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error al listar tareas: %w", err)
	}
	defer rows.Close()

	out := []*entity.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, userID, id string, patch entity.Patch) error {
	query, args, err := buildUpdate("tasks", patch, taskColumns, cond{"id", id}, cond{"user_id", userID})
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error al actualizar tarea: %w", err)
	}
	return expectRow(res)
}

func (r *TaskRepository) Toggle(ctx context.Context, userID, id string) (bool, error) {
	var completed bool
	err := r.DB.QueryRowContext(ctx, `
		UPDATE tasks SET completed = NOT completed, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING completed
	`, id, userID).Scan(&completed)
	if errors.Is(err, sql.ErrNoRows) {
		return false, entity.ErrNotFound
	}
	return completed, err
}

func (r *TaskRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// ---- calendario ----

type CalendarRepository struct {
	DB *sql.DB
}

func NewCalendarRepository(db *sql.DB) *CalendarRepository {
	return &CalendarRepository{DB: db}
}

func (r *CalendarRepository) Create(ctx context.Context, e *entity.CalendarEvent) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO calendar_events (id, user_id, lead_id, title, description, start_at, end_at, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, e.ID, e.UserID, e.LeadID, e.Title, nullString(e.Description), e.StartAt, e.EndAt,
		nullString(e.Location), e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error al crear evento: %w", err)
	}
	return nil
}

const eventSelect = `
	SELECT id, user_id, lead_id, title, COALESCE(description, ''), start_at, end_at,
	       COALESCE(location, ''), created_at, updated_at
	FROM calendar_events`

func scanEvent(row interface{ Scan(...any) error }) (*entity.CalendarEvent, error) {
	e := &entity.CalendarEvent{}
	var leadID sql.NullString
	err := row.Scan(&e.ID, &e.UserID, &leadID, &e.Title, &e.Description, &e.StartAt, &e.EndAt,
		&e.Location, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e.LeadID = stringPtr(leadID)
	return e, nil
}

func (r *CalendarRepository) FindByID(ctx context.Context, userID, id string) (*entity.CalendarEvent, error) {
	return scanEvent(r.DB.QueryRowContext(ctx, eventSelect+` WHERE id = $1 AND user_id = $2`, id, userID))
}

// ListRange devuelve los eventos que se solapan con [from, to).
func (r *CalendarRepository) ListRange(ctx context.Context, userID string, from, to time.Time) ([]*entity.CalendarEvent, error) {
	rows, err := r.DB.QueryContext(ctx, eventSelect+`
		WHERE user_id = $1 AND start_at < $3 AND end_at >= $2
		ORDER BY start_at ASC
	`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error al listar eventos: %w", err)
	}
	defer rows.Close()

	out := []*entity.CalendarEvent{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *CalendarRepository) Update(ctx context.Context, userID, id string, patch entity.Patch) error {
	query, args, err := buildUpdate("calendar_events", patch, eventColumns, cond{"id", id}, cond{"user_id", userID})
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error al actualizar evento: %w", err)
	}
	return expectRow(res)
}

func (r *CalendarRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM calendar_events WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return expectRow(res)
}
