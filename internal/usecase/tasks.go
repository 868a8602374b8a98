package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type TaskUseCase struct {
	Tasks    TaskRepository
	Calendar CalendarRepository
}

func NewTaskUseCase(tasks TaskRepository, calendar CalendarRepository) *TaskUseCase {
	return &TaskUseCase{Tasks: tasks, Calendar: calendar}
}

func (uc *TaskUseCase) CreateTask(ctx context.Context, userID string, in TaskInput) (*entity.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, validationError("El título es obligatorio")
	}
	t := entity.NewTask(userID, in.LeadID, strings.TrimSpace(in.Title), in.Description, in.DueDate)
	if err := uc.Tasks.Create(ctx, t); err != nil {
		return nil, internal("Error al crear tarea", err)
	}
	return t, nil
}

func (uc *TaskUseCase) ListTasks(ctx context.Context, userID string, includeCompleted bool) ([]*entity.Task, error) {
	list, err := uc.Tasks.List(ctx, userID, includeCompleted)
	if err != nil {
		return nil, internal("Error al listar tareas", err)
	}
	return list, nil
}

func (uc *TaskUseCase) UpdateTask(ctx context.Context, userID, id string, in UpdateTaskInput) (*entity.Task, error) {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, validationError("El título es obligatorio")
	}
	patch := entity.Patch{}
	entity.Set(patch, "title", in.Title)
	entity.Set(patch, "description", in.Description)
	entity.Set(patch, "due_date", in.DueDate)
	entity.Set(patch, "completed", in.Completed)
	entity.Set(patch, "lead_id", in.LeadID)
	if patch.Empty() {
		return nil, validationError("No hay campos para actualizar")
	}
	if err := uc.Tasks.Update(ctx, userID, id, patch); err != nil {
		return nil, fromRepo(err, "Tarea no encontrada", "Error al actualizar tarea")
	}
	t, err := uc.Tasks.FindByID(ctx, userID, id)
	if err != nil {
		return nil, fromRepo(err, "Tarea no encontrada", "Error al buscar tarea")
	}
	return t, nil
}

func (uc *TaskUseCase) ToggleTask(ctx context.Context, userID, id string) (bool, error) {
	completed, err := uc.Tasks.Toggle(ctx, userID, id)
	if err != nil {
		return false, fromRepo(err, "Tarea no encontrada", "Error al actualizar tarea")
	}
	return completed, nil
}

func (uc *TaskUseCase) DeleteTask(ctx context.Context, userID, id string) error {
	if err := uc.Tasks.Delete(ctx, userID, id); err != nil {
		return fromRepo(err, "Tarea no encontrada", "Error al eliminar tarea")
	}
	return nil
}

// ---- calendario ----

func (uc *TaskUseCase) CreateEvent(ctx context.Context, userID string, in EventInput) (*entity.CalendarEvent, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, validationError("El título es obligatorio")
	}
	if in.StartAt.IsZero() {
		return nil, validationError("La fecha de inicio es obligatoria")
	}
	end := in.EndAt
	if end.IsZero() {
		end = in.StartAt.Add(time.Hour)
	}
	if end.Before(in.StartAt) {
		return nil, validationError("La fecha de fin debe ser posterior al inicio")
	}

	e := entity.NewCalendarEvent(userID, in.LeadID, strings.TrimSpace(in.Title), in.Description, in.Location, in.StartAt, end)
	if err := uc.Calendar.Create(ctx, e); err != nil {
		return nil, internal("Error al crear evento", err)
	}
	return e, nil
}

// ListEvents usa por defecto el mes en curso.
func (uc *TaskUseCase) ListEvents(ctx context.Context, userID string, from, to time.Time) ([]*entity.CalendarEvent, error) {
	if from.IsZero() {
		now := time.Now()
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
	if to.IsZero() {
		to = from.AddDate(0, 1, 0)
	}
	if !to.After(from) {
		return nil, validationError("Rango de fechas inválido")
	}
	list, err := uc.Calendar.ListRange(ctx, userID, from, to)
	if err != nil {
		return nil, internal("Error al listar eventos", err)
	}
	return list, nil
}

func (uc *TaskUseCase) UpdateEvent(ctx context.Context, userID, id string, in UpdateEventInput) (*entity.CalendarEvent, error) {
	current, err := uc.Calendar.FindByID(ctx, userID, id)
	if err != nil {
		return nil, fromRepo(err, "Evento no encontrado", "Error al buscar evento")
	}
	start, end := current.StartAt, current.EndAt
	if in.StartAt != nil {
		start = *in.StartAt
	}
	if in.EndAt != nil {
		end = *in.EndAt
	}
	if end.Before(start) {
		return nil, validationError("La fecha de fin debe ser posterior al inicio")
	}

	patch := entity.Patch{}
	entity.Set(patch, "title", in.Title)
	entity.Set(patch, "description", in.Description)
	entity.Set(patch, "location", in.Location)
	entity.Set(patch, "start_at", in.StartAt)
	entity.Set(patch, "end_at", in.EndAt)
	entity.Set(patch, "lead_id", in.LeadID)
	if patch.Empty() {
		return nil, validationError("No hay campos para actualizar")
	}
	if err := uc.Calendar.Update(ctx, userID, id, patch); err != nil {
		return nil, fromRepo(err, "Evento no encontrado", "Error al actualizar evento")
	}
	e, err := uc.Calendar.FindByID(ctx, userID, id)
	if err != nil {
		return nil, fromRepo(err, "Evento no encontrado", "Error al buscar evento")
	}
	return e, nil
}

func (uc *TaskUseCase) DeleteEvent(ctx context.Context, userID, id string) error {
	if err := uc.Calendar.Delete(ctx, userID, id); err != nil {
		return fromRepo(err, "Evento no encontrado", "Error al eliminar evento")
	}
	return nil
}
