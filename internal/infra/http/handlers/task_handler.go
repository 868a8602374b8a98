package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// TaskService lo cumple *usecase.TaskUseCase (tareas y calendario).
type TaskService interface {
	CreateTask(ctx context.Context, userID string, in usecase.TaskInput) (*entity.Task, error)
	ListTasks(ctx context.Context, userID string, includeCompleted bool) ([]*entity.Task, error)
	UpdateTask(ctx context.Context, userID, id string, in usecase.UpdateTaskInput) (*entity.Task, error)
	ToggleTask(ctx context.Context, userID, id string) (bool, error)
	DeleteTask(ctx context.Context, userID, id string) error

	CreateEvent(ctx context.Context, userID string, in usecase.EventInput) (*entity.CalendarEvent, error)
	ListEvents(ctx context.Context, userID string, from, to time.Time) ([]*entity.CalendarEvent, error)
	UpdateEvent(ctx context.Context, userID, id string, in usecase.UpdateEventInput) (*entity.CalendarEvent, error)
	DeleteEvent(ctx context.Context, userID, id string) error
}

type TaskHandler struct {
	Tasks TaskService
	log   zerolog.Logger
}

func NewTaskHandler(tasks TaskService, log zerolog.Logger) *TaskHandler {
	return &TaskHandler{Tasks: tasks, log: log}
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	all := r.URL.Query().Get("include_completed") == "true"
	tasks, err := h.Tasks.ListTasks(r.Context(), userID(r), all)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var in usecase.TaskInput
	if !decode(w, r, &in) {
		return
	}
	t, err := h.Tasks.CreateTask(r.Context(), userID(r), in)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var in usecase.UpdateTaskInput
	if !decode(w, r, &in) {
		return
	}
	t, err := h.Tasks.UpdateTask(r.Context(), userID(r), chi.URLParam(r, "id"), in)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	done, err := h.Tasks.ToggleTask(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"completed": done})
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.Tasks.DeleteTask(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Tarea eliminada"})
}

// ListEvents acepta from/to en RFC3339 o YYYY-MM-DD; sin rango el caso de uso usa el mes actual.
func (h *TaskHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	from, ok := queryTime(w, r, "from")
	if !ok {
		return
	}
	to, ok := queryTime(w, r, "to")
	if !ok {
		return
	}
	events, err := h.Tasks.ListEvents(r.Context(), userID(r), from, to)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *TaskHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var in usecase.EventInput
	if !decode(w, r, &in) {
		return
	}
	ev, err := h.Tasks.CreateEvent(r.Context(), userID(r), in)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

func (h *TaskHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var in usecase.UpdateEventInput
	if !decode(w, r, &in) {
		return
	}
	ev, err := h.Tasks.UpdateEvent(r.Context(), userID(r), chi.URLParam(r, "id"), in)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (h *TaskHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.Tasks.DeleteEvent(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Evento eliminado"})
}

func queryTime(w http.ResponseWriter, r *http.Request, key string) (time.Time, bool) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, true
	}
	writeError(w, http.StatusBadRequest, "Fecha inválida en "+key)
	return time.Time{}, false
}
