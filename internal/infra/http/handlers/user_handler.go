package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// UserService lo cumple *usecase.UserUseCase.
type UserService interface {
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	Get(ctx context.Context, id string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	Create(ctx context.Context, in usecase.CreateUserInput) (*usecase.UserResult, error)
	Update(ctx context.Context, id string, in usecase.UpdateUserInput) (*entity.User, error)
	Delete(ctx context.Context, actorID, id string) error
}

type UserHandler struct {
	Users UserService
	log   zerolog.Logger
}

func NewUserHandler(users UserService, log zerolog.Logger) *UserHandler {
	return &UserHandler{Users: users, log: log}
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in usecase.LoginInput
	if !decode(w, r, &in) {
		return
	}
	out, err := h.Users.Login(r.Context(), in)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.Get(r.Context(), userID(r))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in usecase.CreateUserInput
	if !decode(w, r, &in) {
		return
	}
	res, err := h.Users.Create(r.Context(), in)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in usecase.UpdateUserInput
	if !decode(w, r, &in) {
		return
	}
	u, err := h.Users.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Usuario eliminado"})
}
