package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

const genericError = "Error interno del servidor"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func statusFor(code string) int {
	switch code {
	case usecase.CodeValidation:
		return http.StatusBadRequest
	case usecase.CodeNotFound:
		return http.StatusNotFound
	case usecase.CodeAccessDenied:
		return http.StatusForbidden
	case usecase.CodeQuotaExceeded:
		return http.StatusTooManyRequests
	case usecase.CodeConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// handleError traduce errores de dominio a su status; el resto es 500 con mensaje genérico.
func handleError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		writeError(w, statusFor(de.Code), de.Message)
		return
	}
	log.Error().Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("❌ error técnico")
	writeError(w, http.StatusInternalServerError, genericError)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return false
	}
	return true
}

func userID(r *http.Request) string {
	return middleware.UserID(r.Context())
}

// actor es el usuario autenticado como puntero, para created_by/user_id opcionales.
func actor(r *http.Request) *string {
	id := userID(r)
	if id == "" {
		return nil
	}
	return &id
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func writeFile(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
