package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// ProposalService lo cumple *usecase.ProposalUseCase.
type ProposalService interface {
	Create(ctx context.Context, in usecase.CreateProposalInput, userID *string) (*usecase.ProposalResult, error)
	Get(ctx context.Context, id string) (*usecase.PublicProposal, error)
	List(ctx context.Context, leadID string) ([]*entity.Proposal, error)
	Delete(ctx context.Context, id string) error
	GetByToken(ctx context.Context, token string) (*usecase.PublicProposal, error)
	Comment(ctx context.Context, token string, in usecase.CommentInput) (*entity.ProposalComment, error)
	Accept(ctx context.Context, id string, in usecase.AcceptProposalInput) (*usecase.AcceptResult, error)
	AcceptByToken(ctx context.Context, token string, in usecase.AcceptProposalInput) (*usecase.AcceptResult, error)
	Resend(ctx context.Context, id string, userID *string) error
	SendByEmail(ctx context.Context, id, to string, userID *string) error
	PDF(ctx context.Context, id string) (*entity.Proposal, []byte, error)
}

type ProposalHandler struct {
	Proposals ProposalService
	log       zerolog.Logger
}

func NewProposalHandler(proposals ProposalService, log zerolog.Logger) *ProposalHandler {
	return &ProposalHandler{Proposals: proposals, log: log}
}

func (h *ProposalHandler) List(w http.ResponseWriter, r *http.Request) {
	proposals, err := h.Proposals.List(r.Context(), r.URL.Query().Get("lead_id"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, proposals)
}

func (h *ProposalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in usecase.CreateProposalInput
	if !decode(w, r, &in) {
		return
	}
	res, err := h.Proposals.Create(r.Context(), in, actor(r))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *ProposalHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Proposals.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProposalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Proposals.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Propuesta eliminada"})
}

func (h *ProposalHandler) Accept(w http.ResponseWriter, r *http.Request) {
	var in usecase.AcceptProposalInput
	if !decode(w, r, &in) {
		return
	}
	res, err := h.Proposals.Accept(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ProposalHandler) Resend(w http.ResponseWriter, r *http.Request) {
	if err := h.Proposals.Resend(r.Context(), chi.URLParam(r, "id"), actor(r)); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Propuesta reenviada"})
}

func (h *ProposalHandler) Send(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if !decode(w, r, &in) {
		return
	}
	if err := h.Proposals.SendByEmail(r.Context(), chi.URLParam(r, "id"), in.Email, actor(r)); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Propuesta enviada a " + in.Email})
}

func (h *ProposalHandler) PDF(w http.ResponseWriter, r *http.Request) {
	p, body, err := h.Proposals.PDF(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeFile(w, "application/pdf", "propuesta_"+shortID(p.ID)+".pdf", body)
}

// ---- rutas públicas por token ----

func (h *ProposalHandler) PublicGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.Proposals.GetByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProposalHandler) PublicComment(w http.ResponseWriter, r *http.Request) {
	var in usecase.CommentInput
	if !decode(w, r, &in) {
		return
	}
	c, err := h.Proposals.Comment(r.Context(), chi.URLParam(r, "token"), in)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *ProposalHandler) PublicAccept(w http.ResponseWriter, r *http.Request) {
	var in usecase.AcceptProposalInput
	if !decode(w, r, &in) {
		return
	}
	res, err := h.Proposals.AcceptByToken(r.Context(), chi.URLParam(r, "token"), in)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ProposalHandler) PublicPDF(w http.ResponseWriter, r *http.Request) {
	p, err := h.Proposals.GetByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	_, body, err := h.Proposals.PDF(r.Context(), p.ID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeFile(w, "application/pdf", "propuesta_"+shortID(p.ID)+".pdf", body)
}
