package admin

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/kakeibo/internal/http/web"
	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/reset", h.reset)
	r.Post("/pull", h.pull)
}

type resetRequest struct {
	Confirm     bool   `json:"confirm"`
	Acknowledge string `json:"acknowledge"`
}

type stateResponse struct {
	Expenses      int `json:"expenses"`
	Categories    int `json:"categories"`
	SavingTargets int `json:"saving_targets"`
}

func (h *Handler) state() stateResponse {
	snap := h.svc.Store().Snapshot()

	return stateResponse{
		Expenses:      len(snap.Expenses),
		Categories:    len(snap.Categories),
		SavingTargets: len(snap.SavingTargets),
	}
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}

	if req.Acknowledge != ledger.ResetAcknowledgement {
		web.Error(w, r, fmt.Errorf("%w: acknowledge must be %q", ledger.ErrValidation, ledger.ResetAcknowledgement))
		return
	}

	err := h.svc.Reset(r.Context(), req.Confirm)
	web.Result(w, r, http.StatusOK, h.state(), err)
}

func (h *Handler) pull(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Pull(r.Context()); err != nil {
		web.Error(w, r, err)
		return
	}

	web.JSON(w, http.StatusOK, h.state())
}
