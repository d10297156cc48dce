package target

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kakeibo/internal/http/web"
	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
	"github.com/MrJamesThe3rd/kakeibo/internal/target"
)

type Handler struct {
	svc *ledger.Service
	now func() time.Time
}

func NewHandler(svc *ledger.Service, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}

	return &Handler{svc: svc, now: now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Delete("/{category}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	store := h.svc.Store()

	evals := target.Evaluate(store.SavingTargets(), store.Expenses(), store.Categories(), h.now())
	if evals == nil {
		evals = []target.Evaluation{}
	}

	web.JSON(w, http.StatusOK, evals)
}

type createTargetRequest struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTargetRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}

	t, err := h.svc.AddSavingTarget(r.Context(), ledger.SavingTarget{
		Category: req.Category,
		Amount:   req.Amount,
	})
	web.Result(w, r, http.StatusCreated, t, err)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	category, err := web.PathParam(r, "category")
	if err != nil {
		web.Error(w, r, err)
		return
	}

	removed, err := h.svc.DeleteSavingTarget(r.Context(), category)
	if err == nil && !removed {
		err = fmt.Errorf("saving target %q: %w", category, ledger.ErrNotFound)
	}

	web.Result(w, r, http.StatusNoContent, nil, err)
}
