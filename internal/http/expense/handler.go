package expense

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

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
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}", h.updateAmount)
}

type createExpenseRequest struct {
	Date     string          `json:"date"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Memo     string          `json:"memo"`
	Type     ledger.Type     `json:"type"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}

	e, err := h.svc.AddExpense(r.Context(), ledger.ExpenseParams{
		Date:     req.Date,
		Category: req.Category,
		Amount:   req.Amount,
		Memo:     req.Memo,
		Type:     req.Type,
	})
	web.Result(w, r, http.StatusCreated, toResponse(e), err)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sort, err := web.Sort(q)
	if err != nil {
		web.Error(w, r, err)
		return
	}

	expenses := ledger.FilterExpenses(h.svc.Store().Expenses(), web.Filter(q))
	expenses = ledger.SortExpenses(expenses, sort)

	web.JSON(w, http.StatusOK, toResponseList(expenses))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "id")
	if err != nil {
		web.Error(w, r, err)
		return
	}

	e, err := h.svc.Store().Expense(id)
	if err != nil {
		web.Error(w, r, err)
		return
	}

	web.JSON(w, http.StatusOK, toResponse(e))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "id")
	if err != nil {
		web.Error(w, r, err)
		return
	}

	_, err = h.svc.DeleteExpense(r.Context(), id)
	web.Result(w, r, http.StatusNoContent, nil, err)
}

type updateAmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) updateAmount(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "id")
	if err != nil {
		web.Error(w, r, err)
		return
	}

	var req updateAmountRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}

	e, err := h.svc.UpdateExpenseAmount(r.Context(), id, req.Amount)
	web.Result(w, r, http.StatusOK, toResponse(e), err)
}
