package summary

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/kakeibo/internal/http/web"
	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
	"github.com/MrJamesThe3rd/kakeibo/internal/summary"
)

// Handler serves the aggregate views. Every route applies the entry filter from the
// query string before aggregating.
type Handler struct {
	store *ledger.Store
	now   func() time.Time
}

func NewHandler(store *ledger.Store, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}

	return &Handler{store: store, now: now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/categories", h.byCategory)
	r.Get("/monthly", h.byMonth)
	r.Get("/weekly", h.byWeek)
	r.Get("/daily", h.byDay)
	r.Get("/totals", h.totals)
}

func (h *Handler) filtered(r *http.Request) []ledger.Expense {
	return ledger.FilterExpenses(h.store.Expenses(), web.Filter(r.URL.Query()))
}

func (h *Handler) byCategory(w http.ResponseWriter, r *http.Request) {
	web.JSON(w, http.StatusOK, nonNil(summary.ByCategory(h.filtered(r), h.store.Categories())))
}

func (h *Handler) byMonth(w http.ResponseWriter, r *http.Request) {
	web.JSON(w, http.StatusOK, nonNil(summary.ByMonth(h.filtered(r))))
}

func (h *Handler) byWeek(w http.ResponseWriter, r *http.Request) {
	year, month, err := h.yearMonth(r.URL.Query())
	if err != nil {
		web.Error(w, r, err)
		return
	}

	weeks, err := summary.ByWeek(h.filtered(r), year, month)
	if err != nil {
		web.Error(w, r, err)
		return
	}

	web.JSON(w, http.StatusOK, weeks)
}

func (h *Handler) byDay(w http.ResponseWriter, r *http.Request) {
	year, month, err := h.yearMonth(r.URL.Query())
	if err != nil {
		web.Error(w, r, err)
		return
	}

	web.JSON(w, http.StatusOK, nonNil(summary.ByDay(h.filtered(r), year, month)))
}

func (h *Handler) totals(w http.ResponseWriter, r *http.Request) {
	web.JSON(w, http.StatusOK, summary.ComputeTotals(h.filtered(r)))
}

// yearMonth reads the month to break down, defaulting to the current one.
func (h *Handler) yearMonth(q url.Values) (int, int, error) {
	now := h.now()
	year, month := now.Year(), int(now.Month())

	if s := q.Get("year"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: invalid year %q", ledger.ErrValidation, s)
		}

		year = n
	}

	if s := q.Get("month"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: invalid month %q", ledger.ErrValidation, s)
		}

		month = n
	}

	return year, month, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
