package category

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

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
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type categoryResponse struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Color     string      `json:"color"`
	Type      ledger.Type `json:"type"`
	IsDefault bool        `json:"is_default"`
	Usage     int         `json:"usage"`
}

func (h *Handler) toResponse(c ledger.Category) categoryResponse {
	return categoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Color:     c.Color,
		Type:      c.Type,
		IsDefault: c.IsDefault,
		Usage:     h.svc.Store().CategoryUsage(c.Name),
	}
}

type createCategoryRequest struct {
	Name  string      `json:"name"`
	Color string      `json:"color"`
	Type  ledger.Type `json:"type"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}

	c, err := h.svc.AddCategory(r.Context(), ledger.CategoryParams{
		Name:  req.Name,
		Color: req.Color,
		Type:  req.Type,
	})
	web.Result(w, r, http.StatusCreated, h.toResponse(c), err)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	typ := ledger.Type(r.URL.Query().Get("type"))
	if typ != "" && !typ.Valid() {
		web.Error(w, r, fmt.Errorf("%w: invalid type %q", ledger.ErrValidation, typ))
		return
	}

	resp := []categoryResponse{}

	for _, c := range h.svc.Store().Categories() {
		if typ != "" && c.Type != typ {
			continue
		}

		resp = append(resp, h.toResponse(c))
	}

	web.JSON(w, http.StatusOK, resp)
}

type updateCategoryRequest struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "id")
	if err != nil {
		web.Error(w, r, err)
		return
	}

	var req updateCategoryRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, r, err)
		return
	}

	c, err := h.svc.Store().Category(id)
	if err != nil {
		web.Error(w, r, err)
		return
	}

	var syncErrs []error

	if req.Name != nil {
		res, err := h.svc.RenameCategory(r.Context(), id, *req.Name)
		if err != nil && !errors.Is(err, ledger.ErrRemoteSync) {
			web.Error(w, r, err)
			return
		}

		c = res.Category
		syncErrs = append(syncErrs, err)
	}

	if req.Color != nil {
		updated, err := h.svc.UpdateCategoryColor(r.Context(), id, *req.Color)
		if err != nil && !errors.Is(err, ledger.ErrRemoteSync) {
			web.Error(w, r, err)
			return
		}

		c = updated
		syncErrs = append(syncErrs, err)
	}

	web.Result(w, r, http.StatusOK, h.toResponse(c), errors.Join(syncErrs...))
}

type deleteCategoryResponse struct {
	Category        categoryResponse `json:"category"`
	DeletedExpenses int              `json:"deleted_expenses"`
	TargetRemoved   bool             `json:"target_removed"`
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "id")
	if err != nil {
		web.Error(w, r, err)
		return
	}

	cascade := false
	if s := r.URL.Query().Get("cascade"); s != "" {
		if cascade, err = strconv.ParseBool(s); err != nil {
			web.Error(w, r, fmt.Errorf("%w: invalid cascade %q", ledger.ErrValidation, s))
			return
		}
	}

	res, err := h.svc.DeleteCategory(r.Context(), id, cascade)
	web.Result(w, r, http.StatusOK, deleteCategoryResponse{
		Category: categoryResponse{
			ID:        res.Category.ID,
			Name:      res.Category.Name,
			Color:     res.Category.Color,
			Type:      res.Category.Type,
			IsDefault: res.Category.IsDefault,
		},
		DeletedExpenses: len(res.Expenses),
		TargetRemoved:   res.Target != nil,
	}, err)
}
