package export

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/kakeibo/internal/export"
	"github.com/MrJamesThe3rd/kakeibo/internal/http/web"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.Export(web.Filter(r.URL.Query()))
	if err != nil {
		if errors.Is(err, export.ErrNoData) {
			web.JSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}

		web.Error(w, r, err)

		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(f.Content)))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"export.csv\"; filename*=UTF-8''%s", url.PathEscape(f.Name)))

	if _, err := w.Write(f.Content); err != nil {
		slog.ErrorContext(r.Context(), "failed to write export", "error", err)
	}
}
