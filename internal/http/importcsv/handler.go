package importcsv

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/kakeibo/internal/http/web"
	"github.com/MrJamesThe3rd/kakeibo/internal/importer"
	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type importResponse struct {
	Imported int                `json:"imported"`
	Skipped  []importer.Skipped `json:"skipped"`
	Unsynced int                `json:"unsynced"`
	Entries  []ledger.Expense   `json:"entries"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		web.Error(w, r, fmt.Errorf("%w: failed to parse form: %w", ledger.ErrValidation, err))
		return
	}

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format = importer.FormatLedger
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		web.Error(w, r, fmt.Errorf("%w: file field is required", ledger.ErrValidation))
		return
	}
	defer file.Close()

	res, err := h.importSvc.Import(r.Context(), format, file)

	skipped := res.Skipped
	if skipped == nil {
		skipped = []importer.Skipped{}
	}

	entries := res.Imported
	if entries == nil {
		entries = []ledger.Expense{}
	}

	web.Result(w, r, http.StatusCreated, importResponse{
		Imported: len(res.Imported),
		Skipped:  skipped,
		Unsynced: res.Unsynced,
		Entries:  entries,
	}, err)
}
