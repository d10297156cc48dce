package target_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/kakeibo/internal/http/target"
	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

var now = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func newServer(t *testing.T) (http.Handler, *ledger.Service) {
	t.Helper()

	ctrl := gomock.NewController(t)

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := ledger.NewService(ledger.NewDefaultStore(), repo, nil)

	r := chi.NewRouter()
	r.Route("/targets", target.NewHandler(svc, func() time.Time { return now }).Routes)

	return r, svc
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHandler(t *testing.T) {
	h, svc := newServer(t)

	_, err := svc.AddExpense(context.Background(), ledger.ExpenseParams{
		Date:     "2024-03-02",
		Category: "食費",
		Amount:   decimal.NewFromInt(6000),
		Type:     ledger.TypeExpense,
	})
	require.NoError(t, err)

	rec := do(t, h, http.MethodGet, "/targets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/targets", `{"category":"食費","amount":"10000"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/targets", `{"category":"食費","amount":"5000"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/targets", `{"category":"旅行","amount":"5000"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/targets", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var evals []struct {
		Category  string `json:"category"`
		Current   string `json:"current"`
		Available string `json:"available"`
		Status    string `json:"status"`
		Message   string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &evals))
	require.Len(t, evals, 1)
	assert.Equal(t, "6000", evals[0].Current)
	assert.Equal(t, "4000", evals[0].Available)
	assert.Equal(t, "approaching", evals[0].Status)
	assert.Equal(t, "そろそろ節約が必要です", evals[0].Message)

	path := "/targets/" + url.PathEscape("食費")

	rec = do(t, h, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, svc.Store().SavingTargets())

	rec = do(t, h, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_DeleteDecodesCategoryOnce(t *testing.T) {
	h, svc := newServer(t)
	ctx := context.Background()

	names := []string{"50%off", "a%41", "aA", "食/外"}
	for _, name := range names {
		_, err := svc.AddCategory(ctx, ledger.CategoryParams{Name: name, Type: ledger.TypeExpense})
		require.NoError(t, err)

		_, err = svc.AddSavingTarget(ctx, ledger.SavingTarget{Category: name, Amount: decimal.NewFromInt(100)})
		require.NoError(t, err)
	}

	remaining := func() []string {
		var out []string
		for _, st := range svc.Store().SavingTargets() {
			out = append(out, st.Category)
		}

		return out
	}

	rec := do(t, h, http.MethodDelete, "/targets/"+url.PathEscape("50%off"), "")
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"a%41", "aA", "食/外"}, remaining())

	rec = do(t, h, http.MethodDelete, "/targets/"+url.PathEscape("a%41"), "")
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"aA", "食/外"}, remaining())

	rec = do(t, h, http.MethodDelete, "/targets/"+url.PathEscape("食/外"), "")
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"aA"}, remaining())
}
