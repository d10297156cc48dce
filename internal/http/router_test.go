package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	exportsvc "github.com/MrJamesThe3rd/kakeibo/internal/export"
	api "github.com/MrJamesThe3rd/kakeibo/internal/http"
	"github.com/MrJamesThe3rd/kakeibo/internal/http/admin"
	"github.com/MrJamesThe3rd/kakeibo/internal/http/auth"
	"github.com/MrJamesThe3rd/kakeibo/internal/http/category"
	"github.com/MrJamesThe3rd/kakeibo/internal/http/expense"
	"github.com/MrJamesThe3rd/kakeibo/internal/http/export"
	"github.com/MrJamesThe3rd/kakeibo/internal/http/importcsv"
	"github.com/MrJamesThe3rd/kakeibo/internal/http/summary"
	"github.com/MrJamesThe3rd/kakeibo/internal/http/target"
	"github.com/MrJamesThe3rd/kakeibo/internal/importer"
	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

const secret = "router-secret"

func newRouter(t *testing.T, opts api.Options) http.Handler {
	t.Helper()

	ctrl := gomock.NewController(t)

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := ledger.NewService(ledger.NewDefaultStore(), repo, nil)

	return api.New(opts, api.Handlers{
		Expenses:   expense.NewHandler(svc),
		Categories: category.NewHandler(svc),
		Targets:    target.NewHandler(svc, nil),
		Summary:    summary.NewHandler(svc.Store(), nil),
		Export:     export.NewHandler(exportsvc.NewService(svc.Store())),
		Import:     importcsv.NewHandler(importer.NewService(svc, svc.Store(), nil)),
		Admin:      admin.NewHandler(svc),
	})
}

func TestRouter_Health(t *testing.T) {
	h := newRouter(t, api.Options{AllowedOrigins: []string{"*"}, JWTSecret: secret})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Auth(t *testing.T) {
	h := newRouter(t, api.Options{AllowedOrigins: []string{"*"}, JWTSecret: secret})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := auth.Sign([]byte(secret), "user-1", jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_CORSExposesSyncHeader(t *testing.T) {
	h := newRouter(t, api.Options{AllowedOrigins: []string{"https://app.example.com"}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/expenses", nil)
	req.Header.Set("Origin", "https://app.example.com")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "X-Sync-Error")
}

func TestRouter_RejectsNonJSONBody(t *testing.T) {
	h := newRouter(t, api.Options{AllowedOrigins: []string{"*"}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/expenses", strings.NewReader("date=2024-01-01"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}
