package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Body   string
	APIKey string
	Auth   string
}

type fakeBackend struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  func(w http.ResponseWriter, r *http.Request) bool
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	q := map[string]string{}
	for k, v := range r.URL.Query() {
		q[k] = v[0]
	}

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  q,
		Body:   string(body),
		APIKey: r.Header.Get("apikey"),
		Auth:   r.Header.Get("Authorization"),
	})
	f.mu.Unlock()

	if f.handler != nil && f.handler(w, r) {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func newTestClient(t *testing.T, backend *fakeBackend) *Client {
	t.Helper()

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL+"/rest/v1/", "anon-key", "temp-user-123", 5*time.Second)
	c.now = func() time.Time { return time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC) }

	return c
}

func TestClient_InsertExpense(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestClient(t, backend)

	id := uuid.New()
	err := c.InsertExpense(context.Background(), ledger.Expense{
		ID:       id,
		Date:     "2024-01-01",
		Category: "食費",
		Amount:   decimal.NewFromInt(500),
		Memo:     "lunch",
		Type:     ledger.TypeExpense,
	})
	require.NoError(t, err)

	require.Len(t, backend.requests, 1)
	req := backend.requests[0]

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/rest/v1/expenses", req.Path)
	assert.Equal(t, "anon-key", req.APIKey)
	assert.Equal(t, "Bearer anon-key", req.Auth)

	var row map[string]any
	require.NoError(t, json.Unmarshal([]byte(req.Body), &row))
	assert.Equal(t, id.String(), row["id"])
	assert.Equal(t, "temp-user-123", row["user_id"])
	assert.Equal(t, "食費", row["category"])
	assert.Equal(t, "500", row["amount"])
}

func TestClient_DeleteExpense(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestClient(t, backend)

	id := uuid.New()
	require.NoError(t, c.DeleteExpense(context.Background(), id))

	req := backend.requests[0]
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "eq."+id.String(), req.Query["id"])
	assert.Equal(t, "eq.temp-user-123", req.Query["user_id"])
}

func TestClient_RenameCategory(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestClient(t, backend)

	cat := ledger.Category{ID: uuid.New(), Name: "外食", Type: ledger.TypeExpense}

	err := c.RenameCategory(context.Background(), ledger.CategoryRename{
		Category:      cat,
		OldName:       "食費",
		ExpenseIDs:    []uuid.UUID{uuid.New()},
		TargetRenamed: true,
	})
	require.NoError(t, err)

	require.Len(t, backend.requests, 3)

	assert.Equal(t, "/rest/v1/categories", backend.requests[0].Path)
	assert.Equal(t, "eq."+cat.ID.String(), backend.requests[0].Query["id"])

	assert.Equal(t, "/rest/v1/expenses", backend.requests[1].Path)
	assert.Equal(t, "eq.食費", backend.requests[1].Query["category"])
	assert.JSONEq(t, `{"category":"外食"}`, backend.requests[1].Body)

	assert.Equal(t, "/rest/v1/saving_targets", backend.requests[2].Path)
}

func TestClient_DeleteCategoryCascade(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestClient(t, backend)

	err := c.DeleteCategory(context.Background(), ledger.CategoryDeletion{
		Category: ledger.Category{ID: uuid.New(), Name: "食費"},
		Expenses: []ledger.Expense{{ID: uuid.New()}},
		Target:   &ledger.SavingTarget{Category: "食費"},
	})
	require.NoError(t, err)

	paths := make([]string, len(backend.requests))
	for i, r := range backend.requests {
		paths[i] = r.Path
	}

	assert.Equal(t, []string{"/rest/v1/expenses", "/rest/v1/saving_targets", "/rest/v1/categories"}, paths)
}

func TestClient_ErrorStatus(t *testing.T) {
	backend := &fakeBackend{
		handler: func(w http.ResponseWriter, _ *http.Request) bool {
			http.Error(w, `{"message":"duplicate key"}`, http.StatusConflict)
			return true
		},
	}
	c := newTestClient(t, backend)

	err := c.InsertSavingTarget(context.Background(), ledger.SavingTarget{Category: "食費", Amount: decimal.NewFromInt(1)})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "saving_targets", apiErr.Table)
	assert.Contains(t, apiErr.Body, "duplicate key")
}

func TestClient_Fetch(t *testing.T) {
	expenseID, categoryID := uuid.New(), uuid.New()

	backend := &fakeBackend{
		handler: func(w http.ResponseWriter, r *http.Request) bool {
			w.Header().Set("Content-Type", "application/json")

			switch r.URL.Path {
			case "/rest/v1/expenses":
				json.NewEncoder(w).Encode([]map[string]any{{
					"id": expenseID, "user_id": "temp-user-123", "date": "2024-01-01", "category": "食費",
					"amount": 500, "memo": "lunch", "type": "expense", "created_at": "2024-01-01T12:00:00Z",
				}})
			case "/rest/v1/categories":
				json.NewEncoder(w).Encode([]map[string]any{{
					"id": categoryID, "name": "食費", "color": "#3B82F6", "is_default": true, "type": "expense",
				}})
			case "/rest/v1/saving_targets":
				json.NewEncoder(w).Encode([]map[string]any{{"category": "食費", "amount": "10000"}})
			}

			return true
		},
	}
	c := newTestClient(t, backend)

	snap, err := c.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Expenses, 1)
	assert.Equal(t, expenseID, snap.Expenses[0].ID)
	assert.Equal(t, "500", snap.Expenses[0].Amount.String())

	require.Len(t, snap.Categories, 1)
	assert.True(t, snap.Categories[0].IsDefault)

	require.Len(t, snap.SavingTargets, 1)
	assert.Equal(t, "10000", snap.SavingTargets[0].Amount.String())

	for _, r := range backend.requests {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "eq.temp-user-123", r.Query["user_id"])
	}
}

func TestClient_FetchFailure(t *testing.T) {
	backend := &fakeBackend{
		handler: func(w http.ResponseWriter, r *http.Request) bool {
			if r.URL.Path == "/rest/v1/categories" {
				w.WriteHeader(http.StatusInternalServerError)
				return true
			}

			w.Write([]byte("[]"))

			return true
		},
	}
	c := newTestClient(t, backend)

	_, err := c.Fetch(context.Background())
	assert.Error(t, err)
}

func TestClient_ImplementsRemote(t *testing.T) {
	var (
		_ ledger.Remote  = (*Client)(nil)
		_ ledger.Fetcher = (*Client)(nil)
	)
}
