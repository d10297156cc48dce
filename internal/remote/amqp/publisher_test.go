package amqp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

type published struct {
	exchange string
	key      string
	msg      amqp091.Publishing
}

type fakeChannel struct {
	sent []published
	err  error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	if f.err != nil {
		return f.err
	}

	f.sent = append(f.sent, published{exchange: exchange, key: key, msg: msg})

	return nil
}

func (f *fakeChannel) Close() error { return nil }

var testNow = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

func newTestPublisher(ch channel) *Publisher {
	p := newPublisher(ch, "kakeibo", "kakeibo.changes", "user-1")
	p.now = func() time.Time { return testNow }

	return p
}

func decode(t *testing.T, p published) *Event {
	t.Helper()

	e, err := EventFromJSON(p.msg.Body)
	require.NoError(t, err)

	return e
}

func TestPublisher_InsertExpense(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestPublisher(ch)

	e := ledger.Expense{
		ID:       uuid.New(),
		Date:     "2024-01-01",
		Category: "食費",
		Amount:   decimal.NewFromInt(500),
		Type:     ledger.TypeExpense,
	}

	require.NoError(t, p.InsertExpense(context.Background(), e))
	require.Len(t, ch.sent, 1)

	sent := ch.sent[0]
	assert.Equal(t, "kakeibo", sent.exchange)
	assert.Equal(t, "kakeibo.changes", sent.key)
	assert.Equal(t, "application/json", sent.msg.ContentType)
	assert.Equal(t, amqp091.Persistent, sent.msg.DeliveryMode)
	assert.Equal(t, string(EventExpenseInserted), sent.msg.Type)

	got := decode(t, sent)
	assert.Equal(t, EventExpenseInserted, got.Type)
	assert.Equal(t, "user-1", got.UserID)
	assert.True(t, testNow.Equal(got.Timestamp))
	require.NotNil(t, got.Expense)
	assert.Equal(t, e.ID, got.Expense.ID)
	assert.True(t, e.Amount.Equal(got.Expense.Amount))
}

func TestPublisher_DeleteCategory(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestPublisher(ch)

	e1, e2 := uuid.New(), uuid.New()

	err := p.DeleteCategory(context.Background(), ledger.CategoryDeletion{
		Category: ledger.Category{Name: "食費"},
		Expenses: []ledger.Expense{{ID: e1}, {ID: e2}},
		Target:   &ledger.SavingTarget{Category: "食費", Amount: decimal.NewFromInt(100)},
	})
	require.NoError(t, err)

	got := decode(t, ch.sent[0])
	assert.Equal(t, EventCategoryDeleted, got.Type)
	assert.Equal(t, "食費", got.Category.Name)
	assert.Equal(t, []uuid.UUID{e1, e2}, got.ExpenseIDs)
	require.NotNil(t, got.Target)
	assert.Equal(t, "食費", got.Target.Category)
}

func TestPublisher_RenameCategory(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestPublisher(ch)

	err := p.RenameCategory(context.Background(), ledger.CategoryRename{
		Category: ledger.Category{Name: "外食"},
		OldName:  "食費",
	})
	require.NoError(t, err)

	got := decode(t, ch.sent[0])
	assert.Equal(t, EventCategoryRenamed, got.Type)
	assert.Equal(t, "食費", got.OldName)
	assert.Equal(t, "外食", got.Category.Name)
}

func TestPublisher_PublishError(t *testing.T) {
	p := newTestPublisher(&fakeChannel{err: errors.New("channel closed")})

	err := p.DeleteSavingTarget(context.Background(), "食費")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saving_target.deleted")
}

func TestPublisher_ImplementsRemote(t *testing.T) {
	var _ ledger.Remote = newTestPublisher(&fakeChannel{})
}
