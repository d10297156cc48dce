package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"github.com/MrJamesThe3rd/kakeibo/internal/ledger"
)

const publishTimeout = 5 * time.Second

// channel is the part of *amqp091.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher mirrors ledger changes as JSON events on a direct exchange. Consumers
// rebuild or forward state from the event stream; it cannot be fetched back.
type Publisher struct {
	conn         *amqp091.Connection
	channel      channel
	exchangeName string
	routingKey   string
	userID       string
	now          func() time.Time
}

func NewPublisher(url, exchangeName, queueName, userID string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := setup(ch, exchangeName, queueName); err != nil {
		ch.Close()
		conn.Close()

		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	p := newPublisher(ch, exchangeName, queueName, userID)
	p.conn = conn

	return p, nil
}

func newPublisher(ch channel, exchangeName, routingKey, userID string) *Publisher {
	return &Publisher{
		channel:      ch,
		exchangeName: exchangeName,
		routingKey:   routingKey,
		userID:       userID,
		now:          time.Now,
	}
}

func setup(ch *amqp091.Channel, exchangeName, queueName string) error {
	err := ch.ExchangeDeclare(
		exchangeName, // name
		"direct",     // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Direct exchange: the queue name doubles as routing key.
	if err := ch.QueueBind(queueName, queueName, exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

func (p *Publisher) publish(ctx context.Context, e Event) error {
	e.UserID = p.userID
	e.Timestamp = p.now()

	body, err := e.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchangeName, // exchange
		p.routingKey,   // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    e.Timestamp,
			Type:         string(e.Type),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}

	slog.DebugContext(ctx, "published ledger event",
		"type", e.Type,
		"exchange", p.exchangeName)

	return nil
}

func (p *Publisher) InsertExpense(ctx context.Context, e ledger.Expense) error {
	return p.publish(ctx, Event{Type: EventExpenseInserted, Expense: &e})
}

func (p *Publisher) UpdateExpenseAmount(ctx context.Context, e ledger.Expense) error {
	return p.publish(ctx, Event{Type: EventExpenseUpdated, Expense: &e})
}

func (p *Publisher) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	return p.publish(ctx, Event{Type: EventExpenseDeleted, ExpenseIDs: []uuid.UUID{id}})
}

func (p *Publisher) InsertCategory(ctx context.Context, c ledger.Category) error {
	return p.publish(ctx, Event{Type: EventCategoryInserted, Category: &c})
}

func (p *Publisher) UpdateCategory(ctx context.Context, c ledger.Category) error {
	return p.publish(ctx, Event{Type: EventCategoryUpdated, Category: &c})
}

func (p *Publisher) RenameCategory(ctx context.Context, rename ledger.CategoryRename) error {
	return p.publish(ctx, Event{
		Type:       EventCategoryRenamed,
		Category:   &rename.Category,
		OldName:    rename.OldName,
		ExpenseIDs: rename.ExpenseIDs,
	})
}

func (p *Publisher) DeleteCategory(ctx context.Context, deletion ledger.CategoryDeletion) error {
	ids := make([]uuid.UUID, len(deletion.Expenses))
	for i, e := range deletion.Expenses {
		ids[i] = e.ID
	}

	return p.publish(ctx, Event{
		Type:       EventCategoryDeleted,
		Category:   &deletion.Category,
		ExpenseIDs: ids,
		Target:     deletion.Target,
	})
}

func (p *Publisher) InsertSavingTarget(ctx context.Context, t ledger.SavingTarget) error {
	return p.publish(ctx, Event{Type: EventSavingTargetInserted, Target: &t})
}

func (p *Publisher) DeleteSavingTarget(ctx context.Context, category string) error {
	return p.publish(ctx, Event{Type: EventSavingTargetDeleted, Target: &ledger.SavingTarget{Category: category}})
}

func (p *Publisher) Reset(ctx context.Context, snap *ledger.Snapshot) error {
	return p.publish(ctx, Event{Type: EventReset, Snapshot: snap})
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}

	if p.conn != nil {
		return p.conn.Close()
	}

	return nil
}
