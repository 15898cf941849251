package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
)

// RelayNotificationsCommandHandler moves notifications from the outbox to the publisher.
// The consumer is locked for the whole batch and the batch is marked relayed only after a
// successful publish, so a crash re-publishes the batch rather than losing it.
type RelayNotificationsCommandHandler struct {
	uowFactory RelayUoWFactory
	publisher  ports.NotificationPublisher
}

func NewRelayNotificationsCommandHandler(
	uowFactory RelayUoWFactory,
	publisher ports.NotificationPublisher,
) RelayNotificationsCommandHandler {
	return RelayNotificationsCommandHandler{uowFactory: uowFactory, publisher: publisher}
}

// Handle relays one batch and returns how many notifications were published.
func (h RelayNotificationsCommandHandler) Handle(ctx context.Context, cmd RelayNotificationsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	outbox := uow.NotificationOutbox()

	if err := outbox.Lock(ctx, cmd.Consumer()); err != nil {
		return 0, err
	}

	batch, err := outbox.ListPending(ctx, cmd.Consumer(), cmd.BatchSize())
	if err != nil {
		return 0, err
	}
	if len(batch) == 0 {
		return 0, nil
	}

	if err = h.publisher.Publish(ctx, batch); err != nil {
		return 0, err
	}

	ids := make([]kernel.UUID, 0, len(batch))
	for _, n := range batch {
		ids = append(ids, n.ID)
	}
	if err = outbox.MarkRelayed(ctx, cmd.Consumer(), ids); err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return len(batch), nil
}
