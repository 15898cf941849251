package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRelayNotificationsCommandIsNotConstructed = errors.New(
	"RelayNotificationsCommand must be created via NewRelayNotificationsCommand constructor",
)

// RelayNotificationsCommand publishes the next batch of stored notifications for consumer.
type RelayNotificationsCommand struct {
	consumer  string
	batchSize int
	guard     guard.ConstructorGuard
}

func NewRelayNotificationsCommand(consumer string, batchSize int) (RelayNotificationsCommand, error) {
	if consumer == "" {
		return RelayNotificationsCommand{}, errs.NewValueIsRequiredError("consumer")
	}
	if batchSize <= 0 {
		return RelayNotificationsCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"batch_size",
			fmt.Errorf("%d is not greater than 0", batchSize),
		)
	}
	return RelayNotificationsCommand{consumer: consumer, batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

func (c RelayNotificationsCommand) Validate() error {
	return c.guard.Validate(ErrRelayNotificationsCommandIsNotConstructed)
}

func (c RelayNotificationsCommand) Consumer() string { return c.consumer }
func (c RelayNotificationsCommand) BatchSize() int   { return c.batchSize }
