package commands_test

import (
	"context"
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/activity"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotificationOutbox struct{ mock.Mock }

func (m *MockNotificationOutbox) Lock(ctx context.Context, consumer string) error {
	return m.Called(ctx, consumer).Error(0)
}

func (m *MockNotificationOutbox) ListPending(ctx context.Context, consumer string, limit int) ([]activity.Notification, error) {
	args := m.Called(ctx, consumer, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]activity.Notification), args.Error(1)
}

func (m *MockNotificationOutbox) MarkRelayed(ctx context.Context, consumer string, ids []kernel.UUID) error {
	return m.Called(ctx, consumer, ids).Error(0)
}

type MockNotificationPublisher struct{ mock.Mock }

func (m *MockNotificationPublisher) Publish(ctx context.Context, notifications []activity.Notification) error {
	return m.Called(ctx, notifications).Error(0)
}

type MockRelayUoW struct{ mock.Mock }

func (m *MockRelayUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockRelayUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockRelayUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockRelayUoW) NotificationOutbox() ports.NotificationOutbox {
	return m.Called().Get(0).(ports.NotificationOutbox)
}

type MockRelayUoWFactory struct{ mock.Mock }

func (m *MockRelayUoWFactory) Create() commands.RelayUoW {
	return m.Called().Get(0).(commands.RelayUoW)
}

func newRelayMocks(t *testing.T) (*MockRelayUoWFactory, *MockRelayUoW, *MockNotificationOutbox) {
	t.Helper()
	ctx := t.Context()

	factory, uow, outbox := new(MockRelayUoWFactory), new(MockRelayUoW), new(MockNotificationOutbox)
	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	uow.On("NotificationOutbox").Return(outbox).Maybe()
	return factory, uow, outbox
}

func notifications(seqs ...int64) []activity.Notification {
	batch := make([]activity.Notification, 0, len(seqs))
	for _, seq := range seqs {
		n := activity.NewNotification(kernel.NewUUID(), kernel.NewUUID(), "order.pending", "placed")
		n.Seq = seq
		batch = append(batch, n)
	}
	return batch
}

func TestRelayNotificationsCommandHandler_Handle(t *testing.T) {
	t.Run("publishes the batch and marks it relayed", func(t *testing.T) {
		ctx := t.Context()
		factory, uow, outbox := newRelayMocks(t)
		publisher := new(MockNotificationPublisher)
		batch := notifications(8, 9, 12)
		ids := []kernel.UUID{batch[0].ID, batch[1].ID, batch[2].ID}

		mock.InOrder(
			outbox.On("Lock", ctx, "kafka").Return(nil).Once(),
			outbox.On("ListPending", ctx, "kafka", 50).Return(batch, nil).Once(),
			publisher.On("Publish", ctx, batch).Return(nil).Once(),
			outbox.On("MarkRelayed", ctx, "kafka", ids).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
		)

		cmd, err := commands.NewRelayNotificationsCommand("kafka", 50)
		require.NoError(t, err)

		n, err := commands.NewRelayNotificationsCommandHandler(factory, publisher).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, 3, n)
		factory.AssertExpectations(t)
		uow.AssertExpectations(t)
		outbox.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("empty outbox publishes nothing", func(t *testing.T) {
		ctx := t.Context()
		factory, uow, outbox := newRelayMocks(t)
		publisher := new(MockNotificationPublisher)

		outbox.On("Lock", ctx, "kafka").Return(nil).Once()
		outbox.On("ListPending", ctx, "kafka", 50).Return([]activity.Notification{}, nil).Once()

		cmd, err := commands.NewRelayNotificationsCommand("kafka", 50)
		require.NoError(t, err)

		n, err := commands.NewRelayNotificationsCommandHandler(factory, publisher).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Zero(t, n)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("failed publish leaves the batch pending", func(t *testing.T) {
		ctx := t.Context()
		factory, uow, outbox := newRelayMocks(t)
		publisher := new(MockNotificationPublisher)
		batch := notifications(1)

		outbox.On("Lock", ctx, "kafka").Return(nil).Once()
		outbox.On("ListPending", ctx, "kafka", 10).Return(batch, nil).Once()
		publisher.On("Publish", ctx, batch).Return(errors.New("broker unavailable")).Once()

		cmd, err := commands.NewRelayNotificationsCommand("kafka", 10)
		require.NoError(t, err)

		_, err = commands.NewRelayNotificationsCommandHandler(factory, publisher).Handle(ctx, cmd)

		require.ErrorContains(t, err, "broker unavailable")
		outbox.AssertNotCalled(t, "MarkRelayed", mock.Anything, mock.Anything, mock.Anything)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
		uow.AssertExpectations(t)
	})
}

func TestNewRelayNotificationsCommand(t *testing.T) {
	_, err := commands.NewRelayNotificationsCommand("", 10)
	require.Error(t, err)

	_, err = commands.NewRelayNotificationsCommand("kafka", 0)
	require.ErrorContains(t, err, "batch_size")
}
