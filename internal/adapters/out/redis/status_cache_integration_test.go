package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type StatusCacheIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	client    *goredis.Client
	cache     *StatusCache
}

func (s *StatusCacheIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	s.Require().NoError(err)
	s.container = container

	addr, err := container.Endpoint(ctx, "")
	s.Require().NoError(err)

	s.client, err = NewClient(ctx, addr)
	s.Require().NoError(err)
	s.cache = NewStatusCache(s.client, time.Minute, nil)
}

func (s *StatusCacheIntegrationTestSuite) TearDownSuite() {
	if s.client != nil {
		s.Require().NoError(s.client.Close())
	}
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}
}

func (s *StatusCacheIntegrationTestSuite) SetupTest() {
	s.Require().NoError(s.client.FlushDB(s.T().Context()).Err())
}

func (s *StatusCacheIntegrationTestSuite) snapshot(orderID kernel.UUID) ports.OrderStatusSnapshot {
	return ports.OrderStatusSnapshot{
		OrderID:        orderID.String(),
		CustomerID:     kernel.NewUUID().String(),
		Status:         "in_progress",
		PaymentStatus:  "paid",
		VendorOwnerIDs: []string{kernel.NewUUID().String()},
		SubOrders: []ports.SubOrderSnapshot{
			{ID: kernel.NewUUID().String(), VendorID: kernel.NewUUID().String(), Status: "in_progress"},
		},
		UpdatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (s *StatusCacheIntegrationTestSuite) TestGet_Miss() {
	got, generation, err := s.cache.Get(s.T().Context(), kernel.NewUUID())

	s.Require().NoError(err)
	s.Nil(got)
	s.Zero(generation)
}

func (s *StatusCacheIntegrationTestSuite) TestSetThenGet() {
	ctx := s.T().Context()
	orderID := kernel.NewUUID()
	want := s.snapshot(orderID)

	stored, err := s.cache.Set(ctx, want, 0)
	s.Require().NoError(err)
	s.Require().True(stored)
	got, _, err := s.cache.Get(ctx, orderID)

	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(want.OrderID, got.OrderID)
	s.Equal(want.CustomerID, got.CustomerID)
	s.Equal(want.Status, got.Status)
	s.Equal(want.PaymentStatus, got.PaymentStatus)
	s.Equal(want.VendorOwnerIDs, got.VendorOwnerIDs)
	s.Equal(want.SubOrders, got.SubOrders)
	s.True(want.UpdatedAt.Equal(got.UpdatedAt))
}

func (s *StatusCacheIntegrationTestSuite) TestSet_AppliesTTL() {
	ctx := s.T().Context()
	orderID := kernel.NewUUID()
	_, err := s.cache.Set(ctx, s.snapshot(orderID), 0)
	s.Require().NoError(err)

	ttl, err := s.client.TTL(ctx, key(orderID.String())).Result()

	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Minute)
}

func (s *StatusCacheIntegrationTestSuite) TestAfterCommit_InvalidatesOnlyChangedOrders() {
	ctx := s.T().Context()
	changed, untouched := kernel.NewUUID(), kernel.NewUUID()
	_, err := s.cache.Set(ctx, s.snapshot(changed), 0)
	s.Require().NoError(err)
	_, err = s.cache.Set(ctx, s.snapshot(untouched), 0)
	s.Require().NoError(err)

	s.cache.AfterCommit(ctx, []kernel.UUID{changed})

	got, generation, err := s.cache.Get(ctx, changed)
	s.Require().NoError(err)
	s.Nil(got)
	s.EqualValues(1, generation)

	got, generation, err = s.cache.Get(ctx, untouched)
	s.Require().NoError(err)
	s.NotNil(got)
	s.Zero(generation)

	ttl, err := s.client.TTL(ctx, generationKey(changed.String())).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}

func (s *StatusCacheIntegrationTestSuite) TestSet_FillFromBeforeCommitIsRejected() {
	ctx := s.T().Context()
	orderID := kernel.NewUUID()

	// a reader misses and loads the order from the database
	_, seen, err := s.cache.Get(ctx, orderID)
	s.Require().NoError(err)
	stale := s.snapshot(orderID)

	// a writer commits a change to the order before the reader fills the cache
	s.cache.AfterCommit(ctx, []kernel.UUID{orderID})

	stored, err := s.cache.Set(ctx, stale, seen)
	s.Require().NoError(err)
	s.False(stored)

	got, current, err := s.cache.Get(ctx, orderID)
	s.Require().NoError(err)
	s.Nil(got)
	s.Equal(seen+1, current)

	fresh := s.snapshot(orderID)
	fresh.Status = "delivered"
	stored, err = s.cache.Set(ctx, fresh, current)
	s.Require().NoError(err)
	s.True(stored)

	got, _, err = s.cache.Get(ctx, orderID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("delivered", got.Status)
}

func (s *StatusCacheIntegrationTestSuite) TestInvalidate_NoIDs() {
	s.NoError(s.cache.Invalidate(s.T().Context()))
}

func (s *StatusCacheIntegrationTestSuite) TestGet_UndecodableEntryIsAMiss() {
	ctx := s.T().Context()
	orderID := kernel.NewUUID()
	s.Require().NoError(s.client.Set(ctx, key(orderID.String()), "{not json", time.Minute).Err())

	got, _, err := s.cache.Get(ctx, orderID)

	s.Require().NoError(err)
	s.Nil(got)
	exists, err := s.client.Exists(ctx, key(orderID.String())).Result()
	s.Require().NoError(err)
	s.Zero(exists)
}

func (s *StatusCacheIntegrationTestSuite) TestClosedClient_ReportsErrors() {
	ctx := s.T().Context()
	closed := goredis.NewClient(&goredis.Options{Addr: s.client.Options().Addr})
	s.Require().NoError(closed.Close())
	cache := NewStatusCache(closed, 0, nil)

	_, _, err := cache.Get(ctx, kernel.NewUUID())
	s.Error(err)
	s.True(errors.Is(err, goredis.ErrClosed))

	_, err = cache.Set(ctx, s.snapshot(kernel.NewUUID()), 0)
	s.Error(err)
	s.Error(cache.Invalidate(ctx, kernel.NewUUID()))
	s.NotPanics(func() { cache.AfterCommit(ctx, []kernel.UUID{kernel.NewUUID()}) })
}

func TestStatusCacheIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(StatusCacheIntegrationTestSuite))
}
