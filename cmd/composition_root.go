package cmd

import (
	"context"
	"errors"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/postgres"
	rediscache "fulfillment/internal/adapters/out/redis"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	ServiceName   = "fulfillment"
	RelayConsumer = "kafka"
)

type CompositionRoot struct {
	config      Config
	gormDB      *gorm.DB
	uowFactory  *postgres.GormUnitOfWorkFactory
	cascade     services.StatusCascade
	redisClient *goredis.Client
	statusCache ports.StatusCache
	publisher   *kafka.Publisher
	logger      *zap.Logger
}

// NewCompositionRoot wires adapters to use cases. An unreachable Redis is tolerated:
// status reads then go to the database.
func NewCompositionRoot(ctx context.Context, config Config, gormDB *gorm.DB, logger *zap.Logger) (*CompositionRoot, error) {
	policy, err := services.ParseCascadePolicy(config.CascadePolicy)
	if err != nil {
		return nil, err
	}

	root := &CompositionRoot{
		config:  config,
		gormDB:  gormDB,
		cascade: services.NewStatusCascade(policy),
		logger:  logger,
	}

	var listeners []ports.CommitListener
	if config.RedisAddr != "" {
		client, err := rediscache.NewClient(ctx, config.RedisAddr)
		if err != nil {
			logger.Warn("status cache disabled", zap.String("redis_addr", config.RedisAddr), zap.Error(err))
		} else {
			cache := rediscache.NewStatusCache(client, config.StatusCacheTTL, logger)
			root.redisClient = client
			root.statusCache = cache
			listeners = append(listeners, cache)
		}
	}
	root.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, listeners...)

	writer := kafka.NewWriter(config.KafkaBrokers, config.KafkaNotificationsTopic)
	root.publisher = kafka.NewPublisher(writer, ServiceName, logger)

	logger.Info("composition root ready",
		zap.String("cascade_policy", policy.Name()),
		zap.Bool("status_cache", root.statusCache != nil),
		zap.Strings("kafka_brokers", config.KafkaBrokers),
	)
	return root, nil
}

// Close releases the Kafka writer and the Redis client.
func (c *CompositionRoot) Close() error {
	var err error
	if c.publisher != nil {
		err = errors.Join(err, c.publisher.Close())
	}
	if c.redisClient != nil {
		err = errors.Join(err, c.redisClient.Close())
	}
	return err
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateConfirmPaymentCommandHandler() commands.ConfirmPaymentCommandHandler {
	return commands.NewConfirmPaymentCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateUpdateSubOrderStatusCommandHandler() commands.UpdateSubOrderStatusCommandHandler {
	return commands.NewUpdateSubOrderStatusCommandHandler(c.uow(), c.cascade)
}

func (c *CompositionRoot) CreateCreateShipmentCommandHandler() commands.CreateShipmentCommandHandler {
	return commands.NewCreateShipmentCommandHandler(c.uow(), c.cascade)
}

func (c *CompositionRoot) CreateUpdateShipmentCommandHandler() commands.UpdateShipmentCommandHandler {
	return commands.NewUpdateShipmentCommandHandler(c.uow(), c.cascade)
}

func (c *CompositionRoot) CreateAssignDriverCommandHandler() commands.AssignDriverCommandHandler {
	return commands.NewAssignDriverCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateAddTrackingPointCommandHandler() commands.AddTrackingPointCommandHandler {
	return commands.NewAddTrackingPointCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateSetStockCommandHandler() commands.SetStockCommandHandler {
	var f commands.InventoryUoWFactory = FuncInventoryUoWFactory(func() commands.InventoryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSetStockCommandHandler(f)
}

func (c *CompositionRoot) CreateRelayNotificationsCommandHandler() commands.RelayNotificationsCommandHandler {
	var f commands.RelayUoWFactory = FuncRelayUoWFactory(func() commands.RelayUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRelayNotificationsCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateGetOrderStatusQueryHandler() queries.GetOrderStatusQueryHandler {
	return queries.NewGetOrderStatusQueryHandler(c.gormDB, c.statusCache, c.logger)
}

func (c *CompositionRoot) CreateGetOrderHistoryQueryHandler() queries.GetOrderHistoryQueryHandler {
	return queries.NewGetOrderHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetInventoryAnomaliesQueryHandler() queries.GetInventoryAnomaliesQueryHandler {
	return queries.NewGetInventoryAnomaliesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateOrder:          c.CreateCreateOrderCommandHandler(),
		CancelOrder:          c.CreateCancelOrderCommandHandler(),
		ConfirmPayment:       c.CreateConfirmPaymentCommandHandler(),
		UpdateSubOrderStatus: c.CreateUpdateSubOrderStatusCommandHandler(),
		CreateShipment:       c.CreateCreateShipmentCommandHandler(),
		UpdateShipment:       c.CreateUpdateShipmentCommandHandler(),
		AssignDriver:         c.CreateAssignDriverCommandHandler(),
		AddTrackingPoint:     c.CreateAddTrackingPointCommandHandler(),
		SetStock:             c.CreateSetStockCommandHandler(),
		GetOrderStatus:       c.CreateGetOrderStatusQueryHandler(),
		GetOrderHistory:      c.CreateGetOrderHistoryQueryHandler(),
	}, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateRelayNotificationsCommandHandler(),
		RelayConsumer,
		c.config.RelayBatchSize,
		c.CreateGetInventoryAnomaliesQueryHandler(),
		c.logger,
	)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncInventoryUoWFactory func() commands.InventoryUoW

func (f FuncInventoryUoWFactory) Create() commands.InventoryUoW {
	return f()
}

type FuncRelayUoWFactory func() commands.RelayUoW

func (f FuncRelayUoWFactory) Create() commands.RelayUoW {
	return f()
}
