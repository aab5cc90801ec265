package cmd

import (
	"log/slog"
	"os"

	"dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/feed"
	"dispatch/internal/adapters/out/kafka"
	"dispatch/internal/adapters/out/notification"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/ports"
	"dispatch/internal/eventhandlers"
	"dispatch/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters, handlers and background tasks together.
// One instance lives for the whole process; Close releases its resources.
type CompositionRoot struct {
	config      Config
	gormDB      *gorm.DB
	logger      *slog.Logger
	orderFeed   *feed.Hub
	presenceHub *notification.Hub
	kafkaMirror *kafka.OrderChangePublisher
	uowFactory  *postgres.GormUnitOfWorkFactory
}

// NewCompositionRoot builds the object graph. The Kafka mirror is only
// created when a broker host is configured; the feed watcher runs either way.
func NewCompositionRoot(config Config, gormDB *gorm.DB) *CompositionRoot {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	orderFeed := feed.NewHub()

	var kafkaMirror *kafka.OrderChangePublisher
	if config.KafkaHost != "" {
		kafkaMirror = kafka.NewOrderChangePublisher([]string{config.KafkaHost}, config.KafkaOrderChangedTopic)
	}

	return &CompositionRoot{
		config:      config,
		gormDB:      gormDB,
		logger:      logger,
		orderFeed:   orderFeed,
		presenceHub: notification.NewHub(),
		kafkaMirror: kafkaMirror,
		uowFactory:  postgres.NewGormUnitOfWorkFactory(gormDB, orderFeed),
	}
}

// Logger returns the process-wide structured logger.
func (c *CompositionRoot) Logger() *slog.Logger {
	return c.logger
}

// PresenceHub exposes the in-process presence hub for live endpoints.
func (c *CompositionRoot) PresenceHub() *notification.Hub {
	return c.presenceHub
}

// Close releases the feed, the presence hub and the Kafka writer.
func (c *CompositionRoot) Close() {
	c.orderFeed.Close()
	c.presenceHub.Close()
	if c.kafkaMirror != nil {
		if err := c.kafkaMirror.Close(); err != nil {
			c.logger.Error("Failed to close kafka publisher", "error", err)
		}
	}
}

// CreateOrderFeedWatcher builds the watcher that fans committed order
// snapshots out to presence channels and the Kafka mirror.
func (c *CompositionRoot) CreateOrderFeedWatcher() *eventhandlers.OrderFeedWatcher {
	var mirror ports.OrderChangePublisher
	if c.kafkaMirror != nil {
		mirror = c.kafkaMirror
	}
	return eventhandlers.NewOrderFeedWatcher(c.orderFeed, c.presenceHub, mirror, c.logger)
}

// CreateJobManager builds the background job manager.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateRebuildActiveOrdersCommandHandler(),
		c.config.ReconciliationSchedule,
		c.logger,
	)
}

// CreateServer builds the HTTP server with every handler wired.
func (c *CompositionRoot) CreateServer() *http.Server {
	return http.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateAdvanceOrderCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreateAcceptOrderCommandHandler(),
		c.CreateRejectOrderCommandHandler(),
		c.CreateCompleteDeliveryCommandHandler(),
		c.CreateUpdateLocationCommandHandler(),
		c.CreateRegisterCourierCommandHandler(),
		c.CreateVerifyCourierCommandHandler(),
		c.CreateSetCourierAvailabilityCommandHandler(),
		c.CreateNearbyOrdersQueryHandler(),
		c.CreateTrackOrderQueryHandler(),
	)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateAdvanceOrderCommandHandler() commands.AdvanceOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAdvanceOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateAcceptOrderCommandHandler() commands.AcceptOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAcceptOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateRejectOrderCommandHandler() commands.RejectOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRejectOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCompleteDeliveryCommandHandler(f)
}

func (c *CompositionRoot) CreateUpdateLocationCommandHandler() commands.UpdateLocationCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateLocationCommandHandler(f, c.presenceHub, c.logger)
}

func (c *CompositionRoot) CreateRegisterCourierCommandHandler() commands.RegisterCourierCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterCourierCommandHandler(f)
}

func (c *CompositionRoot) CreateVerifyCourierCommandHandler() commands.VerifyCourierCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewVerifyCourierCommandHandler(f)
}

func (c *CompositionRoot) CreateSetCourierAvailabilityCommandHandler() commands.SetCourierAvailabilityCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSetCourierAvailabilityCommandHandler(f)
}

func (c *CompositionRoot) CreateRebuildActiveOrdersCommandHandler() commands.RebuildActiveOrdersCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRebuildActiveOrdersCommandHandler(f)
}

func (c *CompositionRoot) CreateNearbyOrdersQueryHandler() queries.NearbyOrdersQueryHandler {
	uow := c.uowFactory.Create()
	return queries.NewNearbyOrdersQueryHandler(uow.CourierRepository(), uow.OrderRepository())
}

func (c *CompositionRoot) CreateTrackOrderQueryHandler() queries.TrackOrderQueryHandler {
	return queries.NewTrackOrderQueryHandler(c.gormDB)
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
