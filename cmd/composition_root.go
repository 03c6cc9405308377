package cmd

import (
	"context"
	"log/slog"

	httpin "orderflow/internal/adapters/in/http"
	"orderflow/internal/adapters/in/ws"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires every adapter and use case of the application.
// The registry and distributor are shared singletons: every command handler
// publishes through the one distributor, every websocket session subscribes
// in the one registry.
type CompositionRoot struct {
	config      Config
	gormDB      *gorm.DB
	uowFactory  postgres.GormUnitOfWorkFactory
	registry    *ws.Registry
	distributor *ws.Distributor
	policy      services.AccessPolicy
	logger      *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	registry := ws.NewRegistry()
	return CompositionRoot{
		config:      config,
		gormDB:      gormDB,
		uowFactory:  *postgres.NewGormUnitOfWorkFactory(gormDB),
		registry:    registry,
		distributor: ws.NewDistributor(registry, logger),
		policy:      services.NewAccessPolicy(),
		logger:      logger,
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) chatUoWFactory() commands.ChatUoWFactory {
	return FuncChatUoWFactory(func() commands.ChatUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.config.DeliveryWindow)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(c.orderUoWFactory(), c.policy, c.distributor)
}

func (c *CompositionRoot) CreateAssignCourierCommandHandler() commands.AssignCourierCommandHandler {
	return commands.NewAssignCourierCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateSendChatMessageCommandHandler() commands.SendChatMessageCommandHandler {
	return commands.NewSendChatMessageCommandHandler(c.chatUoWFactory(), c.policy, c.distributor)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetChatHistoryQueryHandler() queries.GetChatHistoryQueryHandler {
	return queries.NewGetChatHistoryQueryHandler(c.gormDB)
}

// CreateHTTPServer builds the REST server with all handlers wired.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateUpdateOrderStatusCommandHandler(),
		c.CreateAssignCourierCommandHandler(),
		c.CreateSendChatMessageCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetChatHistoryQueryHandler(),
	)
}

// CreateWSHandler builds the websocket upgrade handler. Join requests are
// authorized against the order read through a fresh unit of work.
func (c *CompositionRoot) CreateWSHandler() *ws.Handler {
	fetchOrder := func(ctx context.Context, orderID kernel.UUID) (*order.Order, error) {
		return c.uowFactory.Create().OrderRepository().Get(ctx, orderID)
	}
	return ws.NewHandler(c.registry, fetchOrder, c.policy, c.logger, c.config.WSSendBuffer)
}

// CreateJobManager builds the background job manager.
func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	handler := c.CreateUpdateOrderStatusCommandHandler()
	return jobs.NewJobManager(c.orderUoWFactory(), handler, c.config.PendingOrderTTL, c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncChatUoWFactory func() commands.ChatUoW

func (f FuncChatUoWFactory) Create() commands.ChatUoW {
	return f()
}
