// Package http exposes the order lifecycle over a REST API. Handlers parse
// and validate input, delegate to the application layer, and translate domain
// errors into status codes; they hold no business rules of their own.
package http

import (
	"errors"
	"net/http"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const (
	headerActorID   = "X-Actor-Id"
	headerActorRole = "X-Actor-Role"
)

// Error is the JSON body returned for every failed request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server wires HTTP routes to the application use cases.
type Server struct {
	// Command handlers
	createOrderHandler       commands.CreateOrderCommandHandler
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler
	assignCourierHandler     commands.AssignCourierCommandHandler
	sendChatMessageHandler   commands.SendChatMessageCommandHandler

	// Query handlers
	getOrderHandler       queries.GetOrderQueryHandler
	getChatHistoryHandler queries.GetChatHistoryQueryHandler
}

// NewServer creates an HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler,
	assignCourierHandler commands.AssignCourierCommandHandler,
	sendChatMessageHandler commands.SendChatMessageCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getChatHistoryHandler queries.GetChatHistoryQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:       createOrderHandler,
		updateOrderStatusHandler: updateOrderStatusHandler,
		assignCourierHandler:     assignCourierHandler,
		sendChatMessageHandler:   sendChatMessageHandler,
		getOrderHandler:          getOrderHandler,
		getChatHistoryHandler:    getChatHistoryHandler,
	}
}

// RegisterRoutes mounts all order routes on the given echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/orders", s.CreateOrder)
	e.GET("/api/v1/orders/:id", s.GetOrder)
	e.POST("/api/v1/orders/:id/status", s.UpdateOrderStatus)
	e.POST("/api/v1/orders/:id/courier", s.AssignCourier)
	e.POST("/api/v1/orders/:id/messages", s.SendChatMessage)
	e.GET("/api/v1/orders/:id/messages", s.GetChatHistory)
}

type createOrderRequest struct {
	VendorID         string                   `json:"vendorId"`
	PickupAddress    string                   `json:"pickupAddress"`
	DeliveryAddress  string                   `json:"deliveryAddress"`
	DeliveryFeeCents int64                    `json:"deliveryFeeCents"`
	Items            []createOrderItemRequest `json:"items"`
}

type createOrderItemRequest struct {
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int64  `json:"quantity"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

type assignCourierRequest struct {
	CourierID string `json:"courierId"`
}

type sendChatMessageRequest struct {
	Text string `json:"text"`
}

type chatMessageResponse struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"orderId"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Text       string    `json:"text"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreateOrder handles POST /api/v1/orders - places a new order.
// Only customers may place orders; the customer is taken from the identity
// headers, never from the body.
func (s *Server) CreateOrder(ctx echo.Context) error {
	caller, err := actorFromHeaders(ctx)
	if err != nil {
		return unauthorized(ctx)
	}
	if caller.Role() != actor.RoleCustomer {
		return ctx.JSON(http.StatusForbidden, Error{
			Code:    http.StatusForbidden,
			Message: "Only customers can place orders",
		})
	}

	var req createOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	vendorID, err := kernel.UUIDFromString(req.VendorID)
	if err != nil {
		return badRequest(ctx, "Invalid vendor ID: "+err.Error())
	}
	pickup, err := kernel.NewAddress(req.PickupAddress)
	if err != nil {
		return badRequest(ctx, "Invalid pickup address: "+err.Error())
	}
	delivery, err := kernel.NewAddress(req.DeliveryAddress)
	if err != nil {
		return badRequest(ctx, "Invalid delivery address: "+err.Error())
	}
	fee, err := kernel.NewMoney(req.DeliveryFeeCents)
	if err != nil {
		return badRequest(ctx, "Invalid delivery fee: "+err.Error())
	}

	items := make([]commands.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		unitPrice, priceErr := kernel.NewMoney(line.UnitPriceCents)
		if priceErr != nil {
			return badRequest(ctx, "Invalid item price: "+priceErr.Error())
		}
		item, itemErr := commands.NewOrderItem(line.Name, unitPrice, line.Quantity)
		if itemErr != nil {
			return badRequest(ctx, "Invalid order item: "+itemErr.Error())
		}
		items = append(items, item)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID, caller.ID(), vendorID, items, pickup, delivery, fee)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if handleErr := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, createOrderResponse{ID: orderID.String()})
}

// GetOrder handles GET /api/v1/orders/:id - retrieves one order.
func (s *Server) GetOrder(ctx echo.Context) error {
	if _, err := actorFromHeaders(ctx); err != nil {
		return unauthorized(ctx)
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order ID: "+err.Error())
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order ID: "+err.Error())
	}

	response, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// UpdateOrderStatus handles POST /api/v1/orders/:id/status - moves an order
// through its lifecycle on behalf of the calling actor.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	caller, err := actorFromHeaders(ctx)
	if err != nil {
		return unauthorized(ctx)
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order ID: "+err.Error())
	}

	var req updateOrderStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	target, err := order.StatusFromString(req.Status)
	if err != nil {
		return badRequest(ctx, "Invalid status: "+err.Error())
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, target, caller)
	if err != nil {
		return badRequest(ctx, "Invalid transition data: "+err.Error())
	}

	if handleErr := s.updateOrderStatusHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AssignCourier handles POST /api/v1/orders/:id/courier - attaches a courier
// to a confirmed order. Admin only; an order carries at most one courier.
func (s *Server) AssignCourier(ctx echo.Context) error {
	caller, err := actorFromHeaders(ctx)
	if err != nil {
		return unauthorized(ctx)
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order ID: "+err.Error())
	}

	var req assignCourierRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	courierID, err := kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return badRequest(ctx, "Invalid courier ID: "+err.Error())
	}

	cmd, err := commands.NewAssignCourierCommand(orderID, courierID, caller)
	if err != nil {
		return badRequest(ctx, "Invalid assignment data: "+err.Error())
	}

	if handleErr := s.assignCourierHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SendChatMessage handles POST /api/v1/orders/:id/messages - posts a message
// to the order's chat. The receiver is derived from the order, not supplied.
func (s *Server) SendChatMessage(ctx echo.Context) error {
	caller, err := actorFromHeaders(ctx)
	if err != nil {
		return unauthorized(ctx)
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order ID: "+err.Error())
	}

	var req sendChatMessageRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewSendChatMessageCommand(orderID, caller, req.Text)
	if err != nil {
		return badRequest(ctx, "Invalid message: "+err.Error())
	}

	message, err := s.sendChatMessageHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, chatMessageResponse{
		ID:         message.ID().String(),
		OrderID:    message.OrderID().String(),
		SenderID:   message.SenderID().String(),
		ReceiverID: message.ReceiverID().String(),
		Text:       message.Text(),
		Read:       message.IsRead(),
		CreatedAt:  message.CreatedAt(),
	})
}

// GetChatHistory handles GET /api/v1/orders/:id/messages - returns the chat
// history of an order in send order.
func (s *Server) GetChatHistory(ctx echo.Context) error {
	if _, err := actorFromHeaders(ctx); err != nil {
		return unauthorized(ctx)
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order ID: "+err.Error())
	}

	query, err := queries.NewGetChatHistoryQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order ID: "+err.Error())
	}

	messages, err := s.getChatHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, messages)
}

// actorFromHeaders builds the calling actor from the identity headers.
func actorFromHeaders(ctx echo.Context) (actor.Actor, error) {
	id, err := kernel.UUIDFromString(ctx.Request().Header.Get(headerActorID))
	if err != nil {
		return actor.Actor{}, err
	}
	role, err := actor.ParseRole(ctx.Request().Header.Get(headerActorRole))
	if err != nil {
		return actor.Actor{}, err
	}
	return actor.NewActor(id, role)
}

// domainError maps application errors onto HTTP status codes.
func domainError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: "Order not found",
		})
	case errors.Is(err, services.ErrForbidden):
		return ctx.JSON(http.StatusForbidden, Error{
			Code:    http.StatusForbidden,
			Message: err.Error(),
		})
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrCourierAlreadyAssigned):
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
		})
	}
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func unauthorized(ctx echo.Context) error {
	return ctx.JSON(http.StatusUnauthorized, Error{
		Code:    http.StatusUnauthorized,
		Message: "Missing or invalid actor identity",
	})
}
