package ws

import (
	"log/slog"
	"net/http"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/services"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades GET /ws requests into sessions. The actor identity comes
// from the authenticated request headers; the channel itself carries no
// credentials.
type Handler struct {
	registry   *Registry
	fetchOrder OrderFetcher
	policy     services.AccessPolicy
	logger     *slog.Logger
	sendBuffer int
}

// NewHandler creates the websocket upgrade handler.
func NewHandler(
	registry *Registry,
	fetchOrder OrderFetcher,
	policy services.AccessPolicy,
	logger *slog.Logger,
	sendBuffer int,
) *Handler {
	return &Handler{
		registry:   registry,
		fetchOrder: fetchOrder,
		policy:     policy,
		logger:     logger,
		sendBuffer: sendBuffer,
	}
}

// Handle upgrades the connection and runs the session until it ends.
func (h *Handler) Handle(c echo.Context) error {
	a, err := actorFromHeaders(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	sess := NewSession(conn, a, h.registry, h.fetchOrder, h.policy, h.logger, h.sendBuffer)
	go sess.Run()
	return nil
}

func actorFromHeaders(c echo.Context) (actor.Actor, error) {
	id, err := kernel.UUIDFromString(c.Request().Header.Get("X-Actor-Id"))
	if err != nil {
		return actor.Actor{}, err
	}
	role, err := actor.ParseRole(c.Request().Header.Get("X-Actor-Role"))
	if err != nil {
		return actor.Actor{}, err
	}
	return actor.NewActor(id, role)
}
