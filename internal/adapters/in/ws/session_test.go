package ws_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"orderflow/internal/adapters/in/ws"
	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/pkg/errs"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionFixture struct {
	registry    *ws.Registry
	distributor *ws.Distributor
	server      *httptest.Server
	order       *order.Order
	customerID  kernel.UUID
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()

	customerID := kernel.NewUUID()
	pickup, err := kernel.NewAddress("12 Vendor Street")
	require.NoError(t, err)
	delivery, err := kernel.NewAddress("8 Customer Avenue")
	require.NoError(t, err)
	total, err := kernel.NewMoney(2147)
	require.NoError(t, err)
	fee, err := kernel.NewMoney(499)
	require.NoError(t, err)
	now := time.Now().UTC()
	fixtureOrder, err := order.NewOrder(
		kernel.NewUUID(), customerID, kernel.NewUUID(),
		pickup, delivery, total, fee, now, now.Add(45*time.Minute),
	)
	require.NoError(t, err)

	registry := ws.NewRegistry()
	fetchOrder := func(_ context.Context, orderID kernel.UUID) (*order.Order, error) {
		if orderID.IsEqual(fixtureOrder.ID()) {
			return fixtureOrder, nil
		}
		return nil, errs.NewObjectNotFoundError("order", orderID.String())
	}

	handler := ws.NewHandler(registry, fetchOrder, services.NewAccessPolicy(), discardLogger(), 16)

	e := echo.New()
	e.GET("/ws", handler.Handle)
	server := httptest.NewServer(e)
	t.Cleanup(server.Close)

	return &sessionFixture{
		registry:    registry,
		distributor: ws.NewDistributor(registry, discardLogger()),
		server:      server,
		order:       fixtureOrder,
		customerID:  customerID,
	}
}

func (f *sessionFixture) dial(t *testing.T, actorID kernel.UUID, role actor.Role) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws"
	header := http.Header{}
	header.Set("X-Actor-Id", actorID.String())
	header.Set("X-Actor-Role", role.String())

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	if resp != nil {
		defer resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func sendJoin(t *testing.T, conn *websocket.Conn, orderID kernel.UUID) {
	t.Helper()
	frame, err := json.Marshal(map[string]string{"action": "join_order", "orderId": orderID.String()})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, frame))
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]json.RawMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var frame map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &frame))
	return frame
}

func frameType(t *testing.T, frame map[string]json.RawMessage) string {
	t.Helper()
	var typ string
	require.NoError(t, json.Unmarshal(frame["type"], &typ))
	return typ
}

func TestSession_ParticipantJoinsAndReceivesEvents(t *testing.T) {
	fixture := newSessionFixture(t)
	conn := fixture.dial(t, fixture.customerID, actor.RoleCustomer)

	sendJoin(t, conn, fixture.order.ID())
	require.Equal(t, "joined", frameType(t, readFrame(t, conn)))
	require.Eventually(t, func() bool { return fixture.registry.Len() == 1 },
		time.Second, 10*time.Millisecond)

	event, err := order.NewStatusChangedEvent(
		fixture.order.ID(), kernel.NewUUID(), order.Pending, order.Confirmed, time.Now().UTC())
	require.NoError(t, err)
	fixture.distributor.Publish(event)

	frame := readFrame(t, conn)
	assert.Equal(t, "status_changed", frameType(t, frame))
}

func TestSession_StrangerJoinIsRejected(t *testing.T) {
	fixture := newSessionFixture(t)
	conn := fixture.dial(t, kernel.NewUUID(), actor.RoleCustomer)

	sendJoin(t, conn, fixture.order.ID())

	require.Equal(t, "error", frameType(t, readFrame(t, conn)))
	assert.Equal(t, 0, fixture.registry.Len())
}

func TestSession_UnknownOrderJoinIsRejected(t *testing.T) {
	fixture := newSessionFixture(t)
	conn := fixture.dial(t, fixture.customerID, actor.RoleCustomer)

	sendJoin(t, conn, kernel.NewUUID())

	require.Equal(t, "error", frameType(t, readFrame(t, conn)))
	assert.Equal(t, 0, fixture.registry.Len())
}

func TestSession_LeaveStopsDelivery(t *testing.T) {
	fixture := newSessionFixture(t)
	conn := fixture.dial(t, fixture.customerID, actor.RoleCustomer)

	sendJoin(t, conn, fixture.order.ID())
	require.Equal(t, "joined", frameType(t, readFrame(t, conn)))

	frame, err := json.Marshal(map[string]string{"action": "leave_order", "orderId": fixture.order.ID().String()})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, frame))
	require.Equal(t, "left", frameType(t, readFrame(t, conn)))

	require.Eventually(t, func() bool { return fixture.registry.Len() == 0 },
		time.Second, 10*time.Millisecond)
}

func TestSession_CloseRemovesAllRegistryEntries(t *testing.T) {
	fixture := newSessionFixture(t)
	conn := fixture.dial(t, fixture.customerID, actor.RoleCustomer)

	sendJoin(t, conn, fixture.order.ID())
	require.Equal(t, "joined", frameType(t, readFrame(t, conn)))
	require.Eventually(t, func() bool { return fixture.registry.Len() == 1 },
		time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool { return fixture.registry.Len() == 0 },
		2*time.Second, 10*time.Millisecond, "closing the connection must drop every subscription")
}

func TestSession_RejectsUpgradeWithoutIdentity(t *testing.T) {
	fixture := newSessionFixture(t)

	wsURL := "ws" + strings.TrimPrefix(fixture.server.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil {
		defer resp.Body.Close()
	}
	if conn != nil {
		_ = conn.Close()
	}

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
