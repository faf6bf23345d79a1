package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routebook/internal/models"
	"routebook/pkg/logger"
)

type scriptedPlanner struct {
	mu     sync.Mutex
	closed bool
}

// ComputeAndDeliver treats "stale" as a request that lost to a newer one.
func (p *scriptedPlanner) ComputeAndDeliver(_ context.Context, req models.ComputeRequest, deliver func(*models.ComputedRoute, error)) error {
	switch req.StartAddress {
	case "stale":
		return models.ErrSuperseded
	case "nowhere":
		deliver(nil, models.ErrAddressNotFound)
		return nil
	}
	deliver(&models.ComputedRoute{
		StartAddress: req.StartAddress,
		EndAddress:   req.EndAddress,
		Mode:         models.TravelModeCar,
		Summary:      models.RouteSummary{From: req.StartAddress, To: req.EndAddress, Time: "1 мин", Distance: "1.00 км"},
	}, nil)
	return nil
}

func (p *scriptedPlanner) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

type liveFixture struct {
	hub    *Hub
	server *httptest.Server
	cancel context.CancelFunc
}

func newLiveFixture(t *testing.T) *liveFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(logger.Discard())
	go hub.Run(ctx)

	handler := NewHandler(hub, func() Planner { return &scriptedPlanner{} }, Config{}, logger.Discard())
	router := gin.New()
	router.GET("/live", func(c *gin.Context) {
		if owner := c.Query("owner"); owner != "" {
			c.Set("user_id", owner)
		}
		c.Next()
	}, handler.HandleWebSocket)

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return &liveFixture{hub: hub, server: server, cancel: cancel}
}

func (f *liveFixture) dial(t *testing.T, owner string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/live?owner=" + owner
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	welcome := readMessage(t, conn)
	require.Equal(t, MessageWelcome, welcome.Type)
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func sendCompute(t *testing.T, conn *websocket.Conn, requestID, from, to string) {
	t.Helper()
	data, err := json.Marshal(models.ComputeRequest{StartAddress: from, EndAddress: to})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Message{Type: MessageComputeRoute, RequestID: requestID, Data: data}))
}

func TestComputeOverWebSocket(t *testing.T) {
	f := newLiveFixture(t)
	conn := f.dial(t, "user-42")

	sendCompute(t, conn, "r1", "Москва", "Тула")
	msg := readMessage(t, conn)
	require.Equal(t, MessageRouteComputed, msg.Type)
	assert.Equal(t, "r1", msg.RequestID)

	var route models.ComputedRoute
	require.NoError(t, json.Unmarshal(msg.Data, &route))
	assert.Equal(t, "Москва", route.StartAddress)
	assert.Equal(t, "1.00 км", route.Summary.Distance)
}

func TestSupersededResultsAreNeverSent(t *testing.T) {
	f := newLiveFixture(t)
	conn := f.dial(t, "user-42")

	sendCompute(t, conn, "old", "stale", "Тула")
	sendCompute(t, conn, "new", "Москва", "Тула")

	msg := readMessage(t, conn)
	assert.Equal(t, MessageRouteComputed, msg.Type)
	assert.Equal(t, "new", msg.RequestID)
}

func TestComputeErrorsOverWebSocket(t *testing.T) {
	f := newLiveFixture(t)
	conn := f.dial(t, "user-42")

	sendCompute(t, conn, "bad", "  ", "Тула")
	msg := readMessage(t, conn)
	require.Equal(t, MessageRouteError, msg.Type)
	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(msg.Data, &payload))
	assert.Equal(t, "VALIDATION_ERROR", payload.Code)
	assert.Contains(t, payload.Details, "start_address")

	sendCompute(t, conn, "missing", "nowhere", "Тула")
	msg = readMessage(t, conn)
	require.Equal(t, MessageRouteError, msg.Type)
	require.NoError(t, json.Unmarshal(msg.Data, &payload))
	assert.Equal(t, "ADDRESS_NOT_FOUND", payload.Code)
	assert.Equal(t, "missing", msg.RequestID)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	msg = readMessage(t, conn)
	assert.Equal(t, MessageError, msg.Type)

	require.NoError(t, conn.WriteJSON(Message{Type: "join_room"}))
	msg = readMessage(t, conn)
	require.Equal(t, MessageError, msg.Type)
	require.NoError(t, json.Unmarshal(msg.Data, &payload))
	assert.Equal(t, "UNKNOWN_MESSAGE", payload.Code)
}

func TestNotifyOwnerReachesOnlyThatOwner(t *testing.T) {
	f := newLiveFixture(t)
	mine := f.dial(t, "user-42")
	theirs := f.dial(t, "user-7")

	f.hub.NotifyOwner("user-42", "routes_changed", map[string]string{"route_id": "abc"})

	msg := readMessage(t, mine)
	assert.Equal(t, "routes_changed", msg.Type)
	assert.JSONEq(t, `{"route_id":"abc"}`, string(msg.Data))

	require.NoError(t, theirs.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := theirs.ReadMessage()
	assert.Error(t, err)
}

func TestUnauthenticatedUpgradeIsRejected(t *testing.T) {
	f := newLiveFixture(t)
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/live"

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestClientUnregistersOnDisconnect(t *testing.T) {
	f := newLiveFixture(t)
	conn := f.dial(t, "user-42")
	require.Equal(t, 1, f.hub.ClientCount("user-42"))

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return f.hub.ClientCount("user-42") == 0 }, 3*time.Second, 20*time.Millisecond)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://app.example.com"})

	req := httptest.NewRequest("GET", "/live", nil)
	req.Header.Set("Origin", "https://app.example.com")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, check(req))

	assert.True(t, originChecker(nil)(req))
}
