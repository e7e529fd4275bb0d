package websockets_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	handler "github.com/chris/artwork-auctions/pkg/handlers/websockets"
	"github.com/chris/artwork-auctions/pkg/storage/memory"
	"github.com/chris/artwork-auctions/pkg/websockets"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request(routeKey, connectionID string) events.APIGatewayWebsocketProxyRequest {
	return events.APIGatewayWebsocketProxyRequest{
		RequestContext: events.APIGatewayWebsocketProxyRequestContext{RouteKey: routeKey, ConnectionID: connectionID},
	}
}

type failingManager struct{}

func (failingManager) AddConnection(context.Context, string) error    { return errors.New("write failed") }
func (failingManager) RemoveConnection(context.Context, string) error { return errors.New("write failed") }

func TestHandleRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("Connect And Disconnect", func(t *testing.T) {
		store := memory.New()
		h := handler.NewHandler(store, nil)

		resp, err := h.HandleRequest(ctx, request("$connect", "conn-1"))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		ids, _ := store.GetAllConnections(ctx)
		assert.Equal(t, []string{"conn-1"}, ids)

		resp, err = h.HandleRequest(ctx, request("$disconnect", "conn-1"))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		ids, _ = store.GetAllConnections(ctx)
		assert.Empty(t, ids)
	})

	t.Run("Default Route", func(t *testing.T) {
		h := handler.NewHandler(memory.New(), nil)
		resp, err := h.HandleRequest(ctx, request("ping", "conn-1"))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("Storage Error", func(t *testing.T) {
		h := handler.NewHandler(failingManager{}, nil)
		resp, err := h.HandleRequest(ctx, request("$connect", "conn-1"))
		assert.Error(t, err)
		assert.Equal(t, 500, resp.StatusCode)
	})
}

func TestLocalHandler(t *testing.T) {
	hub := websockets.NewHub(nil)
	server := httptest.NewServer(handler.NewLocalHandler(hub, nil))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(context.Background(), websockets.Message{
		Type:    websockets.MessageTypeSessionUpdate,
		Payload: websockets.SessionUpdatePayload{SessionID: "s1"},
	}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg map[string]any
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "sessionUpdate", msg["type"])

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Len() == 0 }, time.Second, 10*time.Millisecond)
}
