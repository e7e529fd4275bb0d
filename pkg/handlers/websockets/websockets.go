package websockets

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/artwork-auctions/pkg/websockets"
	"github.com/gorilla/websocket"
)

// Handler tracks API Gateway WebSocket connections so the notifier can push auction updates to them.
type Handler struct {
	connManager websockets.ConnectionManager
	logger      *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(connManager websockets.ConnectionManager, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		connManager: connManager,
		logger:      logger,
	}
}

// HandleRequest dispatches on the API Gateway route key.
func (h *Handler) HandleRequest(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch request.RequestContext.RouteKey {
	case "$connect":
		return h.HandleConnect(ctx, request)
	case "$disconnect":
		return h.HandleDisconnect(ctx, request)
	default:
		return h.HandleDefault(ctx, request)
	}
}

// HandleConnect handles new client connections.
func (h *Handler) HandleConnect(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	h.logger.Info("Client connected", "connectionId", request.RequestContext.ConnectionID)

	if err := h.connManager.AddConnection(ctx, request.RequestContext.ConnectionID); err != nil {
		h.logger.Error("failed to save connection ID", "error", err)
		return events.APIGatewayProxyResponse{StatusCode: 500}, err
	}

	return events.APIGatewayProxyResponse{StatusCode: 200}, nil
}

// HandleDisconnect handles client disconnections.
func (h *Handler) HandleDisconnect(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	h.logger.Info("Client disconnected", "connectionId", request.RequestContext.ConnectionID)

	if err := h.connManager.RemoveConnection(ctx, request.RequestContext.ConnectionID); err != nil {
		h.logger.Error("failed to delete connection ID", "error", err)
		return events.APIGatewayProxyResponse{StatusCode: 500}, err
	}

	return events.APIGatewayProxyResponse{StatusCode: 200}, nil
}

// HandleDefault handles messages sent from a client. Clients only listen, so messages are just logged.
func (h *Handler) HandleDefault(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	h.logger.Info("Received message", "connectionId", request.RequestContext.ConnectionID, "body", request.Body)
	return events.APIGatewayProxyResponse{StatusCode: 200}, nil
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all connections by default for local development.
		return true
	},
}

// LocalHandler serves WebSocket clients directly from the HTTP server, broadcasting through a Hub.
type LocalHandler struct {
	hub    *websockets.Hub
	logger *slog.Logger
}

// NewLocalHandler creates a LocalHandler.
func NewLocalHandler(hub *websockets.Hub, logger *slog.Logger) *LocalHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalHandler{hub: hub, logger: logger}
}

// ServeHTTP upgrades the request and keeps the client registered until it disconnects.
func (h *LocalHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	connectionID := h.hub.Register(conn)
	h.logger.Info("Client connected locally", "connectionId", connectionID)

	defer func() {
		h.logger.Info("Client disconnected locally", "connectionId", connectionID)
		h.hub.Unregister(connectionID)
	}()

	// The server doesn't process incoming messages, but reading is what detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Error("unexpected close error", "error", err)
			}
			break
		}
	}
}
