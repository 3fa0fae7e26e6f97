package handlers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/quakemap/quakemap-be/internal/services"
	ws "github.com/quakemap/quakemap-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles upgrading HTTP connections to WebSocket connections.
type WebSocketHandler struct {
	hub     *ws.Hub
	service services.FeedServiceProvider
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(hub *ws.Hub, service services.FeedServiceProvider) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, service: service}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins (consider tightening this in production).
		return true
	},
}

// Serve handles the WebSocket connection request.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	client := ws.NewClient(h.hub, conn)
	h.hub.Register <- client

	// Bring the new client up to date before any broadcasts arrive.
	client.Send <- ws.NewViewStateMessage(h.service.View())

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		client.WritePump()
	}()
	go func() {
		defer wg.Done()
		client.ReadPump(h.handleIncomingWSMessage)
	}()

	// Cleanup on disconnect.
	go func() {
		wg.Wait()
		h.hub.Unregister <- client
	}()
}

// handleIncomingWSMessage processes messages received from a websocket client.
// Client actions drive the same state transitions as the REST routes; the
// service broadcasts the resulting view to every client.
func (h *WebSocketHandler) handleIncomingWSMessage(client *ws.Client, message []byte) {
	var msg ws.Message
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Error().Err(err).Bytes("message", message).Msg("Error decoding websocket message")
		return
	}

	switch msg.Action {
	case "set_threshold":
		payload, ok := msg.Payload.(map[string]interface{})
		if !ok {
			client.Send <- ws.NewErrorMessage("Invalid payload for set_threshold")
			return
		}
		v, ok := payload["min_magnitude"].(float64)
		if !ok {
			client.Send <- ws.NewErrorMessage("set_threshold requires a numeric min_magnitude")
			return
		}
		h.service.SetThreshold(v)

	case "select_region":
		payload, ok := msg.Payload.(map[string]interface{})
		if !ok {
			client.Send <- ws.NewErrorMessage("Invalid payload for select_region")
			return
		}
		name, ok := payload["name"].(string)
		if !ok || name == "" {
			client.Send <- ws.NewErrorMessage("select_region requires a region name")
			return
		}
		h.service.SelectRegion(name)

	default:
		log.Warn().Str("action", msg.Action).Msg("Unknown websocket action received")
		client.Send <- ws.NewErrorMessage("Unknown action: " + msg.Action)
	}
}
