package socket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ScanEvent is broadcast to every connected dashboard whenever a public scan
// resolves successfully.
type ScanEvent struct {
	AssetID      string    `json:"assetID"`
	AssetNo      string    `json:"assetNo"`
	BarcodeValue string    `json:"barcodeValue"`
	DealerID     string    `json:"dealerID"`
	DealerCode   string    `json:"dealerCode"`
	ScanType     string    `json:"scanType"`
	ScannedAt    time.Time `json:"scannedAt"`
}

// Hub tracks connected WebSocket clients and fans scan events out to them.
type Hub struct {
	clients map[string]*websocket.Conn
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*websocket.Conn),
	}
}

// Register adds a client connection, keyed by user id.
func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[userID] = conn
	log.Printf("WebSocket client registered: %s", userID)
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[userID]; ok {
		delete(h.clients, userID)
		log.Printf("WebSocket client unregistered: %s", userID)
	}
}

// BroadcastScan sends the event to every connected client. Write failures are
// logged and skipped; a dead connection never blocks the others.
func (h *Hub) BroadcastScan(event ScanEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("WebSocket: failed to marshal scan event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for userID, conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("WebSocket: failed to send scan event to %s: %v", userID, err)
		}
	}
}
