package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			log.Println("New WS Client Connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// StockEvent is the payload pushed to clients when stock bookkeeping changes
// (reservations booked, stock consumed, items adjusted).
type StockEvent struct {
	Type    string                 `json:"type"`
	Action  string                 `json:"action"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// PublishStockEvent marshals and broadcasts without blocking the caller.
func (h *Hub) PublishStockEvent(ev StockEvent) {
	if h == nil {
		return
	}
	go func() {
		msg, err := json.Marshal(ev)
		if err != nil {
			return
		}
		h.Broadcast <- msg
	}()
}
