package ws

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/kaamwala-backend/internal/goroutine"
	"github.com/ignatzorin/kaamwala-backend/internal/logger"
)

// Hub управляет всеми WebSocket клиентами и рассылает события каталога и навыков.
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
	log        *logrus.Entry
}

// message адресное сообщение. Пустой userID означает рассылку всем подключённым.
type message struct {
	userID  string
	payload []byte
}

// Envelope формат сообщения клиенту: type содержит имя события, data полезную нагрузку.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// NewHub создаёт новый хаб.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 64),
		done:       make(chan struct{}),
		log:        logger.For("ws"),
	}
}

// Run запускает главный цикл хаба до вызова Stop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg)
		case <-h.done:
			h.closeAll()
			return
		}
	}
}

// Stop останавливает цикл хаба и закрывает все соединения.
func (h *Hub) Stop() {
	close(h.done)
}

// Register добавляет клиента.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister удаляет клиента.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast отправляет событие всем подключённым клиентам.
func (h *Hub) Broadcast(event string, data any) error {
	return h.enqueue("", event, data)
}

// BroadcastToUser отправляет событие всем соединениям пользователя.
func (h *Hub) BroadcastToUser(userID string, event string, data any) error {
	if userID == "" {
		return fmt.Errorf("ws: пустой userID")
	}
	return h.enqueue(userID, event, data)
}

// ConnectedUsers число пользователей с хотя бы одним соединением.
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) enqueue(userID, event string, data any) error {
	raw, err := json.Marshal(Envelope{Type: event, Data: data})
	if err != nil {
		return fmt.Errorf("ws: не удалось сериализовать сообщение: %w", err)
	}

	select {
	case <-h.done:
		return fmt.Errorf("ws: хаб остановлен")
	default:
	}

	select {
	case h.broadcast <- message{userID: userID, payload: raw}:
		return nil
	default:
		// Очередь полна: событие теряется, запрос пользователя не ждёт вебсокет
		return fmt.Errorf("ws: очередь сообщений переполнена")
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]struct{})
	}
	h.clients[client.userID][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.userID]; ok {
		if _, present := clients[client]; present {
			delete(clients, client)
			close(client.send)
		}
		if len(clients) == 0 {
			delete(h.clients, client.userID)
		}
	}
}

func (h *Hub) send(msg message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	deliver := func(clients map[*Client]struct{}) {
		for client := range clients {
			select {
			case client.send <- msg.payload:
			default:
				// Медленный клиент: закрываем асинхронно, хаб не блокируется
				h.log.WithField("user_id", client.userID).Warn("буфер клиента переполнен, соединение закрывается")
				goroutine.SafeGo(client.Close)
			}
		}
	}

	if msg.userID != "" {
		deliver(h.clients[msg.userID])
		return
	}
	for _, clients := range h.clients {
		deliver(clients)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, clients := range h.clients {
		for client := range clients {
			close(client.send)
		}
		delete(h.clients, userID)
	}
}
