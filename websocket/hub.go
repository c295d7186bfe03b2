package websocket

import (
	"encoding/json"
	"sync"
)

// FriendChecker reports whether two users have an accepted relationship.
// Call signaling is only relayed between confirmed friends.
type FriendChecker func(userA, userB string) (bool, error)

type Hub struct {
	clients    map[string]*Client
	userConns  map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	areFriends FriendChecker
	mu         sync.RWMutex
}

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type ClientMessage struct {
	Action  string          `json:"action"`
	To      string          `json:"to,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

var HubInstance *Hub

func NewHub(checker FriendChecker) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		userConns:  make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		areFriends: checker,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			if h.userConns[client.UserID] == nil {
				h.userConns[client.UserID] = make(map[*Client]bool)
			}
			h.userConns[client.UserID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				if h.userConns[client.UserID] != nil {
					delete(h.userConns[client.UserID], client)
					if len(h.userConns[client.UserID]) == 0 {
						delete(h.userConns, client.UserID)
					}
				}
				close(client.Send)
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) SendToUser(userID string, msg *Message) {
	h.mu.RLock()
	clients := h.userConns[userID]
	h.mu.RUnlock()

	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	for client := range clients {
		select {
		case client.Send <- data:
		default:
			h.unregister <- client
		}
	}
}

func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userConns[userID]) > 0
}

func InitHub(checker FriendChecker) {
	HubInstance = NewHub(checker)
	go HubInstance.Run()
}

// NotifyUser pushes an event to every live connection of a user. Safe to call
// before InitHub (tests); the event is dropped.
func NotifyUser(userID, event string, data interface{}) {
	if HubInstance == nil {
		return
	}
	HubInstance.SendToUser(userID, &Message{Event: event, Data: data})
}
