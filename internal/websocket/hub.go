package chatws

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/bilgehangul/gymbuddy-expo/internal/services"
	websocket "github.com/gofiber/contrib/websocket"
)

type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

type sender interface {
	SendMessage(
		ctx context.Context,
		senderID int64,
		matchID int64,
		body string,
		messageType string,
	) (*services.ChatDelivery, error)
	Counterpart(ctx context.Context, userID int64, matchID int64) (int64, error)
}

type Message struct {
	Type        string `json:"type"`
	MatchID     string `json:"matchId"`
	SenderID    string `json:"senderId"`
	RecipientID string `json:"recipientId,omitempty"`
	Text        string `json:"text,omitempty"`
	MessageType string `json:"messageType,omitempty"`
	Timestamp   string `json:"timestamp"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 64),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			set, ok := h.clients[client.userID]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				delete(set, client)
				close(client.send)
			}
			if len(set) == 0 {
				delete(h.clients, client.userID)
			}
		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast queues a message for delivery to its sender and recipient. REST
// sends use it too, so a message posted over HTTP still reaches an open
// socket.
func (h *Hub) Broadcast(message *Message) {
	h.broadcast <- message
}

// DeliveryMessage builds the wire message for a stored chat message.
func DeliveryMessage(delivery *services.ChatDelivery) *Message {
	return &Message{
		Type:        "message",
		MatchID:     strconv.FormatInt(delivery.Message.MatchID, 10),
		SenderID:    strconv.FormatInt(delivery.Message.SenderID, 10),
		RecipientID: strconv.FormatInt(delivery.RecipientID, 10),
		Text:        delivery.Message.Body,
		MessageType: delivery.Message.MessageType,
		Timestamp:   services.FormatChatTimestamp(delivery.Message.CreatedAt),
	}
}

func (h *Hub) deliver(message *Message) {
	encoded, err := json.Marshal(message)
	if err != nil {
		log.Printf("chat hub encode message: %v", err)
		return
	}

	// Typing indicators only go to the counterpart; stored messages echo
	// back to the sender as well.
	if message.Type != "typing" {
		h.sendToUser(message.SenderID, encoded)
	}
	if message.RecipientID != "" && message.RecipientID != message.SenderID {
		h.sendToUser(message.RecipientID, encoded)
	}
}

func (h *Hub) sendToUser(userID string, payload []byte) {
	set, ok := h.clients[userID]
	if !ok {
		return
	}

	for client := range set {
		select {
		case client.send <- payload:
		default:
			delete(set, client)
			close(client.send)
		}
	}
	if len(set) == 0 {
		delete(h.clients, userID)
	}
}

func (c *Client) ReadPump(service sender) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	actorID, err := strconv.ParseInt(c.userID, 10, 64)
	if err != nil {
		writeError(c, "invalid user")
		return
	}

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var incoming struct {
			Type        string `json:"type"`
			MatchID     string `json:"matchId"`
			Text        string `json:"text"`
			MessageType string `json:"messageType"`
		}
		if err := json.Unmarshal(payload, &incoming); err != nil {
			writeError(c, "invalid message payload")
			continue
		}

		matchID, err := strconv.ParseInt(incoming.MatchID, 10, 64)
		if err != nil || matchID <= 0 {
			writeError(c, "invalid match id")
			continue
		}

		switch incoming.Type {
		case "message":
			delivery, err := service.SendMessage(
				context.Background(),
				actorID,
				matchID,
				incoming.Text,
				incoming.MessageType,
			)
			if err != nil {
				writeError(c, "failed to send message")
				continue
			}
			c.hub.broadcast <- DeliveryMessage(delivery)
		case "typing":
			recipientID, err := service.Counterpart(context.Background(), actorID, matchID)
			if err != nil {
				writeError(c, "failed to relay typing")
				continue
			}
			c.hub.broadcast <- &Message{
				Type:        "typing",
				MatchID:     incoming.MatchID,
				SenderID:    c.userID,
				RecipientID: strconv.FormatInt(recipientID, 10),
				Timestamp:   services.FormatChatTimestamp(time.Now().UTC()),
			}
		default:
			writeError(c, "unsupported message type")
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

func writeError(client *Client, message string) {
	payload, err := json.Marshal(Message{
		Type:      "error",
		Text:      message,
		Timestamp: services.FormatChatTimestamp(time.Now().UTC()),
	})
	if err != nil {
		return
	}
	select {
	case client.send <- payload:
	default:
		client.hub.Unregister(client)
	}
}
