package ws

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 256
)

// AuthorizeChannel decides whether a user may join a channel. A nil
// authorizer denies every subscription.
type AuthorizeChannel func(ctx context.Context, userID uuid.UUID, channel string) bool

// Client is one websocket connection bound to an authenticated user. Clients
// may additionally subscribe to conversation channels they participate in.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	userID    uuid.UUID
	send      chan []byte
	authorize AuthorizeChannel
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
	}
}

// clientCommand is the only client-to-server message shape: channel
// subscription management. Everything else flows over REST.
type clientCommand struct {
	Action  string `json:"action"`
	Channel string `json:"channel"`
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var cmd clientCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			continue
		}

		channel := strings.TrimSpace(cmd.Channel)
		switch cmd.Action {
		case "subscribe":
			if c.authorize == nil || !c.authorize(context.Background(), c.userID, channel) {
				continue
			}
			c.hub.Subscribe(c, channel)
		case "unsubscribe":
			c.hub.Unsubscribe(c, channel)
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
