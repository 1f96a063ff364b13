package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"league-service/internal/service/game"
	"league-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Previewer settles a form without recording it.
type Previewer interface {
	Preview(ctx context.Context, req game.SubmitRequest) (*game.Preview, error)
}

type Handler struct {
	previewer Previewer
	now       func() time.Time
}

func NewHandler(previewer Previewer) *Handler {
	return &Handler{previewer: previewer, now: time.Now}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

type OutgoingMessage struct {
	Type string      `json:"type"`
	Seq  int64       `json:"seq"`
	Data interface{} `json:"data"`
}

type incomingMessage struct {
	Type string    `json:"type"`
	Seq  int64     `json:"seq"`
	Data game.Form `json:"data"`
}

// HandlePreviewWS answers every form the client sends with its settlement
// and validation messages, tagged with the client's sequence number so
// stale replies can be dropped.
func (h *Handler) HandlePreviewWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Error("Failed to upgrade websocket", zap.Error(err))
		return
	}

	sessionID := uuid.NewString()
	logger.Log.Info("New preview connection", zap.String("sessionID", sessionID))

	client := newClient(conn, sessionID, h)
	client.run(c.Request.Context())
}

type client struct {
	conn      *websocket.Conn
	sessionID string
	handler   *Handler
	outbound  chan OutgoingMessage
	done      chan struct{}
	stopped   chan struct{}
	pingEvery time.Duration
}

func newClient(conn *websocket.Conn, sessionID string, h *Handler) *client {
	conn.SetReadLimit(1 << 20)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	return &client{
		conn:      conn,
		sessionID: sessionID,
		handler:   h,
		outbound:  make(chan OutgoingMessage, 16),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
		pingEvery: 25 * time.Second,
	}
}

func (c *client) run(ctx context.Context) {
	go c.writePump()
	c.readPump(ctx)
}

func (c *client) readPump(ctx context.Context) {
	defer func() {
		close(c.done)
		c.conn.Close()
	}()

	for {
		mt, message, err := c.conn.ReadMessage()
		if err != nil {
			logger.Log.Info("WS read error", zap.Error(err), zap.String("sessionID", c.sessionID))
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		var incoming incomingMessage
		if err := json.Unmarshal(message, &incoming); err != nil {
			c.send(OutgoingMessage{
				Type: "error",
				Seq:  0,
				Data: gin.H{"message": "invalid payload"},
			})
			continue
		}
		if incoming.Type != "" && incoming.Type != "preview" {
			c.send(OutgoingMessage{
				Type: "error",
				Seq:  incoming.Seq,
				Data: gin.H{"message": "unsupported message type"},
			})
			continue
		}

		c.send(c.handler.preview(ctx, incoming))
	}
}

func (h *Handler) preview(ctx context.Context, incoming incomingMessage) OutgoingMessage {
	req, err := incoming.Data.Request(h.now())
	if err != nil {
		return OutgoingMessage{Type: "error", Seq: incoming.Seq, Data: gin.H{"message": err.Error()}}
	}
	preview, err := h.previewer.Preview(ctx, req)
	if err != nil {
		return OutgoingMessage{Type: "error", Seq: incoming.Seq, Data: gin.H{"message": err.Error()}}
	}
	return OutgoingMessage{Type: "preview", Seq: incoming.Seq, Data: preview}
}

// send drops the reply once the writer has gone away.
func (c *client) send(msg OutgoingMessage) {
	select {
	case c.outbound <- msg:
	case <-c.stopped:
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(c.pingEvery)
	defer func() {
		ticker.Stop()
		close(c.stopped)
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.outbound:
			if err := c.conn.WriteJSON(msg); err != nil {
				logger.Log.Info("WS write error", zap.Error(err), zap.String("sessionID", c.sessionID))
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
