package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/guru-vishal/chat-application/internal/infrastructure/realtime"
)

const (
	maxFrameBytes = 16 * 1024
	pongWait      = 60 * time.Second
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Inbound wire frames. Every frame is an {"event", "data"} envelope; the
// data shape depends on the event.

type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type authenticateData struct {
	Token string `json:"token"`
}

type sendMessageData struct {
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
}

type typingData struct {
	RecipientID string `json:"recipientId"`
	IsTyping    bool   `json:"isTyping"`
}

type errorPayload struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

type errorFrame struct {
	Event string       `json:"event"`
	Data  errorPayload `json:"data"`
}

// NewChatSocketController upgrades the request to a websocket, wraps it in a
// session, and feeds inbound frames to the dispatcher until the peer goes
// away. The socket starts unauthenticated; message and typing frames sent
// before a successful authenticate are dropped by the dispatcher.
func NewChatSocketController(dispatcher *Dispatcher, metrics *realtime.Metrics, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		conn := realtime.NewConnection(ws)
		conn.Start()
		metrics.ConnectionOpened()

		defer func() {
			dispatcher.HandleDisconnect(context.Background(), conn)
			conn.Close(websocket.CloseNormalClosure, "")
			metrics.ConnectionClosed()
		}()

		ws.SetReadLimit(maxFrameBytes)
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(pongWait))
		})

		for {
			_, raw, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Debug("websocket read error", zap.Error(err))
				}
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(raw, &frame); err != nil {
				sendErrorFrame(conn, "bad_frame", "malformed frame")
				continue
			}

			switch frame.Event {
			case "authenticate":
				var data authenticateData
				// Accept both {"token": "..."} and a bare string.
				if err := json.Unmarshal(frame.Data, &data); err != nil || data.Token == "" {
					if err := json.Unmarshal(frame.Data, &data.Token); err != nil || data.Token == "" {
						sendErrorFrame(conn, "bad_frame", "authenticate requires a token")
						continue
					}
				}
				dispatcher.HandleAuthenticate(c.Request.Context(), conn, data.Token)
			case "sendMessage":
				var data sendMessageData
				if err := json.Unmarshal(frame.Data, &data); err != nil || data.RecipientID == "" {
					sendErrorFrame(conn, "bad_frame", "sendMessage requires a recipientId")
					continue
				}
				dispatcher.HandleSendMessage(conn, data.RecipientID, data.Content)
			case "typing":
				var data typingData
				if err := json.Unmarshal(frame.Data, &data); err != nil || data.RecipientID == "" {
					sendErrorFrame(conn, "bad_frame", "typing requires a recipientId")
					continue
				}
				dispatcher.HandleTyping(conn, data.RecipientID, data.IsTyping)
			default:
				sendErrorFrame(conn, "unknown_event", "unsupported event: "+frame.Event)
			}
		}
	}
}

func sendErrorFrame(sess realtime.Session, code, message string) {
	frame := errorFrame{Event: "error", Data: errorPayload{Code: code, Error: message}}
	if payload, err := json.Marshal(frame); err == nil {
		_ = sess.Send(payload)
	}
}
