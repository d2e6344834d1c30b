package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB
	inboxSize  = 8
)

// Envelope types sent to websocket clients.
const (
	wsTypeEstimate = "estimate"
	wsTypeError    = "error"
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
	Code  string      `json:"code,omitempty"`
}

var upgrader = websocket.Upgrader{
	// TODO: restrict to the dashboard origin once it has a fixed host.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary      Interactive estimates over WebSocket
// @Description  Each text message is an EstimateRequest; each reply is {"type":"estimate","data":RULEstimate} or {"type":"error",...}.
// @Tags         estimates
// @Param        access_token  query  string  false  "Bearer token when no Authorization header can be sent"
// @Router       /ws/estimate [get]
func (h *Handler) wsEstimate(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// The reader only decodes; every write happens in the loop below.
	inbox := make(chan []byte, inboxSize)
	done := make(chan struct{})
	defer close(done)
	go h.startReader(conn, inbox, done)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-inbox:
			if !ok {
				return
			}
			if err := h.writeEnvelope(conn, h.answer(c, msg)); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		}
	}
}

// startReader forwards messages to inbox and closes it when the peer goes
// away. It stops early once done is closed.
func (h *Handler) startReader(conn *websocket.Conn, inbox chan<- []byte, done <-chan struct{}) {
	defer close(inbox)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
		select {
		case inbox <- msg:
		case <-done:
			return
		}
	}
}

// answer runs one estimate for a raw client message.
func (h *Handler) answer(c *gin.Context, msg []byte) wsEnvelope {
	var in EstimateRequest
	if err := json.Unmarshal(msg, &in); err != nil {
		return wsEnvelope{Type: wsTypeError, Error: "invalid json: " + err.Error(), Code: "invalid_body"}
	}
	if in.Fluid == "" {
		return wsEnvelope{Type: wsTypeError, Error: "fluid is required", Code: "invalid_body"}
	}

	est, err := h.services.Estimate(c.Request.Context(), in.toEngine())
	if err != nil {
		status, code := classify(err)
		msg := err.Error()
		if status == http.StatusInternalServerError {
			if h.log != nil {
				h.log.Errorw("ws_estimate_failed", "err", err, "fluid", in.Fluid)
			}
			msg = errInternal
		}
		return wsEnvelope{Type: wsTypeError, Error: msg, Code: code}
	}
	return wsEnvelope{Type: wsTypeEstimate, Data: est}
}

func (h *Handler) writeEnvelope(conn *websocket.Conn, env wsEnvelope) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}
