// Package ws ingests live speech-transcription payloads over WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"callnote/internal/model/call"
	"callnote/internal/service/tracker"
)

const readTimeout = 60 * time.Second

// Handler upgrades connections and feeds each inbound payload through the
// session tracker. One read loop per connection; no state is shared between
// connections beyond the tracker registry.
type Handler struct {
	tracker  *tracker.Tracker
	upgrader websocket.Upgrader
}

// New builds the WebSocket ingestion handler.
func New(trk *tracker.Tracker) *Handler {
	return &Handler{
		tracker: trk,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// sttFrame is the JSON envelope the capture UI sends. First-generation
// clients sent bare text, so decoding failures fall back to the raw payload.
type sttFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Lang string `json:"lang"`
}

type welcomeMessage struct {
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	ConnectedAt time.Time `json:"connectedAt"`
}

type ackMessage struct {
	Type string `json:"type"`
	call.Ack
}

// Handle runs the connection's read loop until the peer goes away.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	client := conn.RemoteAddr().String()
	log.Printf("[ws] connected: %s", client)
	defer func() {
		h.tracker.Release(client)
		log.Printf("[ws] disconnected: %s", client)
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})
	go h.pingLoop(ctx, conn)

	if err := conn.WriteJSON(welcomeMessage{
		Type:        "welcome",
		Message:     "Connected to callnote server",
		ConnectedAt: time.Now().UTC(),
	}); err != nil {
		log.Printf("[ws] welcome write failed (%s): %v", client, err)
		return
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("[ws] read error (%s): %v", client, err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		ack := h.tracker.Ingest(client, extractText(raw))
		if err := conn.WriteJSON(ackMessage{Type: "ack", Ack: ack}); err != nil {
			log.Printf("[ws] ack write failed (%s): %v", client, err)
			return
		}
	}
}

// extractText pulls the transcript text out of an stt frame, falling back to
// the raw payload for anything that is not one.
func extractText(raw []byte) string {
	var frame sttFrame
	if err := json.Unmarshal(raw, &frame); err == nil && frame.Type == "stt" && frame.Text != "" {
		return frame.Text
	}
	return string(raw)
}

func (h *Handler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
