package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"restohub/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

var upgrader = websocket.Upgrader{
	// editor previews are served from the admin origin; auth sits in front of us
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamHomepage pushes the tenant's document on connect and after every
// change, including optimistic edits and their rollbacks.
func (h *Handlers) streamHomepage(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	send := make(chan []byte, sendBufferSize)
	push := func(cfg domain.HomepageConfig) {
		b, err := json.Marshal(cfg)
		if err != nil {
			log.Error().Err(err).Msg("stream marshal failed")
			return
		}
		select {
		case send <- b:
		default:
			// slow reader; it gets the next change
			log.Debug().Str("tenant", sess.TenantID()).Msg("stream buffer full, dropping update")
		}
	}
	unsubscribe := sess.Subscribe(push)
	if cfg, ok := sess.Snapshot(); ok {
		push(cfg)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		readPump(conn)
	}()
	writePump(conn, send, done)
	unsubscribe()
}

// readPump drains client frames so pongs and close frames are processed.
func readPump(conn *websocket.Conn) {
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writePump(conn *websocket.Conn, send <-chan []byte, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()
	for {
		select {
		case <-done:
			return
		case msg := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
