package progress

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// 개발용 - 모든 origin 허용
		return true
	},
}

// Handler - GET /ws/progress/{generationId} websocket 업그레이드
type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// RegisterRoutes - 라우트 등록
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/ws/progress/{generationId}", h.Subscribe)
	log.Println("✅ Progress routes registered: /ws/progress/{generationId}")
}

// Subscribe - 단계 이벤트 구독
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	generationID := vars["generationId"]
	if generationID == "" {
		http.Error(w, "generationId is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade failed: %v", err)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, 16),
	}
	ch := h.hub.addClient(generationID, c)

	go h.writePump(c)
	h.readPump(ch, c)
}

// readPump - 연결 종료 감지용. 클라이언트가 보내는 메시지는 무시
func (h *Handler) readPump(ch *channel, c *client) {
	defer func() {
		h.hub.removeClient(ch, c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(1024)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump - send 채널의 이벤트를 소켓으로 전달
func (h *Handler) writePump(c *client) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
