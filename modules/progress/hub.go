package progress

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// StageEvent - 파이프라인 단계 진행 알림 메시지
type StageEvent struct {
	Type         string                 `json:"type"`
	GenerationID string                 `json:"generationId"`
	Stage        string                 `json:"stage"`
	Payload      map[string]interface{} `json:"payload,omitempty"`
	Timestamp    time.Time              `json:"timestamp"`
}

// client - 연결된 구독자
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// channel - generationId 한 개를 구독하는 클라이언트 집합
type channel struct {
	id           string
	clients      map[*client]struct{}
	mutex        sync.RWMutex
	lastActivity time.Time
}

// Hub - generationId별 websocket 구독 허브
type Hub struct {
	channels map[string]*channel
	mutex    sync.RWMutex
	metrics  *Metrics
}

// Metrics - 허브 상태 지표
type Metrics struct {
	TotalChannels    int       `json:"totalChannels"`
	ActiveChannels   int       `json:"activeChannels"`
	TotalConnections int       `json:"totalConnections"`
	StartTime        time.Time `json:"startTime"`
	mutex            sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		channels: make(map[string]*channel),
		metrics:  &Metrics{StartTime: time.Now()},
	}
}

// getOrCreateChannel - 채널 가져오기 또는 생성
func (h *Hub) getOrCreateChannel(generationID string) *channel {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	ch, exists := h.channels[generationID]
	if !exists {
		ch = &channel{
			id:           generationID,
			clients:      make(map[*client]struct{}),
			lastActivity: time.Now(),
		}
		h.channels[generationID] = ch

		h.metrics.mutex.Lock()
		h.metrics.TotalChannels++
		h.metrics.ActiveChannels++
		h.metrics.mutex.Unlock()

		log.Printf("✅ Created progress channel: %s (Total: %d, Active: %d)",
			generationID, h.metrics.TotalChannels, h.metrics.ActiveChannels)
	}

	ch.lastActivity = time.Now()
	return ch
}

// NotifyStage - 해당 generationId 구독자 전체에 단계 이벤트 브로드캐스트
// storyboard.ProgressNotifier 구현
func (h *Hub) NotifyStage(generationID, stage string, payload map[string]interface{}) {
	h.mutex.RLock()
	ch, exists := h.channels[generationID]
	h.mutex.RUnlock()

	if !exists {
		// 구독자가 없으면 조용히 무시
		return
	}

	event := StageEvent{
		Type:         "stage_update",
		GenerationID: generationID,
		Stage:        stage,
		Payload:      payload,
		Timestamp:    time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("❌ Failed to marshal stage event: %v", err)
		return
	}

	ch.mutex.Lock()
	defer ch.mutex.Unlock()
	for c := range ch.clients {
		select {
		case c.send <- data:
		default:
			// 송신 버퍼가 찬 클라이언트는 제거
			log.Printf("⚠️ Dropping slow progress client on channel %s", generationID)
			close(c.send)
			delete(ch.clients, c)
		}
	}
}

// addClient - 채널에 클라이언트 등록
func (h *Hub) addClient(generationID string, c *client) *channel {
	ch := h.getOrCreateChannel(generationID)

	ch.mutex.Lock()
	ch.clients[c] = struct{}{}
	count := len(ch.clients)
	ch.mutex.Unlock()

	h.metrics.mutex.Lock()
	h.metrics.TotalConnections++
	h.metrics.mutex.Unlock()

	log.Printf("📢 Progress client joined channel %s (clients: %d)", generationID, count)
	return ch
}

// removeClient - 클라이언트 제거, 빈 채널은 정리
func (h *Hub) removeClient(ch *channel, c *client) {
	ch.mutex.Lock()
	if _, exists := ch.clients[c]; exists {
		close(c.send)
		delete(ch.clients, c)
	}
	empty := len(ch.clients) == 0
	ch.mutex.Unlock()

	log.Printf("👋 Progress client left channel %s", ch.id)

	if empty {
		h.mutex.Lock()
		delete(h.channels, ch.id)
		h.mutex.Unlock()

		h.metrics.mutex.Lock()
		h.metrics.ActiveChannels--
		h.metrics.mutex.Unlock()

		log.Printf("🗑️  Progress channel %s is now empty, cleaned up", ch.id)
	}
}

// Snapshot - /metrics 응답용 지표 복사본
func (h *Hub) Snapshot() map[string]interface{} {
	h.metrics.mutex.RLock()
	defer h.metrics.mutex.RUnlock()

	return map[string]interface{}{
		"totalChannels":    h.metrics.TotalChannels,
		"activeChannels":   h.metrics.ActiveChannels,
		"totalConnections": h.metrics.TotalConnections,
		"uptimeSeconds":    int(time.Since(h.metrics.StartTime).Seconds()),
	}
}
