package network

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

type SocketEventName string

const (
	ChannelCreateEvent      SocketEventName = "channel:create"
	ChannelUploadEvent      SocketEventName = "channel:upload"
	ChannelSubscribeEvent   SocketEventName = "channel:subscribe"
	ChannelUnsubscribeEvent SocketEventName = "channel:unsubscribe"
	VideoUploadEvent        SocketEventName = "video:upload"
	HeartbeatEvent          SocketEventName = "heartbeat"

	heartbeatInterval = 10 * time.Second
)

var (
	ErrQueueFull = errors.New("socket event queue is full")

	upGrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool {
		return true
	}}
)

type SocketEvent struct {
	Name SocketEventName `json:"name"`
	Data interface{}     `json:"data"`
}

type wsConnection struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (p *wsConnection) send(v interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ws.WriteJSON(v)
}

// Hub Queues events and writes them to all connected websocket clients.
type Hub struct {
	events    chan SocketEvent
	mu        sync.RWMutex
	listeners []*wsConnection
}

func NewHub(queueSize int) *Hub {
	return &Hub{events: make(chan SocketEvent, queueSize)}
}

// BroadCastClients Enqueues the event without blocking.
func (h *Hub) BroadCastClients(name SocketEventName, data interface{}) error {
	select {
	case h.events <- SocketEvent{Name: name, Data: data}:
		return nil
	default:
		return ErrQueueFull
	}
}

func (h *Hub) addWs(conn *wsConnection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, conn)
}

func (h *Hub) rmWs(conn *wsConnection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, l := range h.listeners {
		if l == conn {
			h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
			break
		}
	}
}

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}

func (h *Hub) broadCast(msg SocketEvent) {
	h.mu.RLock()
	listeners := make([]*wsConnection, len(h.listeners))
	copy(listeners, h.listeners)
	h.mu.RUnlock()

	for _, l := range listeners {
		if err := l.send(msg); err != nil {
			log.Errorf("[broadCast] %s", err)
		}
	}
}

// Listen Drains the queue until ctx is cancelled and sends a heartbeat every ten seconds.
func (h *Hub) Listen(ctx context.Context) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	log.Infoln("[Listen] starting websocket dispatch ...")
	for {
		select {
		case m := <-h.events:
			h.broadCast(m)
		case <-ticker.C:
			h.broadCast(SocketEvent{Name: HeartbeatEvent, Data: heartbeatInterval.Seconds()})
		case <-ctx.Done():
			log.Infoln("[Listen] stopped")
			return
		}
	}
}

// WsHandler Upgrades the request and keeps the client registered until it disconnects.
func (h *Hub) WsHandler(c *gin.Context) {
	ws, err := upGrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Errorf("[WsHandler] error get connection: %s", err)
		return
	}
	defer ws.Close()

	conn := &wsConnection{ws: ws}
	h.addWs(conn)
	defer h.rmWs(conn)

	for {
		msg := &SocketEvent{}
		if err := ws.ReadJSON(msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Errorf("[WsHandler] error read message: %s", err)
			}
			return
		}
		log.Debugf("[WsHandler] %v", msg)
	}
}
