package websocket

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"clearcue-backend/internal/middleware"
	"clearcue-backend/internal/models"
	"clearcue-backend/internal/services"
	"clearcue-backend/pkg/logger"
)

// Hub relays each owner's Redis pub/sub events to that owner's open sockets.
type Hub struct {
	mu          sync.RWMutex
	connections map[string][]*websocket.Conn
	cancelFuncs map[string]context.CancelFunc
	redisClient *redis.Client
	auth        *middleware.JWTAuth
	upgrader    websocket.Upgrader
}

func NewHub(redisClient *redis.Client, auth *middleware.JWTAuth, frontendURL string) *Hub {
	allowed := strings.TrimRight(frontendURL, "/")
	return &Hub{
		connections: make(map[string][]*websocket.Conn),
		cancelFuncs: make(map[string]context.CancelFunc),
		redisClient: redisClient,
		auth:        auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed == "*" || origin == allowed
			},
		},
	}
}

// ownerFromQuery authenticates with ?token= or identifies an anonymous
// client with ?client_id=. Browsers cannot set headers on WebSocket upgrades.
func (h *Hub) ownerFromQuery(r *http.Request) (models.Owner, bool) {
	q := r.URL.Query()
	if tokenStr := q.Get("token"); tokenStr != "" {
		userID, err := h.auth.ParseToken(tokenStr)
		if err != nil {
			return models.Owner{}, false
		}
		return models.Owner{UserID: &userID}, true
	}
	if clientID := strings.TrimSpace(q.Get("client_id")); clientID != "" {
		return models.Owner{ClientID: clientID}, true
	}
	return models.Owner{}, false
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.ownerFromQuery(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.registerConnection(owner, conn)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregisterConnection(owner, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (h *Hub) registerConnection(owner models.Owner, conn *websocket.Conn) {
	key := owner.Key()

	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[key] = append(h.connections[key], conn)

	// First connection for this owner starts the subscription
	if len(h.connections[key]) == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelFuncs[key] = cancel
		go h.subscribe(ctx, owner)
	}

	logger.Log.Debug("websocket connected", zap.String("owner", key), zap.Int("connections", len(h.connections[key])))
}

func (h *Hub) unregisterConnection(owner models.Owner, conn *websocket.Conn) {
	key := owner.Key()

	h.mu.Lock()
	defer h.mu.Unlock()

	conn.Close()

	conns := h.connections[key]
	for i, c := range conns {
		if c == conn {
			h.connections[key] = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	if len(h.connections[key]) == 0 {
		delete(h.connections, key)
		if cancel, ok := h.cancelFuncs[key]; ok {
			cancel()
			delete(h.cancelFuncs, key)
		}
	}

	logger.Log.Debug("websocket disconnected", zap.String("owner", key))
}

func (h *Hub) subscribe(ctx context.Context, owner models.Owner) {
	pubsub := h.redisClient.Subscribe(ctx, services.UpdatesChannel(owner))
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(owner.Key(), []byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(key string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conn := range h.connections[key] {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logger.Log.Debug("websocket write failed", zap.String("owner", key), zap.Error(err))
		}
	}
}

// Connections reports how many sockets the owner has open on this instance.
func (h *Hub) Connections(owner models.Owner) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[owner.Key()])
}
