package ws

import (
	"sync"

	"photoflow_backend/internal/logger"
	"photoflow_backend/internal/services"
	"photoflow_backend/internal/services/dto"

	"gorm.io/gorm"
)

// OutgoingWSMessage - конверт исходящего сообщения
type OutgoingWSMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// WebSocketManager раздает снимки галереи подписанным клиентам.
// Снимок отправляется при подключении и после каждой публикации фото,
// каждому открытому соединению владельца.
type WebSocketManager struct {
	clients    map[string]map[*Client]bool // userID -> соединения
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	db           *gorm.DB
	photoService services.PhotoService
}

func NewWebSocketManager(db *gorm.DB, photoService services.PhotoService) *WebSocketManager {
	return &WebSocketManager{
		clients:      make(map[string]map[*Client]bool),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		db:           db,
		photoService: photoService,
	}
}

func (manager *WebSocketManager) Run() {
	for {
		select {
		case client := <-manager.register:
			manager.mu.Lock()
			if manager.clients[client.UserID] == nil {
				manager.clients[client.UserID] = make(map[*Client]bool)
			}
			manager.clients[client.UserID][client] = true
			manager.mu.Unlock()
			logger.Info("Gallery client registered", "user_id", client.UserID)

			// Новое соединение сразу получает текущее состояние галереи
			manager.sendSnapshot(client)

		case client := <-manager.unregister:
			manager.mu.Lock()
			if conns, ok := manager.clients[client.UserID]; ok && conns[client] {
				close(client.Send)
				delete(conns, client)
				if len(conns) == 0 {
					delete(manager.clients, client.UserID)
				}
				logger.Info("Gallery client unregistered", "user_id", client.UserID)
			}
			manager.mu.Unlock()
		}
	}
}

// PhotoCreated реализует services.GalleryNotifier: после публикации
// все соединения владельца получают свежий снимок.
func (manager *WebSocketManager) PhotoCreated(userID string) {
	manager.mu.RLock()
	conns := make([]*Client, 0, len(manager.clients[userID]))
	for client := range manager.clients[userID] {
		conns = append(conns, client)
	}
	manager.mu.RUnlock()

	for _, client := range conns {
		manager.sendSnapshot(client)
	}
}

// sendSnapshot строит и отправляет клиенту полный список его фото
func (manager *WebSocketManager) sendSnapshot(client *Client) {
	photos, err := manager.photoService.List(manager.db, client.UserID, "")
	if err != nil {
		logger.WithError(err).Error("Gallery snapshot failed", "user_id", client.UserID)
		return
	}
	if photos == nil {
		photos = []dto.PhotoResponse{}
	}

	manager.send(client, OutgoingWSMessage{Type: "gallery_snapshot", Data: photos})
}

func (manager *WebSocketManager) send(client *Client, message OutgoingWSMessage) {
	select {
	case client.Send <- message:
	default:
		// Канал заполнен, клиент отключается
		go func() {
			manager.unregister <- client
		}()
		logger.Warn("Gallery client disconnected due to full send channel", "user_id", client.UserID)
	}
}

// GetClientCount возвращает количество подключенных соединений
func (manager *WebSocketManager) GetClientCount() int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	count := 0
	for _, conns := range manager.clients {
		count += len(conns)
	}
	return count
}
