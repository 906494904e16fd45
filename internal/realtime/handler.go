package realtime

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/klmalviya77/trimtime-queue-master/internal/events"
	"github.com/klmalviya77/trimtime-queue-master/internal/httperr"
	"github.com/klmalviya77/trimtime-queue-master/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients come from arbitrary origins; auth happens at
	// the HTTP layer before the upgrade.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler relays a shop's Redis changefeed to websocket clients. The
// app is a thin pipe: it neither buffers nor replays events.
type Handler struct {
	db     *gorm.DB
	rdb    *redis.Client
	logger *zap.Logger
}

func NewHandler(db *gorm.DB, rdb *redis.Client, logger *zap.Logger) *Handler {
	return &Handler{db: db, rdb: rdb, logger: logger}
}

func (h *Handler) QueueFeed(c *gin.Context) {
	if h.rdb == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "realtime_unavailable", "Realtime feed is not configured.")
		return
	}

	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))

	var shop models.Shop
	if err := h.db.
		Where("slug = ? AND is_active = ?", slug, true).
		First(&shop).Error; err != nil {

		httperr.NotFound(c, "shop_not_found", "Shop not found.")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	sub := h.rdb.Subscribe(ctx, events.ChannelFor(shop.ID))
	defer sub.Close()

	// Read pump: clients send nothing useful, but reading is how we
	// notice the peer going away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				h.logger.Debug("websocket write failed",
					zap.Uint("shop_id", shop.ID),
					zap.Error(err),
				)
				return
			}
		}
	}
}
