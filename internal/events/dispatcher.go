package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Event struct {
	ShopID   uint   `json:"shop_id"`
	ActorID  *uint  `json:"actor_id,omitempty"`
	Action   string `json:"action"`
	Entity   string `json:"entity"`
	EntityID *uint  `json:"entity_id,omitempty"`
	Metadata any    `json:"metadata,omitempty"`
}

// ChannelFor names the Redis pub/sub channel carrying one shop's
// queue changefeed.
func ChannelFor(shopID uint) string {
	return fmt.Sprintf("queue:shop:%d", shopID)
}

// Dispatcher takes queue events off the request path: each event is
// persisted and published to the shop's Redis channel by a single
// background worker.
type Dispatcher struct {
	recorder *Recorder
	rdb      *redis.Client // nil disables publishing
	logger   *zap.Logger
	queue    chan Event
}

func NewDispatcher(recorder *Recorder, rdb *redis.Client, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		recorder: recorder,
		rdb:      rdb,
		logger:   logger,
		queue:    make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.recorder.Record(ev); err != nil {
			d.logger.Warn("queue event not recorded", zap.Error(err))
		}
		d.publish(ev)
	}
}

func (d *Dispatcher) publish(ev Event) {
	if d.rdb == nil {
		return
	}

	payload, err := json.Marshal(struct {
		Event
		At time.Time `json:"at"`
	}{Event: ev, At: time.Now().UTC()})
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.rdb.Publish(ctx, ChannelFor(ev.ShopID), payload).Err(); err != nil {
		d.logger.Warn("queue event not published",
			zap.Uint("shop_id", ev.ShopID),
			zap.Error(err),
		)
	}
}

// Dispatch never blocks the API: a full queue drops the event.
func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.logger.Warn("event queue full, dropping", zap.String("action", ev.Action))
	}
}
