package events

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/klmalviya77/trimtime-queue-master/internal/models"
)

// Recorder persists queue events for the owner's activity feed.
type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

func (r *Recorder) Record(ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	row := models.QueueEvent{
		ShopID:   ev.ShopID,
		ActorID:  ev.ActorID,
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		Metadata: metaJSON,
	}

	return r.db.Create(&row).Error
}
