package stats

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/klmalviya77/trimtime-queue-master/internal/domain/queue"
	"github.com/klmalviya77/trimtime-queue-master/internal/models"
	"github.com/klmalviya77/trimtime-queue-master/internal/timezone"
)

type DailySummary struct {
	Date     string `json:"date"`
	Timezone string `json:"timezone"`

	StatusCounts  map[string]int64 `json:"status_counts"`
	BookingsToday int64            `json:"bookings_today"`
	QueueLength   int64            `json:"queue_length"`

	// Mean realized service time over today's completed bookings.
	AvgServiceRealMin float64 `json:"avg_service_real_min"`
}

// DailyStats aggregates one shop's activity for "today" in the shop's
// own timezone.
type DailyStats struct {
	db *gorm.DB
}

func NewDailyStats(db *gorm.DB) *DailyStats {
	return &DailyStats{db: db}
}

func (uc *DailyStats) Execute(ctx context.Context, shopID uint) (*DailySummary, error) {

	var shop models.Shop
	if err := uc.db.WithContext(ctx).First(&shop, shopID).Error; err != nil {
		return nil, err
	}

	now := timezone.NowIn(shop.Timezone)
	dayStart, dayEnd := timezone.DayWindow(now, shop.Timezone)

	var todays []models.Booking
	if err := uc.db.WithContext(ctx).
		Where(
			"shop_id = ? AND joined_at >= ? AND joined_at < ?",
			shopID, dayStart, dayEnd,
		).
		Find(&todays).Error; err != nil {
		return nil, err
	}

	summary := &DailySummary{
		Date:          dayStart.Format("2006-01-02"),
		Timezone:      timezone.Location(shop.Timezone).String(),
		StatusCounts:  map[string]int64{},
		BookingsToday: int64(len(todays)),
	}

	var servedMin float64
	var servedCount int64

	for _, b := range todays {
		summary.StatusCounts[b.Status]++

		if b.Status == string(domain.StatusCompleted) &&
			b.StartedAt != nil && b.CompletedAt != nil {
			servedMin += b.CompletedAt.Sub(*b.StartedAt).Minutes()
			servedCount++
		}
	}

	if servedCount > 0 {
		summary.AvgServiceRealMin = servedMin / float64(servedCount)
	}

	// Queue length is live, not bounded to today.
	if err := uc.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("shop_id = ? AND status = ?", shopID, string(domain.StatusWaiting)).
		Count(&summary.QueueLength).Error; err != nil {
		return nil, err
	}

	return summary, nil
}
