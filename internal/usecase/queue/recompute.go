package queue

import (
	"context"

	domain "github.com/klmalviya77/trimtime-queue-master/internal/domain/queue"
)

// RecomputeQueue re-derives queue positions and estimated waits for
// one shop. Every mutation that changes the shop's set of waiting
// bookings runs this inside the same transaction as the write, so the
// cached fields are never visible half-updated.
type RecomputeQueue struct {
	repo domain.Repository
}

func NewRecomputeQueue(repo domain.Repository) *RecomputeQueue {
	return &RecomputeQueue{repo: repo}
}

func (uc *RecomputeQueue) Execute(ctx context.Context, shopID uint) error {
	return uc.repo.Transaction(ctx, func(r domain.Repository) error {
		return recompute(ctx, r, shopID)
	})
}

// recompute assigns positions 1..N over the waiting bookings ordered
// by joined_at (ties broken by insertion id) and sets each booking's
// estimated wait to (position-1) * avg_service_min. A shop without a
// configured duration counts as 0, not null.
func recompute(ctx context.Context, r domain.Repository, shopID uint) error {

	shop, err := r.GetShopByID(ctx, shopID)
	if err != nil {
		return err
	}

	avg := shop.AvgServiceMin
	if avg < 0 {
		avg = 0
	}

	waiting, err := r.ListWaitingBookings(ctx, shopID)
	if err != nil {
		return err
	}

	for i := range waiting {
		position := i + 1
		wait := i * avg

		// Re-running with no intervening mutation writes nothing.
		if waiting[i].QueuePosition == position && waiting[i].EstimatedWaitMin == wait {
			continue
		}

		if err := r.SetQueueFields(ctx, waiting[i].ID, position, wait); err != nil {
			return err
		}
	}

	return nil
}
