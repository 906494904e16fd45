package queue

import (
	"context"

	domain "github.com/klmalviya77/trimtime-queue-master/internal/domain/queue"
	"github.com/klmalviya77/trimtime-queue-master/internal/events"
	"github.com/klmalviya77/trimtime-queue-master/internal/httperr"
	"github.com/klmalviya77/trimtime-queue-master/internal/models"
	"github.com/klmalviya77/trimtime-queue-master/internal/timezone"
)

type JoinQueue struct {
	repo   domain.Repository
	events *events.Dispatcher
}

func NewJoinQueue(
	repo domain.Repository,
	events *events.Dispatcher,
) *JoinQueue {
	return &JoinQueue{
		repo:   repo,
		events: events,
	}
}

func (uc *JoinQueue) Execute(
	ctx context.Context,
	customerID uint,
	shopID uint,
) (*models.Booking, error) {

	var booking *models.Booking

	err := uc.repo.Transaction(ctx, func(r domain.Repository) error {

		// Locking the shop row serializes concurrent joins so the
		// capacity check and the recompute see one snapshot.
		shop, err := r.GetShopForUpdate(ctx, shopID)
		if err != nil {
			return httperr.ErrBusiness("shop_not_found")
		}

		if !shop.IsActive {
			return httperr.ErrBusiness("shop_inactive")
		}

		open, err := r.CountOpenForCustomer(ctx, shopID, customerID)
		if err != nil {
			return err
		}
		if open > 0 {
			return httperr.ErrBusiness("already_in_queue")
		}

		if shop.CapacityLimit > 0 {
			waiting, err := r.CountWaiting(ctx, shopID)
			if err != nil {
				return err
			}
			if waiting >= int64(shop.CapacityLimit) {
				return httperr.ErrBusiness("queue_full")
			}
		}

		b := &models.Booking{
			ShopID:     shopID,
			CustomerID: customerID,
			Status:     string(domain.StatusWaiting),
			JoinedAt:   timezone.NowIn(shop.Timezone),
		}

		if err := r.CreateBooking(ctx, b); err != nil {
			return err
		}

		if err := r.IncrementBookingCount(ctx, shopID); err != nil {
			return err
		}

		if err := recompute(ctx, r, shopID); err != nil {
			return err
		}

		// Reload so the response carries the freshly assigned
		// position and wait.
		booking, err = r.GetBookingByID(ctx, b.ID)
		return err
	})

	if err != nil {
		return nil, err
	}

	uc.events.Dispatch(events.Event{
		ShopID:   shopID,
		ActorID:  &customerID,
		Action:   "queue_joined",
		Entity:   "booking",
		EntityID: &booking.ID,
	})

	return booking, nil
}
