package queue

import (
	"context"

	domain "github.com/klmalviya77/trimtime-queue-master/internal/domain/queue"
	"github.com/klmalviya77/trimtime-queue-master/internal/events"
	"github.com/klmalviya77/trimtime-queue-master/internal/httperr"
	"github.com/klmalviya77/trimtime-queue-master/internal/models"
	"github.com/klmalviya77/trimtime-queue-master/internal/timezone"
)

// TransitionBooking moves a booking through the owner-side state
// machine: waiting → in_progress → completed, or waiting → no_show.
type TransitionBooking struct {
	repo   domain.Repository
	events *events.Dispatcher
}

func NewTransitionBooking(
	repo domain.Repository,
	events *events.Dispatcher,
) *TransitionBooking {
	return &TransitionBooking{
		repo:   repo,
		events: events,
	}
}

func (uc *TransitionBooking) Execute(
	ctx context.Context,
	shopID uint,
	actorID uint,
	bookingID uint,
	target domain.Status,
) (*models.Booking, error) {

	var booking *models.Booking

	err := uc.repo.Transaction(ctx, func(r domain.Repository) error {

		shop, err := r.GetShopForUpdate(ctx, shopID)
		if err != nil {
			return err
		}

		b, err := r.GetBookingForShop(ctx, bookingID, shopID)
		if err != nil {
			return httperr.ErrBusiness("booking_not_found")
		}

		from := domain.Status(b.Status)
		now := timezone.NowIn(shop.Timezone)

		switch target {
		case domain.StatusInProgress:
			err = domain.Start(b, now)
		case domain.StatusCompleted:
			err = domain.Complete(b, now)
		case domain.StatusNoShow:
			err = domain.MarkNoShow(b)
		default:
			err = httperr.ErrBusiness("invalid_target_status")
		}
		if err != nil {
			return err
		}

		if err := r.UpdateBooking(ctx, b); err != nil {
			return err
		}

		if domain.LeavesQueue(from, target) {
			if err := recompute(ctx, r, shopID); err != nil {
				return err
			}
		}

		booking = b
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.events.Dispatch(events.Event{
		ShopID:   shopID,
		ActorID:  &actorID,
		Action:   "booking_" + string(target),
		Entity:   "booking",
		EntityID: &booking.ID,
	})

	return booking, nil
}
