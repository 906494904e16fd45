package queue

import (
	"context"

	domain "github.com/klmalviya77/trimtime-queue-master/internal/domain/queue"
	"github.com/klmalviya77/trimtime-queue-master/internal/events"
	"github.com/klmalviya77/trimtime-queue-master/internal/httperr"
	"github.com/klmalviya77/trimtime-queue-master/internal/models"
)

// CancelBooking is the customer-side exit: only their own, only while
// still waiting.
type CancelBooking struct {
	repo   domain.Repository
	events *events.Dispatcher
}

func NewCancelBooking(
	repo domain.Repository,
	events *events.Dispatcher,
) *CancelBooking {
	return &CancelBooking{
		repo:   repo,
		events: events,
	}
}

func (uc *CancelBooking) Execute(
	ctx context.Context,
	customerID uint,
	bookingID uint,
) (*models.Booking, error) {

	var booking *models.Booking

	err := uc.repo.Transaction(ctx, func(r domain.Repository) error {

		b, err := r.GetBookingForCustomer(ctx, bookingID, customerID)
		if err != nil {
			return httperr.ErrBusiness("booking_not_found")
		}

		if _, err := r.GetShopForUpdate(ctx, b.ShopID); err != nil {
			return err
		}

		if err := domain.Cancel(b); err != nil {
			return err
		}

		if err := r.UpdateBooking(ctx, b); err != nil {
			return err
		}

		if err := recompute(ctx, r, b.ShopID); err != nil {
			return err
		}

		booking = b
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.events.Dispatch(events.Event{
		ShopID:   booking.ShopID,
		ActorID:  &customerID,
		Action:   "booking_cancelled",
		Entity:   "booking",
		EntityID: &booking.ID,
	})

	return booking, nil
}
