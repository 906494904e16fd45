package queue

import (
	"time"

	"github.com/klmalviya77/trimtime-queue-master/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Start(b *models.Booking, now time.Time) error {
	if err := CanStart(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusInProgress)
	b.StartedAt = &now
	return nil
}

func Complete(b *models.Booking, now time.Time) error {
	if err := CanComplete(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCompleted)
	b.CompletedAt = &now
	return nil
}

func Cancel(b *models.Booking) error {
	if err := CanCancel(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCancelled)
	return nil
}

func MarkNoShow(b *models.Booking) error {
	if err := CanMarkNoShow(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusNoShow)
	return nil
}

// LeavesQueue reports whether a booking leaving status `from` for
// status `to` changes the shop's set of waiting bookings, which is
// what forces a position recompute.
func LeavesQueue(from, to Status) bool {
	return (from == StatusWaiting) != (to == StatusWaiting)
}
