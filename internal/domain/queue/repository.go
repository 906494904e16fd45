package queue

import (
	"context"

	"github.com/klmalviya77/trimtime-queue-master/internal/models"
)

type Repository interface {
	// Transaction runs fn against a repository bound to one database
	// transaction. Every queue mutation and its recompute go through
	// here so positions are never visible half-updated.
	Transaction(ctx context.Context, fn func(Repository) error) error

	// -------- Shop --------
	GetShopByID(
		ctx context.Context,
		id uint,
	) (*models.Shop, error)

	// GetShopForUpdate locks the shop row, serializing concurrent
	// queue mutations for the same shop.
	GetShopForUpdate(
		ctx context.Context,
		id uint,
	) (*models.Shop, error)

	IncrementBookingCount(
		ctx context.Context,
		shopID uint,
	) error

	// -------- Booking (create / fetch) --------
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	GetBookingByID(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	GetBookingForCustomer(
		ctx context.Context,
		bookingID uint,
		customerID uint,
	) (*models.Booking, error)

	GetBookingForShop(
		ctx context.Context,
		bookingID uint,
		shopID uint,
	) (*models.Booking, error)

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// -------- Queue membership --------
	CountWaiting(
		ctx context.Context,
		shopID uint,
	) (int64, error)

	CountOpenForCustomer(
		ctx context.Context,
		shopID uint,
		customerID uint,
	) (int64, error)

	// ListWaitingBookings returns the shop's waiting bookings ordered
	// by joined_at, ties broken by insertion id.
	ListWaitingBookings(
		ctx context.Context,
		shopID uint,
	) ([]models.Booking, error)

	SetQueueFields(
		ctx context.Context,
		bookingID uint,
		position int,
		estimatedWaitMin int,
	) error
}
