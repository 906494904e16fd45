package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/klmalviya77/trimtime-queue-master/internal/domain/queue"
	"github.com/klmalviya77/trimtime-queue-master/internal/models"
)

type QueueGormRepository struct {
	db *gorm.DB
}

func NewQueueGormRepository(db *gorm.DB) *QueueGormRepository {
	return &QueueGormRepository{db: db}
}

// Transaction binds a repository to a single gorm transaction so a
// status mutation and the position recompute commit together.
func (r *QueueGormRepository) Transaction(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&QueueGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Shop
// --------------------------------------------------

func (r *QueueGormRepository) GetShopByID(
	ctx context.Context,
	id uint,
) (*models.Shop, error) {

	var shop models.Shop
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *QueueGormRepository) GetShopForUpdate(
	ctx context.Context,
	id uint,
) (*models.Shop, error) {

	q := r.db.WithContext(ctx)

	// sqlite has no row locks; its single writer already serializes.
	if r.db.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var shop models.Shop
	if err := q.First(&shop, id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *QueueGormRepository) IncrementBookingCount(
	ctx context.Context,
	shopID uint,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("id = ?", shopID).
		UpdateColumn("booking_count", gorm.Expr("booking_count + 1")).Error
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func (r *QueueGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *QueueGormRepository) GetBookingByID(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *QueueGormRepository) GetBookingForCustomer(
	ctx context.Context,
	bookingID uint,
	customerID uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", bookingID, customerID).
		First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *QueueGormRepository) GetBookingForShop(
	ctx context.Context,
	bookingID uint,
	shopID uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Where("id = ? AND shop_id = ?", bookingID, shopID).
		First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *QueueGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// --------------------------------------------------
// Queue membership
// --------------------------------------------------

func (r *QueueGormRepository) CountWaiting(
	ctx context.Context,
	shopID uint,
) (int64, error) {

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("shop_id = ? AND status = ?", shopID, string(domain.StatusWaiting)).
		Count(&count).Error
	return count, err
}

func (r *QueueGormRepository) CountOpenForCustomer(
	ctx context.Context,
	shopID uint,
	customerID uint,
) (int64, error) {

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(
			"shop_id = ? AND customer_id = ? AND status IN ?",
			shopID,
			customerID,
			[]string{string(domain.StatusWaiting), string(domain.StatusInProgress)},
		).
		Count(&count).Error
	return count, err
}

func (r *QueueGormRepository) ListWaitingBookings(
	ctx context.Context,
	shopID uint,
) ([]models.Booking, error) {

	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND status = ?", shopID, string(domain.StatusWaiting)).
		Order("joined_at ASC, id ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *QueueGormRepository) SetQueueFields(
	ctx context.Context,
	bookingID uint,
	position int,
	estimatedWaitMin int,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Updates(map[string]any{
			"queue_position":     position,
			"estimated_wait_min": estimatedWaitMin,
		}).Error
}

// Compile-time check
var _ domain.Repository = (*QueueGormRepository)(nil)
