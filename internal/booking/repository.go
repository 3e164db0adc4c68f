package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists finalized booking records
type Repository interface {
	Create(ctx context.Context, record *BookingRecord) error
	GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*BookingRecord, error)
	GetByBookingRef(ctx context.Context, bookingRef string) (*BookingRecord, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, record *BookingRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*BookingRecord, error) {
	var record BookingRecord
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *repository) GetByBookingRef(ctx context.Context, bookingRef string) (*BookingRecord, error) {
	var record BookingRecord
	err := r.db.WithContext(ctx).Where("booking_ref = ?", bookingRef).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}
