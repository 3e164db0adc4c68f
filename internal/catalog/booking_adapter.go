package catalog

import (
	"context"
	"errors"

	"tourly/internal/booking"
)

// bookingAdapter exposes the catalog to the booking flow behind its own
// narrow interface
type bookingAdapter struct {
	service Service
}

// NewBookingAdapter wraps the catalog service as a booking.CatalogService
func NewBookingAdapter(service Service) booking.CatalogService {
	return &bookingAdapter{service: service}
}

func (a *bookingAdapter) GetTourInfo(ctx context.Context, reference string) (*booking.TourInfo, error) {
	tour, err := a.service.GetTourByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, ErrTourNotFound) {
			return nil, booking.ErrTourNotFound
		}
		return nil, err
	}

	return &booking.TourInfo{
		Reference:        tour.Reference,
		Name:             tour.Name,
		BasePackagePrice: tour.BasePackagePrice,
		DefaultDuration:  tour.DefaultDuration,
	}, nil
}
