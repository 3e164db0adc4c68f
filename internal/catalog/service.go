package catalog

import (
	"context"
	"errors"
	"fmt"

	"tourly/internal/shared/constants"
	"tourly/pkg/cache"

	"gorm.io/gorm"
)

// ErrTourNotFound is returned when a reference matches no active tour
var ErrTourNotFound = errors.New("tour not found")

// Service interface defines the contract for catalog reads
type Service interface {
	ListTours(ctx context.Context) ([]Tour, error)
	GetTourByReference(ctx context.Context, reference string) (*Tour, error)
}

type service struct {
	repo  Repository
	cache cache.Service
}

// NewService creates a new catalog service. The cache may be nil; reads
// then go straight to the database.
func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
	}
}

func (s *service) ListTours(ctx context.Context) ([]Tour, error) {
	if s.cache == nil {
		return s.repo.ListActive(ctx)
	}

	var tours []Tour
	err := s.cache.GetOrSet(ctx, constants.TourListCacheKey(), constants.TTLCatalogList,
		func() (interface{}, error) {
			return s.repo.ListActive(ctx)
		}, &tours)
	if err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}
	return tours, nil
}

func (s *service) GetTourByReference(ctx context.Context, reference string) (*Tour, error) {
	fetch := func() (interface{}, error) {
		tour, err := s.repo.GetByReference(ctx, reference)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTourNotFound
			}
			return nil, fmt.Errorf("failed to get tour %s: %w", reference, err)
		}
		if !tour.Active {
			return nil, ErrTourNotFound
		}
		return tour, nil
	}

	if s.cache == nil {
		tour, err := fetch()
		if err != nil {
			return nil, err
		}
		return tour.(*Tour), nil
	}

	var tour Tour
	err := s.cache.GetOrSet(ctx, constants.TourCacheKey(reference), constants.TTLCatalogTour,
		fetch, &tour)
	if err != nil {
		return nil, err
	}
	return &tour, nil
}
