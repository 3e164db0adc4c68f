package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepo struct {
	tours map[string]*Tour
}

func (f *fakeRepo) ListActive(ctx context.Context) ([]Tour, error) {
	var active []Tour
	for _, tour := range f.tours {
		if tour.Active {
			active = append(active, *tour)
		}
	}
	return active, nil
}

func (f *fakeRepo) GetByReference(ctx context.Context, reference string) (*Tour, error) {
	tour, ok := f.tours[reference]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return tour, nil
}

func (f *fakeRepo) Create(ctx context.Context, tour *Tour) error {
	f.tours[tour.Reference] = tour
	return nil
}

func testRepo() *fakeRepo {
	return &fakeRepo{tours: map[string]*Tour{
		"bali-discovery": {Reference: "bali-discovery", Name: "Bali Discovery", BasePackagePrice: 1200, DefaultDuration: 7, Active: true},
		"retired-tour":   {Reference: "retired-tour", Name: "Retired Tour", BasePackagePrice: 900, DefaultDuration: 5, Active: false},
	}}
}

func TestGetTourByReference(t *testing.T) {
	svc := NewService(testRepo(), nil)

	tour, err := svc.GetTourByReference(context.Background(), "bali-discovery")
	require.NoError(t, err)
	assert.Equal(t, "Bali Discovery", tour.Name)
	assert.Equal(t, 1200.0, tour.BasePackagePrice)
}

func TestGetTourByReference_NotFound(t *testing.T) {
	svc := NewService(testRepo(), nil)

	_, err := svc.GetTourByReference(context.Background(), "atlantis-cruise")
	assert.ErrorIs(t, err, ErrTourNotFound)
}

func TestGetTourByReference_InactiveHidden(t *testing.T) {
	svc := NewService(testRepo(), nil)

	_, err := svc.GetTourByReference(context.Background(), "retired-tour")
	assert.ErrorIs(t, err, ErrTourNotFound)
}

func TestListTours_OnlyActive(t *testing.T) {
	svc := NewService(testRepo(), nil)

	tours, err := svc.ListTours(context.Background())
	require.NoError(t, err)
	require.Len(t, tours, 1)
	assert.Equal(t, "bali-discovery", tours[0].Reference)
}
