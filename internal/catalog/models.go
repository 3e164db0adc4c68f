package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Tour is a bookable package from the read-only catalog. The booking flow
// consumes tours as reference data; nothing in this service mutates them
// outside of seeding.
type Tour struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Reference        string    `gorm:"unique;not null" json:"reference"`
	Name             string    `gorm:"not null" json:"name"`
	Description      string    `json:"description"`
	Country          string    `gorm:"type:varchar(2)" json:"country"`
	BasePackagePrice float64   `gorm:"not null" json:"base_package_price"`
	DefaultDuration  int       `gorm:"not null;default:7" json:"default_duration_days"`
	Active           bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Relationships
	Options []TourOption `json:"options,omitempty" gorm:"foreignKey:TourID;constraint:OnDelete:CASCADE;"`
}

// TourOption is a displayable optional activity or add-on attached to a
// tour. Prices shown here are informational; the pricing engine's tariff
// table is the source of truth at quote time.
type TourOption struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TourID    uuid.UUID `gorm:"type:uuid;index;not null" json:"tour_id"`
	Code      string    `gorm:"not null" json:"code"`
	Name      string    `gorm:"not null" json:"name"`
	Kind      string    `gorm:"type:varchar(20);check:kind IN ('ACTIVITY', 'ADDON')" json:"kind"`
	UnitPrice float64   `gorm:"not null" json:"unit_price"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName sets the table name for Tour
func (Tour) TableName() string {
	return "tours"
}

// TableName sets the table name for TourOption
func (TourOption) TableName() string {
	return "tour_options"
}
