package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TourSlot is a bookable date/time instance of a tour. Slots are created by
// catalog management and read-only to the booking core.
type TourSlot struct {
	ID            int64     `json:"id" db:"id"`
	TourID        string    `json:"tour_id" db:"tour_id"`
	SlotDate      string    `json:"slot_date" db:"slot_date"` // YYYY-MM-DD
	SlotTime      string    `json:"slot_time" db:"slot_time"` // HH:MM:SS
	SlotEndDate   *string   `json:"slot_end_date,omitempty" db:"slot_end_date"`
	DurationLabel *string   `json:"duration_label,omitempty" db:"duration_label"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// SlotVariant is a priced capacity unit within a slot. Capacity is fixed at
// creation and never decremented in place; availability is always derived
// from the bookings that reference the variant.
type SlotVariant struct {
	ID          int64           `json:"id" db:"id"`
	SlotID      int64           `json:"slot_id" db:"slot_id"`
	VariantName string          `json:"variant_name" db:"variant_name"`
	Description *string         `json:"description,omitempty" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Capacity    int             `json:"capacity" db:"capacity"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}
