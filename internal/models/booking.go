package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking statuses. Transitions only move forward: CONFIRMED -> CANCELLED.
const (
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCancelled = "CANCELLED"
)

// Payment statuses cached on the booking row. This is a last-write-wins
// summary derived from the most recent payment or refund, not a fold over
// the ledger (see LedgerService.recordPayment).
const (
	PaymentStatusUnpaid          = "UNPAID"
	PaymentStatusPartiallyPaid   = "PARTIALLY_PAID"
	PaymentStatusPaid            = "PAID"
	PaymentStatusRefundInitiated = "REFUND_INITIATED"
	PaymentStatusRefunded        = "REFUNDED"
)

const (
	SettlementStatusNotSettled = "NOT_SETTLED"
	SettlementStatusSettled    = "SETTLED"
)

// Booking is the core aggregate. A booking's seats count against its
// variant's capacity only while BookingStatus is CONFIRMED and IsDeleted is
// false. Rows are never physically removed; cancellation and deletion are
// status flips.
type Booking struct {
	ID               string          `json:"id" db:"id"`
	UserID           string          `json:"user_id" db:"user_id"`
	TourID           string          `json:"tour_id" db:"tour_id"`
	SlotID           int64           `json:"slot_id" db:"slot_id"`
	VariantID        int64           `json:"variant_id" db:"variant_id"`
	Seats            int             `json:"seats" db:"seats"`
	TourName         string          `json:"tour_name,omitempty" db:"tour_name"`
	CustomerName     string          `json:"customer_name,omitempty" db:"customer_name"`
	CustomerEmail    string          `json:"customer_email,omitempty" db:"customer_email"`
	PhoneNumber      string          `json:"phone_number,omitempty" db:"phone_number"`
	TravelDate       string          `json:"travel_date,omitempty" db:"travel_date"`
	TotalAmount      decimal.Decimal `json:"total_amount" db:"total_amount"`
	BookingStatus    string          `json:"booking_status" db:"booking_status"`
	PaymentStatus    string          `json:"payment_status" db:"payment_status"`
	SettlementStatus string          `json:"settlement_status" db:"settlement_status"`
	IsDeleted        bool            `json:"is_deleted" db:"is_deleted"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// Occupying reports whether this booking's seats count against variant
// capacity.
func (b *Booking) Occupying() bool {
	return b.BookingStatus == BookingStatusConfirmed && !b.IsDeleted
}
