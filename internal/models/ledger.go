package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledger entry types.
const (
	TransactionTypePayment    = "PAYMENT"
	TransactionTypeRefund     = "REFUND"
	TransactionTypeAdjustment = "ADJUSTMENT"
)

// Payment methods accepted on ledger entries.
const (
	PaymentMethodOnline       = "ONLINE"
	PaymentMethodManual       = "MANUAL"
	PaymentMethodUPI          = "UPI"
	PaymentMethodCard         = "CARD"
	PaymentMethodBankTransfer = "BANK_TRANSFER"
)

// Ledger entry statuses.
const (
	LedgerStatusPending = "PENDING"
	LedgerStatusSuccess = "SUCCESS"
)

// LedgerEntry is an immutable record of one money movement tied to a
// booking. Entries are append-only: no operation ever updates or deletes a
// row after insert. The financial picture of a booking is the fold over its
// entries; the booking's payment_status column is only a cached summary.
type LedgerEntry struct {
	ID              string          `json:"id" db:"id"`
	BookingID       string          `json:"booking_id" db:"booking_id"`
	TransactionType string          `json:"transaction_type" db:"transaction_type"`
	PaymentMethod   string          `json:"payment_method" db:"payment_method"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	Status          string          `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// Refund statuses.
const (
	RefundStatusRequested = "REQUESTED"
	RefundStatusApproved  = "APPROVED"
	RefundStatusProcessed = "PROCESSED"
	RefundStatusRejected  = "REJECTED"
)

// Refund records money returned against a booking. A refund row pairs with
// one REFUND ledger entry.
type Refund struct {
	ID        string          `json:"id" db:"id"`
	BookingID string          `json:"booking_id" db:"booking_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Reason    *string         `json:"reason,omitempty" db:"reason"`
	Status    string          `json:"status" db:"status"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// Settlement row statuses.
const (
	SettlementRowStatusPending = "PENDING"
)

// Settlement is a vendor payout accounting row. Settlements are insert-only:
// an adjustment creates a new row instead of mutating an existing one, so
// the full payout history per booking is preserved.
type Settlement struct {
	ID            string          `json:"id" db:"id"`
	BookingID     string          `json:"booking_id" db:"booking_id"`
	GrossAmount   decimal.Decimal `json:"gross_amount" db:"gross_amount"`
	VendorCost    decimal.Decimal `json:"vendor_cost" db:"vendor_cost"`
	Commission    decimal.Decimal `json:"commission" db:"commission"`
	ProcessingFee decimal.Decimal `json:"processing_fee" db:"processing_fee"`
	Deduction     decimal.Decimal `json:"deduction" db:"deduction"`
	NetAmount     decimal.Decimal `json:"net_amount" db:"net_amount"`
	Status        string          `json:"status" db:"status"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}
