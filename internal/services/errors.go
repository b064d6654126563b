package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"
)

// Sentinel errors returned by the booking core. Handlers translate them to
// HTTP status codes; anything else is treated as a storage failure.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrSlotNotFound    = errors.New("slot not found")
	ErrVariantNotFound = errors.New("variant not found")
	ErrBookingNotFound = errors.New("booking not found or deleted")
	ErrRefundNotFound  = errors.New("refund not found")
	ErrVoucherInvalid  = errors.New("voucher invalid or expired")
	ErrConflict        = errors.New("duplicate record")
)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// CapacityError reports a reservation attempt that exceeds a variant's
// remaining capacity. It carries the counts for client display.
type CapacityError struct {
	Available int
	Requested int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("not enough available seats: %d available, %d requested", e.Available, e.Requested)
}

// writeServiceError maps a core error onto an HTTP response. Validation
// errors never reach this point; they are rejected before a transaction is
// opened.
func writeServiceError(w http.ResponseWriter, err error) {
	var capErr *CapacityError
	switch {
	case errors.As(err, &capErr):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error":           "Not enough available seats",
			"available_seats": capErr.Available,
			"requested_seats": capErr.Requested,
		})
	case errors.Is(err, ErrSlotNotFound),
		errors.Is(err, ErrVariantNotFound),
		errors.Is(err, ErrBookingNotFound),
		errors.Is(err, ErrRefundNotFound):
		SendErrorResponse(w, err.Error(), http.StatusNotFound, nil)
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrVoucherInvalid):
		SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
	case errors.Is(err, ErrConflict):
		SendErrorResponse(w, err.Error(), http.StatusConflict, nil)
	default:
		SendErrorResponse(w, "Failed to process request", http.StatusInternalServerError, nil)
	}
}
