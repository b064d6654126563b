package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// AvailabilityService derives remaining variant capacity from the bookings
// that justify it. Availability is never stored; every read is live so it
// cannot drift from the booking rows.
type AvailabilityService struct {
	db *sql.DB
}

func NewAvailabilityService(db *sql.DB) *AvailabilityService {
	return &AvailabilityService{db: db}
}

// AvailableSeatsTx locks the variant row and returns its capacity and the
// seats still available. The lock is held for the remainder of tx, so two
// concurrent reservations against the same variant serialize here and
// neither can act on a stale count.
func (s *AvailabilityService) AvailableSeatsTx(ctx context.Context, tx *sql.Tx, variantID int64) (capacity, available int, err error) {
	err = tx.QueryRowContext(ctx,
		`SELECT capacity FROM tour_slot_variants WHERE id = $1 FOR UPDATE`,
		variantID).Scan(&capacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, ErrVariantNotFound
		}
		return 0, 0, fmt.Errorf("lock variant: %w", err)
	}

	var booked int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(seats), 0)
		FROM bookings
		WHERE variant_id = $1 AND booking_status = 'CONFIRMED' AND is_deleted = FALSE`,
		variantID).Scan(&booked)
	if err != nil {
		return 0, 0, fmt.Errorf("sum booked seats: %w", err)
	}

	return capacity, capacity - booked, nil
}

// VariantAvailability is the public availability snapshot for one variant.
type VariantAvailability struct {
	VariantID      int64  `json:"variant_id"`
	VariantName    string `json:"variant_name"`
	Capacity       int    `json:"capacity"`
	AvailableSeats int    `json:"available_seats"`
	Availability   string `json:"availability"`
}

// Snapshot computes availability without a lock. Suitable for display only;
// reservations must go through AvailableSeatsTx.
func (s *AvailabilityService) Snapshot(ctx context.Context, variantID int64) (*VariantAvailability, error) {
	var snap VariantAvailability
	err := s.db.QueryRowContext(ctx, `
		SELECT v.id, v.variant_name, v.capacity,
		       v.capacity - COALESCE(SUM(CASE WHEN b.booking_status = 'CONFIRMED' AND b.is_deleted = FALSE THEN b.seats ELSE 0 END), 0) AS available_seats
		FROM tour_slot_variants v
		LEFT JOIN bookings b ON b.variant_id = v.id
		WHERE v.id = $1
		GROUP BY v.id, v.variant_name, v.capacity`,
		variantID).Scan(&snap.VariantID, &snap.VariantName, &snap.Capacity, &snap.AvailableSeats)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("fetch availability: %w", err)
	}

	snap.Availability = "Sold Out"
	if snap.AvailableSeats > 0 {
		snap.Availability = "Available"
	}
	return &snap, nil
}

// GetAvailability returns the availability snapshot for a variant
// @Summary Get variant availability
// @Description Remaining seats for a slot variant, derived from confirmed bookings
// @Tags availability
// @Produce json
// @Param variantId path int true "Variant ID"
// @Success 200 {object} VariantAvailability
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /variants/{variantId}/availability [get]
func (s *AvailabilityService) GetAvailability(w http.ResponseWriter, r *http.Request) {
	variantID, err := strconv.ParseInt(chi.URLParam(r, "variantId"), 10, 64)
	if err != nil || variantID <= 0 {
		SendErrorResponse(w, "Valid variant ID is required", http.StatusBadRequest, nil)
		return
	}

	snap, err := s.Snapshot(r.Context(), variantID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}
