package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/trekora/backend/internal/models"
)

type TourInfo struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Duration    string              `json:"duration,omitempty"`
	Price       decimal.NullDecimal `json:"price"`
	Location    string              `json:"location,omitempty"`
	ImageURL    string              `json:"image_url,omitempty"`
}

type SlotInfo struct {
	ID            int64   `json:"id"`
	SlotDate      string  `json:"slot_date"`
	SlotTime      string  `json:"slot_time,omitempty"`
	SlotEndDate   *string `json:"slot_end_date,omitempty"`
	DurationLabel *string `json:"duration_label,omitempty"`
}

type VariantInfo struct {
	ID          int64               `json:"id"`
	VariantName string              `json:"variant_name"`
	Description *string             `json:"description,omitempty"`
	Price       decimal.NullDecimal `json:"price"`
}

// BookingDetail joins the booking with its catalog context. The joined
// sections are nullable because catalog rows may have been removed after
// the booking was taken.
type BookingDetail struct {
	Booking models.Booking `json:"booking"`
	Tour    *TourInfo      `json:"tour,omitempty"`
	Slot    *SlotInfo      `json:"slot,omitempty"`
	Variant *VariantInfo   `json:"variant,omitempty"`
}

// getBookingDetail fetches one booking by ID. Direct lookup deliberately
// skips the is_deleted filter so soft-deleted rows stay reachable for
// support and audit review.
func (s *BookingService) getBookingDetail(ctx context.Context, bookingID string) (*BookingDetail, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT b.id, b.user_id, b.tour_id, b.slot_id, b.variant_id, b.seats,
		       b.tour_name, b.customer_name, b.customer_email, b.phone_number,
		       b.travel_date::text, b.total_amount, b.booking_status, b.payment_status,
		       b.settlement_status, b.is_deleted, b.created_at, b.updated_at,
		       t.id, t.title, t.description, t.duration, t.price, t.location, t.image_url,
		       s.id, s.slot_date::text, s.slot_time::text, s.slot_end_date::text, s.duration_label,
		       v.id, v.variant_name, v.description, v.price
		FROM bookings b
		LEFT JOIN tours t ON t.id = b.tour_id
		LEFT JOIN tour_slots s ON s.id = b.slot_id
		LEFT JOIN tour_slot_variants v ON v.id = b.variant_id
		WHERE b.id = $1`, bookingID)

	var (
		detail BookingDetail
		b      = &detail.Booking

		tourName, customerName, customerEmail, phoneNumber, travelDate sql.NullString

		tourID, tourTitle, tourDesc, tourDuration, tourLocation, tourImage sql.NullString
		tourPrice                                                          decimal.NullDecimal

		slotID                                        sql.NullInt64
		slotDate, slotTime, slotEndDate, slotDuration sql.NullString
		variantID                                     sql.NullInt64
		variantName, variantDesc                      sql.NullString
		variantPrice                                  decimal.NullDecimal
	)

	err := row.Scan(
		&b.ID, &b.UserID, &b.TourID, &b.SlotID, &b.VariantID, &b.Seats,
		&tourName, &customerName, &customerEmail, &phoneNumber,
		&travelDate, &b.TotalAmount, &b.BookingStatus, &b.PaymentStatus,
		&b.SettlementStatus, &b.IsDeleted, &b.CreatedAt, &b.UpdatedAt,
		&tourID, &tourTitle, &tourDesc, &tourDuration, &tourPrice, &tourLocation, &tourImage,
		&slotID, &slotDate, &slotTime, &slotEndDate, &slotDuration,
		&variantID, &variantName, &variantDesc, &variantPrice,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("fetch booking: %w", err)
	}

	b.TourName = tourName.String
	b.CustomerName = customerName.String
	b.CustomerEmail = customerEmail.String
	b.PhoneNumber = phoneNumber.String
	b.TravelDate = travelDate.String

	if tourID.Valid {
		detail.Tour = &TourInfo{
			ID:          tourID.String,
			Title:       tourTitle.String,
			Description: tourDesc.String,
			Duration:    tourDuration.String,
			Price:       tourPrice,
			Location:    tourLocation.String,
			ImageURL:    tourImage.String,
		}
	}
	if slotID.Valid {
		detail.Slot = &SlotInfo{
			ID:       slotID.Int64,
			SlotDate: slotDate.String,
			SlotTime: slotTime.String,
		}
		if slotEndDate.Valid {
			detail.Slot.SlotEndDate = &slotEndDate.String
		}
		if slotDuration.Valid {
			detail.Slot.DurationLabel = &slotDuration.String
		}
	}
	if variantID.Valid {
		detail.Variant = &VariantInfo{
			ID:          variantID.Int64,
			VariantName: variantName.String,
			Price:       variantPrice,
		}
		if variantDesc.Valid {
			detail.Variant.Description = &variantDesc.String
		}
	}

	return &detail, nil
}

type BookingFilter struct {
	UserID        string
	TourID        string
	BookingStatus string
	PaymentStatus string
}

// listBookings returns non-deleted bookings matching the filter, newest
// first. Soft-deleted rows never show up in listings.
func (s *BookingService) listBookings(ctx context.Context, filter BookingFilter) ([]models.Booking, error) {
	query := `
		SELECT id, user_id, tour_id, slot_id, variant_id, seats,
		       tour_name, customer_name, customer_email, phone_number,
		       travel_date::text, total_amount, booking_status, payment_status,
		       settlement_status, is_deleted, created_at, updated_at
		FROM bookings
		WHERE is_deleted = FALSE`
	args := []any{}
	argIndex := 1

	if filter.UserID != "" {
		query += fmt.Sprintf(" AND user_id = $%d", argIndex)
		args = append(args, filter.UserID)
		argIndex++
	}
	if filter.TourID != "" {
		query += fmt.Sprintf(" AND tour_id = $%d", argIndex)
		args = append(args, filter.TourID)
		argIndex++
	}
	if filter.BookingStatus != "" {
		query += fmt.Sprintf(" AND booking_status = $%d", argIndex)
		args = append(args, filter.BookingStatus)
		argIndex++
	}
	if filter.PaymentStatus != "" {
		query += fmt.Sprintf(" AND payment_status = $%d", argIndex)
		args = append(args, filter.PaymentStatus)
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argIndex)
	args = append(args, s.cfg.ListLimit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		var (
			b                                                              models.Booking
			tourName, customerName, customerEmail, phoneNumber, travelDate sql.NullString
		)
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.TourID, &b.SlotID, &b.VariantID, &b.Seats,
			&tourName, &customerName, &customerEmail, &phoneNumber,
			&travelDate, &b.TotalAmount, &b.BookingStatus, &b.PaymentStatus,
			&b.SettlementStatus, &b.IsDeleted, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		b.TourName = tourName.String
		b.CustomerName = customerName.String
		b.CustomerEmail = customerEmail.String
		b.PhoneNumber = phoneNumber.String
		b.TravelDate = travelDate.String
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// GetBooking returns one booking with its tour, slot and variant
// @Summary Get a booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param bookingId path string true "Booking ID"
// @Success 200 {object} BookingDetail
// @Failure 404 {object} ErrorResponse
// @Router /bookings/{bookingId} [get]
func (s *BookingService) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	if bookingID == "" {
		SendErrorResponse(w, "booking_id is required", http.StatusBadRequest, nil)
		return
	}

	detail, err := s.getBookingDetail(r.Context(), bookingID)
	if err != nil {
		log.Printf("[BOOKING] Fetch failed for %s: %v", bookingID, err)
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}

// ListBookings lists non-deleted bookings
// @Summary List bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "Filter by user"
// @Param tour_id query string false "Filter by tour"
// @Param booking_status query string false "Filter by booking status"
// @Param payment_status query string false "Filter by payment status"
// @Success 200 {array} models.Booking
// @Router /bookings [get]
func (s *BookingService) ListBookings(w http.ResponseWriter, r *http.Request) {
	filter := BookingFilter{
		UserID:        r.URL.Query().Get("user_id"),
		TourID:        r.URL.Query().Get("tour_id"),
		BookingStatus: r.URL.Query().Get("booking_status"),
		PaymentStatus: r.URL.Query().Get("payment_status"),
	}

	bookings, err := s.listBookings(r.Context(), filter)
	if err != nil {
		log.Printf("[BOOKING] List failed: %v", err)
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bookings)
}

// GetBookingAudit returns the audit trail for a booking
// @Summary Get booking audit trail
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param bookingId path string true "Booking ID"
// @Success 200 {array} models.AuditLogEntry
// @Router /bookings/{bookingId}/audit [get]
func (s *BookingService) GetBookingAudit(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	if bookingID == "" {
		SendErrorResponse(w, "booking_id is required", http.StatusBadRequest, nil)
		return
	}

	entries, err := s.audit.ListForEntity(r.Context(), s.db, models.AuditEntityBooking, bookingID)
	if err != nil {
		log.Printf("[BOOKING] Audit fetch failed for %s: %v", bookingID, err)
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// ListCancelledBookings lists cancelled, non-deleted bookings
// @Summary List cancelled bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "Filter by user"
// @Param tour_id query string false "Filter by tour"
// @Success 200 {array} models.Booking
// @Router /bookings/cancelled [get]
func (s *BookingService) ListCancelledBookings(w http.ResponseWriter, r *http.Request) {
	filter := BookingFilter{
		UserID:        r.URL.Query().Get("user_id"),
		TourID:        r.URL.Query().Get("tour_id"),
		BookingStatus: models.BookingStatusCancelled,
	}

	bookings, err := s.listBookings(r.Context(), filter)
	if err != nil {
		log.Printf("[BOOKING] List cancelled failed: %v", err)
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bookings)
}
