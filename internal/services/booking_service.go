package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trekora/backend/internal/config"
	"github.com/trekora/backend/internal/database"
	"github.com/trekora/backend/internal/models"
)

// BookingService orchestrates the booking lifecycle: creation behind the
// capacity check, cancellation, and soft deletion. Every mutation runs in
// one transaction together with its audit row; the confirmation
// notification runs detached after commit and can never roll a booking
// back.
type BookingService struct {
	db           *sql.DB
	availability *AvailabilityService
	audit        *AuditRecorder
	notifier     Notifier
	validator    *ValidationHelper
	cfg          *config.BookingConfig
}

func NewBookingService(db *sql.DB, notifier Notifier, cfg *config.BookingConfig) *BookingService {
	return &BookingService{
		db:           db,
		availability: NewAvailabilityService(db),
		audit:        NewAuditRecorder(),
		notifier:     notifier,
		validator:    NewValidationHelper(),
		cfg:          cfg,
	}
}

type CreateBookingRequest struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id" validate:"required"`
	TourID        string          `json:"tour_id" validate:"required"`
	SlotID        int64           `json:"slot_id" validate:"required"`
	VariantID     int64           `json:"variant_id" validate:"required"`
	Seats         int             `json:"seats" validate:"required,gt=0"`
	TourName      string          `json:"tour_name"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email" validate:"omitempty,email"`
	PhoneNumber   string          `json:"phone_number"`
	TravelDate    string          `json:"travel_date"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PerformedBy   *string         `json:"performed_by"`
}

// createBooking reserves seats and inserts the booking. The variant row
// stays locked from the availability read through the insert, so
// concurrent creates against the same variant cannot both pass the
// capacity check for seats that together exceed it.
func (s *BookingService) createBooking(ctx context.Context, req *CreateBookingRequest) (*models.Booking, error) {
	if req.Seats <= 0 {
		return nil, fmt.Errorf("%w: seats must be greater than 0", ErrInvalidArgument)
	}

	booking := &models.Booking{
		ID:               req.ID,
		UserID:           req.UserID,
		TourID:           req.TourID,
		SlotID:           req.SlotID,
		VariantID:        req.VariantID,
		Seats:            req.Seats,
		TourName:         req.TourName,
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		PhoneNumber:      req.PhoneNumber,
		TravelDate:       req.TravelDate,
		TotalAmount:      req.TotalAmount,
		BookingStatus:    models.BookingStatusConfirmed,
		PaymentStatus:    models.PaymentStatusUnpaid,
		SettlementStatus: models.SettlementStatusNotSettled,
		IsDeleted:        false,
	}
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}

	actor := req.PerformedBy
	if actor == nil {
		actor = &req.UserID
	}

	err := database.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		var slotID int64
		if err := tx.QueryRowContext(ctx,
			`SELECT id FROM tour_slots WHERE id = $1`, req.SlotID).Scan(&slotID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("verify slot: %w", err)
		}

		_, available, err := s.availability.AvailableSeatsTx(ctx, tx, req.VariantID)
		if err != nil {
			return err
		}
		if available < req.Seats {
			return &CapacityError{Available: available, Requested: req.Seats}
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO bookings (id, user_id, tour_id, slot_id, variant_id, seats,
			                      tour_name, customer_name, customer_email, phone_number,
			                      travel_date, total_amount, booking_status, payment_status,
			                      settlement_status, is_deleted)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			booking.ID, booking.UserID, booking.TourID, booking.SlotID, booking.VariantID, booking.Seats,
			nullString(booking.TourName), nullString(booking.CustomerName), nullString(booking.CustomerEmail),
			nullString(booking.PhoneNumber), nullString(booking.TravelDate), booking.TotalAmount,
			booking.BookingStatus, booking.PaymentStatus, booking.SettlementStatus, booking.IsDeleted,
		); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: booking id already exists", ErrConflict)
			}
			return fmt.Errorf("insert booking: %w", err)
		}

		_, err = s.audit.RecordTx(ctx, tx, AuditEntry{
			EntityType:  models.AuditEntityBooking,
			EntityID:    booking.ID,
			ActionType:  models.AuditActionCreate,
			NewData:     booking,
			PerformedBy: actor,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return booking, nil
}

// cancelBooking flips booking_status to CANCELLED. The row is never
// deleted; because availability only counts CONFIRMED bookings, the seats
// are implicitly freed for future reservations.
func (s *BookingService) cancelBooking(ctx context.Context, bookingID string, performedBy *string) error {
	return database.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		var oldBookingStatus, oldPaymentStatus string
		err := tx.QueryRowContext(ctx, `
			SELECT booking_status, payment_status FROM bookings
			WHERE id = $1 AND is_deleted = FALSE`,
			bookingID).Scan(&oldBookingStatus, &oldPaymentStatus)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("load booking: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE bookings SET booking_status = $1, updated_at = NOW() WHERE id = $2`,
			models.BookingStatusCancelled, bookingID); err != nil {
			return fmt.Errorf("cancel booking: %w", err)
		}

		_, err = s.audit.RecordTx(ctx, tx, AuditEntry{
			EntityType: models.AuditEntityBooking,
			EntityID:   bookingID,
			ActionType: models.AuditActionCancel,
			OldData: map[string]any{
				"booking_status": oldBookingStatus,
				"payment_status": oldPaymentStatus,
			},
			NewData: map[string]any{
				"booking_status": models.BookingStatusCancelled,
			},
			PerformedBy: performedBy,
		})
		return err
	})
}

// softDeleteBooking marks the row deleted without removing it. Distinct
// from cancellation: either flag on its own stops the seats counting
// against capacity.
func (s *BookingService) softDeleteBooking(ctx context.Context, bookingID string, performedBy *string) error {
	return database.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		var oldBookingStatus string
		err := tx.QueryRowContext(ctx, `
			SELECT booking_status FROM bookings
			WHERE id = $1 AND is_deleted = FALSE`,
			bookingID).Scan(&oldBookingStatus)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("load booking: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE bookings SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1`,
			bookingID); err != nil {
			return fmt.Errorf("soft delete booking: %w", err)
		}

		_, err = s.audit.RecordTx(ctx, tx, AuditEntry{
			EntityType: models.AuditEntityBooking,
			EntityID:   bookingID,
			ActionType: models.AuditActionUpdate,
			OldData: map[string]any{
				"booking_status": oldBookingStatus,
				"is_deleted":     false,
			},
			NewData: map[string]any{
				"is_deleted": true,
			},
			PerformedBy: performedBy,
		})
		return err
	})
}

// CreateBooking creates a booking after an atomic capacity check
// @Summary Create a booking
// @Description Reserve seats in a slot variant; fails when remaining capacity is insufficient
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param booking body CreateBookingRequest true "Booking data"
// @Success 201 {object} object{message=string,id=string}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /bookings [post]
func (s *BookingService) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := DecodeJSONBody(w, r, s.cfg.RequestBodyMaxBytes, &req); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := s.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	if req.PerformedBy == nil {
		req.PerformedBy = actorFromContext(r.Context())
	}

	booking, err := s.createBooking(r.Context(), &req)
	if err != nil {
		log.Printf("[BOOKING] Create failed: %v", err)
		writeServiceError(w, err)
		return
	}

	// Confirmation mail is best-effort: it runs detached from the
	// committed transaction and its failure is logged, never surfaced.
	go s.sendConfirmation(booking)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"message": "Booking created successfully",
		"id":      booking.ID,
	})
}

// CancelBooking cancels a booking
// @Summary Cancel a booking
// @Description Set booking_status to CANCELLED; seats are freed implicitly
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param bookingId path string true "Booking ID"
// @Success 200 {object} object{message=string,booking_id=string}
// @Failure 404 {object} ErrorResponse
// @Router /bookings/{bookingId}/cancel [post]
func (s *BookingService) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	if bookingID == "" {
		SendErrorResponse(w, "booking_id is required", http.StatusBadRequest, nil)
		return
	}

	if err := s.cancelBooking(r.Context(), bookingID, actorFromContext(r.Context())); err != nil {
		log.Printf("[BOOKING] Cancel failed for %s: %v", bookingID, err)
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message":    "Booking cancelled",
		"booking_id": bookingID,
	})
}

// DeleteBooking soft-deletes a booking
// @Summary Soft-delete a booking
// @Description Mark the booking deleted; the row is retained for audit
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param bookingId path string true "Booking ID"
// @Success 200 {object} object{message=string,booking_id=string}
// @Failure 404 {object} ErrorResponse
// @Router /bookings/{bookingId} [delete]
func (s *BookingService) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	if bookingID == "" {
		SendErrorResponse(w, "booking_id is required", http.StatusBadRequest, nil)
		return
	}

	if err := s.softDeleteBooking(r.Context(), bookingID, actorFromContext(r.Context())); err != nil {
		log.Printf("[BOOKING] Soft delete failed for %s: %v", bookingID, err)
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message":    "Booking deleted successfully",
		"booking_id": bookingID,
	})
}

func actorFromContext(ctx context.Context) *string {
	if userID, ok := ctx.Value("userID").(string); ok && userID != "" {
		return &userID
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *BookingService) sendConfirmation(b *models.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	recipient := strings.TrimSpace(b.CustomerEmail)
	if recipient == "" {
		recipient = s.lookupUserEmail(ctx, b.UserID)
	}
	if recipient == "" {
		log.Printf("[NOTIFY] No recipient for booking %s, skipping confirmation", b.ID)
		return
	}

	label := formatTravelDate(b.TravelDate)
	if label == "" {
		label = s.slotDateTimeLabel(ctx, b.SlotID)
	}
	if label == "" {
		label = "See booking details for date and time."
	}

	msg := BookingConfirmation{
		Recipient:     recipient,
		BookingID:     b.ID,
		Seats:         b.Seats,
		DateTimeLabel: label,
		TourName:      b.TourName,
		TotalAmount:   b.TotalAmount,
	}
	if err := s.notifier.SendBookingConfirmation(ctx, msg); err != nil {
		log.Printf("[NOTIFY] Booking confirmation failed for %s: %v", b.ID, err)
	}
}

func (s *BookingService) lookupUserEmail(ctx context.Context, userID string) string {
	if userID == "" {
		return ""
	}
	var email sql.NullString
	if err := s.db.QueryRowContext(ctx,
		`SELECT email FROM users WHERE uid = $1`, userID).Scan(&email); err != nil {
		return ""
	}
	return email.String
}

func (s *BookingService) slotDateTimeLabel(ctx context.Context, slotID int64) string {
	var slotDate, slotTime sql.NullString
	if err := s.db.QueryRowContext(ctx,
		`SELECT slot_date::text, slot_time::text FROM tour_slots WHERE id = $1`, slotID).Scan(&slotDate, &slotTime); err != nil {
		return ""
	}
	return formatSlotDateTime(slotDate.String, slotTime.String)
}

func formatTravelDate(travelDate string) string {
	if travelDate == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, travelDate); err == nil {
			if layout == "2006-01-02" {
				return t.Format("2 Jan 2006")
			}
			return t.Format("2 Jan 2006 at 3:04 PM")
		}
	}
	return ""
}

func formatSlotDateTime(slotDate, slotTime string) string {
	if slotDate == "" {
		return ""
	}
	if slotTime != "" {
		if t, err := time.Parse("2006-01-02 15:04:05", slotDate+" "+slotTime); err == nil {
			return t.Format("2 Jan 2006 at 3:04 PM")
		}
	}
	if t, err := time.Parse("2006-01-02", slotDate); err == nil {
		return t.Format("2 Jan 2006")
	}
	return slotDate
}
