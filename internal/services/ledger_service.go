package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trekora/backend/internal/config"
	"github.com/trekora/backend/internal/database"
	"github.com/trekora/backend/internal/models"
)

// LedgerService keeps the append-only money trail for bookings. Payments,
// refunds and adjustments each add transaction rows inside one database
// transaction together with the booking status update and the audit
// entry. Ledger rows are never updated or deleted.
type LedgerService struct {
	db        *sql.DB
	audit     *AuditRecorder
	validator *ValidationHelper
	cfg       *config.BookingConfig
}

func NewLedgerService(db *sql.DB, cfg *config.BookingConfig) *LedgerService {
	return &LedgerService{
		db:        db,
		audit:     NewAuditRecorder(),
		validator: NewValidationHelper(),
		cfg:       cfg,
	}
}

type PaymentRequest struct {
	BookingID        string          `json:"booking_id" validate:"required"`
	Amount           decimal.Decimal `json:"amount"`
	PaymentMethod    string          `json:"payment_method" validate:"required,oneof=ONLINE MANUAL UPI CARD BANK_TRANSFER"`
	SetPaymentStatus *string         `json:"set_payment_status" validate:"omitempty,oneof=UNPAID PARTIALLY_PAID PAID REFUND_INITIATED REFUNDED"`
	PerformedBy      *string         `json:"performed_by"`
}

type PaymentResult struct {
	TransactionID string `json:"transaction_id"`
	PaymentStatus string `json:"payment_status"`
}

// recordPayment appends a PAYMENT ledger row and moves payment_status.
// The derived status compares this payment alone against the booking
// total, not the sum of prior payments; callers that track running
// totals pass SetPaymentStatus to override.
func (s *LedgerService) recordPayment(ctx context.Context, req *PaymentRequest) (*PaymentResult, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than 0", ErrInvalidArgument)
	}

	result := &PaymentResult{TransactionID: uuid.NewString()}

	err := database.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		var totalAmount decimal.Decimal
		var oldPaymentStatus string
		err := tx.QueryRowContext(ctx, `
			SELECT total_amount, payment_status FROM bookings
			WHERE id = $1 AND is_deleted = FALSE`,
			req.BookingID).Scan(&totalAmount, &oldPaymentStatus)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("load booking: %w", err)
		}

		newStatus := models.PaymentStatusPartiallyPaid
		if req.Amount.GreaterThanOrEqual(totalAmount) {
			newStatus = models.PaymentStatusPaid
		}
		if req.SetPaymentStatus != nil {
			newStatus = *req.SetPaymentStatus
		}
		result.PaymentStatus = newStatus

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (id, booking_id, transaction_type, payment_method, amount, status)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			result.TransactionID, req.BookingID, models.TransactionTypePayment,
			req.PaymentMethod, req.Amount, models.LedgerStatusSuccess,
		); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE bookings SET payment_status = $1, updated_at = NOW() WHERE id = $2`,
			newStatus, req.BookingID); err != nil {
			return fmt.Errorf("update payment status: %w", err)
		}

		_, err = s.audit.RecordTx(ctx, tx, AuditEntry{
			EntityType: models.AuditEntityBooking,
			EntityID:   req.BookingID,
			ActionType: models.AuditActionUpdate,
			OldData: map[string]any{
				"payment_status": oldPaymentStatus,
			},
			NewData: map[string]any{
				"payment_status": newStatus,
				"transaction_id": result.TransactionID,
				"amount":         req.Amount,
				"payment_method": req.PaymentMethod,
			},
			PerformedBy: req.PerformedBy,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type RefundRequest struct {
	BookingID   string          `json:"booking_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      *string         `json:"reason"`
	Status      string          `json:"status" validate:"omitempty,oneof=REQUESTED APPROVED PROCESSED REJECTED"`
	PerformedBy *string         `json:"performed_by"`
}

type RefundResult struct {
	RefundID      string `json:"refund_id"`
	TransactionID string `json:"transaction_id"`
	PaymentStatus string `json:"payment_status"`
}

// recordRefund inserts the refund record and its mirroring REFUND ledger
// row. A refund already PROCESSED lands as SUCCESS in the ledger and
// moves the booking to REFUNDED; anything earlier in the refund
// lifecycle stays PENDING with the booking at REFUND_INITIATED.
func (s *LedgerService) recordRefund(ctx context.Context, req *RefundRequest) (*RefundResult, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than 0", ErrInvalidArgument)
	}

	refundStatus := req.Status
	if refundStatus == "" {
		refundStatus = models.RefundStatusRequested
	}

	result := &RefundResult{
		RefundID:      uuid.NewString(),
		TransactionID: uuid.NewString(),
	}

	err := database.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		var oldPaymentStatus string
		err := tx.QueryRowContext(ctx, `
			SELECT payment_status FROM bookings
			WHERE id = $1 AND is_deleted = FALSE`,
			req.BookingID).Scan(&oldPaymentStatus)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("load booking: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO refunds (id, booking_id, amount, reason, status)
			VALUES ($1, $2, $3, $4, $5)`,
			result.RefundID, req.BookingID, req.Amount, req.Reason, refundStatus,
		); err != nil {
			return fmt.Errorf("insert refund: %w", err)
		}

		ledgerStatus := models.LedgerStatusPending
		newPaymentStatus := models.PaymentStatusRefundInitiated
		if refundStatus == models.RefundStatusProcessed {
			ledgerStatus = models.LedgerStatusSuccess
			newPaymentStatus = models.PaymentStatusRefunded
		}
		result.PaymentStatus = newPaymentStatus

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (id, booking_id, transaction_type, payment_method, amount, status)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			result.TransactionID, req.BookingID, models.TransactionTypeRefund,
			models.PaymentMethodManual, req.Amount, ledgerStatus,
		); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE bookings SET payment_status = $1, updated_at = NOW() WHERE id = $2`,
			newPaymentStatus, req.BookingID); err != nil {
			return fmt.Errorf("update payment status: %w", err)
		}

		_, err = s.audit.RecordTx(ctx, tx, AuditEntry{
			EntityType: models.AuditEntityRefund,
			EntityID:   result.RefundID,
			ActionType: models.AuditActionRefund,
			OldData: map[string]any{
				"payment_status": oldPaymentStatus,
			},
			NewData: map[string]any{
				"booking_id":     req.BookingID,
				"amount":         req.Amount,
				"refund_status":  refundStatus,
				"payment_status": newPaymentStatus,
				"transaction_id": result.TransactionID,
			},
			PerformedBy: req.PerformedBy,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type SettlementInput struct {
	GrossAmount   decimal.Decimal `json:"gross_amount"`
	VendorCost    decimal.Decimal `json:"vendor_cost"`
	Commission    decimal.Decimal `json:"commission"`
	ProcessingFee decimal.Decimal `json:"processing_fee"`
	Deduction     decimal.Decimal `json:"deduction"`
	NetAmount     decimal.Decimal `json:"net_amount"`
}

type AdjustmentRequest struct {
	BookingID     string           `json:"booking_id" validate:"required"`
	Amount        *decimal.Decimal `json:"amount" validate:"required"`
	PaymentMethod string           `json:"payment_method" validate:"omitempty,oneof=ONLINE MANUAL UPI CARD BANK_TRANSFER"`
	Settlement    *SettlementInput `json:"settlement"`
	PerformedBy   *string          `json:"performed_by"`
}

type AdjustmentResult struct {
	TransactionID string  `json:"transaction_id"`
	SettlementID  *string `json:"settlement_id,omitempty"`
}

// recordAdjustment appends an ADJUSTMENT ledger row. The amount may be
// negative for corrections in either direction. When settlement figures
// accompany the adjustment a PENDING settlement row is inserted too;
// settlement rows are insert-only here.
func (s *LedgerService) recordAdjustment(ctx context.Context, req *AdjustmentRequest) (*AdjustmentResult, error) {
	method := req.PaymentMethod
	if method == "" {
		method = models.PaymentMethodManual
	}

	result := &AdjustmentResult{TransactionID: uuid.NewString()}

	err := database.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		var bookingID string
		err := tx.QueryRowContext(ctx, `
			SELECT id FROM bookings
			WHERE id = $1 AND is_deleted = FALSE`,
			req.BookingID).Scan(&bookingID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("load booking: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (id, booking_id, transaction_type, payment_method, amount, status)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			result.TransactionID, req.BookingID, models.TransactionTypeAdjustment,
			method, *req.Amount, models.LedgerStatusSuccess,
		); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}

		if req.Settlement != nil {
			settlementID := uuid.NewString()
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO settlements (id, booking_id, gross_amount, vendor_cost, commission,
				                         processing_fee, deduction, net_amount, status)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				settlementID, req.BookingID,
				req.Settlement.GrossAmount, req.Settlement.VendorCost, req.Settlement.Commission,
				req.Settlement.ProcessingFee, req.Settlement.Deduction, req.Settlement.NetAmount,
				models.SettlementRowStatusPending,
			); err != nil {
				return fmt.Errorf("insert settlement: %w", err)
			}
			result.SettlementID = &settlementID
		}

		_, err = s.audit.RecordTx(ctx, tx, AuditEntry{
			EntityType: models.AuditEntityBooking,
			EntityID:   req.BookingID,
			ActionType: models.AuditActionAdjustment,
			NewData: map[string]any{
				"transaction_id": result.TransactionID,
				"amount":         req.Amount,
				"payment_method": method,
				"settlement_id":  result.SettlementID,
			},
			PerformedBy: req.PerformedBy,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecordPayment records a payment against a booking
// @Summary Record a payment
// @Description Append a PAYMENT ledger row and update the booking payment status
// @Tags ledger
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payment body PaymentRequest true "Payment data"
// @Success 201 {object} object{message=string,transaction_id=string,payment_status=string}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /payments [post]
func (s *LedgerService) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
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

	result, err := s.recordPayment(r.Context(), &req)
	if err != nil {
		log.Printf("[LEDGER] Payment failed for booking %s: %v", req.BookingID, err)
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"message":        "Payment recorded successfully",
		"transaction_id": result.TransactionID,
		"payment_status": result.PaymentStatus,
	})
}

// RecordRefund records a refund for a booking
// @Summary Record a refund
// @Description Insert a refund record with its REFUND ledger row
// @Tags ledger
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param refund body RefundRequest true "Refund data"
// @Success 201 {object} object{message=string,refund_id=string,transaction_id=string,payment_status=string}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /refunds [post]
func (s *LedgerService) RecordRefund(w http.ResponseWriter, r *http.Request) {
	var req RefundRequest
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

	result, err := s.recordRefund(r.Context(), &req)
	if err != nil {
		log.Printf("[LEDGER] Refund failed for booking %s: %v", req.BookingID, err)
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"message":        "Refund recorded successfully",
		"refund_id":      result.RefundID,
		"transaction_id": result.TransactionID,
		"payment_status": result.PaymentStatus,
	})
}

// RecordAdjustment records a manual ledger adjustment
// @Summary Record an adjustment
// @Description Append an ADJUSTMENT ledger row, optionally with settlement figures
// @Tags ledger
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param adjustment body AdjustmentRequest true "Adjustment data"
// @Success 201 {object} object{message=string,transaction_id=string}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /adjustments [post]
func (s *LedgerService) RecordAdjustment(w http.ResponseWriter, r *http.Request) {
	var req AdjustmentRequest
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

	result, err := s.recordAdjustment(r.Context(), &req)
	if err != nil {
		log.Printf("[LEDGER] Adjustment failed for booking %s: %v", req.BookingID, err)
		writeServiceError(w, err)
		return
	}

	resp := map[string]any{
		"message":        "Adjustment recorded successfully",
		"transaction_id": result.TransactionID,
	}
	if result.SettlementID != nil {
		resp["settlement_id"] = *result.SettlementID
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

func (s *LedgerService) listTransactions(ctx context.Context, bookingID, transactionType string) ([]models.LedgerEntry, error) {
	query := `
		SELECT id, booking_id, transaction_type, payment_method, amount, status, created_at
		FROM transactions
		WHERE transaction_type = $1`
	args := []any{transactionType}
	argIndex := 2

	if bookingID != "" {
		query += fmt.Sprintf(" AND booking_id = $%d", argIndex)
		args = append(args, bookingID)
		argIndex++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argIndex)
	args = append(args, s.cfg.ListLimit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	entries := []models.LedgerEntry{}
	for rows.Next() {
		var e models.LedgerEntry
		if err := rows.Scan(&e.ID, &e.BookingID, &e.TransactionType, &e.PaymentMethod,
			&e.Amount, &e.Status, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *LedgerService) listRefunds(ctx context.Context, bookingID string) ([]models.Refund, error) {
	query := `
		SELECT id, booking_id, amount, reason, status, created_at
		FROM refunds`
	args := []any{}
	argIndex := 1

	if bookingID != "" {
		query += fmt.Sprintf(" WHERE booking_id = $%d", argIndex)
		args = append(args, bookingID)
		argIndex++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argIndex)
	args = append(args, s.cfg.ListLimit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list refunds: %w", err)
	}
	defer rows.Close()

	refunds := []models.Refund{}
	for rows.Next() {
		var rf models.Refund
		if err := rows.Scan(&rf.ID, &rf.BookingID, &rf.Amount, &rf.Reason,
			&rf.Status, &rf.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan refund: %w", err)
		}
		refunds = append(refunds, rf)
	}
	return refunds, rows.Err()
}

// ListRefunds lists refund records
// @Summary List refunds
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Param booking_id query string false "Filter by booking"
// @Success 200 {array} models.Refund
// @Router /refunds [get]
func (s *LedgerService) ListRefunds(w http.ResponseWriter, r *http.Request) {
	refunds, err := s.listRefunds(r.Context(), r.URL.Query().Get("booking_id"))
	if err != nil {
		log.Printf("[LEDGER] List refunds failed: %v", err)
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(refunds)
}

// ListAdjustments lists adjustment ledger rows
// @Summary List adjustments
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Param booking_id query string false "Filter by booking"
// @Success 200 {array} models.LedgerEntry
// @Router /adjustments [get]
func (s *LedgerService) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	entries, err := s.listTransactions(r.Context(), r.URL.Query().Get("booking_id"), models.TransactionTypeAdjustment)
	if err != nil {
		log.Printf("[LEDGER] List adjustments failed: %v", err)
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
