package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/trekora/backend/internal/config"
	"github.com/trekora/backend/internal/models"
)

func newTestLedgerService(db *sql.DB) *LedgerService {
	return NewLedgerService(db, &config.BookingConfig{
		ListLimit:           100,
		RequestBodyMaxBytes: 1_048_576,
	})
}

func TestLedgerService_recordPayment(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := newTestLedgerService(db)

	t.Run("full payment marks booking PAID", func(t *testing.T) {
		req := &PaymentRequest{
			BookingID:     "bk-1",
			Amount:        decimal.NewFromInt(1000),
			PaymentMethod: models.PaymentMethodUPI,
		}

		dbMock.ExpectBegin()
		dbMock.ExpectQuery("SELECT total_amount, payment_status FROM bookings").
			WithArgs("bk-1").
			WillReturnRows(sqlmock.NewRows([]string{"total_amount", "payment_status"}).
				AddRow("1000", models.PaymentStatusUnpaid))
		dbMock.ExpectExec("INSERT INTO transactions").
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectExec("UPDATE bookings SET payment_status = \\$1, updated_at = NOW\\(\\) WHERE id = \\$2").
			WithArgs(models.PaymentStatusPaid, "bk-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		dbMock.ExpectExec("INSERT INTO audit_logs").
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectCommit()

		result, err := service.recordPayment(context.Background(), req)
		assert.NoError(t, err)
		assert.NotEmpty(t, result.TransactionID)
		assert.Equal(t, models.PaymentStatusPaid, result.PaymentStatus)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("partial payment marks booking PARTIALLY_PAID", func(t *testing.T) {
		req := &PaymentRequest{
			BookingID:     "bk-1",
			Amount:        decimal.NewFromInt(400),
			PaymentMethod: models.PaymentMethodOnline,
		}

		dbMock.ExpectBegin()
		dbMock.ExpectQuery("SELECT total_amount, payment_status FROM bookings").
			WithArgs("bk-1").
			WillReturnRows(sqlmock.NewRows([]string{"total_amount", "payment_status"}).
				AddRow("1000", models.PaymentStatusUnpaid))
		dbMock.ExpectExec("INSERT INTO transactions").
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectExec("UPDATE bookings SET payment_status = \\$1, updated_at = NOW\\(\\) WHERE id = \\$2").
			WithArgs(models.PaymentStatusPartiallyPaid, "bk-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		dbMock.ExpectExec("INSERT INTO audit_logs").
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectCommit()

		result, err := service.recordPayment(context.Background(), req)
		assert.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPartiallyPaid, result.PaymentStatus)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("explicit status override wins over derivation", func(t *testing.T) {
		override := models.PaymentStatusPaid
		req := &PaymentRequest{
			BookingID:        "bk-1",
			Amount:           decimal.NewFromInt(600),
			PaymentMethod:    models.PaymentMethodManual,
			SetPaymentStatus: &override,
		}

		dbMock.ExpectBegin()
		dbMock.ExpectQuery("SELECT total_amount, payment_status FROM bookings").
			WithArgs("bk-1").
			WillReturnRows(sqlmock.NewRows([]string{"total_amount", "payment_status"}).
				AddRow("1000", models.PaymentStatusPartiallyPaid))
		dbMock.ExpectExec("INSERT INTO transactions").
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectExec("UPDATE bookings SET payment_status = \\$1, updated_at = NOW\\(\\) WHERE id = \\$2").
			WithArgs(models.PaymentStatusPaid, "bk-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		dbMock.ExpectExec("INSERT INTO audit_logs").
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectCommit()

		result, err := service.recordPayment(context.Background(), req)
		assert.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPaid, result.PaymentStatus)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("non-positive amount rejected without touching the database", func(t *testing.T) {
		req := &PaymentRequest{
			BookingID:     "bk-1",
			Amount:        decimal.Zero,
			PaymentMethod: models.PaymentMethodUPI,
		}

		_, err := service.recordPayment(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("unknown booking", func(t *testing.T) {
		req := &PaymentRequest{
			BookingID:     "bk-x",
			Amount:        decimal.NewFromInt(100),
			PaymentMethod: models.PaymentMethodUPI,
		}

		dbMock.ExpectBegin()
		dbMock.ExpectQuery("SELECT total_amount, payment_status FROM bookings").
			WithArgs("bk-x").
			WillReturnError(sql.ErrNoRows)
		dbMock.ExpectRollback()

		_, err := service.recordPayment(context.Background(), req)
		assert.ErrorIs(t, err, ErrBookingNotFound)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestLedgerService_recordRefund(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := newTestLedgerService(db)

	t.Run("requested refund stays pending in the ledger", func(t *testing.T) {
		req := &RefundRequest{
			BookingID: "bk-1",
			Amount:    decimal.NewFromInt(500),
		}

		dbMock.ExpectBegin()
		dbMock.ExpectQuery("SELECT payment_status FROM bookings").
			WithArgs("bk-1").
			WillReturnRows(sqlmock.NewRows([]string{"payment_status"}).
				AddRow(models.PaymentStatusPaid))
		dbMock.ExpectExec("INSERT INTO refunds").
			WithArgs(sqlmock.AnyArg(), "bk-1", req.Amount, nil, models.RefundStatusRequested).
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectExec("INSERT INTO transactions").
			WithArgs(sqlmock.AnyArg(), "bk-1", models.TransactionTypeRefund,
				models.PaymentMethodManual, req.Amount, models.LedgerStatusPending).
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectExec("UPDATE bookings SET payment_status = \\$1, updated_at = NOW\\(\\) WHERE id = \\$2").
			WithArgs(models.PaymentStatusRefundInitiated, "bk-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		dbMock.ExpectExec("INSERT INTO audit_logs").
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectCommit()

		result, err := service.recordRefund(context.Background(), req)
		assert.NoError(t, err)
		assert.NotEmpty(t, result.RefundID)
		assert.Equal(t, models.PaymentStatusRefundInitiated, result.PaymentStatus)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("processed refund lands as SUCCESS and marks booking REFUNDED", func(t *testing.T) {
		req := &RefundRequest{
			BookingID: "bk-1",
			Amount:    decimal.NewFromInt(1000),
			Status:    models.RefundStatusProcessed,
		}

		dbMock.ExpectBegin()
		dbMock.ExpectQuery("SELECT payment_status FROM bookings").
			WithArgs("bk-1").
			WillReturnRows(sqlmock.NewRows([]string{"payment_status"}).
				AddRow(models.PaymentStatusPaid))
		dbMock.ExpectExec("INSERT INTO refunds").
			WithArgs(sqlmock.AnyArg(), "bk-1", req.Amount, nil, models.RefundStatusProcessed).
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectExec("INSERT INTO transactions").
			WithArgs(sqlmock.AnyArg(), "bk-1", models.TransactionTypeRefund,
				models.PaymentMethodManual, req.Amount, models.LedgerStatusSuccess).
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectExec("UPDATE bookings SET payment_status = \\$1, updated_at = NOW\\(\\) WHERE id = \\$2").
			WithArgs(models.PaymentStatusRefunded, "bk-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		dbMock.ExpectExec("INSERT INTO audit_logs").
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectCommit()

		result, err := service.recordRefund(context.Background(), req)
		assert.NoError(t, err)
		assert.Equal(t, models.PaymentStatusRefunded, result.PaymentStatus)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		req := &RefundRequest{
			BookingID: "bk-1",
			Amount:    decimal.NewFromInt(-5),
		}

		_, err := service.recordRefund(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestLedgerService_recordAdjustment(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := newTestLedgerService(db)

	t.Run("negative adjustment without settlement", func(t *testing.T) {
		amount := decimal.NewFromInt(-250)
		req := &AdjustmentRequest{
			BookingID: "bk-1",
			Amount:    &amount,
		}

		dbMock.ExpectBegin()
		dbMock.ExpectQuery("SELECT id FROM bookings").
			WithArgs("bk-1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("bk-1"))
		dbMock.ExpectExec("INSERT INTO transactions").
			WithArgs(sqlmock.AnyArg(), "bk-1", models.TransactionTypeAdjustment,
				models.PaymentMethodManual, amount, models.LedgerStatusSuccess).
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectExec("INSERT INTO audit_logs").
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectCommit()

		result, err := service.recordAdjustment(context.Background(), req)
		assert.NoError(t, err)
		assert.NotEmpty(t, result.TransactionID)
		assert.Nil(t, result.SettlementID)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("adjustment with settlement figures inserts a PENDING settlement", func(t *testing.T) {
		amount := decimal.NewFromInt(300)
		req := &AdjustmentRequest{
			BookingID: "bk-1",
			Amount:    &amount,
			Settlement: &SettlementInput{
				GrossAmount:   decimal.NewFromInt(1000),
				VendorCost:    decimal.NewFromInt(600),
				Commission:    decimal.NewFromInt(100),
				ProcessingFee: decimal.NewFromInt(20),
				Deduction:     decimal.NewFromInt(30),
				NetAmount:     decimal.NewFromInt(250),
			},
		}

		dbMock.ExpectBegin()
		dbMock.ExpectQuery("SELECT id FROM bookings").
			WithArgs("bk-1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("bk-1"))
		dbMock.ExpectExec("INSERT INTO transactions").
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectExec("INSERT INTO settlements").
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectExec("INSERT INTO audit_logs").
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectCommit()

		result, err := service.recordAdjustment(context.Background(), req)
		assert.NoError(t, err)
		assert.NotNil(t, result.SettlementID)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("unknown booking", func(t *testing.T) {
		amount := decimal.NewFromInt(100)
		req := &AdjustmentRequest{BookingID: "bk-x", Amount: &amount}

		dbMock.ExpectBegin()
		dbMock.ExpectQuery("SELECT id FROM bookings").
			WithArgs("bk-x").
			WillReturnError(sql.ErrNoRows)
		dbMock.ExpectRollback()

		_, err := service.recordAdjustment(context.Background(), req)
		assert.ErrorIs(t, err, ErrBookingNotFound)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

// Walks a booking through a partial payment, a completing payment and a
// processed refund, checking the derived status at each step.
func TestLedgerService_paymentLifecycle(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := newTestLedgerService(db)

	expectPayment := func(total string, current, next string) {
		dbMock.ExpectBegin()
		dbMock.ExpectQuery("SELECT total_amount, payment_status FROM bookings").
			WithArgs("bk-1").
			WillReturnRows(sqlmock.NewRows([]string{"total_amount", "payment_status"}).
				AddRow(total, current))
		dbMock.ExpectExec("INSERT INTO transactions").
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectExec("UPDATE bookings SET payment_status").
			WithArgs(next, "bk-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		dbMock.ExpectExec("INSERT INTO audit_logs").
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectCommit()
	}

	expectPayment("1000", models.PaymentStatusUnpaid, models.PaymentStatusPartiallyPaid)
	result, err := service.recordPayment(context.Background(), &PaymentRequest{
		BookingID: "bk-1", Amount: decimal.NewFromInt(400), PaymentMethod: models.PaymentMethodUPI,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPartiallyPaid, result.PaymentStatus)

	expectPayment("1000", models.PaymentStatusPartiallyPaid, models.PaymentStatusPaid)
	result, err = service.recordPayment(context.Background(), &PaymentRequest{
		BookingID: "bk-1", Amount: decimal.NewFromInt(1000), PaymentMethod: models.PaymentMethodUPI,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, result.PaymentStatus)

	dbMock.ExpectBegin()
	dbMock.ExpectQuery("SELECT payment_status FROM bookings").
		WithArgs("bk-1").
		WillReturnRows(sqlmock.NewRows([]string{"payment_status"}).
			AddRow(models.PaymentStatusPaid))
	dbMock.ExpectExec("INSERT INTO refunds").
		WillReturnResult(sqlmock.NewResult(1, 1))
	dbMock.ExpectExec("INSERT INTO transactions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	dbMock.ExpectExec("UPDATE bookings SET payment_status").
		WithArgs(models.PaymentStatusRefunded, "bk-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbMock.ExpectExec("INSERT INTO audit_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))
	dbMock.ExpectCommit()

	refundResult, err := service.recordRefund(context.Background(), &RefundRequest{
		BookingID: "bk-1", Amount: decimal.NewFromInt(1400), Status: models.RefundStatusProcessed,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRefunded, refundResult.PaymentStatus)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestLedgerService_RecordPaymentHandler(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := newTestLedgerService(db)

	t.Run("returns 201", func(t *testing.T) {
		dbMock.ExpectBegin()
		dbMock.ExpectQuery("SELECT total_amount, payment_status FROM bookings").
			WillReturnRows(sqlmock.NewRows([]string{"total_amount", "payment_status"}).
				AddRow("1000", models.PaymentStatusUnpaid))
		dbMock.ExpectExec("INSERT INTO transactions").
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectExec("UPDATE bookings SET payment_status").
			WillReturnResult(sqlmock.NewResult(0, 1))
		dbMock.ExpectExec("INSERT INTO audit_logs").
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectCommit()

		body := []byte(`{"booking_id":"bk-1","amount":"1000","payment_method":"UPI"}`)
		req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewReader(body))
		w := httptest.NewRecorder()

		service.RecordPayment(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Payment recorded successfully", resp["message"])
		assert.Equal(t, models.PaymentStatusPaid, resp["payment_status"])
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("invalid payment method rejected without touching the database", func(t *testing.T) {
		body := []byte(`{"booking_id":"bk-1","amount":"100","payment_method":"CASH"}`)
		req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewReader(body))
		w := httptest.NewRecorder()

		service.RecordPayment(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("unknown booking returns 404", func(t *testing.T) {
		dbMock.ExpectBegin()
		dbMock.ExpectQuery("SELECT total_amount, payment_status FROM bookings").
			WillReturnError(sql.ErrNoRows)
		dbMock.ExpectRollback()

		body := []byte(`{"booking_id":"bk-x","amount":"100","payment_method":"UPI"}`)
		req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewReader(body))
		w := httptest.NewRecorder()

		service.RecordPayment(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestLedgerService_listRefunds(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := newTestLedgerService(db)

	now := time.Now()
	dbMock.ExpectQuery("SELECT id, booking_id, amount, reason, status, created_at FROM refunds WHERE booking_id = \\$1 ORDER BY created_at DESC LIMIT \\$2").
		WithArgs("bk-1", 100).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "amount", "reason", "status", "created_at"}).
			AddRow("rf-1", "bk-1", "500", "customer request", models.RefundStatusRequested, now))

	refunds, err := service.listRefunds(context.Background(), "bk-1")
	assert.NoError(t, err)
	assert.Len(t, refunds, 1)
	assert.Equal(t, "rf-1", refunds[0].ID)
	assert.Equal(t, "customer request", *refunds[0].Reason)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestLedgerService_listTransactions(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := newTestLedgerService(db)

	now := time.Now()
	dbMock.ExpectQuery("SELECT id, booking_id, transaction_type, payment_method, amount, status, created_at FROM transactions WHERE transaction_type = \\$1 AND booking_id = \\$2 ORDER BY created_at DESC LIMIT \\$3").
		WithArgs(models.TransactionTypeAdjustment, "bk-1", 100).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "transaction_type", "payment_method", "amount", "status", "created_at"}).
			AddRow("tx-1", "bk-1", models.TransactionTypeAdjustment, models.PaymentMethodManual, "-250", models.LedgerStatusSuccess, now))

	entries, err := service.listTransactions(context.Background(), "bk-1", models.TransactionTypeAdjustment)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(-250)))
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
