package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/skip2/go-qrcode"
	"github.com/trekora/backend/internal/config"
	"github.com/trekora/backend/internal/models"
)

// VoucherService issues short-lived QR vouchers for confirmed bookings
// and redeems them at the gate. Vouchers live only in Redis; redemption
// deletes the key, so each voucher works once.
type VoucherService struct {
	db    *sql.DB
	redis *redis.Client
	cfg   *config.BookingConfig
}

func NewVoucherService(db *sql.DB, redis *redis.Client, cfg *config.BookingConfig) *VoucherService {
	return &VoucherService{
		db:    db,
		redis: redis,
		cfg:   cfg,
	}
}

type VoucherPayload struct {
	BookingID string `json:"booking_id"`
	Seats     int    `json:"seats"`
	IssuedAt  int64  `json:"issued_at"`
	Nonce     string `json:"nonce"`
}

func (s *VoucherService) IssueVoucher(ctx context.Context, bookingID string) (string, string, error) {
	if s.redis == nil {
		return "", "", fmt.Errorf("voucher store unavailable")
	}

	var bookingStatus string
	var isDeleted bool
	var seats int
	err := s.db.QueryRowContext(ctx, `
		SELECT booking_status, is_deleted, seats FROM bookings WHERE id = $1`,
		bookingID).Scan(&bookingStatus, &isDeleted, &seats)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", ErrBookingNotFound
		}
		return "", "", err
	}
	if isDeleted {
		return "", "", ErrBookingNotFound
	}
	if bookingStatus != models.BookingStatusConfirmed {
		return "", "", fmt.Errorf("%w: booking is %s", ErrInvalidArgument, bookingStatus)
	}

	payload := VoucherPayload{
		BookingID: bookingID,
		Seats:     seats,
		IssuedAt:  time.Now().Unix(),
		Nonce:     s.generateNonce(),
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", "", err
	}

	code := base64.URLEncoding.EncodeToString(jsonData)

	key := fmt.Sprintf("%s:%s", s.cfg.VoucherKeyPrefix, code)
	if err := s.redis.Set(ctx, key, jsonData, s.cfg.VoucherTTL).Err(); err != nil {
		return "", "", err
	}

	qr, err := qrcode.New(code, qrcode.Medium)
	if err != nil {
		return "", "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(256)); err != nil {
		return "", "", err
	}

	qrImage := base64.StdEncoding.EncodeToString(buf.Bytes())

	return code, qrImage, nil
}

func (s *VoucherService) RedeemVoucher(ctx context.Context, code string) (*VoucherPayload, error) {
	if s.redis == nil {
		return nil, fmt.Errorf("voucher store unavailable")
	}

	key := fmt.Sprintf("%s:%s", s.cfg.VoucherKeyPrefix, code)

	data, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrVoucherInvalid
	}
	if err != nil {
		return nil, err
	}

	var payload VoucherPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	s.redis.Del(ctx, key)

	return &payload, nil
}

func (s *VoucherService) generateNonce() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
