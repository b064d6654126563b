package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/trekora/backend/internal/services"
)

type VoucherHandler struct {
	service   *services.VoucherService
	validator *services.ValidationHelper
}

func NewVoucherHandler(service *services.VoucherService) *VoucherHandler {
	return &VoucherHandler{
		service:   service,
		validator: services.NewValidationHelper(),
	}
}

// IssueVoucher issues a QR entry voucher for a confirmed booking
// @Summary Issue entry voucher
// @Description Generate a single-use QR voucher for a confirmed booking
// @Tags vouchers
// @Produce json
// @Security BearerAuth
// @Param bookingId path string true "Booking ID"
// @Success 200 {object} object{code=string,qrImage=string}
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /bookings/{bookingId}/voucher [post]
func (h *VoucherHandler) IssueVoucher(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	if bookingID == "" {
		services.SendErrorResponse(w, "booking_id is required", http.StatusBadRequest, nil)
		return
	}

	code, qrImage, err := h.service.IssueVoucher(r.Context(), bookingID)
	if err != nil {
		log.Printf("[VOUCHER] Issue failed for %s: %v", bookingID, err)
		switch {
		case errors.Is(err, services.ErrBookingNotFound):
			services.SendErrorResponse(w, err.Error(), http.StatusNotFound, nil)
		case errors.Is(err, services.ErrInvalidArgument):
			services.SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
		default:
			services.SendErrorResponse(w, err.Error(), http.StatusInternalServerError, nil)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"code":    code,
		"qrImage": qrImage,
	})
}

// RedeemVoucher redeems a scanned entry voucher
// @Summary Redeem entry voucher
// @Description Redeem a scanned QR voucher; each voucher works once
// @Tags vouchers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{code=string} true "Voucher redemption request"
// @Success 200 {object} object{booking_id=string,seats=int}
// @Failure 400 {object} services.ErrorResponse
// @Router /vouchers/redeem [post]
func (h *VoucherHandler) RedeemVoucher(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code" validate:"required"`
	}

	if err := services.DecodeJSONBody(w, r, 1_048_576, &req); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	payload, err := h.service.RedeemVoucher(r.Context(), req.Code)
	if err != nil {
		log.Printf("[VOUCHER] Redeem failed: %v", err)
		services.SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    payload,
	})
}
