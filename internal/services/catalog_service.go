package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/trekora/backend/internal/models"
)

// CatalogService reads the slot and variant catalog. The booking core
// never writes these tables.
type CatalogService struct {
	db *sql.DB
}

func NewCatalogService(db *sql.DB) *CatalogService {
	return &CatalogService{db: db}
}

type SlotWithVariants struct {
	models.TourSlot
	Variants []models.SlotVariant `json:"variants"`
}

func (s *CatalogService) listSlots(ctx context.Context, tourID string) ([]SlotWithVariants, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tour_id, slot_date::text, slot_time::text, slot_end_date::text, duration_label, created_at
		FROM tour_slots
		WHERE tour_id = $1
		ORDER BY slot_date, slot_time`, tourID)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	slots := []SlotWithVariants{}
	index := map[int64]int{}
	for rows.Next() {
		var slot models.TourSlot
		var slotTime sql.NullString
		if err := rows.Scan(&slot.ID, &slot.TourID, &slot.SlotDate, &slotTime,
			&slot.SlotEndDate, &slot.DurationLabel, &slot.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slot.SlotTime = slotTime.String
		index[slot.ID] = len(slots)
		slots = append(slots, SlotWithVariants{TourSlot: slot, Variants: []models.SlotVariant{}})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	vRows, err := s.db.QueryContext(ctx, `
		SELECT v.id, v.slot_id, v.variant_name, v.description, v.price, v.capacity, v.created_at
		FROM tour_slot_variants v
		JOIN tour_slots s ON s.id = v.slot_id
		WHERE s.tour_id = $1
		ORDER BY v.slot_id, v.id`, tourID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer vRows.Close()

	for vRows.Next() {
		var v models.SlotVariant
		if err := vRows.Scan(&v.ID, &v.SlotID, &v.VariantName, &v.Description,
			&v.Price, &v.Capacity, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		if i, ok := index[v.SlotID]; ok {
			slots[i].Variants = append(slots[i].Variants, v)
		}
	}
	return slots, vRows.Err()
}

// ListSlots lists a tour's slots with their variants
// @Summary List tour slots
// @Description Bookable slots for a tour, each with its priced variants
// @Tags catalog
// @Produce json
// @Param tourId path string true "Tour ID"
// @Success 200 {array} SlotWithVariants
// @Router /tours/{tourId}/slots [get]
func (s *CatalogService) ListSlots(w http.ResponseWriter, r *http.Request) {
	tourID := chi.URLParam(r, "tourId")
	if tourID == "" {
		SendErrorResponse(w, "tour_id is required", http.StatusBadRequest, nil)
		return
	}

	slots, err := s.listSlots(r.Context(), tourID)
	if err != nil {
		log.Printf("[CATALOG] List slots failed for %s: %v", tourID, err)
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(slots)
}
