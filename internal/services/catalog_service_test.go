package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCatalogService_listSlots(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewCatalogService(db)

	slotColumns := []string{"id", "tour_id", "slot_date", "slot_time", "slot_end_date", "duration_label", "created_at"}
	variantColumns := []string{"id", "slot_id", "variant_name", "description", "price", "capacity", "created_at"}

	t.Run("groups variants under their slots", func(t *testing.T) {
		now := time.Now()
		dbMock.ExpectQuery("SELECT id, tour_id, slot_date").
			WithArgs("tour-1").
			WillReturnRows(sqlmock.NewRows(slotColumns).
				AddRow(10, "tour-1", "2026-09-12", "06:00:00", nil, "3 days", now).
				AddRow(11, "tour-1", "2026-09-19", "06:00:00", nil, "3 days", now))
		dbMock.ExpectQuery("SELECT v.id, v.slot_id, v.variant_name").
			WithArgs("tour-1").
			WillReturnRows(sqlmock.NewRows(variantColumns).
				AddRow(20, 10, "Standard", nil, "1500", 12, now).
				AddRow(21, 10, "Premium", "with meals", "2200", 6, now).
				AddRow(22, 11, "Standard", nil, "1500", 12, now))

		slots, err := service.listSlots(context.Background(), "tour-1")
		assert.NoError(t, err)
		assert.Len(t, slots, 2)
		assert.Len(t, slots[0].Variants, 2)
		assert.Len(t, slots[1].Variants, 1)
		assert.Equal(t, "Premium", slots[0].Variants[1].VariantName)
		assert.True(t, slots[0].Variants[1].Price.Equal(decimal.NewFromInt(2200)))
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("tour with no slots", func(t *testing.T) {
		dbMock.ExpectQuery("SELECT id, tour_id, slot_date").
			WithArgs("tour-x").
			WillReturnRows(sqlmock.NewRows(slotColumns))
		dbMock.ExpectQuery("SELECT v.id, v.slot_id, v.variant_name").
			WithArgs("tour-x").
			WillReturnRows(sqlmock.NewRows(variantColumns))

		slots, err := service.listSlots(context.Background(), "tour-x")
		assert.NoError(t, err)
		assert.Empty(t, slots)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}
