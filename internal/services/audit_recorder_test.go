package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/trekora/backend/internal/models"
)

func TestAuditRecorder_RecordTx(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	recorder := NewAuditRecorder()

	t.Run("records snapshots as JSON", func(t *testing.T) {
		actor := "admin-1"

		dbMock.ExpectBegin()
		dbMock.ExpectExec("INSERT INTO audit_logs").
			WithArgs(sqlmock.AnyArg(), models.AuditEntityBooking, "bk-1", models.AuditActionUpdate,
				[]byte(`{"payment_status":"UNPAID"}`), []byte(`{"payment_status":"PAID"}`),
				&actor, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		tx, err := db.Begin()
		assert.NoError(t, err)

		id, err := recorder.RecordTx(context.Background(), tx, AuditEntry{
			EntityType:  models.AuditEntityBooking,
			EntityID:    "bk-1",
			ActionType:  models.AuditActionUpdate,
			OldData:     map[string]any{"payment_status": "UNPAID"},
			NewData:     map[string]any{"payment_status": "PAID"},
			PerformedBy: &actor,
		})
		assert.NoError(t, err)
		assert.NotEmpty(t, id)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("trail reads back in order", func(t *testing.T) {
		now := time.Now()
		dbMock.ExpectQuery("SELECT id, entity_type, entity_id, action_type, old_data, new_data, performed_by, created_at FROM audit_logs").
			WithArgs(models.AuditEntityBooking, "bk-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "entity_type", "entity_id", "action_type", "old_data", "new_data", "performed_by", "created_at"}).
				AddRow("a1", models.AuditEntityBooking, "bk-1", models.AuditActionCreate, nil, []byte(`{"seats":2}`), nil, now).
				AddRow("a2", models.AuditEntityBooking, "bk-1", models.AuditActionCancel, []byte(`{"booking_status":"CONFIRMED"}`), []byte(`{"booking_status":"CANCELLED"}`), nil, now))

		entries, err := recorder.ListForEntity(context.Background(), db, models.AuditEntityBooking, "bk-1")
		assert.NoError(t, err)
		assert.Len(t, entries, 2)
		assert.Equal(t, models.AuditActionCreate, entries[0].ActionType)
		assert.Equal(t, models.AuditActionCancel, entries[1].ActionType)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("nil snapshots stored as NULL", func(t *testing.T) {
		dbMock.ExpectBegin()
		dbMock.ExpectExec("INSERT INTO audit_logs").
			WithArgs(sqlmock.AnyArg(), models.AuditEntityBooking, "bk-2", models.AuditActionCreate,
				nil, []byte(`{"seats":2}`), nil, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		tx, err := db.Begin()
		assert.NoError(t, err)

		_, err = recorder.RecordTx(context.Background(), tx, AuditEntry{
			EntityType: models.AuditEntityBooking,
			EntityID:   "bk-2",
			ActionType: models.AuditActionCreate,
			NewData:    map[string]any{"seats": 2},
		})
		assert.NoError(t, err)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}
