package audit

import (
	"testing"

	"jobmarket-backend/internal/models"
	"jobmarket-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLogStoresSnapshots(t *testing.T) {
	db := testutil.NewDB(t)

	require.NoError(t, WriteLog(db, LogOptions{
		UserID:      1,
		UserName:    "Carlos",
		EntityType:  "job_offer",
		EntityID:    9,
		Action:      models.AuditActionUpdate,
		Description: "Offer updated: Roof",
		Before:      map[string]string{"title": "Draft"},
		After:       map[string]string{"title": "Roof"},
	}))
	require.NoError(t, WriteLog(db, LogOptions{UserID: 1, EntityType: "job_offer", EntityID: 9, Action: models.AuditActionDelete}))

	var logs []models.AuditLog
	require.NoError(t, db.Order("id").Find(&logs).Error)
	require.Len(t, logs, 2)

	assert.JSONEq(t, `{"title":"Draft"}`, logs[0].BeforeData)
	assert.JSONEq(t, `{"title":"Roof"}`, logs[0].AfterData)
	assert.Equal(t, "Carlos", logs[0].UserName)
	assert.False(t, logs[0].CreatedAt.IsZero())

	assert.Equal(t, "null", logs[1].BeforeData)
	assert.Equal(t, "null", logs[1].AfterData)
}
