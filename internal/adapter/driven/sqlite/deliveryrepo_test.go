package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w3c/prbuildbot/internal/domain/model"
)

func TestDeliveryRepo_RecordAndListRecent(t *testing.T) {
	repo := NewDeliveryRepo(setupTestDB(t))
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := repo.Record(ctx, model.Delivery{
			BuildID:    int64(100 + i),
			PRNumber:   42,
			Status:     model.DeliveryCommented,
			Detail:     "ok",
			ReceivedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	got, err := repo.ListRecent(ctx, 10)

	require.NoError(t, err)
	require.Len(t, got, 3)
	// Newest first.
	assert.Equal(t, int64(102), got[0].BuildID)
	assert.Equal(t, int64(101), got[1].BuildID)
	assert.Equal(t, int64(100), got[2].BuildID)
	assert.Equal(t, model.DeliveryCommented, got[0].Status)
	assert.Equal(t, 42, got[0].PRNumber)
	assert.Equal(t, "ok", got[0].Detail)
	assert.True(t, got[0].ReceivedAt.Equal(base.Add(2*time.Minute)))
}

func TestDeliveryRepo_ListRecentHonorsLimit(t *testing.T) {
	repo := NewDeliveryRepo(setupTestDB(t))
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Record(ctx, model.Delivery{
			BuildID:    int64(i),
			PRNumber:   7,
			Status:     model.DeliverySkipped,
			ReceivedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	got, err := repo.ListRecent(ctx, 2)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(4), got[0].BuildID)
	assert.Equal(t, int64(3), got[1].BuildID)
}

func TestDeliveryRepo_ListRecentEmpty(t *testing.T) {
	repo := NewDeliveryRepo(setupTestDB(t))

	got, err := repo.ListRecent(context.Background(), 10)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// Same-timestamp rows fall back to insertion order, newest id first.
func TestDeliveryRepo_TieBreakOnID(t *testing.T) {
	repo := NewDeliveryRepo(setupTestDB(t))
	ctx := context.Background()

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Record(ctx, model.Delivery{
			BuildID:    int64(i),
			PRNumber:   1,
			Status:     model.DeliveryFailed,
			Detail:     "boom",
			ReceivedAt: at,
		}))
	}

	got, err := repo.ListRecent(ctx, 10)

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(2), got[0].BuildID)
	assert.Equal(t, int64(0), got[2].BuildID)
}
