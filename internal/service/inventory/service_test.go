package inventory

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockroom/internal/domain/models"
	"github.com/mamadbah2/stockroom/internal/repository/file"
	"github.com/mamadbah2/stockroom/internal/store"
)

type fakeAudit struct {
	movements []models.Movement
	err       error
}

func (f *fakeAudit) SaveMovement(_ context.Context, mv models.Movement) error {
	if f.err != nil {
		return f.err
	}
	f.movements = append(f.movements, mv)
	return nil
}

func (f *fakeAudit) SaveDailySnapshot(_ context.Context, _ models.DailySnapshot) error {
	return f.err
}

func newTestService(t *testing.T, initial map[string]int, audit *fakeAudit) *Service {
	t.Helper()

	snapshots := file.NewRepository(filepath.Join(t.TempDir(), "inventory.json"), zap.NewNop())

	var svc *Service
	if audit == nil {
		svc = NewService(store.New(initial), snapshots, nil, zap.NewNop())
	} else {
		svc = NewService(store.New(initial), snapshots, audit, zap.NewNop())
	}

	svc.now = func() time.Time { return time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC) }
	svc.newID = func() string { return "mv-1" }
	return svc
}

func TestAddNewItem(t *testing.T) {
	svc := newTestService(t, nil, nil)

	qty, err := svc.Add(context.Background(), "apple", 10, "worker-1")
	require.NoError(t, err)
	assert.Equal(t, 10, qty)
	assert.Equal(t, 10, svc.Quantity("apple"))
}

func TestAddAccumulatesOntoExisting(t *testing.T) {
	svc := newTestService(t, map[string]int{"apple": 5}, nil)

	qty, err := svc.Add(context.Background(), "apple", 10, "")
	require.NoError(t, err)
	assert.Equal(t, 15, qty)
}

func TestAddRejectsEmptyName(t *testing.T) {
	svc := newTestService(t, nil, nil)

	_, err := svc.Add(context.Background(), "", 10, "")
	assert.ErrorIs(t, err, ErrEmptyItemName)
	assert.Empty(t, svc.Movements(0))
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	svc := newTestService(t, nil, nil)

	_, err := svc.Add(context.Background(), "apple", 0, "")
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Add(context.Background(), "apple", -3, "")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestRemovePartial(t *testing.T) {
	svc := newTestService(t, map[string]int{"apple": 10}, nil)

	remaining, err := svc.Remove(context.Background(), "apple", 3, "")
	require.NoError(t, err)
	assert.Equal(t, 7, remaining)
}

func TestRemoveDrainsAndDeletes(t *testing.T) {
	svc := newTestService(t, map[string]int{"apple": 3}, nil)

	remaining, err := svc.Remove(context.Background(), "apple", 5, "")
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
	assert.Equal(t, 0, svc.Quantity("apple"))

	movements := svc.Movements(0)
	require.Len(t, movements, 1)
	assert.Equal(t, models.MovementDelete, movements[0].Verb)
}

func TestRemoveUnknownItem(t *testing.T) {
	svc := newTestService(t, nil, nil)

	_, err := svc.Remove(context.Background(), "orange", 1, "")
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.Empty(t, svc.Movements(0))
}

func TestMovementJournalRecordsSuccessfulMutations(t *testing.T) {
	svc := newTestService(t, nil, nil)

	_, err := svc.Add(context.Background(), "apple", 10, "worker-1")
	require.NoError(t, err)
	_, err = svc.Remove(context.Background(), "apple", 4, "worker-2")
	require.NoError(t, err)

	movements := svc.Movements(0)
	require.Len(t, movements, 2)

	assert.Equal(t, models.MovementAdd, movements[0].Verb)
	assert.Equal(t, "apple", movements[0].Item)
	assert.Equal(t, 10, movements[0].Quantity)
	assert.Equal(t, 10, movements[0].Remaining)
	assert.Equal(t, "worker-1", movements[0].Sender)
	assert.Equal(t, "mv-1", movements[0].ID)
	assert.Equal(t, time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC), movements[0].At)

	assert.Equal(t, models.MovementRemove, movements[1].Verb)
	assert.Equal(t, 6, movements[1].Remaining)
}

func TestMovementsMirroredToAuditTrail(t *testing.T) {
	audit := &fakeAudit{}
	svc := newTestService(t, nil, audit)

	_, err := svc.Add(context.Background(), "apple", 10, "")
	require.NoError(t, err)

	require.Len(t, audit.movements, 1)
	assert.Equal(t, "apple", audit.movements[0].Item)
}

func TestAuditFailureDoesNotFailMutation(t *testing.T) {
	audit := &fakeAudit{err: errors.New("mongo down")}
	svc := newTestService(t, nil, audit)

	qty, err := svc.Add(context.Background(), "apple", 10, "")
	require.NoError(t, err)
	assert.Equal(t, 10, qty)
	// Journal still records locally.
	assert.Len(t, svc.Movements(0), 1)
}

func TestReportTotals(t *testing.T) {
	svc := newTestService(t, map[string]int{"apple": 7, "banana": 15}, nil)

	report := svc.Report()
	assert.Equal(t, 2, report.TotalItems)
	assert.Equal(t, 22, report.TotalUnits)
	require.Len(t, report.Items, 2)
	assert.Equal(t, "apple", report.Items[0].Name)
	assert.Equal(t, time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC), report.GeneratedAt)
}

func TestSaveSnapshotRoundTrips(t *testing.T) {
	dir := t.TempDir()
	snapshots := file.NewRepository(filepath.Join(dir, "inventory.json"), zap.NewNop())
	svc := NewService(store.New(map[string]int{"apple": 7}), snapshots, nil, zap.NewNop())

	require.NoError(t, svc.SaveSnapshot())

	loaded, err := snapshots.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"apple": 7}, loaded)
}
