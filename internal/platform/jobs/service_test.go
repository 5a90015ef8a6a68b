package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personnel/internal/domain/employee"
	"personnel/internal/platform/metrics"
)

type idRow struct {
	id int64
}

func (r idRow) Scan(dest ...any) error {
	*(dest[0].(*int64)) = r.id
	return nil
}

// recordingDB captures the job_runs writes.
type recordingDB struct {
	mu      sync.Mutex
	inserts []any
	updates [][]any
}

func (d *recordingDB) Exec(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.updates = append(d.updates, args)
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (d *recordingDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}

func (d *recordingDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inserts = append(d.inserts, args[0])
	return idRow{id: int64(len(d.inserts))}
}

func (d *recordingDB) snapshot() ([]any, [][]any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]any(nil), d.inserts...), append([][]any(nil), d.updates...)
}

type stubReconciler struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *stubReconciler) ReconcileDuplicates(context.Context) (employee.ReconcileResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return employee.ReconcileResult{Groups: 1, RemovedIDs: []int64{7}, KeptIDs: []int64{3}}, s.err
}

func (s *stubReconciler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestReconcileRecordsRun(t *testing.T) {
	db := &recordingDB{}
	svc := New(db, &stubReconciler{}, metrics.New(), 0)

	result, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, result.RemovedIDs)

	inserts, updates := db.snapshot()
	assert.Equal(t, []any{JobReconcileDuplicates}, inserts)
	require.Len(t, updates, 1)
	assert.Equal(t, StatusCompleted, updates[0][0])
	assert.JSONEq(t, `{"groups":1,"removedIds":[7],"keptIds":[3]}`, string(updates[0][1].([]byte)))
	assert.Nil(t, updates[0][2])
	assert.Equal(t, int64(1), updates[0][3])
}

func TestReconcileRecordsFailure(t *testing.T) {
	db := &recordingDB{}
	svc := New(db, &stubReconciler{err: errors.New("boom")}, nil, 0)

	_, err := svc.Reconcile(context.Background())
	require.Error(t, err)

	_, updates := db.snapshot()
	require.Len(t, updates, 1)
	assert.Equal(t, StatusFailed, updates[0][0])
	msg, ok := updates[0][2].(*string)
	require.True(t, ok)
	assert.Equal(t, "boom", *msg)
}

func TestScheduledReconcile(t *testing.T) {
	reconciler := &stubReconciler{}
	svc := New(&recordingDB{}, reconciler, nil, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)

	assert.Eventually(t, func() bool { return reconciler.count() >= 2 }, 2*time.Second, 5*time.Millisecond)
}
