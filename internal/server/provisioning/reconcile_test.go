package provisioning

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconciler_Sweep(t *testing.T) {
	repo := newFakeDevices()
	repo.staleN = 2

	r := NewReconciler(repo, 15*time.Minute, time.Minute, nil)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	n, err := r.Sweep(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, now.Add(-15*time.Minute), repo.staleCutoff)

	repo.staleErr = errors.New("db down")
	_, err = r.Sweep(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestReconciler_RunStopsOnCancel(t *testing.T) {
	repo := newFakeDevices()
	r := NewReconciler(repo, time.Minute, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return !repo.staleCutoff.IsZero()
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestReconciler_RunDisabled(t *testing.T) {
	r := NewReconciler(newFakeDevices(), time.Minute, 0, nil)
	r.Run(context.Background())
}
