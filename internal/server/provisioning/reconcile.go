package provisioning

import (
	"context"
	"time"

	"github.com/dmitrijs2005/deviceprov/internal/logging"
	"github.com/dmitrijs2005/deviceprov/internal/server/repositories/devices"
)

// Reconciler deletes device records left pending by requests that died
// before they could activate or compensate.
type Reconciler struct {
	devices  devices.Repository
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	log      logging.Logger
}

func NewReconciler(repo devices.Repository, ttl, interval time.Duration, logger logging.Logger) *Reconciler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Reconciler{
		devices:  repo,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
		log:      logger.With("module", "reconciler"),
	}
}

// Sweep removes pending devices older than the TTL once.
func (r *Reconciler) Sweep(ctx context.Context) (int64, error) {
	n, err := r.devices.DeleteStalePending(ctx, r.now().Add(-r.ttl))
	if err != nil {
		r.log.Error(ctx, "sweep failed", "error", err)
		return 0, err
	}
	if n > 0 {
		r.log.Info(ctx, "removed stale pending devices", "count", n)
	}
	return n, nil
}

// Run sweeps every interval until ctx is done.
func (r *Reconciler) Run(ctx context.Context) {
	if r.interval <= 0 {
		return
	}

	t := time.NewTicker(r.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_, _ = r.Sweep(ctx)
		}
	}
}
