package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/Waito3007/aRefactor/internal/infra/storage"
	"github.com/Waito3007/aRefactor/internal/metrics"
)

// Pruner permanently removes soft-deleted products once they age past the
// retention window. Until then a deleted product stays recoverable by support
// tooling.
type Pruner struct {
	retention time.Duration
	products  storage.ProductRepository
	log       *slog.Logger
}

// NewPruner creates a new Pruner worker. A non-positive retention disables it.
func NewPruner(retention time.Duration, products storage.ProductRepository, log *slog.Logger) *Pruner {
	if log == nil {
		log = slog.Default().With("component", "pruner")
	}
	return &Pruner{
		retention: retention,
		products:  products,
		log:       log,
	}
}

// Start runs the pruner loop until ctx is cancelled.
func (p *Pruner) Start(ctx context.Context) {
	if p.retention <= 0 {
		return // Retention disabled
	}

	// Check at 10% of the retention period, clamped to [1m, 1h].
	interval := min(p.retention/10, 1*time.Hour)
	interval = max(interval, 1*time.Minute)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Initial prune
	p.prune(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *Pruner) prune(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-p.retention)

	purged, err := p.products.PurgeDeletedBefore(ctx, cutoff)
	if err != nil {
		p.log.Error("failed to purge soft-deleted products", "error", err)
		return
	}
	if purged > 0 {
		metrics.ProductsPurgedTotal.Add(float64(purged))
		p.log.Info("purged soft-deleted products", "count", purged, "cutoff", cutoff)
	}
}
