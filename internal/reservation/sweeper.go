package reservation

import (
	"context"
	"log/slog"
	"time"

	"github.com/lendqube/lendqube/internal/metrics"
)

// Sweeper releases reservations whose TTL elapsed without a disbursement,
// returning their hold to the owning mapping. It is a compensating job, not
// a lock manager: reservations are soft holds that self-heal. Runs are
// re-entrant and safe to overlap, since every expiry re-checks status
// inside its own transaction.
type Sweeper struct {
	repo     Repository
	interval time.Duration
	now      func() time.Time
}

func NewSweeper(repo Repository, interval time.Duration) *Sweeper {
	return &Sweeper{
		repo:     repo,
		interval: interval,
		now:      time.Now,
	}
}

// Run sweeps on a fixed interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				slog.Error("reservation sweep failed", "error", err)
			}
		}
	}
}

// SweepOnce expires every overdue active reservation and reports how many
// were released. One reservation failing does not block the rest.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	active, err := s.repo.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	expired := 0

	for _, res := range active {
		if !res.ExpiresAt.Before(now) {
			continue
		}

		ok, err := s.repo.Expire(ctx, res)
		if err != nil {
			slog.Error("failed to expire reservation", "reservation_id", res.ID, "error", err)
			continue
		}

		if ok {
			expired++

			metrics.ReservationsExpired.Inc()
			slog.Info("reservation expired", "reservation_id", res.ID, "amount", res.Amount)
		}
	}

	return expired, nil
}
