package disbursement

import (
	"context"
	"log/slog"
	"time"
)

// reconcileAfter is how long a disbursement may sit initiated before the
// reconciliation pass asks the provider for its outcome. Webhooks normally
// settle transfers within seconds; anything older likely lost its webhook.
const reconcileAfter = 15 * time.Minute

// Reconcile verifies every stale initiated disbursement against the
// provider and finalizes the ones that settled while no webhook arrived.
// Each disbursement is handled independently; one provider error does not
// stop the pass. Returns the number finalized.
func (s *Service) Reconcile(ctx context.Context) (int, error) {
	stale, err := s.repo.ListInitiatedBefore(ctx, time.Now().Add(-reconcileAfter))
	if err != nil {
		return 0, err
	}

	finalized := 0

	for _, d := range stale {
		transfer, err := s.payout.VerifyTransfer(ctx, d.TransferReference)
		if err != nil {
			slog.Error("failed to verify transfer", "disbursement_id", d.ID, "error", err)
			continue
		}

		switch transfer.Status {
		case "success":
			err = s.FinalizeSuccess(ctx, d.ID)
		case "failed", "reversed":
			err = s.FinalizeFailure(ctx, d.ID, "transfer "+transfer.Status)
		default:
			// Still in flight at the provider; leave it for the webhook or
			// the next pass.
			continue
		}

		if err != nil {
			slog.Error("failed to reconcile disbursement", "disbursement_id", d.ID, "error", err)
			continue
		}

		finalized++
	}

	return finalized, nil
}
