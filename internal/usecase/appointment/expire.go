package appointment

import (
	"context"
	"log"

	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

const expireBatchSize = 100

type ExpirePendingDeposits struct {
	Deps
}

func NewExpirePendingDeposits(d Deps) *ExpirePendingDeposits {
	return &ExpirePendingDeposits{Deps: d}
}

// Execute cancels pending_deposit appointments created before
// now - DepositTTL and returns how many were cancelled.
func (uc *ExpirePendingDeposits) Execute(ctx context.Context) (int, error) {
	now := uc.now()
	cutoff := now.Add(-uc.Rules.DepositTTL)

	expired, err := uc.Repo.ListExpiredPendingDeposits(ctx, cutoff, expireBatchSize)
	if err != nil {
		return 0, err
	}

	salons := make(map[uint]*models.Salon)

	count := 0
	for i := range expired {
		ap := &expired[i]

		shop, ok := salons[ap.SalonID]
		if !ok {
			shop, err = uc.Repo.GetSalonByID(ctx, ap.SalonID)
			if err != nil {
				log.Printf("expire deposit appointment=%d: salon: %v", ap.ID, err)
				continue
			}
			salons[ap.SalonID] = shop
		}

		if err := uc.cancel(ctx, ap, now, domain.ReasonDepositExpired); err != nil {
			log.Printf("expire deposit appointment=%d: %v", ap.ID, err)
			continue
		}

		uc.afterChange(ctx, shop, ap, domain.EventCancelled, nil, ap.ScheduledAt)
		count++
	}

	return count, nil
}
