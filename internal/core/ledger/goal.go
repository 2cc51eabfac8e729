package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/jacksonmollel/pesamart/internal/core/domain"
	"github.com/jacksonmollel/pesamart/internal/core/store"
)

// CreateGoal registers a savings goal starting from zero.
func (s *Service) CreateGoal(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	rec := *goal
	rec.CurrentAmount = decimal.Zero
	if rec.Status == "" {
		rec.Status = domain.GoalActive
	}
	return s.store.Goals().Save(ctx, &rec)
}

// ContributeToGoal adds the amount to the goal's progress and marks it
// COMPLETED once the target is reached. Completion never downgrades.
func (s *Service) ContributeToGoal(ctx context.Context, id int64, amount decimal.Decimal) (*domain.Goal, error) {
	if amount.Sign() <= 0 {
		return nil, domain.Errorf(domain.KindInvalidAmount, "contribution amount must be positive")
	}

	var updated *domain.Goal
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		goal, err := tx.Goals().FindByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return domain.NotFoundf("goal not found with id %d", id)
		}
		if err != nil {
			return err
		}

		goal.CurrentAmount = goal.CurrentAmount.Add(amount)
		if goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount) {
			goal.Status = domain.GoalCompleted
		}

		saved, err := tx.Goals().Save(ctx, goal)
		if err != nil {
			return err
		}
		updated = saved
		return nil
	})
	return updated, err
}

func (s *Service) ListGoals(ctx context.Context, userID int64) ([]*domain.Goal, error) {
	return s.store.Goals().FindWhere(ctx, func(g *domain.Goal) bool {
		return g.UserID == userID
	})
}
