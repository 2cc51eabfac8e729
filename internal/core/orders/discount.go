package orders

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jacksonmollel/pesamart/internal/core/domain"
	"github.com/jacksonmollel/pesamart/internal/core/store"
)

// CreateDiscountRule validates and stores a rule, active by default.
func (s *Service) CreateDiscountRule(ctx context.Context, rule *domain.DiscountRule) (*domain.DiscountRule, error) {
	if rule.ValidFrom != nil && rule.ValidTo != nil && rule.ValidTo.Before(*rule.ValidFrom) {
		return nil, domain.Errorf(domain.KindInvalidInput, "valid-to must be after valid-from")
	}
	if rule.MinCartValue.IsNegative() {
		return nil, domain.Errorf(domain.KindInvalidInput, "min cart value cannot be negative")
	}
	if rule.DiscountAmount.Sign() <= 0 {
		return nil, domain.Errorf(domain.KindInvalidAmount, "discount amount must be positive")
	}
	if rule.DiscountAmount.GreaterThanOrEqual(rule.MinCartValue) {
		return nil, domain.Errorf(domain.KindInvalidInput,
			"discount amount must be less than min cart value")
	}

	rec := *rule
	rec.IsActive = true
	return s.store.DiscountRules().Save(ctx, &rec)
}

// ToggleDiscountRule flips the rule's active flag.
func (s *Service) ToggleDiscountRule(ctx context.Context, id int64) (*domain.DiscountRule, error) {
	rule, err := s.store.DiscountRules().FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.NotFoundf("discount rule not found with id %d", id)
	}
	if err != nil {
		return nil, err
	}
	rule.IsActive = !rule.IsActive
	return s.store.DiscountRules().Save(ctx, rule)
}

// BestDiscountRule picks the winning rule for the cart: the largest amount
// among active rules whose threshold the cart meets and whose window
// contains now. Ties go to the lowest rule id so the choice is stable.
// A nil rule means nothing applies.
func (s *Service) BestDiscountRule(ctx context.Context, cartValue decimal.Decimal) (*domain.DiscountRule, error) {
	rules, err := s.store.DiscountRules().FindWhere(ctx, func(r *domain.DiscountRule) bool {
		return r.IsActive
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var best *domain.DiscountRule
	for _, rule := range rules {
		if cartValue.LessThan(rule.MinCartValue) {
			continue
		}
		if !rule.InWindow(now) {
			continue
		}
		switch {
		case best == nil:
			best = rule
		case rule.DiscountAmount.GreaterThan(best.DiscountAmount):
			best = rule
		case rule.DiscountAmount.Equal(best.DiscountAmount) && rule.ID < best.ID:
			best = rule
		}
	}
	return best, nil
}

// CalculateDiscount returns the winning rule's amount, or zero when no rule
// applies.
func (s *Service) CalculateDiscount(ctx context.Context, cartValue decimal.Decimal) (decimal.Decimal, error) {
	best, err := s.BestDiscountRule(ctx, cartValue)
	if err != nil {
		return decimal.Zero, err
	}
	if best == nil {
		return decimal.Zero, nil
	}
	return best.DiscountAmount, nil
}

func (s *Service) ListActiveDiscountRules(ctx context.Context) ([]*domain.DiscountRule, error) {
	return s.store.DiscountRules().FindWhere(ctx, func(r *domain.DiscountRule) bool {
		return r.IsActive
	})
}
