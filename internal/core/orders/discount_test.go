package orders

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacksonmollel/pesamart/internal/core/domain"
)

func seedRule(t *testing.T, svc *Service, minCart, amount int64) *domain.DiscountRule {
	t.Helper()
	rule, err := svc.CreateDiscountRule(context.Background(), &domain.DiscountRule{
		MinCartValue:   decimal.NewFromInt(minCart),
		DiscountAmount: decimal.NewFromInt(amount),
	})
	require.NoError(t, err)
	return rule
}

func discountFor(t *testing.T, svc *Service, cartValue int64) decimal.Decimal {
	t.Helper()
	amount, err := svc.CalculateDiscount(context.Background(), decimal.NewFromInt(cartValue))
	require.NoError(t, err)
	return amount
}

func TestCalculateDiscountPicksLargestEligible(t *testing.T) {
	svc := newTestService(t)
	seedRule(t, svc, 100, 10)
	seedRule(t, svc, 50, 5)

	assert.True(t, discountFor(t, svc, 150).Equal(decimal.NewFromInt(10)))
	assert.True(t, discountFor(t, svc, 60).Equal(decimal.NewFromInt(5)))
	assert.True(t, discountFor(t, svc, 40).IsZero())
}

func TestCalculateDiscountTieGoesToOldestRule(t *testing.T) {
	svc := newTestService(t)
	first := seedRule(t, svc, 50, 5)
	seedRule(t, svc, 60, 5)

	best, err := svc.BestDiscountRule(context.Background(), decimal.NewFromInt(100))
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, first.ID, best.ID)
}

func TestCalculateDiscountSkipsInactiveRules(t *testing.T) {
	svc := newTestService(t)
	rule := seedRule(t, svc, 50, 5)

	toggled, err := svc.ToggleDiscountRule(context.Background(), rule.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	assert.True(t, discountFor(t, svc, 100).IsZero())

	_, err = svc.ToggleDiscountRule(context.Background(), rule.ID)
	require.NoError(t, err)
	assert.True(t, discountFor(t, svc, 100).Equal(decimal.NewFromInt(5)))
}

func TestCalculateDiscountRespectsValidityWindow(t *testing.T) {
	svc := newTestService(t)

	past := time.Now().Add(-48 * time.Hour)
	expiredTo := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(24 * time.Hour)

	_, err := svc.CreateDiscountRule(context.Background(), &domain.DiscountRule{
		MinCartValue:   decimal.NewFromInt(50),
		DiscountAmount: decimal.NewFromInt(20),
		ValidFrom:      &past,
		ValidTo:        &expiredTo,
	})
	require.NoError(t, err)

	_, err = svc.CreateDiscountRule(context.Background(), &domain.DiscountRule{
		MinCartValue:   decimal.NewFromInt(50),
		DiscountAmount: decimal.NewFromInt(15),
		ValidFrom:      &future,
	})
	require.NoError(t, err)

	_, err = svc.CreateDiscountRule(context.Background(), &domain.DiscountRule{
		MinCartValue:   decimal.NewFromInt(50),
		DiscountAmount: decimal.NewFromInt(5),
		ValidFrom:      &past,
	})
	require.NoError(t, err)

	// only the open-ended rule is live
	assert.True(t, discountFor(t, svc, 100).Equal(decimal.NewFromInt(5)))
}

func TestCreateDiscountRuleValidation(t *testing.T) {
	svc := newTestService(t)
	from := time.Now()
	before := from.Add(-time.Hour)

	tests := []struct {
		name string
		rule domain.DiscountRule
		kind domain.Kind
	}{
		{
			name: "window ends before it starts",
			rule: domain.DiscountRule{
				MinCartValue:   decimal.NewFromInt(100),
				DiscountAmount: decimal.NewFromInt(10),
				ValidFrom:      &from,
				ValidTo:        &before,
			},
			kind: domain.KindInvalidInput,
		},
		{
			name: "negative min cart",
			rule: domain.DiscountRule{
				MinCartValue:   decimal.NewFromInt(-10),
				DiscountAmount: decimal.NewFromInt(5),
			},
			kind: domain.KindInvalidInput,
		},
		{
			name: "zero discount",
			rule: domain.DiscountRule{
				MinCartValue: decimal.NewFromInt(100),
			},
			kind: domain.KindInvalidAmount,
		},
		{
			name: "discount swallows the cart",
			rule: domain.DiscountRule{
				MinCartValue:   decimal.NewFromInt(100),
				DiscountAmount: decimal.NewFromInt(100),
			},
			kind: domain.KindInvalidInput,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateDiscountRule(context.Background(), &tc.rule)
			assert.True(t, domain.IsKind(err, tc.kind), "got %v", err)
		})
	}

	rules, err := svc.ListActiveDiscountRules(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rules)
}
