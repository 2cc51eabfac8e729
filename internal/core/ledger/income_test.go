package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacksonmollel/pesamart/internal/core/domain"
)

func TestCreateIncomeCreditsAccount(t *testing.T) {
	svc := newTestService(t, Config{})
	account := seedAccount(t, svc, 1, 100)

	income, err := svc.CreateIncome(context.Background(), &domain.Income{
		UserID:       1,
		AccountID:    account.ID,
		Amount:       decimal.NewFromInt(50),
		IncomeType:   "SALARY",
		DateReceived: time.Now(),
	})
	require.NoError(t, err)

	assert.NotZero(t, income.ID)
	requireBalance(t, svc, account.ID, 150)
}

func TestCreateIncomeRejectsNonPositiveAmount(t *testing.T) {
	svc := newTestService(t, Config{})
	account := seedAccount(t, svc, 1, 100)

	for _, amount := range []int64{0, -10} {
		_, err := svc.CreateIncome(context.Background(), &domain.Income{
			UserID:    1,
			AccountID: account.ID,
			Amount:    decimal.NewFromInt(amount),
		})
		assert.True(t, domain.IsKind(err, domain.KindInvalidAmount))
	}

	requireBalance(t, svc, account.ID, 100)
	incomes, err := svc.ListIncomes(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, incomes)
}

func TestCreateIncomeUnknownAccount(t *testing.T) {
	svc := newTestService(t, Config{})

	_, err := svc.CreateIncome(context.Background(), &domain.Income{
		UserID:    1,
		AccountID: 999,
		Amount:    decimal.NewFromInt(50),
	})
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestUpdateIncomeReappliesBalance(t *testing.T) {
	svc := newTestService(t, Config{})
	account := seedAccount(t, svc, 1, 100)

	income, err := svc.CreateIncome(context.Background(), &domain.Income{
		UserID:    1,
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	requireBalance(t, svc, account.ID, 150)

	updated, err := svc.UpdateIncome(context.Background(), income.ID, &domain.Income{
		Amount:      decimal.NewFromInt(80),
		IncomeType:  "BONUS",
		Description: "quarterly bonus",
	})
	require.NoError(t, err)

	assert.True(t, updated.Amount.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, "BONUS", updated.IncomeType)
	requireBalance(t, svc, account.ID, 180)
}

func TestUpdateIncomeZeroAmountKeepsOld(t *testing.T) {
	svc := newTestService(t, Config{})
	account := seedAccount(t, svc, 1, 100)

	income, err := svc.CreateIncome(context.Background(), &domain.Income{
		UserID:    1,
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateIncome(context.Background(), income.ID, &domain.Income{
		Description: "corrected note only",
	})
	require.NoError(t, err)

	assert.True(t, updated.Amount.Equal(decimal.NewFromInt(50)))
	requireBalance(t, svc, account.ID, 150)
}

func TestDeleteIncomeReversesCredit(t *testing.T) {
	svc := newTestService(t, Config{})
	account := seedAccount(t, svc, 1, 0)

	income, err := svc.CreateIncome(context.Background(), &domain.Income{
		UserID:    1,
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(75),
	})
	require.NoError(t, err)
	requireBalance(t, svc, account.ID, 75)

	require.NoError(t, svc.DeleteIncome(context.Background(), income.ID))
	requireBalance(t, svc, account.ID, 0)

	err = svc.DeleteIncome(context.Background(), income.ID)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestTotalIncomeSumsPerUser(t *testing.T) {
	svc := newTestService(t, Config{})
	account := seedAccount(t, svc, 1, 0)
	other := seedAccount(t, svc, 2, 0)

	for _, amount := range []int64{40, 60} {
		_, err := svc.CreateIncome(context.Background(), &domain.Income{
			UserID:    1,
			AccountID: account.ID,
			Amount:    decimal.NewFromInt(amount),
		})
		require.NoError(t, err)
	}
	_, err := svc.CreateIncome(context.Background(), &domain.Income{
		UserID:    2,
		AccountID: other.ID,
		Amount:    decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	total, err := svc.TotalIncome(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(100)), "total = %s", total)
}
