package orders

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacksonmollel/pesamart/internal/core/domain"
)

func seedPayment(t *testing.T, svc *Service, orderID int64, method string) *domain.Payment {
	t.Helper()
	payment, err := svc.CreatePayment(context.Background(), &domain.Payment{
		OrderID:       orderID,
		PaymentMethod: method,
		Amount:        decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	return payment
}

func TestCreatePaymentDefaults(t *testing.T) {
	svc := newTestService(t)
	order := seedOrder(t, svc, domain.OrderPending)

	payment := seedPayment(t, svc, order.ID, "CREDIT CARD")

	assert.Equal(t, domain.PaymentPending, payment.Status)
	assert.False(t, payment.PaymentDate.IsZero())
	assert.True(t, strings.HasPrefix(payment.TransactionID, "TXN_CC_"), "got %s", payment.TransactionID)
	assert.Len(t, payment.TransactionID, len("TXN_CC_")+8)
}

func TestTransactionIDPrefixes(t *testing.T) {
	tests := []struct {
		method string
		prefix string
	}{
		{"UPI", "TXN_UPI_"},
		{"credit card", "TXN_CC_"},
		{"DEBIT CARD", "TXN_DC_"},
		{"CASH ON DELIVERY", "TXN_COD_"},
		{"BANK TRANSFER", "TXN_OTH_"},
	}

	for _, tc := range tests {
		assert.True(t, strings.HasPrefix(transactionID(tc.method), tc.prefix), "method %s", tc.method)
	}
}

func TestCreatePaymentRejections(t *testing.T) {
	svc := newTestService(t)
	order := seedOrder(t, svc, domain.OrderPending)

	_, err := svc.CreatePayment(context.Background(), &domain.Payment{
		OrderID: order.ID,
		Amount:  decimal.Zero,
	})
	assert.True(t, domain.IsKind(err, domain.KindInvalidAmount))

	_, err = svc.CreatePayment(context.Background(), &domain.Payment{
		OrderID: 999,
		Amount:  decimal.NewFromInt(100),
	})
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestProcessPaymentConfirmsPendingOrder(t *testing.T) {
	svc := newTestService(t)
	order := seedOrder(t, svc, domain.OrderPending)
	payment := seedPayment(t, svc, order.ID, "UPI")

	processed, err := svc.ProcessPayment(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, processed.Status)

	confirmed, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderConfirmed, confirmed.Status)
}

func TestProcessPaymentLeavesAdvancedOrderAlone(t *testing.T) {
	svc := newTestService(t)
	order := seedOrder(t, svc, domain.OrderShipped)
	payment := seedPayment(t, svc, order.ID, "UPI")

	_, err := svc.ProcessPayment(context.Background(), payment.ID)
	require.NoError(t, err)

	current, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderShipped, current.Status)
}

func TestProcessPaymentTwice(t *testing.T) {
	svc := newTestService(t)
	order := seedOrder(t, svc, domain.OrderPending)
	payment := seedPayment(t, svc, order.ID, "UPI")

	_, err := svc.ProcessPayment(context.Background(), payment.ID)
	require.NoError(t, err)

	_, err = svc.ProcessPayment(context.Background(), payment.ID)
	assert.True(t, domain.IsKind(err, domain.KindAlreadyCompleted))
}

func TestRefundPaymentRequiresCompletion(t *testing.T) {
	svc := newTestService(t)
	order := seedOrder(t, svc, domain.OrderPending)
	payment := seedPayment(t, svc, order.ID, "UPI")

	_, err := svc.RefundPayment(context.Background(), payment.ID)
	assert.True(t, domain.IsKind(err, domain.KindNotCompleted))

	_, err = svc.ProcessPayment(context.Background(), payment.ID)
	require.NoError(t, err)

	refunded, err := svc.RefundPayment(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentRefunded, refunded.Status)
}

func TestFailPayment(t *testing.T) {
	svc := newTestService(t)
	order := seedOrder(t, svc, domain.OrderPending)
	payment := seedPayment(t, svc, order.ID, "UPI")

	failed, err := svc.FailPayment(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentFailed, failed.Status)

	// a failed payment never touches the order
	current, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPending, current.Status)
}

func TestTotalRevenueCountsCompletedOnly(t *testing.T) {
	svc := newTestService(t)
	order := seedOrder(t, svc, domain.OrderPending)

	completed := seedPayment(t, svc, order.ID, "UPI")
	seedPayment(t, svc, order.ID, "UPI")
	_, err := svc.ProcessPayment(context.Background(), completed.ID)
	require.NoError(t, err)

	revenue, err := svc.TotalRevenue(context.Background())
	require.NoError(t, err)
	assert.True(t, revenue.Equal(decimal.NewFromInt(500)), "revenue = %s", revenue)
}
