package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacksonmollel/pesamart/internal/core/domain"
)

func seedCancellation(t *testing.T, svc *Service, orderID int64) *domain.Cancellation {
	t.Helper()
	cancellation, err := svc.CreateCancellation(context.Background(), &domain.Cancellation{
		OrderID: orderID,
		Reason:  "changed my mind",
	})
	require.NoError(t, err)
	return cancellation
}

func TestCreateCancellationCancelsOrder(t *testing.T) {
	svc := newTestService(t)
	order := seedOrder(t, svc, domain.OrderConfirmed)

	cancellation := seedCancellation(t, svc, order.ID)

	assert.Equal(t, domain.RefundPending, cancellation.RefundStatus)
	assert.False(t, cancellation.CancelledAt.IsZero())

	current, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCancelled, current.Status)
}

func TestCreateCancellationRejections(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateCancellation(context.Background(), &domain.Cancellation{})
	assert.True(t, domain.IsKind(err, domain.KindInvalidInput))

	delivered := seedOrder(t, svc, domain.OrderDelivered)
	_, err = svc.CreateCancellation(context.Background(), &domain.Cancellation{OrderID: delivered.ID})
	assert.True(t, domain.IsKind(err, domain.KindAlreadyDelivered))

	cancelled := seedOrder(t, svc, domain.OrderPending)
	seedCancellation(t, svc, cancelled.ID)
	_, err = svc.CreateCancellation(context.Background(), &domain.Cancellation{OrderID: cancelled.ID})
	assert.True(t, domain.IsKind(err, domain.KindAlreadyCancelled))
}

func TestProcessRefundFlipsCompletedPayments(t *testing.T) {
	svc := newTestService(t)
	order := seedOrder(t, svc, domain.OrderPending)
	paid := seedPayment(t, svc, order.ID, "UPI")
	pending := seedPayment(t, svc, order.ID, "UPI")
	_, err := svc.ProcessPayment(context.Background(), paid.ID)
	require.NoError(t, err)

	cancellation := seedCancellation(t, svc, order.ID)

	processed, err := svc.ProcessRefund(context.Background(), cancellation.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RefundProcessed, processed.RefundStatus)

	payments, err := svc.ListPaymentsByOrder(context.Background(), order.ID)
	require.NoError(t, err)
	statuses := map[int64]domain.PaymentStatus{}
	for _, payment := range payments {
		statuses[payment.ID] = payment.Status
	}
	assert.Equal(t, domain.PaymentRefunded, statuses[paid.ID])
	assert.Equal(t, domain.PaymentPending, statuses[pending.ID])
}

func TestCompleteRefundIsTerminal(t *testing.T) {
	svc := newTestService(t)
	order := seedOrder(t, svc, domain.OrderPending)
	cancellation := seedCancellation(t, svc, order.ID)

	completed, err := svc.CompleteRefund(context.Background(), cancellation.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RefundCompleted, completed.RefundStatus)

	_, err = svc.ProcessRefund(context.Background(), cancellation.ID)
	assert.True(t, domain.IsKind(err, domain.KindAlreadyRefunded))
}

func TestRefundNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ProcessRefund(context.Background(), 999)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	_, err = svc.CompleteRefund(context.Background(), 999)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}
