package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slikapay/payment-engine/internal/domain/entity"
	errs "github.com/slikapay/payment-engine/internal/domain/error"
)

func TestCancelPayment_PendingCancelled(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.repo.On("GetByID", ctx, testTxnID).Return(testTransaction(entity.StatusPending), nil)
	f.repo.On("UpdateStatus", ctx, testTxnID, entity.StatusCancelled, "").Return(nil)

	txn, err := f.service.CancelPayment(ctx, testOwnerID, testTxnID)

	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, txn.Status)
	f.repo.AssertExpectations(t)
}

func TestCancelPayment_IsPurelyLocal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.repo.On("GetByID", ctx, testTxnID).Return(testTransaction(entity.StatusPending), nil)
	f.repo.On("UpdateStatus", ctx, testTxnID, entity.StatusCancelled, "").Return(nil)

	_, err := f.service.CancelPayment(ctx, testOwnerID, testTxnID)

	require.NoError(t, err)
	f.gateway.AssertNotCalled(t, "GetPaymentStatus", mock.Anything, mock.Anything, mock.Anything)
	f.gateway.AssertNotCalled(t, "RefundPayment",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelPayment_NonPendingRejected(t *testing.T) {
	for _, status := range []entity.TransactionStatus{
		entity.StatusCompleted,
		entity.StatusFailed,
		entity.StatusCancelled,
		entity.StatusRefunded,
	} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()

			f.repo.On("GetByID", ctx, testTxnID).Return(testTransaction(status), nil)

			_, err := f.service.CancelPayment(ctx, testOwnerID, testTxnID)

			assert.ErrorIs(t, err, errs.ErrInvalidStateTransition)
			f.repo.AssertNotCalled(t, "UpdateStatus",
				mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCancelPayment_OwnershipEnforced(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.repo.On("GetByID", ctx, testTxnID).Return(testTransaction(entity.StatusPending), nil)

	_, err := f.service.CancelPayment(ctx, "someone-else", testTxnID)

	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}
