package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slikapay/payment-engine/internal/domain/entity"
	errs "github.com/slikapay/payment-engine/internal/domain/error"
	"github.com/slikapay/payment-engine/internal/domain/port/persistence"
)

func TestGetPayment_ReturnsStoredStateWithoutGateway(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.repo.On("GetByID", ctx, testTxnID).Return(testTransaction(entity.StatusPending), nil)

	txn, err := f.service.GetPayment(ctx, testOwnerID, testTxnID)

	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, txn.Status)
	f.gateway.AssertNotCalled(t, "GetPaymentStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestListPayments_LimitDefaultsAndCaps(t *testing.T) {
	testCases := []struct {
		name          string
		limit, offset int
		wantLimit     int
		wantOffset    int
	}{
		{"zero limit defaults", 0, 0, 50, 0},
		{"negative limit defaults", -3, 0, 50, 0},
		{"in-range limit kept", 20, 10, 20, 10},
		{"oversized limit capped", 500, 0, 100, 0},
		{"negative offset clamped", 20, -5, 20, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()

			f.repo.On("ListByOwner", ctx, testOwnerID, tc.wantLimit, tc.wantOffset).
				Return([]*entity.Transaction{testTransaction(entity.StatusPending)}, nil)
			f.repo.On("CountByOwner", ctx, testOwnerID).Return(int64(7), nil)

			txns, total, err := f.service.ListPayments(ctx, testOwnerID, tc.limit, tc.offset)

			require.NoError(t, err)
			assert.Len(t, txns, 1)
			assert.Equal(t, int64(7), total)
			f.repo.AssertExpectations(t)
		})
	}
}

func TestListPayments_RepoFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.repo.On("ListByOwner", ctx, testOwnerID, 50, 0).Return(nil, errs.ErrDatabaseConnection)

	_, _, err := f.service.ListPayments(ctx, testOwnerID, 0, 0)

	assert.ErrorIs(t, err, errs.ErrDatabaseConnection)
}

func TestDeletePayment_SoftDeletesNonCompleted(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.repo.On("GetByID", ctx, testTxnID).Return(testTransaction(entity.StatusPending), nil)
	f.repo.On("SoftDelete", ctx, testTxnID).Return(nil)

	err := f.service.DeletePayment(ctx, testOwnerID, testTxnID)

	require.NoError(t, err)
	f.repo.AssertExpectations(t)
}

func TestDeletePayment_CompletedRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.repo.On("GetByID", ctx, testTxnID).Return(testTransaction(entity.StatusCompleted), nil)

	err := f.service.DeletePayment(ctx, testOwnerID, testTxnID)

	assert.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	f.repo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
}

func TestDeletePayment_OwnershipEnforced(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.repo.On("GetByID", ctx, testTxnID).Return(testTransaction(entity.StatusPending), nil)

	err := f.service.DeletePayment(ctx, "someone-else", testTxnID)

	assert.ErrorIs(t, err, errs.ErrUnauthorized)
	f.repo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
}

func TestOwnerStats_DelegatesToStore(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	expected := []persistence.StatusStat{
		{Status: entity.StatusCompleted, Count: 3, TotalMinor: 30150},
		{Status: entity.StatusFailed, Count: 1, TotalMinor: 9900},
	}
	f.repo.On("StatsByOwner", ctx, testOwnerID, from, to).Return(expected, nil)

	stats, err := f.service.OwnerStats(ctx, testOwnerID, from, to)

	require.NoError(t, err)
	assert.Equal(t, expected, stats)
}

func TestOwnerStats_InvertedRangeRejected(t *testing.T) {
	f := newFixture()
	from := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.service.OwnerStats(context.Background(), testOwnerID, from, to)

	assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	f.repo.AssertNotCalled(t, "StatsByOwner",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOwnerStats_OpenEndedRangeAllowed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	f.repo.On("StatsByOwner", ctx, testOwnerID, from, time.Time{}).
		Return([]persistence.StatusStat{}, nil)

	_, err := f.service.OwnerStats(ctx, testOwnerID, from, time.Time{})

	require.NoError(t, err)
}
