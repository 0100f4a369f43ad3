package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slikapay/payment-engine/internal/domain/entity"
	errs "github.com/slikapay/payment-engine/internal/domain/error"
	gwport "github.com/slikapay/payment-engine/internal/domain/port/gateway"
	ucport "github.com/slikapay/payment-engine/internal/domain/port/usecase"
)

func TestCreatePayment_Success(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.merchants.On("ProfileFor", ctx, testOwnerID).Return(testProfile(), nil)
	f.gateway.On("CreatePayment", ctx, mock.MatchedBy(func(input gwport.CreatePaymentInput) bool {
		return input.Amount == "100.50" && input.Merchant.MerchantID == "M100"
	})).Return(&gwport.CreatePaymentResult{
		PaymentURL: "https://gateway.example/pay/abc",
		OrderID:    testOrderID,
	}, nil)
	f.repo.On("Create", ctx, mock.MatchedBy(func(txn *entity.Transaction) bool {
		return txn.OwnerID == testOwnerID &&
			txn.OrderID == testOrderID &&
			txn.Amount == "100.50" &&
			txn.AmountMinor == 10050 &&
			txn.Currency == "ILS" &&
			txn.Status == entity.StatusPending
	})).Return(nil)
	f.qr.On("Encode", "https://gateway.example/pay/abc", 256).Return([]byte{0x89, 'P', 'N', 'G'}, nil)

	result, err := f.service.CreatePayment(ctx, testOwnerID, ucport.CreatePaymentRequest{
		Amount:      "100.50",
		Description: "three coffees",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://gateway.example/pay/abc", result.PaymentURL)
	assert.Equal(t, entity.StatusPending, result.Transaction.Status)
	assert.Equal(t, int64(10050), result.Transaction.AmountMinor)
	assert.NotEmpty(t, result.QRCode)

	f.gateway.AssertExpectations(t)
	f.repo.AssertExpectations(t)
}

func TestCreatePayment_DefaultsCurrencyFromProfile(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.merchants.On("ProfileFor", ctx, testOwnerID).Return(testProfile(), nil)
	f.gateway.On("CreatePayment", ctx, mock.Anything).Return(&gwport.CreatePaymentResult{
		PaymentURL: "https://gateway.example/pay/abc",
		OrderID:    testOrderID,
	}, nil)
	f.repo.On("Create", ctx, mock.Anything).Return(nil)
	f.qr.On("Encode", mock.Anything, mock.Anything).Return([]byte{1}, nil)

	result, err := f.service.CreatePayment(ctx, testOwnerID, ucport.CreatePaymentRequest{Amount: "10.00"})

	require.NoError(t, err)
	assert.Equal(t, "ILS", result.Transaction.Currency)
}

func TestCreatePayment_InvalidAmountNeverReachesGateway(t *testing.T) {
	testCases := []struct {
		name     string
		amount   string
		expected error
	}{
		{"negative", "-5.00", errs.ErrNegativeAmount},
		{"zero", "0", errs.ErrInvalidAmount},
		{"garbage", "ten shekels", errs.ErrInvalidAmount},
		{"above ceiling", "99999999.00", errs.ErrAmountTooLarge},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.service.CreatePayment(context.Background(), testOwnerID, ucport.CreatePaymentRequest{
				Amount: tc.amount,
			})

			assert.ErrorIs(t, err, tc.expected)
			f.gateway.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
			f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreatePayment_InvalidItemsRejected(t *testing.T) {
	testCases := []struct {
		name  string
		items []entity.LineItem
	}{
		{"missing name", []entity.LineItem{{Name: "", Quantity: 1, Price: "5.00"}}},
		{"zero quantity", []entity.LineItem{{Name: "coffee", Quantity: 0, Price: "5.00"}}},
		{"negative price", []entity.LineItem{{Name: "coffee", Quantity: 1, Price: "-5.00"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.service.CreatePayment(context.Background(), testOwnerID, ucport.CreatePaymentRequest{
				Amount: "5.00",
				Items:  tc.items,
			})

			assert.Error(t, err)
			f.gateway.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
		})
	}
}

func TestCreatePayment_GatewayFailureAbortsBeforePersistence(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.merchants.On("ProfileFor", ctx, testOwnerID).Return(testProfile(), nil)
	f.gateway.On("CreatePayment", ctx, mock.Anything).
		Return(nil, errs.NewGatewayError("create", "", errs.GatewayFailureNetwork, 0, 3, "connection refused", errs.ErrGatewayUnavailable))

	_, err := f.service.CreatePayment(ctx, testOwnerID, ucport.CreatePaymentRequest{Amount: "20.00"})

	assert.ErrorIs(t, err, errs.ErrGatewayUnavailable)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePayment_PersistFailureSurfaces(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.merchants.On("ProfileFor", ctx, testOwnerID).Return(testProfile(), nil)
	f.gateway.On("CreatePayment", ctx, mock.Anything).Return(&gwport.CreatePaymentResult{
		PaymentURL: "https://gateway.example/pay/abc",
		OrderID:    testOrderID,
	}, nil)
	f.repo.On("Create", ctx, mock.Anything).Return(errs.ErrDatabaseConnection)

	_, err := f.service.CreatePayment(ctx, testOwnerID, ucport.CreatePaymentRequest{Amount: "20.00"})

	assert.ErrorIs(t, err, errs.ErrDatabaseConnection)
}

func TestCreatePayment_QRFailureDoesNotFailPayment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.merchants.On("ProfileFor", ctx, testOwnerID).Return(testProfile(), nil)
	f.gateway.On("CreatePayment", ctx, mock.Anything).Return(&gwport.CreatePaymentResult{
		PaymentURL: "https://gateway.example/pay/abc",
		OrderID:    testOrderID,
	}, nil)
	f.repo.On("Create", ctx, mock.Anything).Return(nil)
	f.qr.On("Encode", mock.Anything, mock.Anything).Return(nil, errors.New("png encoder exploded"))

	result, err := f.service.CreatePayment(ctx, testOwnerID, ucport.CreatePaymentRequest{Amount: "20.00"})

	require.NoError(t, err)
	assert.Nil(t, result.QRCode)
	assert.Equal(t, "https://gateway.example/pay/abc", result.PaymentURL)
}

func TestCreatePayment_UnknownMerchant(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.merchants.On("ProfileFor", ctx, "stranger").Return(nil, errs.ErrMerchantNotFound)

	_, err := f.service.CreatePayment(ctx, "stranger", ucport.CreatePaymentRequest{Amount: "20.00"})

	assert.ErrorIs(t, err, errs.ErrMerchantNotFound)
	f.gateway.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
}
