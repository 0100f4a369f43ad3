package payment

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/slikapay/payment-engine/internal/domain/entity"
	coreport "github.com/slikapay/payment-engine/internal/domain/port/core"
	gwport "github.com/slikapay/payment-engine/internal/domain/port/gateway"
	"github.com/slikapay/payment-engine/internal/domain/port/persistence"
	ucport "github.com/slikapay/payment-engine/internal/domain/port/usecase"
)

type gatewayMock struct {
	mock.Mock
}

func (m *gatewayMock) CreatePayment(ctx context.Context, input gwport.CreatePaymentInput) (*gwport.CreatePaymentResult, error) {
	args := m.Called(ctx, input)
	if res := args.Get(0); res != nil {
		return res.(*gwport.CreatePaymentResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *gatewayMock) GetPaymentStatus(ctx context.Context, merchant entity.MerchantProfile, orderID string) (string, error) {
	args := m.Called(ctx, merchant, orderID)
	return args.String(0), args.Error(1)
}

func (m *gatewayMock) RefundPayment(ctx context.Context, merchant entity.MerchantProfile, orderID string, amountMinor int64, itemAmounts []int64) (gwport.RefundOutcome, error) {
	args := m.Called(ctx, merchant, orderID, amountMinor, itemAmounts)
	return args.Get(0).(gwport.RefundOutcome), args.Error(1)
}

func (m *gatewayMock) ValidateWebhookSignature(payload map[string]any, signature string) bool {
	args := m.Called(payload, signature)
	return args.Bool(0)
}

func (m *gatewayMock) HealthCheck(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

type repoMock struct {
	mock.Mock
}

func (m *repoMock) Create(ctx context.Context, txn *entity.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *repoMock) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*entity.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *repoMock) GetByOrderID(ctx context.Context, orderID string) (*entity.Transaction, error) {
	args := m.Called(ctx, orderID)
	if res := args.Get(0); res != nil {
		return res.(*entity.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *repoMock) GetByGatewayTransactionID(ctx context.Context, gatewayTxnID string) (*entity.Transaction, error) {
	args := m.Called(ctx, gatewayTxnID)
	if res := args.Get(0); res != nil {
		return res.(*entity.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *repoMock) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Transaction, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	if res := args.Get(0); res != nil {
		return res.([]*entity.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *repoMock) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *repoMock) UpdateStatus(ctx context.Context, id string, status entity.TransactionStatus, gatewayTxnID string) error {
	args := m.Called(ctx, id, status, gatewayTxnID)
	return args.Error(0)
}

func (m *repoMock) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *repoMock) StatsByOwner(ctx context.Context, ownerID string, from, to time.Time) ([]persistence.StatusStat, error) {
	args := m.Called(ctx, ownerID, from, to)
	if res := args.Get(0); res != nil {
		return res.([]persistence.StatusStat), args.Error(1)
	}
	return nil, args.Error(1)
}

type merchantsMock struct {
	mock.Mock
}

func (m *merchantsMock) ProfileFor(ctx context.Context, ownerID string) (*entity.MerchantProfile, error) {
	args := m.Called(ctx, ownerID)
	if res := args.Get(0); res != nil {
		return res.(*entity.MerchantProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

type qrMock struct {
	mock.Mock
}

func (m *qrMock) Encode(url string, size int) ([]byte, error) {
	args := m.Called(url, size)
	if res := args.Get(0); res != nil {
		return res.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

// stubTimeProvider runs the engine on a fixed clock with no real waiting
type stubTimeProvider struct {
	now time.Time
}

func (s *stubTimeProvider) Now() time.Time                  { return s.now }
func (s *stubTimeProvider) Since(t time.Time) time.Duration { return s.now.Sub(t) }
func (s *stubTimeProvider) Sleep(time.Duration)             {}
func (s *stubTimeProvider) WithTimeout(ctx context.Context, _ time.Duration) (context.Context, context.CancelFunc) {
	return context.WithCancel(ctx)
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]any) {}
func (nopLogger) Info(string, map[string]any)  {}
func (nopLogger) Warn(string, map[string]any)  {}
func (nopLogger) Error(string, map[string]any) {}
func (nopLogger) Flush() error                 { return nil }

var _ coreport.TimeProvider = (*stubTimeProvider)(nil)
var _ coreport.Logger = nopLogger{}

// testFixture bundles a service with its mocked collaborators
type testFixture struct {
	gateway   *gatewayMock
	repo      *repoMock
	merchants *merchantsMock
	qr        *qrMock
	clock     *stubTimeProvider
	service   ucport.PaymentUseCase
}

func newFixture() *testFixture {
	f := &testFixture{
		gateway:   &gatewayMock{},
		repo:      &repoMock{},
		merchants: &merchantsMock{},
		qr:        &qrMock{},
		clock:     &stubTimeProvider{now: time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)},
	}
	f.service = NewService(f.gateway, f.repo, f.merchants, f.qr, f.clock, nopLogger{}, Config{
		MaxAmountMinor: 5_000_000,
	})
	return f
}

const (
	testOwnerID = "owner-42"
	testTxnID   = "11111111-2222-3333-4444-555555555555"
	testOrderID = "pay-1741946400000-ab12cd34"
)

func testProfile() *entity.MerchantProfile {
	return &entity.MerchantProfile{
		OwnerID:     testOwnerID,
		MerchantID:  "M100",
		TerminalID:  "T001",
		Currency:    "ILS",
		Language:    "he",
		CallbackURL: "https://merchant.example/webhook",
	}
}

func testTransaction(status entity.TransactionStatus) *entity.Transaction {
	return &entity.Transaction{
		ID:          testTxnID,
		OwnerID:     testOwnerID,
		OrderID:     testOrderID,
		Amount:      "100.50",
		AmountMinor: 10050,
		Currency:    "ILS",
		PaymentURL:  "https://gateway.example/pay/abc",
		Status:      status,
		CreatedAt:   time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
	}
}
