package payment

import (
	"context"
	"fmt"

	"github.com/slikapay/payment-engine/internal/domain/entity"
	errs "github.com/slikapay/payment-engine/internal/domain/error"
	gwport "github.com/slikapay/payment-engine/internal/domain/port/gateway"
	ucport "github.com/slikapay/payment-engine/internal/domain/port/usecase"
)

// CreatePayment validates the request, opens the payment with the gateway,
// and only then persists a pending transaction. A gateway failure aborts
// before persistence so no orphan records are created.
func (s *Service) CreatePayment(ctx context.Context, ownerID string, req ucport.CreatePaymentRequest) (*ucport.CreatePaymentResult, error) {
	// Validate before any gateway traffic
	if _, err := entity.ValidateAmount(req.Amount, s.cfg.MaxAmountMinor); err != nil {
		return nil, err
	}
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}

	profile, err := s.merchants.ProfileFor(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = profile.Currency
	}

	result, err := s.gateway.CreatePayment(ctx, gwport.CreatePaymentInput{
		Amount:          req.Amount,
		Merchant:        *profile,
		Description:     req.Description,
		Items:           req.Items,
		Customer:        req.Customer,
		MaxInstallments: req.MaxInstallments,
		CustomFields:    req.CustomFields,
	})
	if err != nil {
		return nil, err
	}

	txn, err := entity.NewTransaction(
		ownerID,
		result.OrderID,
		req.Amount,
		currency,
		result.PaymentURL,
		req.Description,
		s.cfg.MaxAmountMinor,
		s.timeProvider,
	)
	if err != nil {
		// Validation already passed; reaching here means a programming error
		return nil, fmt.Errorf("%w: %s", errs.ErrInternalServer, err.Error())
	}
	txn.Items = req.Items
	txn.Customer = req.Customer
	txn.Metadata = req.Metadata

	if err := s.repo.Create(ctx, txn); err != nil {
		// The gateway order exists but we lost the record; surface loudly
		s.logger.Error("Persisting transaction failed after gateway accept", map[string]any{
			"order_id": result.OrderID,
			"owner_id": ownerID,
			"error":    err.Error(),
		})
		return nil, err
	}

	qrPNG, qrErr := s.qr.Encode(result.PaymentURL, s.cfg.QRSize)
	if qrErr != nil {
		// The payment stands; callers can still use the raw URL
		s.logger.Warn("QR rendering failed", map[string]any{
			"transaction_id": txn.ID,
			"error":          qrErr.Error(),
		})
		qrPNG = nil
	}

	s.logger.Info("Payment created", map[string]any{
		"transaction_id": txn.ID,
		"order_id":       txn.OrderID,
		"owner_id":       ownerID,
		"amount":         txn.Amount,
		"currency":       txn.Currency,
	})

	return &ucport.CreatePaymentResult{
		Transaction: txn,
		PaymentURL:  result.PaymentURL,
		QRCode:      qrPNG,
	}, nil
}

// validateItems checks each caller-supplied line item for well-formed
// positive prices and quantities. Item totals are not required to sum to
// the payment total.
func validateItems(items []entity.LineItem) error {
	for i, item := range items {
		if item.Name == "" {
			return fmt.Errorf("%w: item %d has no name", errs.ErrInvalidRequest, i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item %d quantity must be positive", errs.ErrInvalidRequest, i)
		}
		if _, err := entity.ValidateAmount(item.Price, 0); err != nil {
			return fmt.Errorf("item %d price: %w", i, err)
		}
	}
	return nil
}
