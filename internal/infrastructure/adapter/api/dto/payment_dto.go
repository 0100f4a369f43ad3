package dto

import (
	"encoding/base64"
	"time"

	"github.com/slikapay/payment-engine/internal/domain/entity"
	"github.com/slikapay/payment-engine/internal/domain/port/persistence"
	ucport "github.com/slikapay/payment-engine/internal/domain/port/usecase"
)

// LineItemDTO is one purchasable unit in a payment request
type LineItemDTO struct {
	Name     string `json:"name" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
	Price    string `json:"price" binding:"required"`
}

// CustomerDTO carries optional customer contact fields
type CustomerDTO struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// CreatePaymentRequest represents the API request for opening a payment
type CreatePaymentRequest struct {
	Amount          string            `json:"amount" binding:"required"`
	Currency        string            `json:"currency,omitempty"`
	Description     string            `json:"description,omitempty"`
	Items           []LineItemDTO     `json:"items,omitempty"`
	Customer        *CustomerDTO      `json:"customer,omitempty"`
	MaxInstallments int               `json:"maxInstallments,omitempty"`
	CustomFields    map[string]string `json:"customFields,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// ToUseCaseRequest maps the API request to the use-case input
func (r *CreatePaymentRequest) ToUseCaseRequest() ucport.CreatePaymentRequest {
	items := make([]entity.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, entity.LineItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	var customer *entity.CustomerInfo
	if r.Customer != nil {
		customer = &entity.CustomerInfo{
			Name:  r.Customer.Name,
			Email: r.Customer.Email,
			Phone: r.Customer.Phone,
		}
	}

	return ucport.CreatePaymentRequest{
		Amount:          r.Amount,
		Currency:        r.Currency,
		Description:     r.Description,
		Items:           items,
		Customer:        customer,
		MaxInstallments: r.MaxInstallments,
		CustomFields:    r.CustomFields,
		Metadata:        r.Metadata,
	}
}

// RefundPaymentRequest represents the API request for a refund.
// An empty amount means a full refund.
type RefundPaymentRequest struct {
	Amount string `json:"amount,omitempty"`
}

// PaymentResponse is the API view of a stored transaction
type PaymentResponse struct {
	ID                   string    `json:"id"`
	OrderID              string    `json:"orderId"`
	GatewayTransactionID string    `json:"gatewayTransactionId,omitempty"`
	Amount               string    `json:"amount"`
	Currency             string    `json:"currency"`
	Status               string    `json:"status"`
	PaymentURL           string    `json:"paymentUrl,omitempty"`
	Description          string    `json:"description,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// FromTransaction maps a domain transaction to its API view
func FromTransaction(txn *entity.Transaction) PaymentResponse {
	return PaymentResponse{
		ID:                   txn.ID,
		OrderID:              txn.OrderID,
		GatewayTransactionID: txn.GatewayTransactionID,
		Amount:               txn.Amount,
		Currency:             txn.Currency,
		Status:               string(txn.Status),
		PaymentURL:           txn.PaymentURL,
		Description:          txn.Description,
		CreatedAt:            txn.CreatedAt,
		UpdatedAt:            txn.UpdatedAt,
	}
}

// CreatePaymentResponse bundles the created payment with customer artifacts
type CreatePaymentResponse struct {
	Payment    PaymentResponse `json:"payment"`
	PaymentURL string          `json:"paymentUrl"`
	QRCode     string          `json:"qrCode,omitempty"` // base64-encoded PNG
}

// FromCreateResult maps the use-case result to the API response
func FromCreateResult(result *ucport.CreatePaymentResult) CreatePaymentResponse {
	resp := CreatePaymentResponse{
		Payment:    FromTransaction(result.Transaction),
		PaymentURL: result.PaymentURL,
	}
	if len(result.QRCode) > 0 {
		resp.QRCode = base64.StdEncoding.EncodeToString(result.QRCode)
	}
	return resp
}

// ListPaymentsResponse is one page of an owner's payment history
type ListPaymentsResponse struct {
	Payments []PaymentResponse `json:"payments"`
	Total    int64             `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// FromTransactions maps a page of transactions to the API response
func FromTransactions(txns []*entity.Transaction, total int64, limit, offset int) ListPaymentsResponse {
	payments := make([]PaymentResponse, 0, len(txns))
	for _, txn := range txns {
		payments = append(payments, FromTransaction(txn))
	}
	return ListPaymentsResponse{
		Payments: payments,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}
}

// StatusStatDTO is one row of an owner's aggregate report
type StatusStatDTO struct {
	Status     string `json:"status"`
	Count      int64  `json:"count"`
	TotalMinor int64  `json:"totalMinor"`
}

// StatsResponse is the owner's per-status aggregate report
type StatsResponse struct {
	Stats []StatusStatDTO `json:"stats"`
}

// FromStats maps store aggregates to the API response
func FromStats(stats []persistence.StatusStat) StatsResponse {
	rows := make([]StatusStatDTO, 0, len(stats))
	for _, stat := range stats {
		rows = append(rows, StatusStatDTO{
			Status:     string(stat.Status),
			Count:      stat.Count,
			TotalMinor: stat.TotalMinor,
		})
	}
	return StatsResponse{Stats: rows}
}
