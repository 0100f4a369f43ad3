package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/slikapay/payment-engine/internal/domain/entity"
	errs "github.com/slikapay/payment-engine/internal/domain/error"
	coreport "github.com/slikapay/payment-engine/internal/domain/port/core"
	gwport "github.com/slikapay/payment-engine/internal/domain/port/gateway"
)

// Gateway endpoints
const (
	pathCreate = "/api/payment/create"
	pathStatus = "/api/payment/status"
	pathRefund = "/api/payment/refund"
	pathHealth = "/api/health"
)

// Config carries the client's connection and retry settings
type Config struct {
	BaseURL     string
	APIKey      string
	Secret      string
	OrderPrefix string // Prepended to generated order identifiers

	// RetryAttempts bounds the attempt loop for create/status/refund calls
	RetryAttempts int
	// RetryBaseDelay is the linear backoff factor: attempt k waits
	// RetryBaseDelay x k. Linear, not exponential, so the worst case stays
	// predictable inside the enclosing soft timeout.
	RetryBaseDelay time.Duration
	// RatePause is the minimum spacing between any two gateway calls,
	// retried or not, to respect the gateway's rate limits
	RatePause time.Duration

	// Per-operation soft timeouts, independent of the gateway's own
	CreateTimeout time.Duration
	StatusTimeout time.Duration
	RefundTimeout time.Duration
	HealthTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = 3
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = 200 * time.Millisecond
	}
	if c.CreateTimeout <= 0 {
		c.CreateTimeout = 15 * time.Second
	}
	if c.StatusTimeout <= 0 {
		c.StatusTimeout = 10 * time.Second
	}
	if c.RefundTimeout <= 0 {
		c.RefundTimeout = 15 * time.Second
	}
	if c.HealthTimeout <= 0 {
		c.HealthTimeout = 3 * time.Second
	}
	if c.OrderPrefix == "" {
		c.OrderPrefix = "pay"
	}
}

// Client talks the gateway's signed-JSON protocol over HTTPS POST
type Client struct {
	cfg          Config
	httpClient   *http.Client
	signer       *Signer
	timeProvider coreport.TimeProvider
	logger       coreport.Logger

	// Call pacing; the only mutable state the client carries
	lastCallMu sync.Mutex
	lastCall   time.Time
}

// NewClient creates a gateway client. The http.Client carries no timeout
// of its own: every call runs under a per-operation context deadline.
func NewClient(cfg Config, timeProvider coreport.TimeProvider, logger coreport.Logger) *Client {
	cfg.applyDefaults()
	return &Client{
		cfg:          cfg,
		httpClient:   &http.Client{},
		signer:       NewSigner(cfg.Secret),
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// newOrderID generates a fresh order identifier. Collisions are
// negligible but not impossible; callers treat a gateway duplicate-order
// rejection as the (extremely rare) failure it is.
func (c *Client) newOrderID() string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%s-%d-%s", c.cfg.OrderPrefix, c.timeProvider.Now().UnixMilli(), suffix)
}

// CreatePayment opens a payment with the gateway and returns the hosted
// page URL plus the generated order identifier
func (c *Client) CreatePayment(ctx context.Context, input gwport.CreatePaymentInput) (*gwport.CreatePaymentResult, error) {
	amountMinor, err := entity.ToMinorUnits(input.Amount)
	if err != nil {
		return nil, err
	}

	orderID := c.newOrderID()

	// The top-level amount goes to the gateway in minor units while
	// line-item prices stay in major units. The asymmetry is the gateway's,
	// not ours, and must be preserved for the request to be accepted.
	fields := map[string]any{
		"apiKey":     c.cfg.APIKey,
		"merchantId": input.Merchant.MerchantID,
		"terminalId": input.Merchant.TerminalID,
		"orderId":    orderID,
		"amount":     amountMinor,
		"currency":   input.Merchant.Currency,
		"language":   input.Merchant.Language,
		"items":      buildItems(input.Items, input.Amount, input.Description),
	}
	if input.Description != "" {
		fields["description"] = input.Description
	}
	if input.Customer != nil {
		fields["customerName"] = input.Customer.Name
		fields["customerEmail"] = input.Customer.Email
		fields["customerPhone"] = input.Customer.Phone
	}
	if input.MaxInstallments > 0 {
		fields["maxInstallments"] = input.MaxInstallments
	}
	if len(input.CustomFields) > 0 {
		fields["customFields"] = input.CustomFields
	}
	if input.Merchant.SuccessURL != "" {
		fields["successUrl"] = input.Merchant.SuccessURL
	}
	if input.Merchant.CancelURL != "" {
		fields["cancelUrl"] = input.Merchant.CancelURL
	}
	if input.Merchant.CallbackURL != "" {
		fields["callbackUrl"] = input.Merchant.CallbackURL
	}

	ctx, cancel := c.timeProvider.WithTimeout(ctx, c.cfg.CreateTimeout)
	defer cancel()

	resp, err := c.doCall(ctx, "createPayment", orderID, pathCreate, fields)
	if err != nil {
		return nil, err
	}

	if !isAcceptedStatus(respField(resp, "status")) {
		return nil, errs.NewGatewayError("createPayment", orderID, errs.GatewayFailureBusiness, 0, 1,
			gatewayErrorMessage(resp), errs.ErrGatewayRejected)
	}

	url := respField(resp, "url")
	if url == "" {
		return nil, errs.NewGatewayError("createPayment", orderID, errs.GatewayFailureBusiness, 0, 1,
			"response carries no payment url", errs.ErrGatewayRejected)
	}

	c.logger.Info("Gateway accepted payment", map[string]any{
		"order_id":     orderID,
		"amount_minor": amountMinor,
		"currency":     input.Merchant.Currency,
	})

	return &gwport.CreatePaymentResult{PaymentURL: url, OrderID: orderID}, nil
}

// GetPaymentStatus queries the gateway's raw status code for an order
func (c *Client) GetPaymentStatus(ctx context.Context, merchant entity.MerchantProfile, orderID string) (string, error) {
	fields := map[string]any{
		"apiKey":     c.cfg.APIKey,
		"merchantId": merchant.MerchantID,
		"orderId":    orderID,
	}

	ctx, cancel := c.timeProvider.WithTimeout(ctx, c.cfg.StatusTimeout)
	defer cancel()

	resp, err := c.doCall(ctx, "getPaymentStatus", orderID, pathStatus, fields)
	if err != nil {
		return "", err
	}

	status := respField(resp, "status")
	if status == "" {
		return "", errs.NewGatewayError("getPaymentStatus", orderID, errs.GatewayFailureBusiness, 0, 1,
			"response carries no status", errs.ErrGatewayRejected)
	}
	return status, nil
}

// RefundPayment issues a refund in minor units and reports whether the
// gateway treated it as full or partial
func (c *Client) RefundPayment(ctx context.Context, merchant entity.MerchantProfile, orderID string, amountMinor int64, itemAmounts []int64) (gwport.RefundOutcome, error) {
	fields := map[string]any{
		"apiKey":     c.cfg.APIKey,
		"merchantId": merchant.MerchantID,
		"orderId":    orderID,
		"amount":     amountMinor,
	}
	if len(itemAmounts) > 0 {
		fields["items"] = itemAmounts
	}

	ctx, cancel := c.timeProvider.WithTimeout(ctx, c.cfg.RefundTimeout)
	defer cancel()

	resp, err := c.doCall(ctx, "refundPayment", orderID, pathRefund, fields)
	if err != nil {
		return "", err
	}

	switch respField(resp, "status") {
	case string(gwport.RefundFull):
		return gwport.RefundFull, nil
	case string(gwport.RefundPartial):
		return gwport.RefundPartial, nil
	default:
		return "", errs.NewGatewayError("refundPayment", orderID, errs.GatewayFailureBusiness, 0, 1,
			fmt.Sprintf("unexpected refund status %q", respField(resp, "status")), errs.ErrGatewayRejected)
	}
}

// ValidateWebhookSignature delegates to the signing codec. Malformed input
// yields false, never an error.
func (c *Client) ValidateWebhookSignature(payload map[string]any, signature string) bool {
	if payload == nil {
		return false
	}
	return c.signer.Verify(payload, strings.TrimSpace(signature))
}

// HealthCheck probes the gateway with a short timeout, swallowing errors
func (c *Client) HealthCheck(ctx context.Context) bool {
	ctx, cancel := c.timeProvider.WithTimeout(ctx, c.cfg.HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+pathHealth, nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// doCall signs the field map and POSTs it, retrying network failures and
// 5xx responses with linear backoff. 4xx responses are definitive and are
// never retried. No retry crosses the soft-timeout boundary: once the
// context is done the last classified error surfaces immediately.
func (c *Client) doCall(ctx context.Context, op, orderID, path string, fields map[string]any) (map[string]any, error) {
	fields[SignatureField] = c.signer.Sign(fields)

	body, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("%w: marshaling gateway request: %s", errs.ErrInternalServer, err.Error())
	}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.RetryAttempts; attempt++ {
		if attempt > 1 {
			c.timeProvider.Sleep(c.cfg.RetryBaseDelay * time.Duration(attempt))
		}
		c.pace()

		if ctx.Err() != nil {
			return nil, c.timeoutError(op, orderID, attempt, lastErr)
		}

		resp, err := c.attempt(ctx, path, body)
		if err == nil {
			return resp, nil
		}

		var gwErr *errs.GatewayError
		if errors.As(err, &gwErr) {
			gwErr.Op = op
			gwErr.OrderID = orderID
			gwErr.Attempts = attempt
		}

		if errors.Is(err, errs.ErrGatewayRejected) {
			// Definitive rejection, retrying cannot change the answer
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, c.timeoutError(op, orderID, attempt, err)
		}

		lastErr = err
		c.logger.Warn("Gateway call failed, will retry", map[string]any{
			"operation": op,
			"order_id":  orderID,
			"attempt":   attempt,
			"error":     err.Error(),
		})
	}

	c.logger.Error("Gateway retry budget exhausted", map[string]any{
		"operation": op,
		"order_id":  orderID,
		"attempts":  c.cfg.RetryAttempts,
		"error":     lastErr.Error(),
	})
	return nil, lastErr
}

// attempt performs one HTTP round trip and classifies the outcome
func (c *Client) attempt(ctx context.Context, path string, body []byte) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: building gateway request: %s", errs.ErrInternalServer, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.NewGatewayError("", "", errs.GatewayFailureNetwork, 0, 0,
			err.Error(), errs.ErrGatewayUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.NewGatewayError("", "", errs.GatewayFailureNetwork, resp.StatusCode, 0,
			"reading response body: "+err.Error(), errs.ErrGatewayUnavailable)
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, errs.NewGatewayError("", "", errs.GatewayFailureHTTPStatus, resp.StatusCode, 0,
			truncate(string(raw), 200), errs.ErrGatewayUnavailable)
	case resp.StatusCode >= 400:
		return nil, errs.NewGatewayError("", "", errs.GatewayFailureHTTPStatus, resp.StatusCode, 0,
			truncate(string(raw), 200), errs.ErrGatewayRejected)
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var parsed map[string]any
	if err := decoder.Decode(&parsed); err != nil {
		return nil, errs.NewGatewayError("", "", errs.GatewayFailureBusiness, resp.StatusCode, 0,
			"malformed response body", errs.ErrGatewayRejected)
	}
	return parsed, nil
}

// pace enforces the fixed inter-call spacing across all gateway traffic
func (c *Client) pace() {
	if c.cfg.RatePause <= 0 {
		return
	}
	c.lastCallMu.Lock()
	elapsed := c.timeProvider.Since(c.lastCall)
	if !c.lastCall.IsZero() && elapsed < c.cfg.RatePause {
		c.lastCallMu.Unlock()
		c.timeProvider.Sleep(c.cfg.RatePause - elapsed)
		c.lastCallMu.Lock()
	}
	c.lastCall = c.timeProvider.Now()
	c.lastCallMu.Unlock()
}

func (c *Client) timeoutError(op, orderID string, attempts int, lastErr error) error {
	msg := "soft timeout elapsed"
	if lastErr != nil {
		msg = "soft timeout elapsed, last failure: " + lastErr.Error()
	}
	return errs.NewGatewayError(op, orderID, errs.GatewayFailureNetwork, 0, attempts, msg, errs.ErrGatewayTimeout)
}

// buildItems forwards caller line items, or synthesizes a single item for
// the full total when none were supplied. Prices stay in major units.
func buildItems(items []entity.LineItem, total, description string) []map[string]any {
	if len(items) == 0 {
		name := description
		if name == "" {
			name = "Payment"
		}
		return []map[string]any{{
			"name":     name,
			"quantity": 1,
			"price":    entity.EnsureTwoDecimalPlaces(total),
		}}
	}

	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, map[string]any{
			"name":     item.Name,
			"quantity": item.Quantity,
			"price":    entity.EnsureTwoDecimalPlaces(item.Price),
		})
	}
	return out
}

// respField reads a response field as a string whether the gateway sent a
// string or a bare number
func respField(resp map[string]any, key string) string {
	switch v := resp[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func gatewayErrorMessage(resp map[string]any) string {
	code := respField(resp, "errorCode")
	msg := respField(resp, "errorMessage")
	switch {
	case code != "" && msg != "":
		return code + ": " + msg
	case msg != "":
		return msg
	case code != "":
		return code
	default:
		return "gateway declined the request"
	}
}

// isAcceptedStatus reports whether a create response means "accepted"
func isAcceptedStatus(status string) bool {
	switch strings.ToLower(status) {
	case "1", "success":
		return true
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
