package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
	rzperrors "github.com/razorpay/razorpay-go/errors"

	"github.com/sevalink/marketplace_server/config"
	"github.com/sevalink/marketplace_server/internal/pkg/metrics"
)

const statusCaptured = "captured"

// Client wraps the Razorpay SDK behind the Gateway interface.
type Client struct {
	rzp       *razorpay.Client
	keyID     string
	keySecret string
}

func NewClient(cfg *config.PaymentConfig) *Client {
	keyID := strings.TrimSpace(cfg.KeyID)
	keySecret := strings.TrimSpace(cfg.KeySecret)

	rzp := razorpay.NewClient(keyID, keySecret)
	// the SDK appends the /v1 prefix itself
	if base := strings.TrimSuffix(strings.TrimRight(cfg.BaseURL, "/"), "/v1"); base != "" {
		rzp.Request.BaseURL = base
	}
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 15
	}
	rzp.SetTimeout(int16(timeout))

	return &Client{rzp: rzp, keyID: keyID, keySecret: keySecret}
}

// KeyID is the public key the checkout widget needs.
func (c *Client) KeyID() string {
	return c.keyID
}

type paymentEntity struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Amount           int64  `json:"amount"`
	Status           string `json:"status"`
	Method           string `json:"method"`
	ErrorDescription string `json:"error_description"`
}

// CreateOrder opens an order at the gateway.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if c.keyID == "" || c.keySecret == "" {
		return nil, ErrNotConfigured
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("order amount must be positive, got %d", req.Amount)
	}

	data := map[string]interface{}{
		"amount":   req.Amount,
		"currency": req.Currency,
		"receipt":  req.Receipt,
	}
	if len(req.Notes) > 0 {
		data["notes"] = req.Notes
	}

	body, err := c.call(ctx, "create_order", func() (map[string]interface{}, error) {
		return c.rzp.Order.Create(data, nil)
	})
	if err != nil {
		return nil, err
	}

	var order Order
	if err := decode(body, &order); err != nil {
		return nil, fmt.Errorf("failed to decode order: %w", err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("gateway returned an order without id")
	}
	return &order, nil
}

// VerifyPayment checks the callback signature, then confirms with the
// gateway that the payment belongs to the order and was captured.
func (c *Client) VerifyPayment(ctx context.Context, cb Callback) (*VerifiedPayment, error) {
	if c.keyID == "" || c.keySecret == "" {
		return nil, ErrNotConfigured
	}
	if !VerifySignature(cb.OrderID, cb.PaymentID, cb.Signature, c.keySecret) {
		return nil, failed("signature mismatch")
	}

	body, err := c.call(ctx, "fetch_payment", func() (map[string]interface{}, error) {
		return c.rzp.Payment.Fetch(cb.PaymentID, nil, nil)
	})
	if err != nil {
		return nil, err
	}

	var p paymentEntity
	if err := decode(body, &p); err != nil {
		return nil, fmt.Errorf("failed to decode payment: %w", err)
	}
	// the SDK answers some rejected lookups with an empty body and no error
	if p.ID == "" {
		return nil, failed("payment not found")
	}

	if p.OrderID != cb.OrderID {
		return nil, failed("payment does not belong to order")
	}
	if p.Status != statusCaptured {
		reason := p.ErrorDescription
		if reason == "" {
			reason = "payment status " + p.Status
		}
		return nil, failed("%s", reason)
	}

	return &VerifiedPayment{
		PaymentID: p.ID,
		OrderID:   p.OrderID,
		Amount:    p.Amount,
		Method:    p.Method,
	}, nil
}

type callResult struct {
	body map[string]interface{}
	err  error
}

// call runs one SDK request and records its latency. The SDK takes no
// context, so cancellation only stops the wait.
func (c *Client) call(ctx context.Context, operation string, fn func() (map[string]interface{}, error)) (map[string]interface{}, error) {
	done := make(chan callResult, 1)
	start := time.Now()
	go func() {
		body, err := fn()
		metrics.GatewayLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		done <- callResult{body: body, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", operation, ctx.Err())
	case r := <-done:
		if r.err != nil {
			return nil, gatewayError(operation, r.err)
		}
		return r.body, nil
	}
}

// gatewayError turns a described rejection into a FailureError. Transport
// and server errors stay plain so callers can tell them apart.
func gatewayError(operation string, err error) error {
	var bad *rzperrors.BadRequestError
	if errors.As(err, &bad) && bad.Message != "" {
		return failed("%s", bad.Message)
	}
	return fmt.Errorf("%s request failed: %w", operation, err)
}

func decode(body map[string]interface{}, out interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
