package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arjunmehra/eventloft-backend/pkg/config"
	errs "github.com/arjunmehra/eventloft-backend/pkg/errors"
)

// Client talks to the Razorpay Orders REST API over basic auth.
type Client struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
}

// Order is the subset of the gateway order payload we consume.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
}

type apiErrorEnvelope struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// NewClient builds a gateway client from config. The timeout bounds every
// outbound call so a slow gateway cannot hold request handlers hostage.
func NewClient(cfg config.RazorpayConfig) (*Client, error) {
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil, fmt.Errorf("razorpay key id and secret are required")
	}
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("razorpay base url is required")
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		baseURL:   baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// SigningSecret returns the key secret used for callback signature checks.
func (c *Client) SigningSecret() string {
	return c.keySecret
}

// CreateOrder registers an order with the gateway. Amount is rupees and gets
// converted to paise, the smallest INR unit the API accepts.
func (c *Client) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*Order, error) {
	if amount.Sign() <= 0 {
		return nil, errs.New(errs.CodeValidation, "order amount must be positive")
	}
	if currency == "" {
		currency = "INR"
	}

	paise := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	body, err := json.Marshal(createOrderRequest{
		Amount:   paise,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, errs.Wrap(errs.CodeInternal, err, "encoding order request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, errs.Wrap(errs.CodeInternal, err, "building order request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.CodeGateway, err, "calling payment gateway")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errs.Wrap(errs.CodeGateway, err, "reading gateway response")
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, errs.New(errs.CodeGateway, fmt.Sprintf("gateway returned status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		var envelope apiErrorEnvelope
		if err := json.Unmarshal(payload, &envelope); err == nil && envelope.Error.Description != "" {
			return nil, errs.New(errs.CodeGateway, envelope.Error.Description)
		}
		return nil, errs.New(errs.CodeGateway, fmt.Sprintf("gateway rejected order with status %d", resp.StatusCode))
	}

	var order Order
	if err := json.Unmarshal(payload, &order); err != nil {
		return nil, errs.Wrap(errs.CodeGateway, err, "decoding gateway order")
	}
	if order.ID == "" {
		return nil, errs.New(errs.CodeGateway, "gateway order missing id")
	}
	return &order, nil
}
