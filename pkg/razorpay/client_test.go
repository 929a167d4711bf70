package razorpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arjunmehra/eventloft-backend/pkg/config"
	errs "github.com/arjunmehra/eventloft-backend/pkg/errors"
)

func testConfig(baseURL string) config.RazorpayConfig {
	return config.RazorpayConfig{
		KeyID:          "rzp_test_key",
		KeySecret:      "rzp_test_secret",
		BaseURL:        baseURL,
		RequestTimeout: 2 * time.Second,
	}
}

func TestCreateOrderSuccess(t *testing.T) {
	var gotBody createOrderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/orders" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "rzp_test_key" || pass != "rzp_test_secret" {
			t.Error("missing or wrong basic auth credentials")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decoding request body: %v", err)
		}
		json.NewEncoder(w).Encode(Order{
			ID:       "order_test123",
			Amount:   gotBody.Amount,
			Currency: gotBody.Currency,
			Receipt:  gotBody.Receipt,
			Status:   "created",
		})
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	order, err := client.CreateOrder(context.Background(), decimal.NewFromFloat(4999.50), "INR", "bk_42")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.ID != "order_test123" {
		t.Errorf("order id = %q", order.ID)
	}
	if gotBody.Amount != 499950 {
		t.Errorf("amount in paise = %d, want 499950", gotBody.Amount)
	}
	if gotBody.Currency != "INR" {
		t.Errorf("currency = %q", gotBody.Currency)
	}
	if gotBody.Receipt != "bk_42" {
		t.Errorf("receipt = %q", gotBody.Receipt)
	}
}

func TestCreateOrderGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.CreateOrder(context.Background(), decimal.NewFromInt(100), "INR", "")
	typed := errs.As(err)
	if typed == nil || typed.Code() != errs.CodeGateway {
		t.Fatalf("expected gateway error, got %v", err)
	}
}

func TestCreateOrderBadRequestSurfacesDescription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount exceeds maximum"}}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.CreateOrder(context.Background(), decimal.NewFromInt(100), "INR", "")
	typed := errs.As(err)
	if typed == nil || typed.Code() != errs.CodeGateway {
		t.Fatalf("expected gateway error, got %v", err)
	}
	if typed.Message() != "amount exceeds maximum" {
		t.Errorf("message = %q", typed.Message())
	}
}

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	client, err := NewClient(testConfig("https://api.example.test/v1"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.CreateOrder(context.Background(), decimal.Zero, "INR", "")
	typed := errs.As(err)
	if typed == nil || typed.Code() != errs.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
