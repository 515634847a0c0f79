package edahab

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"shiine-academy-backend/internal/payments"
)

const testSecret = "shared-secret"

func testConfig(url string) Config {
	return Config{
		APIURL:    url,
		APIKey:    "api-key",
		AgentCode: "712211",
		Secret:    testSecret,
		ReturnURL: "http://localhost:5173",
	}
}

func chargeParams() payments.ChargeParams {
	return payments.ChargeParams{
		PhoneNumber: "655551234",
		Amount:      25,
		Currency:    "USD",
		ReferenceID: "ref-1",
	}
}

func TestSignBody(t *testing.T) {
	body := []byte(`{"apiKey":"k"}`)
	sum := sha256.Sum256(append(body, []byte(testSecret)...))
	want := hex.EncodeToString(sum[:])

	if got := SignBody(body, testSecret); got != want {
		t.Fatalf("SignBody = %q, want %q", got, want)
	}
}

func TestChargeSignsRequestBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}

		hash := r.URL.Query().Get("hash")
		if hash != SignBody(body, testSecret) {
			t.Errorf("hash %q does not match body digest", hash)
		}

		var envelope invoiceRequest
		if err := json.Unmarshal(body, &envelope); err != nil {
			t.Errorf("decode envelope: %v", err)
		}
		if envelope.EdahabNumber != "655551234" || envelope.Amount != 25 {
			t.Errorf("unexpected envelope: %+v", envelope)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{"statusCode": 0, "invoiceStatus": "Paid"})
	}))
	defer server.Close()

	provider, err := NewProvider(testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	result := provider.Charge(context.Background(), chargeParams())
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
}

func TestChargeSuccessFlagAlone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"statusCode": 7, "success": true})
	}))
	defer server.Close()

	provider, err := NewProvider(testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	if result := provider.Charge(context.Background(), chargeParams()); !result.Success {
		t.Fatalf("explicit success flag should win, got %+v", result)
	}
}

func TestChargeDeclinedPassesDescription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"statusCode":        5,
			"statusDescription": "Insufficient balance",
		})
	}))
	defer server.Close()

	provider, err := NewProvider(testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	result := provider.Charge(context.Background(), chargeParams())
	if result.Success {
		t.Fatal("non-zero status without success flag must fail")
	}
	if result.Message != "Insufficient balance" {
		t.Errorf("description must pass through, got %q", result.Message)
	}
}

func TestChargeGatewayErrorStatusFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{"message": "internal error"})
	}))
	defer server.Close()

	provider, err := NewProvider(testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	result := provider.Charge(context.Background(), chargeParams())
	if result.Success {
		t.Fatalf("an HTTP 500 without a status code must not approve, got %+v", result)
	}
	if result.Message != "payment gateway error (HTTP 500)" {
		t.Errorf("unexpected message %q", result.Message)
	}
}

func TestChargeResponseWithoutStatusCodeFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"invoiceStatus": "Pending"})
	}))
	defer server.Close()

	provider, err := NewProvider(testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	result := provider.Charge(context.Background(), chargeParams())
	if result.Success {
		t.Fatalf("a body with neither status code nor success flag must not approve, got %+v", result)
	}
	if result.Message == "" {
		t.Error("failure must carry a message")
	}
}

func TestChargeFoldsTransportErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	provider, err := NewProvider(testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	result := provider.Charge(context.Background(), chargeParams())
	if result.Success || result.Message == "" {
		t.Fatalf("transport failure must be a messaged failure, got %+v", result)
	}
}
