package edahab

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"shiine-academy-backend/internal/payments"
)

// Config carries the agent credentials issued by the gateway. Secret is the
// shared signing key, never sent in the body.
type Config struct {
	APIURL    string
	APIKey    string
	AgentCode string
	Secret    string
	ReturnURL string
}

// Provider implements payments.Provider for the eDahab invoice API. Requests
// are authenticated by a SHA-256 digest of the serialized body concatenated
// with the shared secret, passed as a query parameter.
type Provider struct {
	config     Config
	httpClient *http.Client
}

func NewProvider(config Config) (*Provider, error) {
	if strings.TrimSpace(config.APIURL) == "" {
		return nil, errors.New("edahab API URL is required")
	}
	if config.APIKey == "" || config.Secret == "" {
		return nil, errors.New("edahab API key and secret are required")
	}

	return &Provider{
		config:     config,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type invoiceRequest struct {
	APIKey       string  `json:"apiKey"`
	EdahabNumber string  `json:"edahabNumber"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	AgentCode    string  `json:"agentCode"`
	ReturnURL    string  `json:"returnUrl"`
}

// StatusCode is a pointer: zero is the gateway's success code, so an absent
// field must stay distinguishable from it.
type invoiceResponse struct {
	InvoiceStatus     string `json:"invoiceStatus"`
	StatusCode        *int   `json:"statusCode"`
	StatusDescription string `json:"statusDescription"`
	Success           bool   `json:"success"`
	TransactionID     string `json:"transactionId"`
}

// SignBody computes the request digest: hex(SHA-256(body || secret)).
func SignBody(body []byte, secret string) string {
	sum := sha256.Sum256(append(append([]byte{}, body...), []byte(secret)...))
	return hex.EncodeToString(sum[:])
}

// Charge issues an invoice request. Success requires a 2xx HTTP response and
// either an explicit zero status code or the success flag; anything else,
// transport failures included, becomes a normalized failure result.
func (p *Provider) Charge(ctx context.Context, params payments.ChargeParams) payments.Result {
	if p == nil {
		return payments.Failure("edahab provider is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	envelope := invoiceRequest{
		APIKey:       p.config.APIKey,
		EdahabNumber: strings.TrimSpace(params.PhoneNumber),
		Amount:       params.Amount,
		Currency:     params.Currency,
		AgentCode:    p.config.AgentCode,
		ReturnURL:    p.config.ReturnURL,
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return payments.Failure(fmt.Sprintf("failed to encode payment request: %v", err))
	}

	endpoint := p.config.APIURL + "?hash=" + SignBody(body, p.config.Secret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return payments.Failure(fmt.Sprintf("failed to build payment request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return payments.Failure("payment network error: " + err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var payload invoiceResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			if message := strings.TrimSpace(payload.StatusDescription); message != "" {
				return payments.Failure(message)
			}
		}
		return payments.Failure(fmt.Sprintf("payment gateway error (HTTP %d)", resp.StatusCode))
	}

	var payload invoiceResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return payments.Failure("payment gateway returned an unreadable response")
	}

	if (payload.StatusCode != nil && *payload.StatusCode == 0) || payload.Success {
		return payments.Result{
			Success:     true,
			Message:     "Payment approved",
			ReferenceID: params.ReferenceID,
		}
	}

	message := strings.TrimSpace(payload.StatusDescription)
	if message == "" && payload.StatusCode != nil {
		message = fmt.Sprintf("payment rejected with status %d", *payload.StatusCode)
	}
	if message == "" {
		message = "payment rejected by gateway"
	}
	return payments.Failure(message)
}
