package waafi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"shiine-academy-backend/internal/payments"
)

// successResponseCode is the literal code the gateway returns for an approved
// purchase. It is a string in the wire format, not a number.
const successResponseCode = "2001"

const (
	schemaVersion = "1.0"
	channelName   = "WEB"
	serviceName   = "API_PURCHASE"
	paymentMethod = "MWALLET_ACCOUNT"
)

// Config carries the merchant credentials issued by the gateway.
type Config struct {
	APIURL      string
	MerchantUID string
	APIUserID   string
	APIKey      string
}

// Provider implements payments.Provider for the Waafi purchase API. The same
// endpoint and envelope serve both the EVC Plus and Waafi wallet channels;
// only the payer account differs.
type Provider struct {
	config     Config
	httpClient *http.Client
}

func NewProvider(config Config) (*Provider, error) {
	if strings.TrimSpace(config.APIURL) == "" {
		return nil, errors.New("waafi API URL is required")
	}
	if config.MerchantUID == "" || config.APIUserID == "" || config.APIKey == "" {
		return nil, errors.New("waafi merchant credentials are required")
	}

	return &Provider{
		config:     config,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type purchaseRequest struct {
	SchemaVersion string        `json:"schemaVersion"`
	RequestID     string        `json:"requestId"`
	Timestamp     string        `json:"timestamp"`
	ChannelName   string        `json:"channelName"`
	ServiceName   string        `json:"serviceName"`
	ServiceParams serviceParams `json:"serviceParams"`
}

type serviceParams struct {
	MerchantUID     string          `json:"merchantUid"`
	APIUserID       string          `json:"apiUserId"`
	APIKey          string          `json:"apiKey"`
	PaymentMethod   string          `json:"paymentMethod"`
	PayerInfo       payerInfo       `json:"payerInfo"`
	TransactionInfo transactionInfo `json:"transactionInfo"`
}

type payerInfo struct {
	AccountNo string `json:"accountNo"`
}

type transactionInfo struct {
	ReferenceID string `json:"referenceId"`
	InvoiceID   string `json:"invoiceId"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
}

type purchaseResponse struct {
	ResponseCode string `json:"responseCode"`
	ResponseMsg  string `json:"responseMsg"`
	ErrorCode    string `json:"errorCode"`
	Params       struct {
		TransactionID string `json:"transactionId"`
		State         string `json:"state"`
	} `json:"params"`
}

// Charge issues a purchase request and folds every failure mode, transport
// included, into a normalized result.
func (p *Provider) Charge(ctx context.Context, params payments.ChargeParams) payments.Result {
	if p == nil {
		return payments.Failure("waafi provider is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	envelope := purchaseRequest{
		SchemaVersion: schemaVersion,
		RequestID:     uuid.NewString(),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		ChannelName:   channelName,
		ServiceName:   serviceName,
		ServiceParams: serviceParams{
			MerchantUID:   p.config.MerchantUID,
			APIUserID:     p.config.APIUserID,
			APIKey:        p.config.APIKey,
			PaymentMethod: paymentMethod,
			PayerInfo:     payerInfo{AccountNo: strings.TrimSpace(params.PhoneNumber)},
			TransactionInfo: transactionInfo{
				ReferenceID: params.ReferenceID,
				InvoiceID:   params.InvoiceID,
				Amount:      strconv.FormatFloat(params.Amount, 'f', 2, 64),
				Currency:    params.Currency,
				Description: params.Description,
			},
		},
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return payments.Failure(fmt.Sprintf("failed to encode payment request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.APIURL, bytes.NewReader(body))
	if err != nil {
		return payments.Failure(fmt.Sprintf("failed to build payment request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return payments.Failure("payment network error: " + err.Error())
	}
	defer resp.Body.Close()

	var payload purchaseResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return payments.Failure("payment gateway returned an unreadable response")
	}

	if payload.ResponseCode != successResponseCode {
		message := strings.TrimSpace(payload.ResponseMsg)
		if message == "" {
			message = fmt.Sprintf("payment rejected with code %s", payload.ResponseCode)
		}
		return payments.Failure(message)
	}

	return payments.Result{
		Success:     true,
		Message:     "Payment approved",
		ReferenceID: params.ReferenceID,
	}
}
