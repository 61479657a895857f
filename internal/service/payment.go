package service

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/openlearn/checkout/internal/config"
	"github.com/openlearn/checkout/internal/domain"
	"github.com/shopspring/decimal"
)

type PaymentResult struct {
	TransactionID string
	Status        domain.PaymentStatus
}

// PaymentProcessor is the external payment collaborator. Implementations
// return domain.ErrPaymentFailed (possibly wrapped) when the charge is
// declined, so the orchestrator can abort with the right error kind.
type PaymentProcessor interface {
	Charge(ctx context.Context, amount decimal.Decimal, method domain.PaymentMethod, orderID string) (*PaymentResult, error)
}

// GatewayProcessor charges through the payment gateway's signed HTTP API.
type GatewayProcessor struct {
	cfg        *config.Config
	httpClient *http.Client
}

func NewGatewayProcessor(cfg *config.Config) *GatewayProcessor {
	return &GatewayProcessor{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *GatewayProcessor) Charge(ctx context.Context, amount decimal.Decimal, method domain.PaymentMethod, orderID string) (*PaymentResult, error) {
	payload := map[string]interface{}{
		"amount":   amount.StringFixed(2),
		"currency": "USD",
		"method":   string(method),
		"order_id": orderID,
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	sign := createGatewaySign(payloadJSON, p.cfg.GatewayAPIKey)

	req, err := http.NewRequestWithContext(ctx, "POST", p.cfg.GatewayURL+"/charge", bytes.NewReader(payloadJSON))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("merchant", p.cfg.GatewayMerchantID)
	req.Header.Set("sign", sign)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var result struct {
		Result struct {
			Status        string `json:"status"`
			TransactionID string `json:"transaction_id"`
			Message       string `json:"message"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if result.Result.Status != "paid" {
		return nil, fmt.Errorf("%w: gateway status %q: %s",
			domain.ErrPaymentFailed, result.Result.Status, result.Result.Message)
	}

	return &PaymentResult{
		TransactionID: result.Result.TransactionID,
		Status:        domain.PaymentPaid,
	}, nil
}

func createGatewaySign(payload []byte, apiKey string) string {
	encoded := base64.StdEncoding.EncodeToString(payload)
	hash := md5.Sum([]byte(encoded + apiKey))
	return hex.EncodeToString(hash[:])
}

// MockProcessor approves every charge unless told to decline. Used for test
// mode and in tests.
type MockProcessor struct {
	Decline bool
}

func (p *MockProcessor) Charge(ctx context.Context, amount decimal.Decimal, method domain.PaymentMethod, orderID string) (*PaymentResult, error) {
	if p.Decline {
		return nil, fmt.Errorf("%w: declined by mock processor", domain.ErrPaymentFailed)
	}
	return &PaymentResult{
		TransactionID: "mock-" + uuid.New().String(),
		Status:        domain.PaymentPaid,
	}, nil
}
