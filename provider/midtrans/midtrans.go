package midtrans

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/workhub/paysnap/infra/logger"
	"github.com/workhub/paysnap/provider"
)

const (
	// API URLs
	apiSandboxURL    = "https://app.sandbox.midtrans.com"
	apiProductionURL = "https://app.midtrans.com"

	// API Endpoints
	endpointSnapTransactions = "/snap/v1/transactions"

	// Default Values
	defaultCurrency = "IDR"
	defaultTimeout  = 30 * time.Second
)

// MidtransProvider implements the provider.PaymentProvider interface for the
// Midtrans Snap hosted checkout.
type MidtransProvider struct {
	serverKey      string
	clientKey      string
	frontendOrigin string
	isProduction   bool
	client         *provider.ProviderHTTPClient
}

// NewProvider creates a new Midtrans payment provider
func NewProvider() provider.PaymentProvider {
	return &MidtransProvider{}
}

// GetRequiredConfig returns the configuration fields required for Midtrans
func (p *MidtransProvider) GetRequiredConfig(environment string) []provider.ConfigField {
	return []provider.ConfigField{
		{
			Key:         "serverKey",
			Required:    true,
			Type:        "string",
			Description: "Midtrans Server Key (found in the Midtrans dashboard, Settings > Access Keys)",
			Example:     "SB-Mid-server-abc123",
		},
		{
			Key:         "clientKey",
			Required:    true,
			Type:        "string",
			Description: "Midtrans Client Key (found in the Midtrans dashboard, Settings > Access Keys)",
			Example:     "SB-Mid-client-abc123",
		},
		{
			Key:         "environment",
			Required:    true,
			Type:        "string",
			Description: "Environment setting (sandbox or production)",
			Example:     "sandbox",
			Pattern:     "^(sandbox|production)$",
		},
	}
}

// ValidateConfig validates the provided configuration against Midtrans requirements
func (p *MidtransProvider) ValidateConfig(config map[string]string) error {
	return provider.ValidateConfigFields("midtrans", config, p.GetRequiredConfig(config["environment"]))
}

// Initialize sets up the Midtrans provider with merchant credentials
func (p *MidtransProvider) Initialize(conf map[string]string) error {
	p.serverKey = strings.TrimSpace(conf["serverKey"])
	p.clientKey = strings.TrimSpace(conf["clientKey"])

	if p.serverKey == "" || p.clientKey == "" {
		return errors.New("midtrans: serverKey and clientKey are required")
	}

	p.frontendOrigin = conf["frontendOrigin"]
	p.isProduction = conf["environment"] == "production"

	baseURL := apiSandboxURL
	if p.isProduction {
		baseURL = apiProductionURL
	}

	// Sandbox keys carry an SB- prefix; a mismatch usually means keys from
	// the wrong merchant environment were configured.
	looksSandbox := strings.HasPrefix(p.serverKey, "SB-")
	if p.isProduction && looksSandbox {
		logger.Warn("midtrans: production mode with sandbox-looking keys, check merchant credentials")
	}
	if !p.isProduction && !looksSandbox {
		logger.Warn("midtrans: sandbox mode with non-SB keys, check merchant credentials")
	}

	p.client = provider.NewProviderHTTPClient(&provider.HTTPClientConfig{
		BaseURL: baseURL,
		Timeout: defaultTimeout,
		DefaultHeaders: map[string]string{
			"Authorization": "Basic " + base64.StdEncoding.EncodeToString([]byte(p.serverKey+":")),
		},
	})

	return nil
}

// snapTransactionDetails mirrors the Snap transaction_details object
type snapTransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type snapItemDetail struct {
	ID       string `json:"id"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
}

type snapCustomerDetails struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type snapCallbacks struct {
	Finish  string `json:"finish,omitempty"`
	Pending string `json:"pending,omitempty"`
	Error   string `json:"error,omitempty"`
}

type snapRequest struct {
	TransactionDetails snapTransactionDetails `json:"transaction_details"`
	ItemDetails        []snapItemDetail       `json:"item_details"`
	CustomerDetails    snapCustomerDetails    `json:"customer_details"`
	CreditCard         map[string]bool        `json:"credit_card"`
	Callbacks          *snapCallbacks         `json:"callbacks,omitempty"`
	EnabledPayments    []string               `json:"enabled_payments,omitempty"`
}

type snapResponse struct {
	Token         string   `json:"token"`
	RedirectURL   string   `json:"redirect_url"`
	StatusMessage string   `json:"status_message"`
	ErrorMessages []string `json:"error_messages"`
}

// CreateTransaction opens a Snap transaction and returns its token plus the
// hosted payment page URL.
func (p *MidtransProvider) CreateTransaction(ctx context.Context, request provider.TransactionRequest) (*provider.TransactionResponse, error) {
	if request.OrderID == "" {
		return nil, errors.New("midtrans: orderId is required")
	}
	if request.GrossAmount <= 0 {
		return nil, errors.New("midtrans: grossAmount must be positive")
	}

	items := make([]snapItemDetail, 0, len(request.Items))
	for _, item := range request.Items {
		items = append(items, snapItemDetail{
			ID:       item.ID,
			Price:    item.Price,
			Quantity: item.Quantity,
			Name:     item.Name,
		})
	}

	snapReq := snapRequest{
		TransactionDetails: snapTransactionDetails{
			OrderID:     request.OrderID,
			GrossAmount: request.GrossAmount,
		},
		ItemDetails: items,
		CustomerDetails: snapCustomerDetails{
			FirstName: request.Customer.FirstName,
			LastName:  request.Customer.LastName,
			Email:     request.Customer.Email,
			Phone:     request.Customer.Phone,
		},
		CreditCard:      map[string]bool{"secure": true},
		EnabledPayments: request.EnabledPayments,
	}

	if p.frontendOrigin != "" {
		snapReq.Callbacks = &snapCallbacks{
			Finish:  p.frontendOrigin + "/payments/finish",
			Pending: p.frontendOrigin + "/payments/pending",
			Error:   p.frontendOrigin + "/payments/error",
		}
	}

	resp, err := p.client.SendJSON(ctx, &provider.HTTPRequest{
		Method:   http.MethodPost,
		Endpoint: endpointSnapTransactions,
		Body:     snapReq,
	})
	if err != nil {
		return nil, fmt.Errorf("midtrans: createTransaction failed: %w", err)
	}

	var snapResp snapResponse
	if err := json.Unmarshal(resp.Body, &snapResp); err != nil {
		return nil, fmt.Errorf("midtrans: failed to parse response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest || snapResp.Token == "" {
		return nil, errors.New("midtrans: " + snapErrorMessage(snapResp, resp.StatusCode))
	}

	return &provider.TransactionResponse{
		Token:       snapResp.Token,
		RedirectURL: snapResp.RedirectURL,
	}, nil
}

// ValidateWebhook verifies a Midtrans notification signature and returns the
// normalized payment data extracted from it.
func (p *MidtransProvider) ValidateWebhook(_ context.Context, data map[string]string) (bool, map[string]string, error) {
	orderID := data["order_id"]
	statusCode := data["status_code"]
	grossAmount := data["gross_amount"]
	signature := data["signature_key"]

	if orderID == "" || statusCode == "" || grossAmount == "" || signature == "" {
		return false, nil, errors.New("midtrans: missing required notification fields")
	}

	if !VerifySignature(orderID, statusCode, grossAmount, p.serverKey, signature) {
		return false, nil, nil
	}

	mapped := MapStatus(data["transaction_status"], data["fraud_status"])

	return true, map[string]string{
		"orderId":           orderID,
		"status":            string(mapped),
		"statusCode":        statusCode,
		"grossAmount":       grossAmount,
		"transactionStatus": data["transaction_status"],
		"fraudStatus":       data["fraud_status"],
		"paymentType":       data["payment_type"],
		"transactionId":     data["transaction_id"],
	}, nil
}

func snapErrorMessage(resp snapResponse, statusCode int) string {
	if resp.StatusMessage != "" {
		return resp.StatusMessage
	}
	if len(resp.ErrorMessages) > 0 {
		return resp.ErrorMessages[0]
	}
	return fmt.Sprintf("createTransaction failed with status %d", statusCode)
}
