package provider

import (
	"context"
)

// ConfigField represents a required configuration field for a payment provider
type ConfigField struct {
	Key         string `json:"key"`
	Required    bool   `json:"required"`
	Type        string `json:"type"` // "string", "number", "url", "boolean"
	Description string `json:"description"`
	Example     string `json:"example"`
	Pattern     string `json:"pattern,omitempty"`
}

// Customer represents the payer details attached to a transaction
type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Item represents a purchased line item, priced in whole currency units
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

// TransactionRequest contains everything needed to open a hosted checkout
// transaction at the gateway.
type TransactionRequest struct {
	OrderID         string   `json:"orderId"`
	GrossAmount     int64    `json:"grossAmount"`
	Currency        string   `json:"currency"`
	Items           []Item   `json:"items"`
	Customer        Customer `json:"customer"`
	EnabledPayments []string `json:"enabledPayments,omitempty"`
}

// TransactionResponse is the gateway's handle for a created transaction: an
// opaque token plus the hosted payment page the client is redirected to.
type TransactionResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirectUrl"`
}

// PaymentProvider defines the interface every payment gateway client implements
type PaymentProvider interface {
	// Initialize sets up the provider with authentication and configuration
	Initialize(config map[string]string) error

	// GetRequiredConfig returns the configuration fields required for this provider
	GetRequiredConfig(environment string) []ConfigField

	// ValidateConfig validates the provided configuration against provider requirements
	ValidateConfig(config map[string]string) error

	// CreateTransaction opens a hosted checkout transaction at the gateway
	CreateTransaction(ctx context.Context, request TransactionRequest) (*TransactionResponse, error)

	// ValidateWebhook verifies an incoming notification's signature and, when
	// valid, returns the normalized payment data extracted from it
	ValidateWebhook(ctx context.Context, data map[string]string) (bool, map[string]string, error)
}

// ProviderFactory is a function type that creates a new PaymentProvider
type ProviderFactory func() PaymentProvider
