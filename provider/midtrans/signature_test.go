package midtrans

import (
	"testing"
)

func TestSignatureDeterministic(t *testing.T) {
	a := Signature("ORDER-1", "200", "50000.00", "SB-Mid-server-key")
	b := Signature("ORDER-1", "200", "50000.00", "SB-Mid-server-key")

	if a != b {
		t.Error("expected identical inputs to produce identical signatures")
	}
	if len(a) != 128 {
		t.Errorf("expected 128 hex characters, got %d", len(a))
	}
}

func TestVerifySignature(t *testing.T) {
	serverKey := "SB-Mid-server-key"
	sig := Signature("ORDER-1", "200", "50000.00", serverKey)

	if !VerifySignature("ORDER-1", "200", "50000.00", serverKey, sig) {
		t.Error("expected a correctly computed signature to verify")
	}
}

func TestVerifySignatureRejectsMutations(t *testing.T) {
	serverKey := "SB-Mid-server-key"
	sig := Signature("ORDER-1", "200", "50000.00", serverKey)

	// Flipping any single input character must fail verification.
	tests := []struct {
		name        string
		orderID     string
		statusCode  string
		grossAmount string
		key         string
		signature   string
	}{
		{"order id changed", "ORDER-2", "200", "50000.00", serverKey, sig},
		{"status code changed", "ORDER-1", "201", "50000.00", serverKey, sig},
		{"gross amount changed", "ORDER-1", "200", "50000.01", serverKey, sig},
		{"server key changed", "ORDER-1", "200", "50000.00", "SB-Mid-server-kex", sig},
		{"signature last char changed", "ORDER-1", "200", "50000.00", serverKey, mutateLastChar(sig)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if VerifySignature(tt.orderID, tt.statusCode, tt.grossAmount, tt.key, tt.signature) {
				t.Error("expected verification to fail")
			}
		})
	}
}

func TestVerifySignatureFailsClosedOnEmptyInputs(t *testing.T) {
	serverKey := "SB-Mid-server-key"
	sig := Signature("ORDER-1", "200", "50000.00", serverKey)

	tests := []struct {
		name        string
		orderID     string
		statusCode  string
		grossAmount string
		key         string
		signature   string
	}{
		{"empty order id", "", "200", "50000.00", serverKey, sig},
		{"empty status code", "ORDER-1", "", "50000.00", serverKey, sig},
		{"empty gross amount", "ORDER-1", "200", "", serverKey, sig},
		{"empty server key", "ORDER-1", "200", "50000.00", "", sig},
		{"empty signature", "ORDER-1", "200", "50000.00", serverKey, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if VerifySignature(tt.orderID, tt.statusCode, tt.grossAmount, tt.key, tt.signature) {
				t.Error("expected verification to fail closed")
			}
		})
	}
}

func mutateLastChar(s string) string {
	last := s[len(s)-1]
	replacement := byte('0')
	if last == '0' {
		replacement = '1'
	}
	return s[:len(s)-1] + string(replacement)
}
