package midtrans

import (
	"testing"

	"github.com/workhub/paysnap/payment"
)

func TestMapStatus(t *testing.T) {
	tests := []struct {
		transactionStatus string
		fraudStatus       string
		want              payment.Status
	}{
		{"capture", "accept", payment.StatusSettlement},
		{"capture", "challenge", payment.StatusChallenge},
		{"capture", "deny", payment.StatusRejected},
		{"capture", "", payment.StatusRejected},
		{"settlement", "accept", payment.StatusSettlement},
		{"settlement", "", payment.StatusSettlement},
		{"pending", "", payment.StatusPending},
		{"deny", "", payment.StatusDeny},
		{"cancel", "", payment.StatusCancel},
		{"expire", "", payment.StatusExpire},
		{"failure", "", payment.StatusFailure},
		{"refund", "", payment.StatusRefund},
		{"chargeback", "", payment.StatusChargeback},
	}

	for _, tt := range tests {
		got := MapStatus(tt.transactionStatus, tt.fraudStatus)
		if got != tt.want {
			t.Errorf("MapStatus(%q, %q) = %q, want %q", tt.transactionStatus, tt.fraudStatus, got, tt.want)
		}
	}
}

func TestMapStatusPassesUnknownThrough(t *testing.T) {
	tests := []string{"partial_refund", "authorize", ""}

	for _, status := range tests {
		got := MapStatus(status, "accept")
		if got != payment.Status(status) {
			t.Errorf("MapStatus(%q) = %q, want pass-through", status, got)
		}
	}
}
