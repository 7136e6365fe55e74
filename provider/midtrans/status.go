package midtrans

import (
	"github.com/workhub/paysnap/payment"
)

// Midtrans transaction statuses
const (
	txCapture    = "capture"
	txSettlement = "settlement"
	txPending    = "pending"
	txDeny       = "deny"
	txCancel     = "cancel"
	txExpire     = "expire"
	txFailure    = "failure"
	txRefund     = "refund"
	txChargeback = "chargeback"

	fraudAccept    = "accept"
	fraudChallenge = "challenge"
)

// MapStatus maps a Midtrans transaction status and fraud status pair to the
// canonical payment status. The function is total: an unrecognized
// transaction status passes through verbatim, and callers must not assume
// terminality for those values.
func MapStatus(transactionStatus, fraudStatus string) payment.Status {
	switch transactionStatus {
	case txCapture:
		switch fraudStatus {
		case fraudAccept:
			return payment.StatusSettlement
		case fraudChallenge:
			return payment.StatusChallenge
		default:
			return payment.StatusRejected
		}
	case txSettlement:
		return payment.StatusSettlement
	case txPending:
		return payment.StatusPending
	case txDeny:
		return payment.StatusDeny
	case txCancel:
		return payment.StatusCancel
	case txExpire:
		return payment.StatusExpire
	case txFailure:
		return payment.StatusFailure
	case txRefund:
		return payment.StatusRefund
	case txChargeback:
		return payment.StatusChargeback
	default:
		return payment.Status(transactionStatus)
	}
}
