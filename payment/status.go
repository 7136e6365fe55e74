package payment

// Status is the canonical payment status every gateway-specific transaction
// state is mapped to before it touches a stored record.
type Status string

const (
	StatusPending    Status = "pending"
	StatusSettlement Status = "settlement"
	StatusDeny       Status = "deny"
	StatusCancel     Status = "cancel"
	StatusExpire     Status = "expire"
	StatusFailure    Status = "failure"
	StatusRefund     Status = "refund"
	StatusChargeback Status = "chargeback"
	StatusChallenge  Status = "challenge"
	StatusRejected   Status = "rejected"
)

// Terminal reports whether no further legitimate transition is expected from
// s. Statuses passed through verbatim from the gateway also count as terminal
// here; the regression guard only has to block moves back into pending.
func (s Status) Terminal() bool {
	return s != StatusPending && s != StatusChallenge
}
