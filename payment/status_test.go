package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusChallenge.Terminal())

	for _, s := range []Status{
		StatusSettlement, StatusDeny, StatusCancel, StatusExpire,
		StatusFailure, StatusRefund, StatusChargeback, StatusRejected,
	} {
		assert.True(t, s.Terminal(), string(s))
	}

	// Unknown gateway statuses passed through verbatim count as terminal.
	assert.True(t, Status("partial_refund").Terminal())
}
