package payment

import (
	"fmt"
	"time"
)

// orderIDBaseLen leaves room for "-" plus an epoch-millisecond suffix inside
// the gateway's 50 character order id limit.
const orderIDBaseLen = 28

// NewOrderID builds a gateway-safe order identifier from a logical subject,
// e.g. NewOrderID("plan", "pro-monthly") -> "plan-pro-monthly-1735689600000".
// Uniqueness per millisecond is probabilistic; the store's UNIQUE constraint
// on order_id is the authoritative collision guard.
func NewOrderID(prefix, subjectKey string) string {
	base := prefix + "-" + subjectKey
	if len(base) > orderIDBaseLen {
		base = base[:orderIDBaseLen]
	}
	return fmt.Sprintf("%s-%d", base, time.Now().UnixMilli())
}
