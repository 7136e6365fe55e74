package midtrans

import "github.com/workhub/paysnap/provider"

// Register Midtrans provider with the gateway registry
func init() {
	provider.Register("midtrans", NewProvider)
}
