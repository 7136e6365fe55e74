package midtrans

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
)

// Signature computes the hex-encoded SHA-512 digest Midtrans attaches to each
// notification: order_id, status_code and gross_amount concatenated with the
// merchant server key, in that exact order and with no delimiters.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// VerifySignature recomputes the notification signature and compares it in
// constant time. Any empty input fails closed.
func VerifySignature(orderID, statusCode, grossAmount, serverKey, signature string) bool {
	if orderID == "" || statusCode == "" || grossAmount == "" || serverKey == "" || signature == "" {
		return false
	}
	expected := Signature(orderID, statusCode, grossAmount, serverKey)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
