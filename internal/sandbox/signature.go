package sandbox

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign computes the checkout signature for a payment: hex HMAC-SHA256 of "orderId|paymentId".
func Sign(key, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func validSignature(key, orderID, paymentID, signature string) bool {
	expected := Sign(key, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
