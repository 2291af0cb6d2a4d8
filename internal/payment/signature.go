package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign returns the hex HMAC-SHA256 of payload under secret.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// PaymentSignature is the signature the gateway returns to the hosted
// checkout for a completed payment.
func PaymentSignature(orderID, paymentID, secret string) string {
	return Sign([]byte(orderID+"|"+paymentID), secret)
}

// VerifyPaymentSignature checks a checkout completion signature.
func VerifyPaymentSignature(orderID, paymentID, signature, secret string) bool {
	if orderID == "" || paymentID == "" || signature == "" || secret == "" {
		return false
	}
	return equal(PaymentSignature(orderID, paymentID, secret), signature)
}

// VerifyWebhookSignature checks the signature header of a webhook against
// its raw body.
func VerifyWebhookSignature(body []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	return equal(Sign(body, secret), signature)
}

func equal(expected, actual string) bool {
	return hmac.Equal([]byte(expected), []byte(actual))
}
