package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyPaymentSignature(t *testing.T) {
	sig := PaymentSignature("order_1", "pay_1", "secret")

	assert.True(t, VerifyPaymentSignature("order_1", "pay_1", sig, "secret"))
	assert.False(t, VerifyPaymentSignature("order_1", "pay_2", sig, "secret"))
	assert.False(t, VerifyPaymentSignature("order_1", "pay_1", sig, "other"))
	assert.False(t, VerifyPaymentSignature("order_1", "pay_1", "", "secret"))
	assert.False(t, VerifyPaymentSignature("order_1", "pay_1", sig, ""))
}

func TestSign_KnownVector(t *testing.T) {
	// RFC 4231 test case 2.
	assert.Equal(t,
		"5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843",
		Sign([]byte("what do ya want for nothing?"), "Jefe"))
}

func TestVerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"event":"payment.captured"}`)
	sig := Sign(body, "whsec")

	assert.True(t, VerifyWebhookSignature(body, sig, "whsec"))
	assert.False(t, VerifyWebhookSignature([]byte(`{"event":"payment.failed"}`), sig, "whsec"))
	assert.False(t, VerifyWebhookSignature(body, "deadbeef", "whsec"))
	assert.False(t, VerifyWebhookSignature(body, "", "whsec"))
}
