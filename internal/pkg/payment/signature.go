package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/razorpay/razorpay-go/utils"
)

// Sign computes the signature the gateway attaches to a checkout callback.
// Fakes of the gateway use it to hand out valid callbacks.
func Sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks the signature returned by the checkout widget.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	sig := strings.ToLower(strings.TrimSpace(signature))
	if sig == "" || secret == "" || orderID == "" || paymentID == "" {
		return false
	}

	return utils.VerifyPaymentSignature(map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}, sig, secret)
}
