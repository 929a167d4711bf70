package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func signFor(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignatureValid(t *testing.T) {
	secret := "test_key_secret"
	orderID := "order_NXhJ2OWFmNGI5Yz"
	paymentID := "pay_MzQ1Njc4OTAxMjM"

	sig := signFor(secret, orderID, paymentID)
	if !VerifySignature(secret, orderID, paymentID, sig) {
		t.Fatal("expected valid signature to verify")
	}
}

func TestVerifySignatureTampered(t *testing.T) {
	secret := "test_key_secret"
	orderID := "order_NXhJ2OWFmNGI5Yz"
	paymentID := "pay_MzQ1Njc4OTAxMjM"
	sig := signFor(secret, orderID, paymentID)

	// Flip a single hex digit.
	mutated := []byte(sig)
	if mutated[0] == '0' {
		mutated[0] = '1'
	} else {
		mutated[0] = '0'
	}
	if VerifySignature(secret, orderID, paymentID, string(mutated)) {
		t.Error("mutated signature must not verify")
	}

	if VerifySignature(secret, orderID, "pay_other", sig) {
		t.Error("signature for different payment must not verify")
	}
	if VerifySignature("wrong_secret", orderID, paymentID, sig) {
		t.Error("signature under different secret must not verify")
	}
}

func TestVerifySignatureEmptyInputs(t *testing.T) {
	sig := signFor("s", "o", "p")
	if VerifySignature("", "o", "p", sig) {
		t.Error("empty secret must fail")
	}
	if VerifySignature("s", "", "p", sig) {
		t.Error("empty order id must fail")
	}
	if VerifySignature("s", "o", "", sig) {
		t.Error("empty payment id must fail")
	}
	if VerifySignature("s", "o", "p", "") {
		t.Error("empty signature must fail")
	}
}
