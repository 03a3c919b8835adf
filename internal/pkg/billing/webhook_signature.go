package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifyLemonSqueezySignature checks the X-Signature header against an
// HMAC-SHA256 hex digest of the raw body. Missing secret, missing header or
// empty body fail closed. The length check must come before hmac.Equal,
// which requires equal-length inputs to compare in constant time.
func VerifyLemonSqueezySignature(payload []byte, signatureHeader, webhookSecret string) bool {
	sig := strings.TrimSpace(signatureHeader)
	secret := strings.TrimSpace(webhookSecret)
	if sig == "" || secret == "" || len(payload) == 0 {
		return false
	}

	decodedSig, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := mac.Sum(nil)

	if len(decodedSig) != len(expected) {
		return false
	}
	return hmac.Equal(expected, decodedSig)
}
