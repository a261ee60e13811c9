package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

const testAppSecret = "my_test_app_secret"

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerify_ValidSignature(t *testing.T) {
	v := NewSignatureVerifier(testAppSecret, true)
	body := []byte(`{"object":"whatsapp_business_account"}`)

	if got := v.Verify(body, signBody(testAppSecret, body)); got != SignatureValid {
		t.Errorf("expected SignatureValid, got %v", got)
	}
}

func TestVerify_TamperedBody(t *testing.T) {
	v := NewSignatureVerifier(testAppSecret, true)
	body := []byte(`{"object":"whatsapp_business_account"}`)
	sig := signBody(testAppSecret, body)

	tampered := []byte(`{"object":"whatsapp_business_account","entry":[]}`)
	if got := v.Verify(tampered, sig); got != SignatureInvalid {
		t.Errorf("expected SignatureInvalid for tampered body, got %v", got)
	}
}

func TestVerify_MissingHeader(t *testing.T) {
	v := NewSignatureVerifier(testAppSecret, true)

	// A configured secret with no header must still be invalid, not a pass
	if got := v.Verify([]byte("{}"), ""); got != SignatureInvalid {
		t.Errorf("expected SignatureInvalid for missing header, got %v", got)
	}
}

func TestVerify_MalformedHeader(t *testing.T) {
	v := NewSignatureVerifier(testAppSecret, true)

	if got := v.Verify([]byte("{}"), "md5=abcdef"); got != SignatureInvalid {
		t.Errorf("expected SignatureInvalid for wrong prefix, got %v", got)
	}
}

func TestVerify_Unconfigured(t *testing.T) {
	v := NewSignatureVerifier("", true)

	if got := v.Verify([]byte("{}"), "sha256=whatever"); got != SignatureUnconfigured {
		t.Errorf("expected SignatureUnconfigured, got %v", got)
	}
}

func TestAuthorize_FailsClosedInProduction(t *testing.T) {
	v := NewSignatureVerifier("", true)

	if _, ok := v.Authorize([]byte("{}"), ""); ok {
		t.Error("production verifier without a secret must reject requests")
	}
}

func TestAuthorize_DevBypassWithoutSecret(t *testing.T) {
	v := NewSignatureVerifier("", false)

	if _, ok := v.Authorize([]byte("{}"), ""); !ok {
		t.Error("development verifier without a secret should accept with a warning")
	}
}

func TestAuthorize_InvalidNeverBypassed(t *testing.T) {
	// Even outside production, a configured secret means a bad signature is rejected
	v := NewSignatureVerifier(testAppSecret, false)

	if _, ok := v.Authorize([]byte("{}"), "sha256=deadbeef"); ok {
		t.Error("invalid signature must be rejected regardless of environment")
	}
}
