package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/rs/zerolog/log"
)

const SignatureHeader = "X-Hub-Signature-256"

type SignatureResult int

const (
	SignatureValid SignatureResult = iota
	SignatureInvalid
	SignatureUnconfigured
)

// SignatureVerifier validates X-Hub-Signature-256 headers against the Meta
// app secret.
type SignatureVerifier struct {
	appSecret  []byte
	production bool
}

func NewSignatureVerifier(appSecret string, production bool) *SignatureVerifier {
	return &SignatureVerifier{
		appSecret:  []byte(appSecret),
		production: production,
	}
}

// Verify computes HMAC-SHA256 over the raw body and compares it to the header
// digest in constant time. A configured secret with a missing or malformed
// header is invalid, never a pass.
func (v *SignatureVerifier) Verify(body []byte, header string) SignatureResult {
	if len(v.appSecret) == 0 {
		return SignatureUnconfigured
	}

	const prefix = "sha256="
	if !strings.HasPrefix(header, prefix) {
		return SignatureInvalid
	}

	mac := hmac.New(sha256.New, v.appSecret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(strings.TrimPrefix(header, prefix))) {
		return SignatureInvalid
	}
	return SignatureValid
}

// Authorize applies the deployment policy on top of Verify: fail closed when
// the secret is missing in production, allow with a loud warning otherwise.
func (v *SignatureVerifier) Authorize(body []byte, header string) (SignatureResult, bool) {
	result := v.Verify(body, header)
	switch result {
	case SignatureValid:
		return result, true
	case SignatureUnconfigured:
		if v.production {
			log.Error().Msg("webhook app secret not configured, rejecting request")
			return result, false
		}
		log.Warn().Msg("SIGNATURE VERIFICATION BYPASSED: app secret not configured, accepting unverified webhook (development only)")
		return result, true
	default:
		return result, false
	}
}
