package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"

	"pulseboard/internal/platform/models"
)

// SignatureHeader carries the hex HMAC-SHA256 of the request body for
// endpoints registered with signature auth.
const SignatureHeader = "X-Pulseboard-Signature"

// Sign computes the hex HMAC-SHA256 of payload under secret.
func Sign(secret string, payload []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyInbound checks a request against the endpoint's configured auth
// mode.
func VerifyInbound(endpoint *models.WebhookEndpoint, header http.Header, body []byte) bool {
	switch endpoint.AuthMode {
	case models.AuthNone, "":
		return true
	case models.AuthBearer:
		parts := strings.SplitN(header.Get("Authorization"), " ", 2)
		return len(parts) == 2 && parts[0] == "Bearer" &&
			hmac.Equal([]byte(parts[1]), []byte(endpoint.AuthSecret))
	case models.AuthBasic:
		parts := strings.SplitN(header.Get("Authorization"), " ", 2)
		if len(parts) != 2 || parts[0] != "Basic" {
			return false
		}
		decoded, err := base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			return false
		}
		return hmac.Equal(decoded, []byte(endpoint.AuthSecret))
	case models.AuthSignature:
		signature := header.Get(SignatureHeader)
		if signature == "" {
			return false
		}
		return hmac.Equal([]byte(signature), []byte(Sign(endpoint.AuthSecret, body)))
	default:
		return false
	}
}
