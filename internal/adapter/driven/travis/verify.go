package travis

import (
	"context"
	"crypto"
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec // Travis CI signs webhooks with SHA-1; the provider's choice, not ours.
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"

	"github.com/w3c/prbuildbot/internal/domain/model"
	"github.com/w3c/prbuildbot/internal/domain/port/driven"
)

// configResponse mirrors the slice of the /config endpoint that carries the
// webhook signing key.
type configResponse struct {
	Config struct {
		Notifications struct {
			Webhook struct {
				PublicKey string `json:"public_key"`
			} `json:"webhook"`
		} `json:"notifications"`
	} `json:"config"`
}

// VerifyPayload checks the webhook signature against Travis's published
// public key and returns the decoded payload. Travis signs the raw payload
// form field with RSA PKCS#1 v1.5 over SHA-1; the signature arrives
// base64-encoded in the Signature request header. All failures are reported
// as *driven.VerificationError carrying the HTTP status to relay: key
// retrieval problems map to 500, signature problems to 401.
func (c *Client) VerifyPayload(ctx context.Context, rawPayload, signature string) (*model.BuildPayload, error) {
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return nil, &driven.VerificationError{
			Status:  http.StatusUnauthorized,
			Message: "Malformed Travis CI signature.",
			Err:     err,
		}
	}

	key, err := c.publicKey(ctx)
	if err != nil {
		return nil, &driven.VerificationError{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve Travis CI public key.",
			Err:     err,
		}
	}

	digest := sha1.Sum([]byte(rawPayload)) //nolint:gosec // See package note on SHA-1.
	if err := rsa.VerifyPKCS1v15(key, crypto.SHA1, digest[:], sig); err != nil {
		return nil, &driven.VerificationError{
			Status:  http.StatusUnauthorized,
			Message: "Failed to confirm Travis CI signature.",
			Err:     err,
		}
	}

	var payload model.BuildPayload
	if err := json.Unmarshal([]byte(rawPayload), &payload); err != nil {
		return nil, &driven.VerificationError{
			Status:  http.StatusBadRequest,
			Message: "Malformed Travis CI payload.",
			Err:     err,
		}
	}

	return &payload, nil
}

// publicKey fetches and parses Travis's PEM-encoded webhook signing key from
// the /config endpoint.
func (c *Client) publicKey(ctx context.Context) (*rsa.PublicKey, error) {
	body, err := c.get(ctx, "/config")
	if err != nil {
		return nil, err
	}

	var cfg configResponse
	if err := json.Unmarshal(body, &cfg); err != nil {
		return nil, fmt.Errorf("decoding /config response: %w", err)
	}

	pemKey := cfg.Config.Notifications.Webhook.PublicKey
	block, _ := pem.Decode([]byte(pemKey))
	if block == nil {
		return nil, errors.New("no PEM block in webhook public key")
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing webhook public key: %w", err)
	}

	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("unexpected webhook public key type %T", parsed)
	}
	return key, nil
}
