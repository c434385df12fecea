package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Token wire format: <prefix>_<payload>_<signature> where prefix is "anon"
// or "auth", payload is unpadded url-safe base64 of a compact JSON object,
// and signature is an HMAC-SHA256 hex digest over the payload segment,
// truncated to keep tokens short.

const (
	prefixAnonymous     = "anon"
	prefixAuthenticated = "auth"

	// TypeAnonymous and TypeAuthenticated are the values of the payload
	// "type" field. The type must agree with the token prefix.
	TypeAnonymous     = "anonymous"
	TypeAuthenticated = "authenticated"

	signatureLength = 16
)

// Payload is the signed content of an identity token
type Payload struct {
	Type    string `json:"type"`
	Created int64  `json:"created"`
	Random  string `json:"random"`
	UserID  string `json:"user_id,omitempty"`
}

// IsAuthenticated reports whether the payload describes a registered user token
func (p *Payload) IsAuthenticated() bool {
	return p.Type == TypeAuthenticated
}

// Codec signs and verifies identity tokens with a process-wide secret key.
// The key is injected at construction so tests can run with isolated keys.
type Codec struct {
	secret []byte
}

// NewCodec creates a Codec signing with the given secret key
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// GenerateAnonymous creates a fresh signed anonymous token
func (c *Codec) GenerateAnonymous() (string, error) {
	random := make([]byte, 32)
	if _, err := rand.Read(random); err != nil {
		return "", fmt.Errorf("failed to generate token randomness: %w", err)
	}

	payload := Payload{
		Type:    TypeAnonymous,
		Created: time.Now().Unix(),
		Random:  base64.StdEncoding.EncodeToString(random),
	}
	return c.encode(prefixAnonymous, payload)
}

// GenerateAuthenticated creates a signed token carrying the given user id
func (c *Codec) GenerateAuthenticated(userID string) (string, error) {
	random := make([]byte, 16)
	if _, err := rand.Read(random); err != nil {
		return "", fmt.Errorf("failed to generate token randomness: %w", err)
	}

	payload := Payload{
		Type:    TypeAuthenticated,
		Created: time.Now().Unix(),
		Random:  hex.EncodeToString(random),
		UserID:  userID,
	}
	return c.encode(prefixAuthenticated, payload)
}

func (c *Codec) encode(prefix string, payload Payload) (string, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to serialize token payload: %w", err)
	}

	payloadB64 := base64.RawURLEncoding.EncodeToString(payloadJSON)
	return prefix + "_" + payloadB64 + "_" + c.sign(payloadB64), nil
}

// sign returns the truncated hex HMAC-SHA256 digest of the payload segment
func (c *Codec) sign(payloadB64 string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payloadB64))
	return hex.EncodeToString(mac.Sum(nil))[:signatureLength]
}

// Verify checks the structure, signature and declared kind of a token.
// It fails closed: any malformed input returns false.
func (c *Codec) Verify(tokenStr string) bool {
	return c.decode(tokenStr) != nil
}

// Decode returns the parsed payload of a valid token, or nil if the token
// does not verify. Fields of the returned payload may be trusted.
func (c *Codec) Decode(tokenStr string) *Payload {
	return c.decode(tokenStr)
}

func (c *Codec) decode(tokenStr string) *Payload {
	parts := strings.SplitN(tokenStr, "_", 3)
	if len(parts) != 3 {
		return nil
	}
	prefix, payloadB64, signature := parts[0], parts[1], parts[2]

	var expectedType string
	switch prefix {
	case prefixAnonymous:
		expectedType = TypeAnonymous
	case prefixAuthenticated:
		expectedType = TypeAuthenticated
	default:
		return nil
	}

	// Constant-time compare against the recomputed signature
	if !hmac.Equal([]byte(signature), []byte(c.sign(payloadB64))) {
		return nil
	}

	payloadJSON, err := base64.RawURLEncoding.DecodeString(payloadB64)
	if err != nil {
		return nil
	}

	var payload Payload
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		return nil
	}

	// The signed kind must agree with the prefix
	if payload.Type != expectedType {
		return nil
	}
	if payload.Created == 0 || payload.Random == "" {
		return nil
	}
	switch payload.Type {
	case TypeAuthenticated:
		if payload.UserID == "" {
			return nil
		}
	case TypeAnonymous:
		if payload.UserID != "" {
			return nil
		}
	}

	// Note: no expiration check. Anonymous tokens persist a device's
	// history indefinitely; authenticated tokens are invalidated by the
	// token-hash rotation on login instead.
	return &payload
}

// HashForStorage hashes a token for database storage. Only the hash is
// ever persisted, never the token itself.
func HashForStorage(tokenStr string) string {
	sum := sha256.Sum256([]byte(tokenStr))
	return hex.EncodeToString(sum[:])
}
