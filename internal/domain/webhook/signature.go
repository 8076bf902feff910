package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	SignatureHeader      = "X-Webhook-Signature"
	TimestampHeader      = "X-Webhook-Timestamp"
	IdempotencyKeyHeader = "X-Idempotency-Key"

	timestampField = "t"
	signatureField = "v1"
)

var ErrInvalidSignatureFormat = errors.New("invalid signature format")

// SignatureToken is the parsed form of "t=<unix-ms>,v1=<hex-hmac>".
// Timestamps at or before the epoch are rejected as malformed.
type SignatureToken struct {
	Timestamp    int64
	SignatureHex string
}

func ParseSignatureToken(header string) (SignatureToken, error) {
	var (
		token            SignatureToken
		hasTime, hasSign bool
	)

	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case timestampField:
			if hasTime {
				continue
			}
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil || ts <= 0 {
				return SignatureToken{}, ErrInvalidSignatureFormat
			}
			token.Timestamp = ts
			hasTime = true
		case signatureField:
			if hasSign || value == "" {
				continue
			}
			token.SignatureHex = value
			hasSign = true
		}
	}

	if !hasTime || !hasSign {
		return SignatureToken{}, ErrInvalidSignatureFormat
	}
	return token, nil
}

func (t SignatureToken) Time() time.Time {
	return time.UnixMilli(t.Timestamp)
}

// OlderThan reports whether the token was signed more than maxAge before now.
// Comparison stays in milliseconds so extreme timestamps cannot overflow.
func (t SignatureToken) OlderThan(now time.Time, maxAge time.Duration) bool {
	return t.Timestamp < now.UnixMilli()-maxAge.Milliseconds()
}

// AheadOf reports whether the token was signed more than skew after now.
// Both operands are positive, so the difference cannot overflow.
func (t SignatureToken) AheadOf(now time.Time, skew time.Duration) bool {
	return t.Timestamp-now.UnixMilli() > skew.Milliseconds()
}

// Matches recomputes HMAC-SHA256 over "<timestamp>.<payload>" and compares in constant time.
func (t SignatureToken) Matches(payload []byte, secret string) bool {
	provided, err := hex.DecodeString(t.SignatureHex)
	if err != nil {
		return false
	}
	return hmac.Equal(computeMAC(payload, secret, t.Timestamp), provided)
}

// IdempotencyKey identifies one signing event. The signature is canonicalised to
// lower-case hex first so a case-flipped replay maps to the same key.
func (t SignatureToken) IdempotencyKey() string {
	sig := t.SignatureHex
	if raw, err := hex.DecodeString(sig); err == nil {
		sig = hex.EncodeToString(raw)
	}
	sum := sha256.Sum256([]byte(strconv.FormatInt(t.Timestamp, 10) + "." + sig))
	return hex.EncodeToString(sum[:])
}

// SignaturePrefix is the only part of the signature that may be logged.
func (t SignatureToken) SignaturePrefix() string {
	return SignaturePrefix(t.SignatureHex)
}

func (t SignatureToken) String() string {
	return timestampField + "=" + strconv.FormatInt(t.Timestamp, 10) + "," + signatureField + "=" + t.SignatureHex
}

func ComputeSignature(payload []byte, secret string, timestampMs int64) string {
	return hex.EncodeToString(computeMAC(payload, secret, timestampMs))
}

// Sign produces the header value a sender attaches to a delivery.
func Sign(payload []byte, secret string, at time.Time) string {
	ts := at.UnixMilli()
	return SignatureToken{Timestamp: ts, SignatureHex: ComputeSignature(payload, secret, ts)}.String()
}

func SignaturePrefix(header string) string {
	const n = 12
	if len(header) <= n {
		return header
	}
	return header[:n] + "..."
}

func computeMAC(payload []byte, secret string, timestampMs int64) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestampMs, 10)))
	mac.Write([]byte{'.'})
	mac.Write(payload)
	return mac.Sum(nil)
}
